package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/socialpulse/internal/analytics"
)

// HomeHandler renders the landing page.
func HomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "home.html", gin.H{"Title": "SocialPulse"})
	}
}

// UploadFormHandler renders the upload form.
func UploadFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "upload.html", gin.H{"Title": "Upload dataset"})
	}
}

func renderUploadError(c *gin.Context, status int, msg string) {
	c.HTML(status, "upload.html", gin.H{"Title": "Upload dataset", "Error": msg})
}

// UploadHandler stores the multipart "file" field and redirects to its dashboard.
func UploadHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			renderUploadError(c, http.StatusBadRequest, "No file part in the request.")
			return
		}
		if fh.Filename == "" {
			renderUploadError(c, http.StatusBadRequest, "No file selected for uploading.")
			return
		}
		f, err := fh.Open()
		if err != nil {
			_ = c.Error(err)
			renderUploadError(c, http.StatusInternalServerError, "Could not read the uploaded file.")
			return
		}
		defer f.Close()

		e, err := s.storeUpload(fh.Filename, f)
		if err != nil {
			_ = c.Error(err)
			renderUploadError(c, statusFor(err), uploadMessage(err))
			return
		}
		c.Redirect(http.StatusSeeOther, "/dashboard?dataset="+url.QueryEscape(e.ID))
	}
}

func uploadMessage(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest:
		return "Please upload a valid CSV, TSV or XLSX file: " + err.Error()
	case http.StatusRequestEntityTooLarge:
		return "The file is too large."
	default:
		return "Could not store the uploaded file."
	}
}

type dashboardView struct {
	Title        string
	DataSource   string
	DatasetID    string
	Notice       string
	Report       *analytics.Report
	Doctor       []analytics.Insight
	MoreInsights int
}

// DashboardHandler loads the selected dataset, runs the analytics and renders them.
func DashboardHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		src, notice, err := s.resolve(c.Query("dataset"), true)
		if err != nil {
			_ = c.Error(err)
			status := statusFor(err)
			if errors.Is(err, errNoDataset) {
				status = http.StatusNotFound
			}
			c.HTML(status, "error.html", gin.H{"Title": "Dataset unavailable", "Error": err.Error()})
			return
		}
		rep, err := s.report(src)
		if err != nil {
			_ = c.Error(err)
			c.HTML(statusFor(err), "error.html", gin.H{"Title": "Dataset unavailable", "Error": err.Error()})
			return
		}

		v := dashboardView{
			Title:      "Dashboard",
			DataSource: src.Name,
			DatasetID:  src.ID,
			Notice:     notice,
			Report:     rep,
			Doctor:     rep.Doctor,
		}
		if lim := s.cfg.Analytics.DoctorLimit; lim > 0 && lim < len(rep.Doctor) {
			v.Doctor = rep.Doctor[:lim]
			v.MoreInsights = len(rep.Doctor) - lim
		}
		c.HTML(http.StatusOK, "dashboard.html", v)
	}
}
