package server

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/socialpulse/internal/analytics"
	"github.com/KaramelBytes/socialpulse/internal/store"
)

// ListDatasetsHandler returns every uploaded dataset, newest first.
func ListDatasetsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := st.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"datasets": list})
	}
}

// CreateDatasetHandler stores a multipart "file" upload.
func CreateDatasetHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing multipart field \"file\""})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		e, err := s.storeUpload(fh.Filename, f)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"dataset": e})
	}
}

// DeleteDatasetHandler removes an uploaded dataset.
func DeleteDatasetHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.Delete(c.Param("id")); err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "dataset deleted"})
	}
}

// ReportHandler returns the full analytics report for ?dataset=<id>, or for
// the default dataset when no id is given.
func ReportHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		src, _, err := s.resolve(c.Query("dataset"), false)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		rep, err := s.report(src)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rep)
	}
}

// ReportSectionHandler returns one report section.
func ReportSectionHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("section")
		if !slices.Contains(analytics.Sections, name) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown section: " + name})
			return
		}
		src, _, err := s.resolve(c.Query("dataset"), false)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		rep, err := s.report(src)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		data, _ := rep.Section(name)
		c.JSON(http.StatusOK, gin.H{"dataset": rep.Name, "section": name, "data": data})
	}
}
