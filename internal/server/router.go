package server

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) router(tmpl *template.Template) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestTrace())
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", HomeHandler())
	r.GET("/upload", UploadFormHandler())
	r.POST("/upload", UploadHandler(s))
	r.GET("/dashboard", DashboardHandler(s))

	api := r.Group("/api/v1")
	{
		api.GET("/datasets", ListDatasetsHandler(s.store))
		api.POST("/datasets", CreateDatasetHandler(s))
		api.DELETE("/datasets/:id", DeleteDatasetHandler(s.store))
		api.GET("/report", ReportHandler(s))
		api.GET("/report/:section", ReportSectionHandler(s))
	}
	return r
}
