package router

import (
	"clipforge/internal/handler"

	"github.com/gin-gonic/gin"
)

func SetupRouter(r *gin.Engine, hdl *handler.Handler) {
	api := r.Group("/api")
	{
		api.POST("/edit/task", hdl.SubmitEdit)
		api.GET("/edit/task", hdl.GetEditJob)
		api.GET("/edit/history", hdl.GetJobHistory)
		api.DELETE("/edit/task/:jobId", hdl.DeleteEditJob)
		api.GET("/edit/progress/:jobId", hdl.ProgressSocket)
		api.POST("/edit/preview", hdl.PreviewEdit)
		api.POST("/edit/resolve", hdl.ResolveEdit)
		api.GET("/operations", hdl.ListOperations)
		api.GET("/templates", hdl.ListTemplates)
		api.POST("/templates/apply", hdl.ApplyTemplate)
		api.POST("/captions/generate", hdl.GenerateCaptions)
		api.GET("/media/waveform", hdl.Waveform)
		api.POST("/file", hdl.UploadFile)
		api.GET("/file/*filepath", hdl.DownloadFile)
		api.HEAD("/file/*filepath", hdl.DownloadFile)
		api.GET("/config", hdl.GetConfig)
		api.POST("/config", hdl.UpdateConfig)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"name": "clipforge", "status": "ok"})
	})
}
