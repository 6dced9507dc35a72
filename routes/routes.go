package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Varp17/atlas-alert/handlers"
)

func SetupRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Atlas-Alert ocean hazard monitoring",
			"status":  "ok",
		})
	})

	r.GET("/ws", h.ServeWS)

	// api routes
	api := r.Group("/api/atlas")
	{
		api.POST("/urgency", h.ScoreUrgency)

		api.POST("/reports", h.CreateReport)
		api.GET("/reports", h.ListReports)
		api.GET("/reports/:id", h.GetReport)
		api.PATCH("/reports/:id/status", h.UpdateReportStatus)
		api.GET("/hotspots", h.Hotspots)

		api.POST("/ml/analyze-social", h.AnalyzeSocial)
		api.POST("/ml/classify-hazard", h.ClassifyHazard)
		api.POST("/ml/threat-assessment", h.ThreatAssessment)
		api.POST("/ml/extract-location", h.ExtractLocations)

		api.POST("/sms/broadcast", h.BroadcastSMS)
		api.GET("/sms/broadcast", h.SMSServiceInfo)
		api.POST("/sms/recipients", h.RegisterRecipient)

		api.POST("/alerts", h.CreateAlert)
		api.GET("/alerts", h.ListAlerts)
		api.POST("/zones", h.CreateZone)
		api.GET("/zones", h.ListZones)

		api.GET("/social/feed", h.SocialFeed)
		api.GET("/analytics/dashboard", h.Dashboard)
	}

	return r
}
