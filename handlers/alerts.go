package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Varp17/atlas-alert/hub"
	"github.com/Varp17/atlas-alert/types"
)

// CreateAlert stores an emergency alert and pushes it to dashboards.
func (h *Handler) CreateAlert(c *gin.Context) {
	var alert types.Alert
	if err := c.ShouldBindJSON(&alert); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if alert.Title == "" || alert.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and message are required"})
		return
	}

	alert = h.store.AddAlert(alert)
	h.hub.Publish(hub.EventEmergencyAlert, alert)
	h.log.Infow("alert created", "id", alert.ID, "type", alert.Type)

	c.JSON(http.StatusCreated, alert)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	alerts := h.store.ActiveAlerts()
	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// CreateZone registers a managed map area (safe zone, danger zone).
func (h *Handler) CreateZone(c *gin.Context) {
	var zone types.Zone
	if err := c.ShouldBindJSON(&zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if zone.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	zone = h.store.AddZone(zone)
	c.JSON(http.StatusCreated, zone)
}

func (h *Handler) ListZones(c *gin.Context) {
	zones := h.store.ListZones()
	c.JSON(http.StatusOK, gin.H{
		"zones": zones,
		"count": len(zones),
	})
}

// SocialFeed returns the most recent analyzed social media posts.
func (h *Handler) SocialFeed(c *gin.Context) {
	analyzed := h.store.RecentAnalyses(50)
	c.JSON(http.StatusOK, gin.H{
		"posts": analyzed,
		"count": len(analyzed),
	})
}

// ServeWS upgrades the request into the live event hub.
func (h *Handler) ServeWS(c *gin.Context) {
	if err := h.hub.ServeWS(c.Writer, c.Request); err != nil {
		h.log.Warnf("websocket upgrade failed: %v", err)
	}
}
