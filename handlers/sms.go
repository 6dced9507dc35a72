package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Varp17/atlas-alert/broadcast"
	"github.com/Varp17/atlas-alert/types"
)

// BroadcastSMS sends an alert to explicit recipients or, when a target area
// is given instead, to every registered recipient inside it.
func (h *Handler) BroadcastSMS(c *gin.Context) {
	var req broadcast.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Message == "" || (len(req.Recipients) == 0 && req.Location == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message and recipients or location are required"})
		return
	}

	if len(req.Recipients) == 0 && req.Location != nil {
		req.Recipients = h.store.RecipientsNear(req.Location.Latitude, req.Location.Longitude, req.Location.RadiusKM)
	}
	if len(req.Recipients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipients found"})
		return
	}

	result, err := h.sms.Broadcast(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to broadcast SMS"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SMS broadcast completed",
		"sent":    result.Sent,
		"failed":  result.Failed,
		"results": result.Results,
	})
}

// SMSServiceInfo describes the broadcast service for API discovery.
func (h *Handler) SMSServiceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "SMS Broadcast Service",
		"endpoints": gin.H{
			"POST": "/api/atlas/sms/broadcast - Broadcast SMS to recipients",
		},
		"providers": []string{"Twilio", "AWS SNS", "Emergency Alert System"},
		"features": []string{
			"Priority-based routing",
			"Location-based targeting",
			"Automatic retry for critical messages",
			"Rate limiting",
			"Audit logging",
		},
	})
}

type registerRecipientRequest struct {
	Phone    string         `json:"phone" binding:"required"`
	Location types.GeoPoint `json:"location" binding:"required"`
}

// RegisterRecipient subscribes a phone number to location-targeted alerts.
func (h *Handler) RegisterRecipient(c *gin.Context) {
	var req registerRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.RegisterRecipient(req.Phone, req.Location)
	c.JSON(http.StatusCreated, gin.H{"success": true})
}
