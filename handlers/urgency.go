package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Varp17/atlas-alert/scoring"
	"github.com/Varp17/atlas-alert/types"
)

// ScoreUrgency runs the urgency model on raw factors without storing
// anything. Used by the report form for live previews.
func (h *Handler) ScoreUrgency(c *gin.Context) {
	var factors types.UrgencyFactors
	if err := c.ShouldBindJSON(&factors); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score := scoring.CalculateUrgencyScore(factors)
	c.JSON(http.StatusOK, score)
}
