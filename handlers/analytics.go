package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Varp17/atlas-alert/hotspots"
	"github.com/Varp17/atlas-alert/types"
)

// Dashboard aggregates current platform state for the operations view.
func (h *Handler) Dashboard(c *gin.Context) {
	reports := h.store.ListReports(types.ReportFilters{})

	var active, resolved int
	var responseTimeSum float64
	var scored int
	bySeverity := map[string]int{}
	byStatus := map[string]int{}
	byHazard := map[string]int{}

	for _, r := range reports {
		byStatus[string(r.Status)]++
		byHazard[r.HazardType]++
		switch r.Status {
		case types.StatusResolved:
			resolved++
		case types.StatusRejected:
		default:
			active++
		}
		if r.Urgency != nil {
			bySeverity[string(r.Urgency.Level)]++
			responseTimeSum += r.Urgency.EstimatedResponseTime
			scored++
		}
	}

	avgResponseTime := 0.0
	if scored > 0 {
		avgResponseTime = responseTimeSum / float64(scored)
	}

	analyses := h.store.RecentAnalyses(100)
	sentiments := map[string]int{}
	urgentActions := 0
	for _, a := range analyses {
		sentiments[string(a.Analysis.Sentiment)]++
		if a.Analysis.ActionRequired {
			urgentActions++
		}
	}

	sent, dropped := h.hub.Stats()

	c.JSON(http.StatusOK, gin.H{
		"overview": gin.H{
			"totalReports":      len(reports),
			"activeIncidents":   active,
			"resolvedIncidents": resolved,
			"avgResponseTime":   avgResponseTime,
		},
		"distribution": gin.H{
			"bySeverity": bySeverity,
			"byStatus":   byStatus,
			"byHazard":   byHazard,
		},
		"socialMedia": gin.H{
			"analyzedPosts":  len(analyses),
			"sentiments":     sentiments,
			"actionRequired": urgentActions,
		},
		"hotspots":     hotspots.DetectHotspots(reports),
		"activeAlerts": h.store.ActiveAlerts(),
		"realtime": gin.H{
			"connectedClients": h.hub.ClientCount(),
			"eventsSent":       sent,
			"eventsDropped":    dropped,
		},
	})
}
