package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Varp17/atlas-alert/hotspots"
	"github.com/Varp17/atlas-alert/hub"
	"github.com/Varp17/atlas-alert/store"
	"github.com/Varp17/atlas-alert/types"
)

type createReportRequest struct {
	UserID      string               `json:"user_id"`
	HazardType  string               `json:"hazard_type" binding:"required"`
	Description string               `json:"description"`
	Location    types.GeoPoint       `json:"location" binding:"required"`
	MediaURLs   []string             `json:"media_urls"`
	Factors     types.UrgencyFactors `json:"factors"`
}

// CreateReport scores and stores a new hazard report, then pushes it to
// connected dashboards.
func (h *Handler) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	factors := req.Factors
	if factors.HazardType == "" {
		factors.HazardType = req.HazardType
	}

	report := h.store.AddReport(types.HazardReport{
		UserID:      req.UserID,
		HazardType:  req.HazardType,
		Description: req.Description,
		Location:    req.Location,
		MediaURLs:   req.MediaURLs,
	}, factors)

	h.hub.Publish(hub.EventNewReport, report)
	h.log.Infow("report created",
		"id", report.ID,
		"hazard", report.HazardType,
		"score", report.Urgency.Score,
	)

	c.JSON(http.StatusCreated, report)
}

// ListReports returns stored reports, newest first. Filters come from query
// parameters: hazard_type, status (repeatable) and min_level.
func (h *Handler) ListReports(c *gin.Context) {
	filters := types.ReportFilters{
		HazardTypes: c.QueryArray("hazard_type"),
		MinLevel:    types.Severity(c.Query("min_level")),
	}
	for _, s := range c.QueryArray("status") {
		filters.Statuses = append(filters.Statuses, types.ReportStatus(s))
	}

	reports := h.store.ListReports(filters)
	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}

func (h *Handler) GetReport(c *gin.Context) {
	report, err := h.store.GetReport(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

type updateStatusRequest struct {
	Status     types.ReportStatus `json:"status" binding:"required"`
	VerifiedBy string             `json:"verified_by"`
	Notes      string             `json:"notes"`
}

// UpdateReportStatus moves a report through the verification workflow.
func (h *Handler) UpdateReportStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case types.StatusPending, types.StatusVerified, types.StatusRejected, types.StatusResolved:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	report, err := h.store.UpdateReportStatus(c.Param("id"), req.Status, req.VerifiedBy, req.Notes)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.hub.Publish(hub.EventReportUpdate, report)
	c.JSON(http.StatusOK, report)
}

// Hotspots clusters current reports and returns the detected groupings.
func (h *Handler) Hotspots(c *gin.Context) {
	reports := h.store.ListReports(types.ReportFilters{})
	clusters := hotspots.DetectHotspots(reports)
	c.JSON(http.StatusOK, gin.H{
		"hotspots": clusters,
		"count":    len(clusters),
	})
}
