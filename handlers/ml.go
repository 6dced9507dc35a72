package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Varp17/atlas-alert/mlservice"
	"github.com/Varp17/atlas-alert/types"
)

type analyzeSocialRequest struct {
	Text     string `json:"text"`
	Metadata struct {
		Platform string   `json:"platform"`
		Username string   `json:"username"`
		Hashtags []string `json:"hashtags"`
		Location string   `json:"location"`
	} `json:"metadata"`
	Posts []types.SocialMediaPost `json:"posts"`
}

// AnalyzeSocial scores social media text for sentiment and threat level.
// A single text analyzes inline; a posts array goes through the batch path.
func (h *Handler) AnalyzeSocial(c *gin.Context) {
	var req analyzeSocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Posts) > 0 {
		results := h.analyzer.BatchAnalyze(c.Request.Context(), req.Posts)
		for _, post := range req.Posts {
			if analysis, ok := results[post.ID]; ok {
				h.store.RecordAnalysis(post, analysis)
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": results})
		return
	}

	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	post := types.SocialMediaPost{
		ID:       uuid.NewString(),
		Content:  req.Text,
		Platform: req.Metadata.Platform,
		Username: req.Metadata.Username,
		Hashtags: req.Metadata.Hashtags,
		Location: req.Metadata.Location,
	}
	analysis := h.analyzer.AnalyzeSentiment(c.Request.Context(), post)
	h.store.RecordAnalysis(post, analysis)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": analysis})
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

// ClassifyHazard asks the model to categorize free-form hazard text.
func (h *Handler) ClassifyHazard(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	classification, err := h.ml.ClassifyHazard(c.Request.Context(), req.Text)
	if err != nil {
		h.respondMLError(c, "classify hazard", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": classification})
}

type threatAssessmentRequest struct {
	Reports []mlservice.ReportInput `json:"reports" binding:"required"`
}

// ThreatAssessment produces a regional threat summary from recent reports.
func (h *Handler) ThreatAssessment(c *gin.Context) {
	var req threatAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Reports) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reports array is required"})
		return
	}

	assessment, err := h.ml.GenerateThreatAssessment(c.Request.Context(), req.Reports)
	if err != nil {
		h.respondMLError(c, "threat assessment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": assessment})
}

// ExtractLocations pulls named places with coordinates out of hazard text.
func (h *Handler) ExtractLocations(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	locations, err := h.ml.ExtractLocations(c.Request.Context(), req.Text)
	if err != nil {
		h.respondMLError(c, "extract locations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": locations})
}

func (h *Handler) respondMLError(c *gin.Context, op string, err error) {
	if errors.Is(err, mlservice.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ml service not configured"})
		return
	}
	h.log.Errorw("ml request failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
}
