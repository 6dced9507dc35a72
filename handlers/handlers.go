// Package handlers wires the HTTP API to the scoring, analysis, storage and
// broadcast services.
package handlers

import (
	"go.uber.org/zap"

	"github.com/Varp17/atlas-alert/broadcast"
	"github.com/Varp17/atlas-alert/hub"
	"github.com/Varp17/atlas-alert/mlservice"
	"github.com/Varp17/atlas-alert/sentiment"
	"github.com/Varp17/atlas-alert/store"
)

type Handler struct {
	store    *store.Store
	analyzer *sentiment.Analyzer
	ml       *mlservice.Service
	sms      *broadcast.Service
	hub      *hub.Hub
	log      *zap.SugaredLogger
}

func New(
	st *store.Store,
	analyzer *sentiment.Analyzer,
	ml *mlservice.Service,
	sms *broadcast.Service,
	h *hub.Hub,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		store:    st,
		analyzer: analyzer,
		ml:       ml,
		sms:      sms,
		hub:      h,
		log:      logger,
	}
}
