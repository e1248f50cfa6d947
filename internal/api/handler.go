package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"booking-audit-backend/internal/auditor"
	"booking-audit-backend/internal/store"
)

// ResultSource provides the most recent completed audit result.
type ResultSource interface {
	Latest() (auditor.Result, bool)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	results ResultSource
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, results ResultSource, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		results: results,
		webpush: webpushOptions,
	}
}
