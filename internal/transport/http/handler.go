// Package http carries the inbound HTTP surface: route wiring, request
// validation and the glue between transport DTOs and the domain services.
package http

import (
	"log/slog"
	"time"

	"nidbridge/internal/audit"
	"nidbridge/internal/auth"
	"nidbridge/internal/capture"
	"nidbridge/internal/gateway"
	"nidbridge/internal/session"
	"nidbridge/internal/tokencache"
)

// Handler bundles every dependency the HTTP surface needs. Handlers stay
// thin: decode, validate, delegate, write.
type Handler struct {
	logger       *slog.Logger
	auth         *auth.Service
	sessions     *session.Store
	tokens       *tokencache.Cache
	tokenTTL     time.Duration
	gateway      *gateway.Gateway
	orchestrator *capture.Orchestrator
	auditor      *audit.Publisher
}

func NewHandler(
	logger *slog.Logger,
	authService *auth.Service,
	sessions *session.Store,
	tokens *tokencache.Cache,
	tokenTTL time.Duration,
	gw *gateway.Gateway,
	orchestrator *capture.Orchestrator,
	auditor *audit.Publisher,
) *Handler {
	if tokenTTL <= 0 {
		tokenTTL = tokencache.DefaultTTL
	}
	return &Handler{
		logger:       logger,
		auth:         authService,
		sessions:     sessions,
		tokens:       tokens,
		tokenTTL:     tokenTTL,
		gateway:      gw,
		orchestrator: orchestrator,
		auditor:      auditor,
	}
}
