// Package api provides the HTTP handlers for the relay.
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/starcadet/relay/config"
	"github.com/starcadet/relay/history"
	"github.com/starcadet/relay/llm"
	"github.com/starcadet/relay/policy"
)

// Handler handles the relay HTTP requests.
type Handler struct {
	cfg    *config.Config
	store  history.Store
	client *llm.Client
	policy *policy.Engine
}

// NewHandler creates a new handler. The policy engine may be nil, in which
// case no safety gate is applied.
func NewHandler(cfg *config.Config, store history.Store, client *llm.Client, engine *policy.Engine) *Handler {
	return &Handler{
		cfg:    cfg,
		store:  store,
		client: client,
		policy: engine,
	}
}

// RegisterRoutes registers the relay routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.Chat)
	e.GET("/api/chat/:conversationId", h.GetHistory)
	e.GET("/api/media", h.ListMedia)
	e.GET("/videos/:name", h.ServeVideo)
}
