package handlers

import (
	"context"

	"github.com/fasthttp/router"
	xhttp "github.com/ayushi2311/loyalty-rewards-api/pkg/http"
)

type HealthService interface {
	Get(ctx context.Context) error
}
type HealthHandler struct {
	svc HealthService
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{
		svc: healthService,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.svc.Get(ctx); err != nil {
		writeError(ctx, 503, "database unreachable")
		return
	}
	ctx.Response.SetBodyString("success")
}
