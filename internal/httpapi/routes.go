package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tsanfield/stackpot-backend/internal/monitor"
	"github.com/tsanfield/stackpot-backend/internal/registry"
	"github.com/tsanfield/stackpot-backend/internal/ws"
)

func SetupRoutes(reg *registry.Registry) http.Handler {
	r := chi.NewRouter()

	r.Post("/games", CreateGame(reg))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(reg))
	r.Method(http.MethodGet, "/metrics", monitor.Handler())
	return r
}
