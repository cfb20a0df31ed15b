package api

import (
	_ "fxconverter/docs"
	"fxconverter/internal/conversion/handler"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(sessionHandler *handler.Handler, metricsHandler http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	if metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", sessionHandler.GetSupportedCodes)
		r.Post("/sessions", sessionHandler.CreateSession)
		r.Get("/sessions/{id}", sessionHandler.GetSession)
		r.Patch("/sessions/{id}", sessionHandler.UpdateSession)
		r.Post("/sessions/{id}/swap", sessionHandler.SwapSession)
	})
	return router
}
