package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Adams-ibr/anatomia-study-api/internal/api"
	apiMiddleware "github.com/Adams-ibr/anatomia-study-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	studyHandler := api.NewStudyHandler(app.studyService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/due", studyHandler.GetDueCards)
		r.Post("/review", studyHandler.SubmitReview)
		r.Get("/decks/{id}/summary", studyHandler.GetDeckSummary)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
