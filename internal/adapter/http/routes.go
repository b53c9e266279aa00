package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexboard/nexboard/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router.
// webhookSecret is resolved per request so rotated secrets take effect
// without a restart; an empty secret accepts deliveries unverified,
// which is fine for local development.
func MountRoutes(r chi.Router, h *Handlers, webhookSecret func() string) {
	// Webhooks live outside the API group; HMAC verification replaces
	// any session concept.
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.With(middleware.WebhookHMAC(webhookSecret, "X-Hub-Signature-256")).
			Post("/vcs/github", h.HandleGitHubWebhook)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Projects
		r.Get("/projects", h.ListProjects)
		r.Post("/projects", h.CreateProject)
		r.Get("/projects/{id}", h.GetProject)
		r.Put("/projects/{id}", h.UpdateProject)
		r.Delete("/projects/{id}", h.DeleteProject)

		// Tasks (nested under projects)
		r.Get("/projects/{id}/tasks", h.ListTasks)
		r.Post("/projects/{id}/tasks", h.CreateTask)
		r.Get("/projects/{id}/board", h.GetBoard)

		// Tasks (direct access)
		r.Get("/tasks/{id}", h.GetTask)
		r.Put("/tasks/{id}", h.UpdateTask)
		r.Delete("/tasks/{id}", h.DeleteTask)

		// Sprints
		r.Get("/projects/{id}/sprints", h.ListSprints)
		r.Post("/projects/{id}/sprints", h.CreateSprint)
		r.Get("/sprints/{id}", h.GetSprint)
		r.Post("/sprints/{id}/activate", h.ActivateSprint)
		r.Post("/sprints/{id}/close", h.CloseSprint)

		// AI helpers (proxied to LiteLLM)
		r.Post("/assist/breakdown", h.BreakdownTask)
		r.Post("/assist/polish", h.PolishText)
	})

	r.Get("/healthz", h.Health)

	if h.Hub != nil {
		r.Get("/ws", h.Hub.HandleWS)
	}
}
