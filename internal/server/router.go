package server

import (
	"net/http"

	"github.com/vinay-852/MediTracker-Backend/internal/activity"
	"github.com/vinay-852/MediTracker-Backend/internal/auth"
	"github.com/vinay-852/MediTracker-Backend/internal/schedule"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the HTTP surface over the services. Everything under
// /api except register and login requires a bearer credential.
func NewRouter(users *auth.Service, logs *activity.Service, schedules *schedule.Service, tokens *auth.TokenService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<h1>Hello, Welcome to the API</h1>"))
	})

	requireAuth := auth.Middleware(tokens)

	r.Route("/api/users", func(api chi.Router) {
		api.Post("/register", auth.RegisterHandler(users))
		api.Post("/login", auth.LoginHandler(users))

		api.Group(func(protected chi.Router) {
			protected.Use(requireAuth)
			protected.Get("/profile", auth.ProfileHandler(users))
			protected.Get("/logs", activity.LogsHandler(logs))
			protected.Post("/logs", activity.AppendHandler(logs))
			protected.Delete("/logs/reset", activity.ResetHandler(logs))
		})
	})

	r.Route("/api/schedules", func(api chi.Router) {
		api.Use(requireAuth)
		api.Get("/", schedule.GetHandler(schedules))
		api.Post("/{compartment}", schedule.AddTaskHandler(schedules))
		api.Delete("/{compartment}/{index}", schedule.DeleteTaskHandler(schedules))
	})

	return r
}
