package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskcomply/obrigacoes-service/internal/api/handlers"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
	"github.com/taskcomply/obrigacoes-service/internal/usecase"
)

func NewRouter(
	jwtManager *auth.JWTManager,
	taskService *usecase.TaskService,
	justificationService *usecase.JustificationService,
	ruleService *usecase.RuleService,
	evidenceService *usecase.EvidenceService,
	authService *usecase.AuthService,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	taskHandler := handlers.NewTaskHandler(taskService)
	justificationHandler := handlers.NewJustificationHandler(justificationService)
	ruleHandler := handlers.NewRuleHandler(ruleService)
	evidenceHandler := handlers.NewEvidenceHandler(evidenceService)
	authHandler := handlers.NewAuthHandler(authService)

	r.Route("/api/v1", func(r chi.Router) {
		// Rotas públicas de autenticação
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(handlers.SessionMiddleware(jwtManager))
				r.Post("/impersonate", authHandler.Impersonate)
			})
		})

		// Rotas autenticadas
		r.Group(func(r chi.Router) {
			r.Use(handlers.SessionMiddleware(jwtManager))

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListTasks)
				r.Post("/", taskHandler.CreateTask)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.GetTask)
					r.Put("/", taskHandler.UpdateTask)
					r.Post("/complete", taskHandler.CompleteTask)
					r.Get("/subtasks", taskHandler.ListSubtasks)
					r.Get("/justifications", justificationHandler.ListByTask)
					r.Post("/justifications", justificationHandler.Submit)
					r.Get("/evidences", evidenceHandler.ListByTask)
					r.Post("/evidences", evidenceHandler.UploadToTask)
				})
			})

			r.Route("/justifications/{id}", func(r chi.Router) {
				r.Post("/review", justificationHandler.Review)
				r.Post("/evidences", evidenceHandler.UploadToJustification)
			})

			r.Route("/rules/{area}", func(r chi.Router) {
				r.Get("/", ruleHandler.GetRule)
				r.Put("/", ruleHandler.SaveRule)
			})
		})
	})

	return r
}
