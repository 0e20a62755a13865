package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/expenseflow-api/internal/api"
	apiMiddleware "github.com/phrazzld/expenseflow-api/internal/api/middleware"
	"github.com/phrazzld/expenseflow-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.storage.stores.Users, app.logger)
	authHandler := api.NewAuthHandler(app.authService)
	incomeHandler := api.NewLedgerHandler(app.incomeService)
	expenseHandler := api.NewLedgerHandler(app.expenseService)
	contactHandler := api.NewContactHandler(app.contactService)
	adminHandler := api.NewAdminHandler(app.adminService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/income", ledgerRoutes(incomeHandler))
			r.Route("/expense", ledgerRoutes(expenseHandler))

			r.Post("/contact", contactHandler.Submit)
			r.Get("/contact", contactHandler.ListMine)

			r.Route("/admin", func(r chi.Router) {
				r.Use(authMiddleware.RequireAdmin)
				r.Get("/users", adminHandler.ListUsers)
				r.Delete("/users/{id}", adminHandler.DeleteUser)
				r.Get("/contacts", adminHandler.ListContacts)
				r.Put("/contacts/{id}", adminHandler.UpdateContact)
				r.Get("/stats", adminHandler.Stats)
			})
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithMessage(w, r, http.StatusOK, "Expense Tracker API is running!")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// ledgerRoutes registers the routes shared by /api/income and /api/expense.
// The static stats path is matched before {id}.
func ledgerRoutes(h *api.LedgerHandler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/stats/summary", h.Summary)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	}
}
