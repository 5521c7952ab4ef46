package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cincodev/cinco-billing/internal/middleware"
	"github.com/cincodev/cinco-billing/internal/models"
)

// RouterDeps bundles the handlers the router mounts
type RouterDeps struct {
	Auth    *AuthHandler
	Sites   *SiteHandler
	Tenants *TenantHandler
	Billing *BillingHandler
	Export  *ExportHandler
	Import  *ImportHandler
	AuthMW  *middleware.AuthMiddleware
}

// NewRouter creates the HTTP router
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", deps.Auth.Login)
		r.Post("/auth/register", deps.Auth.Register)

		// Everything below requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW.Authenticate)

			r.Route("/sites", func(r chi.Router) {
				r.Get("/", deps.Sites.List)
				r.Post("/", deps.Sites.Create)
				r.Put("/{id}", deps.Sites.Update)
				r.With(deps.AuthMW.RequireRole(models.RoleAdmin)).Delete("/{id}", deps.Sites.Delete)
			})

			r.Route("/tenants", func(r chi.Router) {
				r.Get("/", deps.Tenants.List)
				r.Post("/", deps.Tenants.Create)
				r.Put("/{id}", deps.Tenants.Update)
				r.With(deps.AuthMW.RequireRole(models.RoleAdmin)).Delete("/{id}", deps.Tenants.Delete)
			})

			r.Route("/billing", func(r chi.Router) {
				r.Post("/preview", deps.Billing.Preview)
				r.Get("/draft", deps.Billing.GetDraft)
				r.Put("/draft", deps.Billing.PutDraft)
				r.Get("/records", deps.Billing.ListRecords)
				r.Post("/records", deps.Billing.CreateRecord)
				r.Get("/records/{id}", deps.Billing.GetRecord)
				r.Get("/records/{id}/receipt", deps.Billing.GetReceipt)
			})

			r.Route("/export", func(r chi.Router) {
				r.Get("/records/{id}", deps.Export.Record)
				r.Get("/history", deps.Export.History)
			})

			r.With(deps.AuthMW.RequireRole(models.RoleAdmin)).Post("/import", deps.Import.Import)
		})
	})

	return r
}
