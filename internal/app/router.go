package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vitrine-retail/vitrine/internal/ledger"
	"github.com/vitrine-retail/vitrine/internal/masterdata/clients"
	"github.com/vitrine-retail/vitrine/internal/masterdata/products"
	"github.com/vitrine-retail/vitrine/internal/masterdata/suppliers"
	"github.com/vitrine-retail/vitrine/internal/observability"
	"github.com/vitrine-retail/vitrine/internal/reconcile"
	"github.com/vitrine-retail/vitrine/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	LedgerHandler    *ledger.Handler
	ReconcileHandler *reconcile.Handler
	SupplierHandler  *suppliers.Handler
	ClientHandler    *clients.Handler
	ProductHandler   *products.Handler

	JobHandler *jobs.Handler
	Metrics    *observability.Metrics
}

// NewRouter constructs the chi.Router with Vitrine defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.SupplierHandler != nil {
			r.Route("/suppliers", params.SupplierHandler.MountRoutes)
		}
		if params.ClientHandler != nil {
			r.Route("/clients", params.ClientHandler.MountRoutes)
		}
		r.Route("/products", func(r chi.Router) {
			if params.ProductHandler != nil {
				params.ProductHandler.MountRoutes(r)
			}
			if params.LedgerHandler != nil {
				params.LedgerHandler.MountProductRoutes(r)
			}
		})
		if params.LedgerHandler != nil {
			r.Route("/installments", params.LedgerHandler.MountInstallmentRoutes)
		}
		if params.ReconcileHandler != nil {
			params.ReconcileHandler.MountRoutes(r)
		}
	})
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
