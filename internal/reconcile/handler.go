package reconcile

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vitrine-retail/vitrine/internal/platform/httpx"
)

// Handler exposes the derived views over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers view routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/views/monthly-summary", h.monthlySummary)
	r.Get("/views/receivables-calendar", h.calendar)
	r.Get("/views/receivables-calendar/{date}", h.calendarDrillDown)
	r.Get("/views/supplier-ledger", h.supplierLedger)
	r.Get("/views/monthly-totals", h.monthlyTotals)
	r.Post("/views/{view}/refresh", h.refresh)
}

func (h *Handler) monthlySummary(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.MonthlySummary(r.Context())
	if err != nil {
		h.logger.Error("monthly summary view", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Calendar(r.Context())
	if err != nil {
		h.logger.Error("calendar view", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) calendarDrillDown(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	rows, err := h.service.CalendarDrillDown(r.Context(), date)
	if err != nil {
		h.logger.Error("calendar drill-down", slog.Any("error", err), slog.String("date", date))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"date": date, "installments": rows})
}

func (h *Handler) supplierLedger(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.SupplierLedger(r.Context())
	if err != nil {
		h.logger.Error("supplier ledger view", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) monthlyTotals(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month must be numeric")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "year must be numeric")
		return
	}
	totals, err := h.service.MonthlyTotals(r.Context(), month, year)
	if err != nil {
		h.logger.Error("monthly totals", slog.Any("error", err), slog.Int("month", month), slog.Int("year", year))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	view := View(chi.URLParam(r, "view"))
	known := false
	for _, candidate := range Views {
		if candidate == view {
			known = true
			break
		}
	}
	if !known {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown view")
		return
	}
	if err := h.service.Refresh(r.Context(), view); err != nil {
		h.logger.Error("manual view refresh", slog.Any("error", err), slog.String("view", string(view)))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
