package ledger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vitrine-retail/vitrine/internal/platform/httpx"
)

// Handler exposes the three ledger mutations over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountProductRoutes registers the sale mutations under the products tree.
func (h *Handler) MountProductRoutes(r chi.Router) {
	r.Post("/{id}/sale", h.registerSale)
	r.Post("/{id}/supplier-payment", h.setSupplierPayment)
}

// MountInstallmentRoutes registers the installment mutations.
func (h *Handler) MountInstallmentRoutes(r chi.Router) {
	r.Post("/{id}/received", h.setReceived)
}

type saleRequest struct {
	ClientID     string     `json:"client_id" validate:"required,uuid4"`
	SalePrice    float64    `json:"sale_price" validate:"required,gt=0"`
	SaleDate     string     `json:"sale_date" validate:"required,datetime=2006-01-02"`
	Installments []PlanSlot `json:"installments" validate:"required,min=1,max=3"`
}

func (h *Handler) registerSale(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product ID")
		return
	}

	var req saleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		httpx.FieldProblem(w, fields)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid client ID")
		return
	}

	input := SaleInput{
		ProductID: productID,
		ClientID:  clientID,
		SalePrice: req.SalePrice,
		SaleDate:  req.SaleDate,
		Slots:     req.Installments,
	}
	if err := h.service.RegisterSale(r.Context(), input); err != nil {
		h.logger.Error("register sale", slog.Any("error", err), slog.String("product_id", productID.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type receivedRequest struct {
	Received bool `json:"received"`
}

func (h *Handler) setReceived(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid installment ID")
		return
	}
	var req receivedRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.service.SetInstallmentReceived(r.Context(), id, req.Received); err != nil {
		h.logger.Error("set installment received", slog.Any("error", err), slog.String("installment_id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type supplierPaymentRequest struct {
	Paid     bool   `json:"paid"`
	PaidDate string `json:"paid_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) setSupplierPayment(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product ID")
		return
	}
	var req supplierPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "paid_date must be YYYY-MM-DD")
		return
	}
	var paidDate *time.Time
	if req.PaidDate != "" {
		t, _ := time.Parse("2006-01-02", req.PaidDate)
		paidDate = &t
	}
	if err := h.service.SetSupplierPayment(r.Context(), productID, req.Paid, paidDate); err != nil {
		h.logger.Error("set supplier payment", slog.Any("error", err), slog.String("product_id", productID.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
