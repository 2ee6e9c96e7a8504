// Package rest provides the HTTP API of the cafe service.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/abgdnv/wingscafe/internal/service"
	"github.com/abgdnv/wingscafe/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Services groups the business services served over HTTP.
type Services struct {
	Products  service.ProductService
	Customers service.CustomerService
	Inventory service.InventoryLedger
	Sales     service.SalesLedger
	Reports   service.ReportService
}

// Handler serves the REST API on top of Services.
type Handler struct {
	Services
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler serving the given services.
func NewHandler(services Services, logger *slog.Logger) *Handler {
	return &Handler{
		Services: services,
		validate: service.NewValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes of the service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.FindAllProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/low-stock", h.FindLowStock)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.FindProductByID)
				r.Put("/", h.UpdateProduct)
				r.Delete("/", h.DeleteProduct)
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.FindAllCustomers)
			r.Post("/", h.CreateCustomer)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.FindCustomerByID)
				r.Put("/", h.UpdateCustomer)
				r.Delete("/", h.DeleteCustomer)
			})
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/transactions", h.RecentTransactions)
			r.Post("/adjustments", h.AdjustStock)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.RecentSales)
			r.Post("/", h.RecordSale)
			r.Get("/quote", h.QuoteSale)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", h.Dashboard)
			r.Get("/{type}", h.Report)
			r.Get("/{type}/export", h.ExportReport)
		})
	})
}

// respondServiceError maps a service error to a status code.
// Client errors carry the error text; anything else is logged and reported as failedTo.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, failedTo string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrProductNotFound),
		errors.Is(err, apperrors.ErrCustomerNotFound),
		errors.Is(err, apperrors.ErrUnknownReport),
		errors.Is(err, apperrors.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientStock):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Failed to "+failedTo, "error", err)
		web.RespondError(w, h.logger, status, "Failed to "+failedTo)
		return
	}
	h.logger.WarnContext(r.Context(), "Request rejected", "status", status, "error", err)
	web.RespondError(w, h.logger, status, err.Error())
}
