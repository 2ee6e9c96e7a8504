package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/abgdnv/wingscafe/internal/service"
	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/abgdnv/wingscafe/pkg/web"
)

// defaultTransactionLimit is the number of transactions listed when no limit is given.
const defaultTransactionLimit = 10

// RecentTransactions lists stock transactions, newest first.
func (h *Handler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit, ok := web.ParseOptionalGt(r, w, h.logger, "limit", 0, defaultTransactionLimit)
	if !ok {
		return
	}
	list, err := h.Inventory.RecentTransactions(r.Context(), limit)
	if err != nil {
		h.respondServiceError(w, r, err, "fetch stock transactions")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// AdjustStock adds or deducts stock for a product.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var dto service.StockAdjustmentDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to adjust stock", "product_id", dto.ProductID, "type", dto.Type, "quantity", dto.Quantity)
	result, err := h.Inventory.AdjustStock(r.Context(), dto.ProductID, store.TransactionType(dto.Type), dto.Quantity)
	if err != nil {
		h.respondServiceError(w, r, err, "adjust stock")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, result)
}

// RecentSales lists sales, newest first. Without a limit all sales are listed.
func (h *Handler) RecentSales(w http.ResponseWriter, r *http.Request) {
	limit, ok := web.ParseOptionalGt(r, w, h.logger, "limit", 0, 0)
	if !ok {
		return
	}
	list, err := h.Sales.RecentSales(r.Context(), limit)
	if err != nil {
		h.respondServiceError(w, r, err, "fetch sales")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// RecordSale sells a product to a customer.
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var dto service.SaleCreateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to record sale", "product_id", dto.ProductID, "customer_id", dto.CustomerID, "quantity", dto.Quantity)
	sale, err := h.Sales.RecordSale(r.Context(), dto.ProductID, dto.CustomerID, dto.Quantity)
	if err != nil {
		h.respondServiceError(w, r, err, "record sale")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, sale)
}

// QuoteSale prices a prospective sale given by the productId and quantity parameters.
func (h *Handler) QuoteSale(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.URL.Query().Get("productId"))
	if productID == "" {
		web.RespondError(w, h.logger, http.StatusBadRequest, "productId url parameter is required")
		return
	}
	raw := r.URL.Query().Get("quantity")
	if !service.IsValidQuantityInput(raw) {
		web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Invalid quantity number: %s", raw))
		return
	}
	quantity, _ := strconv.Atoi(strings.TrimSpace(raw))
	quote, err := h.Sales.QuoteSale(r.Context(), productID, quantity)
	if err != nil {
		h.respondServiceError(w, r, err, "quote sale")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, quote)
}
