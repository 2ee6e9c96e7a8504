package rest

import (
	"fmt"
	"net/http"

	"github.com/abgdnv/wingscafe/internal/service"
	"github.com/abgdnv/wingscafe/pkg/web"
)

// FindAllProducts lists the catalog.
func (h *Handler) FindAllProducts(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.Products.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "fetch products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindLowStock lists products under the threshold named by the threshold parameter:
// "alert" or "dashboard" (default).
func (h *Handler) FindLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := service.DashboardThreshold
	switch name := r.URL.Query().Get("threshold"); name {
	case "", "dashboard":
	case "alert":
		threshold = service.AlertThreshold
	default:
		web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Invalid threshold: %s", name))
		return
	}
	list, err := h.Products.FindLowStock(r.Context(), threshold)
	if err != nil {
		h.respondServiceError(w, r, err, "fetch low-stock products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindProductByID retrieves a product by its ID.
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.Products.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("retrieve product with ID %s", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// CreateProduct adds a product to the catalog.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductCreateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	created, err := h.Products.Create(r.Context(), dto)
	if err != nil {
		h.respondServiceError(w, r, err, "create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// UpdateProduct replaces the editable fields of a product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var dto service.ProductCreateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	updated, err := h.Products.Update(r.Context(), id, dto)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("update product with ID %s", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteProduct removes a product from the catalog.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.Products.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("delete product with ID %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
