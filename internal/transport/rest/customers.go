package rest

import (
	"fmt"
	"net/http"

	"github.com/abgdnv/wingscafe/internal/service"
	"github.com/abgdnv/wingscafe/pkg/web"
)

func (h *Handler) FindAllCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Customers.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "fetch customers")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

func (h *Handler) FindCustomerByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.Customers.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("retrieve customer with ID %s", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var dto service.CustomerCreateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	created, err := h.Customers.Create(r.Context(), dto)
	if err != nil {
		h.respondServiceError(w, r, err, "create customer")
		return
	}
	h.logger.InfoContext(r.Context(), "Customer created successfully", "ID", created.ID)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var dto service.CustomerCreateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	updated, err := h.Customers.Update(r.Context(), id, dto)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("update customer with ID %s", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.Customers.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("delete customer with ID %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
