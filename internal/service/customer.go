package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/abgdnv/wingscafe/internal/store"
)

// CustomerService defines the methods for managing customers.
type CustomerService interface {
	FindAll(ctx context.Context) ([]CustomerDto, error)

	// FindByID returns ErrCustomerNotFound if no customer exists with the given ID.
	FindByID(ctx context.Context, id string) (*CustomerDto, error)

	Create(ctx context.Context, customer CustomerCreateDto) (*CustomerDto, error)

	// Update returns ErrCustomerNotFound if no customer exists with the given ID.
	Update(ctx context.Context, id string, customer CustomerCreateDto) (*CustomerDto, error)

	// DeleteByID removes a customer. Past sales keep their copy of the name.
	DeleteByID(ctx context.Context, id string) error
}

// Customers implements CustomerService over the customers collection.
type Customers struct {
	base
	store store.RecordStore
}

func NewCustomerService(st store.RecordStore, opts ...Option) *Customers {
	return &Customers{base: newBase(opts), store: st}
}

func (s *Customers) FindAll(ctx context.Context) ([]CustomerDto, error) {
	customers, err := store.LoadRecords[store.Customer](ctx, s.store, store.Customers)
	if err != nil {
		return nil, err
	}
	dtos := make([]CustomerDto, len(customers))
	for i, c := range customers {
		dtos[i] = toCustomerDto(c)
	}
	return dtos, nil
}

func (s *Customers) FindByID(ctx context.Context, id string) (*CustomerDto, error) {
	customers, err := store.LoadRecords[store.Customer](ctx, s.store, store.Customers)
	if err != nil {
		return nil, err
	}
	idx := indexOfCustomer(customers, id)
	if idx < 0 {
		return nil, fmt.Errorf("customer %s: %w", id, apperrors.ErrCustomerNotFound)
	}
	dto := toCustomerDto(customers[idx])
	return &dto, nil
}

func (s *Customers) Create(ctx context.Context, dto CustomerCreateDto) (*CustomerDto, error) {
	if err := s.check(dto); err != nil {
		return nil, err
	}
	customer := store.Customer{ID: s.newID(), Name: dto.Name, Email: dto.Email, Phone: dto.Phone, Address: dto.Address}
	err := s.mutate(ctx, func(customers []store.Customer) ([]store.Customer, error) {
		return append(customers, customer), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	slog.InfoContext(ctx, "Customer created", slog.String("customer_id", customer.ID))
	result := toCustomerDto(customer)
	return &result, nil
}

func (s *Customers) Update(ctx context.Context, id string, dto CustomerCreateDto) (*CustomerDto, error) {
	if err := s.check(dto); err != nil {
		return nil, err
	}
	updated := store.Customer{ID: id, Name: dto.Name, Email: dto.Email, Phone: dto.Phone, Address: dto.Address}
	err := s.mutate(ctx, func(customers []store.Customer) ([]store.Customer, error) {
		idx := indexOfCustomer(customers, id)
		if idx < 0 {
			return nil, fmt.Errorf("customer %s: %w", id, apperrors.ErrCustomerNotFound)
		}
		customers[idx] = updated
		return customers, nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Customer updated", slog.String("customer_id", id))
	result := toCustomerDto(updated)
	return &result, nil
}

func (s *Customers) DeleteByID(ctx context.Context, id string) error {
	err := s.mutate(ctx, func(customers []store.Customer) ([]store.Customer, error) {
		idx := indexOfCustomer(customers, id)
		if idx < 0 {
			return nil, fmt.Errorf("customer %s: %w", id, apperrors.ErrCustomerNotFound)
		}
		return slices.Delete(customers, idx, idx+1), nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Customer deleted", slog.String("customer_id", id))
	return nil
}

// mutate runs a read-modify-write of the customers collection.
func (s *Customers) mutate(ctx context.Context, fn func([]store.Customer) ([]store.Customer, error)) error {
	return s.store.Update(ctx, []store.Collection{store.Customers}, func(current store.Snapshot) (store.Snapshot, error) {
		customers, err := fn(store.DecodeRecords[store.Customer](ctx, store.Customers, current[store.Customers]))
		if err != nil {
			return nil, err
		}
		data, err := store.EncodeRecords(customers)
		if err != nil {
			return nil, err
		}
		return store.Snapshot{store.Customers: data}, nil
	})
}

func indexOfCustomer(customers []store.Customer, id string) int {
	return slices.IndexFunc(customers, func(c store.Customer) bool { return c.ID == id })
}
