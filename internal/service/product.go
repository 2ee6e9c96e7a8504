package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/abgdnv/wingscafe/internal/store"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products in stored order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// FindLowStock returns the products whose quantity is below threshold.
	FindLowStock(ctx context.Context, threshold int) ([]ProductDto, error)

	// Create adds a new product to the catalog.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update replaces the editable fields of a product. The quantity is replaced too,
	// as in the catalog editor; stock movements should go through the inventory ledger.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, product ProductCreateDto) (*ProductDto, error)

	// DeleteByID removes a product. Past sales and transactions keep their copy of its name.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) error
}

// Products implements ProductService over the products collection.
type Products struct {
	base
	store store.RecordStore
}

// NewProductService creates a new instance of ProductService with the provided store.
func NewProductService(st store.RecordStore, opts ...Option) *Products {
	return &Products{base: newBase(opts), store: st}
}

func (s *Products) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := store.LoadRecords[store.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	return toProductDtos(products), nil
}

func (s *Products) FindByID(ctx context.Context, id string) (*ProductDto, error) {
	products, err := store.LoadRecords[store.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	idx := indexOfProduct(products, id)
	if idx < 0 {
		return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrProductNotFound)
	}
	dto := toProductDto(products[idx])
	return &dto, nil
}

func (s *Products) FindLowStock(ctx context.Context, threshold int) ([]ProductDto, error) {
	products, err := store.LoadRecords[store.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	return toProductDtos(ComputeLowStock(products, threshold)), nil
}

func (s *Products) Create(ctx context.Context, dto ProductCreateDto) (*ProductDto, error) {
	if err := s.check(dto); err != nil {
		return nil, err
	}
	product := store.Product{
		ID:          s.newID(),
		Name:        dto.Name,
		Description: dto.Description,
		Category:    store.Category(dto.Category),
		Price:       dto.Price,
		Quantity:    dto.Quantity,
	}
	err := s.store.Update(ctx, []store.Collection{store.Products}, func(current store.Snapshot) (store.Snapshot, error) {
		products := store.DecodeRecords[store.Product](ctx, store.Products, current[store.Products])
		products = append(products, product)
		data, err := store.EncodeRecords(products)
		if err != nil {
			return nil, err
		}
		return store.Snapshot{store.Products: data}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	slog.InfoContext(ctx, "Product created", slog.String("product_id", product.ID), slog.String("name", product.Name))
	result := toProductDto(product)
	return &result, nil
}

func (s *Products) Update(ctx context.Context, id string, dto ProductCreateDto) (*ProductDto, error) {
	if err := s.check(dto); err != nil {
		return nil, err
	}
	var updated store.Product
	err := s.store.Update(ctx, []store.Collection{store.Products}, func(current store.Snapshot) (store.Snapshot, error) {
		products := store.DecodeRecords[store.Product](ctx, store.Products, current[store.Products])
		idx := indexOfProduct(products, id)
		if idx < 0 {
			return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrProductNotFound)
		}
		products[idx] = store.Product{
			ID:          id,
			Name:        dto.Name,
			Description: dto.Description,
			Category:    store.Category(dto.Category),
			Price:       dto.Price,
			Quantity:    dto.Quantity,
		}
		updated = products[idx]
		data, err := store.EncodeRecords(products)
		if err != nil {
			return nil, err
		}
		return store.Snapshot{store.Products: data}, nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Product updated", slog.String("product_id", id))
	result := toProductDto(updated)
	return &result, nil
}

func (s *Products) DeleteByID(ctx context.Context, id string) error {
	err := s.store.Update(ctx, []store.Collection{store.Products}, func(current store.Snapshot) (store.Snapshot, error) {
		products := store.DecodeRecords[store.Product](ctx, store.Products, current[store.Products])
		idx := indexOfProduct(products, id)
		if idx < 0 {
			return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrProductNotFound)
		}
		data, err := store.EncodeRecords(slices.Delete(products, idx, idx+1))
		if err != nil {
			return nil, err
		}
		return store.Snapshot{store.Products: data}, nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Product deleted", slog.String("product_id", id))
	return nil
}

func indexOfProduct(products []store.Product, id string) int {
	return slices.IndexFunc(products, func(p store.Product) bool { return p.ID == id })
}
