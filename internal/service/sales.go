package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/abgdnv/wingscafe/pkg/logger"
	"github.com/abgdnv/wingscafe/pkg/messaging"
	"github.com/abgdnv/wingscafe/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SalesLedger records sales against stock.
type SalesLedger interface {
	// RecordSale sells quantity units of a product to a customer.
	// Returns ErrInvalidInput for a non-positive quantity, ErrProductNotFound or
	// ErrCustomerNotFound for unknown references and ErrInsufficientStock when the
	// quantity exceeds the stock. Nothing is written when an error is returned.
	RecordSale(ctx context.Context, productID, customerID string, quantity int) (*SaleDto, error)

	// RecentSales returns up to limit sales, newest first. limit <= 0 returns all.
	RecentSales(ctx context.Context, limit int) ([]SaleDto, error)

	// QuoteSale prices a prospective sale without recording it.
	QuoteSale(ctx context.Context, productID string, quantity int) (*QuoteDto, error)
}

// Sales implements SalesLedger over the products, customers and sales collections.
type Sales struct {
	base
	store           store.RecordStore
	publisher       messaging.Publisher
	salesCounter    metric.Int64Counter
	rejectedCounter metric.Int64Counter
}

// NewSales creates a new sales ledger.
func NewSales(st store.RecordStore, publisher messaging.Publisher, opts ...Option) *Sales {
	meter := otel.Meter(meterName)
	salesCounter, err := meter.Int64Counter("sales_recorded_total", metric.WithDescription("Total number of recorded sales"))
	if err != nil {
		panic(fmt.Sprintf("failed to create sales_recorded_total counter: %v", err))
	}
	rejectedCounter, err := meter.Int64Counter("sales_rejected_total", metric.WithDescription("Total number of rejected sales"))
	if err != nil {
		panic(fmt.Sprintf("failed to create sales_rejected_total counter: %v", err))
	}
	return &Sales{
		base:            newBase(opts),
		store:           st,
		publisher:       publisher,
		salesCounter:    salesCounter,
		rejectedCounter: rejectedCounter,
	}
}

func (s *Sales) RecordSale(ctx context.Context, productID, customerID string, quantity int) (*SaleDto, error) {
	ctx = logger.AppendCtx(ctx, slog.String("product_id", productID), slog.String("customer_id", customerID))
	if quantity <= 0 {
		s.reject(ctx, "invalid_input")
		return nil, fmt.Errorf("quantity must be greater than zero, got %d: %w", quantity, apperrors.ErrInvalidInput)
	}

	var sale store.Sale
	var lowStock []store.Product

	// customers is read inside the critical section so the reference is checked
	// against the same snapshot the sale is written from.
	collections := []store.Collection{store.Products, store.Customers, store.Sales}
	err := s.store.Update(ctx, collections, func(current store.Snapshot) (store.Snapshot, error) {
		products := store.DecodeRecords[store.Product](ctx, store.Products, current[store.Products])
		idx := indexOfProduct(products, productID)
		if idx < 0 {
			return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrProductNotFound)
		}
		customers := store.DecodeRecords[store.Customer](ctx, store.Customers, current[store.Customers])
		cidx := indexOfCustomer(customers, customerID)
		if cidx < 0 {
			return nil, fmt.Errorf("customer %s: %w", customerID, apperrors.ErrCustomerNotFound)
		}

		p := &products[idx]
		if quantity > p.Quantity {
			return nil, fmt.Errorf("product %s. Available: %d, Requested: %d: %w", productID, p.Quantity, quantity, apperrors.ErrInsufficientStock)
		}
		p.Quantity -= quantity

		sale = store.Sale{
			ID:           s.newID(),
			ProductID:    p.ID,
			ProductName:  p.Name,
			CustomerID:   customers[cidx].ID,
			CustomerName: customers[cidx].Name,
			Quantity:     quantity,
			TotalPrice:   ComputeTotal(p.Price, quantity).StringFixed(2),
			Date:         s.now(),
		}
		sales := store.DecodeRecords[store.Sale](ctx, store.Sales, current[store.Sales])
		sales = append([]store.Sale{sale}, sales...)

		productsData, err := store.EncodeRecords(products)
		if err != nil {
			return nil, err
		}
		salesData, err := store.EncodeRecords(sales)
		if err != nil {
			return nil, err
		}
		lowStock = ComputeLowStock(products, AlertThreshold)
		return store.Snapshot{store.Products: productsData, store.Sales: salesData}, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientStock):
			s.reject(ctx, "insufficient_stock")
			slog.WarnContext(ctx, "Sale rejected", slog.String("error", err.Error()))
		case errors.Is(err, apperrors.ErrProductNotFound), errors.Is(err, apperrors.ErrCustomerNotFound):
			s.reject(ctx, "not_found")
		}
		return nil, err
	}

	s.salesCounter.Add(ctx, 1)
	slog.InfoContext(ctx, "Sale recorded",
		slog.String("sale_id", sale.ID),
		slog.Int("quantity", sale.Quantity),
		slog.String("total_price", sale.TotalPrice))

	publish(ctx, s.publisher, events.SaleRecordedEvent{
		SaleID:       sale.ID,
		ProductID:    sale.ProductID,
		ProductName:  sale.ProductName,
		CustomerID:   sale.CustomerID,
		CustomerName: sale.CustomerName,
		Quantity:     sale.Quantity,
		TotalPrice:   sale.TotalPrice,
		Date:         sale.Date,
	})
	if len(lowStock) > 0 {
		publish(ctx, s.publisher, lowStockEvent(lowStock, sale.Date))
	}

	dto := toSaleDto(sale)
	return &dto, nil
}

func (s *Sales) RecentSales(ctx context.Context, limit int) ([]SaleDto, error) {
	sales, err := store.LoadRecords[store.Sale](ctx, s.store, store.Sales)
	if err != nil {
		return nil, err
	}
	sales = newest(sales, limit)
	dtos := make([]SaleDto, len(sales))
	for i, sale := range sales {
		dtos[i] = toSaleDto(sale)
	}
	return dtos, nil
}

func (s *Sales) QuoteSale(ctx context.Context, productID string, quantity int) (*QuoteDto, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be greater than zero, got %d: %w", quantity, apperrors.ErrInvalidInput)
	}
	products, err := store.LoadRecords[store.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	idx := indexOfProduct(products, productID)
	if idx < 0 {
		return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrProductNotFound)
	}
	p := products[idx]
	total := ComputeTotal(p.Price, quantity)
	return &QuoteDto{
		ProductID: p.ID,
		Quantity:  quantity,
		UnitPrice: p.Price.StringFixed(2),
		Total:     total.StringFixed(2),
		Display:   FormatCurrency(total),
		Available: p.Quantity,
	}, nil
}

func (s *Sales) reject(ctx context.Context, reason string) {
	s.rejectedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func lowStockEvent(products []store.Product, date time.Time) events.LowStockEvent {
	items := make([]events.LowStockItem, len(products))
	for i, p := range products {
		items[i] = events.LowStockItem{ProductID: p.ID, Name: p.Name, Quantity: p.Quantity}
	}
	return events.LowStockEvent{Threshold: AlertThreshold, Items: items, Date: date}
}
