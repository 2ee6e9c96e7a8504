package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/abgdnv/wingscafe/pkg/logger"
	"github.com/abgdnv/wingscafe/pkg/messaging"
	"github.com/abgdnv/wingscafe/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InventoryLedger records stock movements.
type InventoryLedger interface {
	// AdjustStock adds or deducts amount units of a product and logs a stock transaction.
	// Returns ErrInvalidInput for a non-positive amount or unknown type, ErrProductNotFound
	// for an unknown product and ErrInsufficientStock when a deduction exceeds the stock.
	// Nothing is written when an error is returned.
	AdjustStock(ctx context.Context, productID string, txType store.TransactionType, amount int) (*StockResult, error)

	// RecentTransactions returns up to limit transactions, newest first. limit <= 0 returns all.
	RecentTransactions(ctx context.Context, limit int) ([]TransactionDto, error)
}

// Inventory implements InventoryLedger over the products and transactions collections.
type Inventory struct {
	base
	store              store.RecordStore
	publisher          messaging.Publisher
	adjustmentsCounter metric.Int64Counter
}

// NewInventory creates a new inventory ledger.
func NewInventory(st store.RecordStore, publisher messaging.Publisher, opts ...Option) *Inventory {
	meter := otel.Meter(meterName)
	counter, err := meter.Int64Counter("stock_adjustments_total", metric.WithDescription("Total number of committed stock adjustments"))
	if err != nil {
		panic(fmt.Sprintf("failed to create stock_adjustments_total counter: %v", err))
	}
	return &Inventory{
		base:               newBase(opts),
		store:              st,
		publisher:          publisher,
		adjustmentsCounter: counter,
	}
}

func (s *Inventory) AdjustStock(ctx context.Context, productID string, txType store.TransactionType, amount int) (*StockResult, error) {
	ctx = logger.AppendCtx(ctx, slog.String("product_id", productID))
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero, got %d: %w", amount, apperrors.ErrInvalidInput)
	}
	if txType != store.TransactionAdd && txType != store.TransactionDeduct {
		return nil, fmt.Errorf("unknown transaction type %q: %w", string(txType), apperrors.ErrInvalidInput)
	}

	var product store.Product
	var transaction store.StockTransaction
	var lowStock []store.Product

	err := s.store.Update(ctx, []store.Collection{store.Products, store.Transactions}, func(current store.Snapshot) (store.Snapshot, error) {
		products := store.DecodeRecords[store.Product](ctx, store.Products, current[store.Products])
		idx := indexOfProduct(products, productID)
		if idx < 0 {
			return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrProductNotFound)
		}
		p := &products[idx]
		if txType == store.TransactionDeduct {
			if amount > p.Quantity {
				return nil, fmt.Errorf("product %s. Available: %d, Requested: %d: %w", productID, p.Quantity, amount, apperrors.ErrInsufficientStock)
			}
			p.Quantity -= amount
		} else {
			if amount > math.MaxInt-p.Quantity {
				return nil, fmt.Errorf("product %s. Quantity %d cannot grow by %d: %w", productID, p.Quantity, amount, apperrors.ErrInvalidInput)
			}
			p.Quantity += amount
		}

		transaction = store.StockTransaction{
			ID:          s.newID(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Type:        txType,
			Quantity:    amount,
			Date:        s.now(),
		}
		transactions := store.DecodeRecords[store.StockTransaction](ctx, store.Transactions, current[store.Transactions])
		transactions = append([]store.StockTransaction{transaction}, transactions...)

		productsData, err := store.EncodeRecords(products)
		if err != nil {
			return nil, err
		}
		transactionsData, err := store.EncodeRecords(transactions)
		if err != nil {
			return nil, err
		}
		product = *p
		lowStock = ComputeLowStock(products, AlertThreshold)
		return store.Snapshot{store.Products: productsData, store.Transactions: transactionsData}, nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientStock) {
			slog.WarnContext(ctx, "Stock adjustment rejected", slog.String("error", err.Error()))
		}
		return nil, err
	}

	s.adjustmentsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(txType))))
	slog.InfoContext(ctx, "Stock adjusted",
		slog.String("type", string(txType)),
		slog.Int("amount", amount),
		slog.Int("quantity", product.Quantity))

	publish(ctx, s.publisher, events.StockAdjustedEvent{
		TransactionID: transaction.ID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Type:          string(txType),
		Quantity:      amount,
		NewQuantity:   product.Quantity,
		Date:          transaction.Date,
	})
	if len(lowStock) > 0 {
		publish(ctx, s.publisher, lowStockEvent(lowStock, transaction.Date))
	}

	return &StockResult{
		Product:       toProductDto(product),
		Transaction:   toTransactionDto(transaction),
		LowStockAlert: len(lowStock) > 0,
		LowStock:      toProductDtos(lowStock),
	}, nil
}

func (s *Inventory) RecentTransactions(ctx context.Context, limit int) ([]TransactionDto, error) {
	transactions, err := store.LoadRecords[store.StockTransaction](ctx, s.store, store.Transactions)
	if err != nil {
		return nil, err
	}
	transactions = newest(transactions, limit)
	dtos := make([]TransactionDto, len(transactions))
	for i, t := range transactions {
		dtos[i] = toTransactionDto(t)
	}
	return dtos, nil
}
