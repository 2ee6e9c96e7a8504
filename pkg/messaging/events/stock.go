// Package events holds the payloads of the domain events published by the service.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/wingscafe/pkg/messaging"
)

// StockAdjustedEvent is published after a stock adjustment has been committed.
type StockAdjustedEvent struct {
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	NewQuantity   int       `json:"new_quantity"`
	Date          time.Time `json:"date"`
}

func (e StockAdjustedEvent) Subject() string {
	return messaging.StockAdjustedSubject
}

func (e StockAdjustedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// LowStockItem is a product below the alert threshold.
type LowStockItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// LowStockEvent is published when a ledger operation leaves products under the alert threshold.
type LowStockEvent struct {
	Threshold int            `json:"threshold"`
	Items     []LowStockItem `json:"items"`
	Date      time.Time      `json:"date"`
}

func (e LowStockEvent) Subject() string {
	return messaging.StockLowSubject
}

func (e LowStockEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
