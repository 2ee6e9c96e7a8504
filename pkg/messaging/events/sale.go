package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/wingscafe/pkg/messaging"
)

// SaleRecordedEvent is published after a sale has been committed.
type SaleRecordedEvent struct {
	SaleID       string    `json:"sale_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Quantity     int       `json:"quantity"`
	TotalPrice   string    `json:"total_price"`
	Date         time.Time `json:"date"`
}

func (e SaleRecordedEvent) Subject() string {
	return messaging.SaleRecordedSubject
}

func (e SaleRecordedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
