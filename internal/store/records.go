package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a product on the menu.
type Category string

const (
	CategoryFood     Category = "Food"
	CategoryBeverage Category = "Beverage"
	CategoryDessert  Category = "Dessert"
	CategoryOther    Category = "Other"
)

// TransactionType is the direction of a stock adjustment.
type TransactionType string

const (
	TransactionAdd    TransactionType = "add"
	TransactionDeduct TransactionType = "deduct"
)

// Product represents a product record in the products collection.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Customer represents a customer record in the customers collection.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// StockTransaction records a single stock adjustment. Stored newest first.
type StockTransaction struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Type        TransactionType `json:"type"`
	Quantity    int             `json:"quantity"`
	Date        time.Time       `json:"date"`
}

// Sale records a completed sale. TotalPrice is frozen at sale time as a
// two-decimal string. Stored newest first.
type Sale struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Quantity     int       `json:"quantity"`
	TotalPrice   string    `json:"totalPrice"`
	Date         time.Time `json:"date"`
}
