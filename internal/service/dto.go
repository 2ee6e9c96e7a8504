package service

import (
	"time"

	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/shopspring/decimal"
)

// ProductDto represents the data transfer object for a product.
// LowStock flags quantities under DashboardThreshold.
type ProductDto struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	LowStock    bool            `json:"lowStock"`
}

// ProductCreateDto represents the data transfer object for creating or editing a product.
type ProductCreateDto struct {
	Name        string          `json:"name"        validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Category    string          `json:"category"    validate:"required,oneof=Food Beverage Dessert Other"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Quantity    int             `json:"quantity"    validate:"min=0,max=1000000000"`
}

// CustomerDto represents the data transfer object for a customer.
type CustomerDto struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CustomerCreateDto represents the data transfer object for creating or editing a customer.
type CustomerCreateDto struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"omitempty,email,max=100"`
	Phone   string `json:"phone"   validate:"max=30"`
	Address string `json:"address" validate:"max=200"`
}

// TransactionDto represents a stock transaction.
type TransactionDto struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Date        time.Time `json:"date"`
}

// StockAdjustmentDto is the request to add or deduct stock.
type StockAdjustmentDto struct {
	ProductID string `json:"productId" validate:"required"`
	Type      string `json:"type"      validate:"required,oneof=add deduct"`
	Quantity  int    `json:"quantity"  validate:"required,gt=0,max=1000000000"`
}

// StockResult is the outcome of a stock adjustment.
// LowStockAlert is set when any product is under AlertThreshold after the adjustment.
type StockResult struct {
	Product       ProductDto     `json:"product"`
	Transaction   TransactionDto `json:"transaction"`
	LowStockAlert bool           `json:"lowStockAlert"`
	LowStock      []ProductDto   `json:"lowStock"`
}

// SaleDto represents a recorded sale.
type SaleDto struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Quantity     int       `json:"quantity"`
	TotalPrice   string    `json:"totalPrice"`
	Date         time.Time `json:"date"`
}

// SaleCreateDto is the request to record a sale.
type SaleCreateDto struct {
	ProductID  string `json:"productId"  validate:"required"`
	CustomerID string `json:"customerId" validate:"required"`
	Quantity   int    `json:"quantity"   validate:"required,gt=0,max=1000000000"`
}

// QuoteDto is the price of a prospective sale.
type QuoteDto struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Total     string `json:"total"`
	Display   string `json:"display"`
	Available int    `json:"available"`
}

func toProductDto(p store.Product) ProductDto {
	return ProductDto{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Price:       p.Price,
		Quantity:    p.Quantity,
		LowStock:    p.Quantity < DashboardThreshold,
	}
}

func toProductDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i, p := range products {
		dtos[i] = toProductDto(p)
	}
	return dtos
}

func toCustomerDto(c store.Customer) CustomerDto {
	return CustomerDto{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address}
}

func toTransactionDto(t store.StockTransaction) TransactionDto {
	return TransactionDto{
		ID:          t.ID,
		ProductID:   t.ProductID,
		ProductName: t.ProductName,
		Type:        string(t.Type),
		Quantity:    t.Quantity,
		Date:        t.Date,
	}
}

func toSaleDto(s store.Sale) SaleDto {
	return SaleDto{
		ID:           s.ID,
		ProductID:    s.ProductID,
		ProductName:  s.ProductName,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		Quantity:     s.Quantity,
		TotalPrice:   s.TotalPrice,
		Date:         s.Date,
	}
}
