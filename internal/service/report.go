package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	apperrors "github.com/abgdnv/wingscafe/internal/errors"
	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/shopspring/decimal"
)

// ReportKind names an exportable report.
type ReportKind string

const (
	InventoryReportKind ReportKind = "inventory"
	SalesReportKind     ReportKind = "sales"
	CustomerReportKind  ReportKind = "customers"
)

// ParseReportKind returns ErrUnknownReport for anything but the three report kinds.
func ParseReportKind(s string) (ReportKind, error) {
	switch k := ReportKind(s); k {
	case InventoryReportKind, SalesReportKind, CustomerReportKind:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, apperrors.ErrUnknownReport)
}

// Period bounds the sales report. It filters only when both ends are set;
// To includes the whole day.
type Period struct {
	From *time.Time
	To   *time.Time
}

// contains reports whether t falls within the period. To counts up to the end of
// its day, not midnight at its start as the old reports screen did, so sales made
// on the last day of the range are included.
func (p Period) contains(t time.Time) bool {
	if p.From == nil || p.To == nil {
		return true
	}
	end := p.To.AddDate(0, 0, 1)
	return !t.Before(*p.From) && t.Before(end)
}

// Table is a report that can be exported row by row.
type Table interface {
	Header() []string
	Rows() [][]string
}

// Dashboard holds the headline counts of the overview screen.
type Dashboard struct {
	TotalProducts  int `json:"totalProducts"`
	LowStockItems  int `json:"lowStockItems"`
	TotalSales     int `json:"totalSales"`
	TotalCustomers int `json:"totalCustomers"`
}

// InventoryRow is one product line of the inventory report.
type InventoryRow struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status"`
}

// InventorySummary totals the inventory report.
type InventorySummary struct {
	TotalProducts       int    `json:"totalProducts"`
	LowStockCount       int    `json:"lowStockCount"`
	TotalInventoryValue string `json:"totalInventoryValue"`
}

// InventoryReport lists every product with its stock status.
type InventoryReport struct {
	Items   []InventoryRow   `json:"rows"`
	Summary InventorySummary `json:"summary"`
}

// SalesRow is one sale line of the sales report.
type SalesRow struct {
	Date     string `json:"date"`
	Product  string `json:"product"`
	Customer string `json:"customer"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// SalesSummary totals the sales report.
type SalesSummary struct {
	TotalSales      int    `json:"totalSales"`
	TotalSalesValue string `json:"totalSalesValue"`
	TotalItemsSold  int    `json:"totalItemsSold"`
}

// SalesReport lists the sales within a Period.
type SalesReport struct {
	Items   []SalesRow   `json:"rows"`
	Summary SalesSummary `json:"summary"`
}

// CustomerRow is one line of the customer report.
type CustomerRow struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CustomerSummary totals the customer report.
type CustomerSummary struct {
	TotalCustomers int `json:"totalCustomers"`
}

// CustomerReport lists every customer.
type CustomerReport struct {
	Items   []CustomerRow   `json:"rows"`
	Summary CustomerSummary `json:"summary"`
}

const (
	statusLowStock = "Low Stock"
	statusInStock  = "In Stock"
)

// Header returns the CSV column names.
func (r *InventoryReport) Header() []string {
	return []string{"name", "category", "quantity", "price", "status"}
}

// Rows returns one CSV record per product, prices fixed to two decimals.
func (r *InventoryReport) Rows() [][]string {
	rows := make([][]string, len(r.Items))
	for i, row := range r.Items {
		rows[i] = []string{row.Name, row.Category, strconv.Itoa(row.Quantity), row.Price.StringFixed(2), row.Status}
	}
	return rows
}

// Header returns the CSV column names.
func (r *SalesReport) Header() []string {
	return []string{"date", "product", "customer", "quantity", "total"}
}

// Rows returns one CSV record per sale.
func (r *SalesReport) Rows() [][]string {
	rows := make([][]string, len(r.Items))
	for i, row := range r.Items {
		rows[i] = []string{row.Date, row.Product, row.Customer, strconv.Itoa(row.Quantity), row.Total}
	}
	return rows
}

// Header returns the CSV column names.
func (r *CustomerReport) Header() []string {
	return []string{"name", "email", "phone", "address"}
}

// Rows returns one CSV record per customer.
func (r *CustomerReport) Rows() [][]string {
	rows := make([][]string, len(r.Items))
	for i, row := range r.Items {
		rows[i] = []string{row.Name, row.Email, row.Phone, row.Address}
	}
	return rows
}

// ReportService derives read-only views of the collections.
type ReportService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Inventory(ctx context.Context) (*InventoryReport, error)
	Sales(ctx context.Context, period Period) (*SalesReport, error)
	Customers(ctx context.Context) (*CustomerReport, error)

	// Table returns the report of the given kind in exportable form.
	Table(ctx context.Context, kind ReportKind, period Period) (Table, error)
}

// Reports implements ReportService.
type Reports struct {
	store store.RecordStore
}

// NewReportService creates a ReportService reading from st.
func NewReportService(st store.RecordStore) *Reports {
	return &Reports{store: st}
}

func (s *Reports) Dashboard(ctx context.Context) (*Dashboard, error) {
	products, err := store.LoadRecords[store.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	sales, err := store.LoadRecords[store.Sale](ctx, s.store, store.Sales)
	if err != nil {
		return nil, err
	}
	customers, err := store.LoadRecords[store.Customer](ctx, s.store, store.Customers)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		TotalProducts:  len(products),
		LowStockItems:  len(ComputeLowStock(products, DashboardThreshold)),
		TotalSales:     len(sales),
		TotalCustomers: len(customers),
	}, nil
}

func (s *Reports) Inventory(ctx context.Context) (*InventoryReport, error) {
	products, err := store.LoadRecords[store.Product](ctx, s.store, store.Products)
	if err != nil {
		return nil, err
	}
	report := &InventoryReport{Items: make([]InventoryRow, len(products))}
	value := decimal.Zero
	for i, p := range products {
		status := statusInStock
		if p.Quantity < AlertThreshold {
			status = statusLowStock
			report.Summary.LowStockCount++
		}
		report.Items[i] = InventoryRow{Name: p.Name, Category: string(p.Category), Quantity: p.Quantity, Price: p.Price, Status: status}
		value = value.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	report.Summary.TotalProducts = len(products)
	report.Summary.TotalInventoryValue = value.StringFixed(2)
	return report, nil
}

func (s *Reports) Sales(ctx context.Context, period Period) (*SalesReport, error) {
	sales, err := store.LoadRecords[store.Sale](ctx, s.store, store.Sales)
	if err != nil {
		return nil, err
	}
	report := &SalesReport{Items: make([]SalesRow, 0, len(sales))}
	value := decimal.Zero
	for _, sale := range sales {
		if !period.contains(sale.Date) {
			continue
		}
		report.Items = append(report.Items, SalesRow{
			Date:     sale.Date.Format(time.DateOnly),
			Product:  sale.ProductName,
			Customer: sale.CustomerName,
			Quantity: sale.Quantity,
			Total:    sale.TotalPrice,
		})
		// a malformed stored total counts as zero
		if total, err := decimal.NewFromString(sale.TotalPrice); err == nil {
			value = value.Add(total)
		}
		report.Summary.TotalItemsSold += sale.Quantity
	}
	report.Summary.TotalSales = len(report.Items)
	report.Summary.TotalSalesValue = value.StringFixed(2)
	return report, nil
}

func (s *Reports) Customers(ctx context.Context) (*CustomerReport, error) {
	customers, err := store.LoadRecords[store.Customer](ctx, s.store, store.Customers)
	if err != nil {
		return nil, err
	}
	report := &CustomerReport{Items: make([]CustomerRow, len(customers))}
	for i, c := range customers {
		report.Items[i] = CustomerRow{Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address}
	}
	report.Summary.TotalCustomers = len(customers)
	return report, nil
}

func (s *Reports) Table(ctx context.Context, kind ReportKind, period Period) (Table, error) {
	var (
		table Table
		err   error
	)
	switch kind {
	case InventoryReportKind:
		table, err = s.Inventory(ctx)
	case SalesReportKind:
		table, err = s.Sales(ctx, period)
	case CustomerReportKind:
		table, err = s.Customers(ctx)
	default:
		return nil, fmt.Errorf("%q: %w", string(kind), apperrors.ErrUnknownReport)
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ExportCSV writes the header and rows of t as CSV. A report without rows is ErrNoData.
func ExportCSV(w io.Writer, t Table) error {
	rows := t.Rows()
	if len(rows) == 0 {
		return apperrors.ErrNoData
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}
