package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/wingscafe/internal/service"
	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/abgdnv/wingscafe/pkg/messaging"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

// failingStore fails every operation.
type failingStore struct{}

var errBackend = errors.New("connection refused")

func (failingStore) Load(context.Context, store.Collection) ([]byte, error) { return nil, errBackend }
func (failingStore) Save(context.Context, store.Collection, []byte) error   { return errBackend }
func (failingStore) Update(context.Context, []store.Collection, func(store.Snapshot) (store.Snapshot, error)) error {
	return errBackend
}

func newTestRouter(t *testing.T, st store.RecordStore) *chi.Mux {
	t.Helper()
	n := 0
	opts := []service.Option{
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(Services{
		Products:  service.NewProductService(st, opts...),
		Customers: service.NewCustomerService(st, opts...),
		Inventory: service.NewInventory(st, messaging.NopPublisher{}, opts...),
		Sales:     service.NewSales(st, messaging.NopPublisher{}, opts...),
		Reports:   service.NewReportService(st),
	}, logger)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func seededStore(t *testing.T) store.RecordStore {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SaveRecords(ctx, st, store.Products, []store.Product{
		{ID: "p1", Name: "Burger", Category: store.CategoryFood, Price: decimal.RequireFromString("10.00"), Quantity: 5},
		{ID: "p2", Name: "Coke", Category: store.CategoryBeverage, Price: decimal.RequireFromString("1.50"), Quantity: 30},
	}))
	require.NoError(t, store.SaveRecords(ctx, st, store.Customers, []store.Customer{{ID: "c1", Name: "Thabo"}}))
	return st
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func Test_Handler_AdjustStock(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		expectedCode  int
		expectedQty   int
		expectedError string
	}{
		{name: "Success - add", body: `{"productId":"p1","type":"add","quantity":3}`, expectedCode: http.StatusCreated, expectedQty: 8},
		{name: "Error - insufficient stock", body: `{"productId":"p1","type":"deduct","quantity":6}`, expectedCode: http.StatusConflict, expectedQty: 5},
		{name: "Error - unknown product", body: `{"productId":"p9","type":"add","quantity":1}`, expectedCode: http.StatusNotFound, expectedQty: 5},
		{name: "Error - validation", body: `{"productId":"p1","type":"set","quantity":0}`, expectedCode: http.StatusBadRequest, expectedQty: 5},
		{name: "Error - malformed body", body: `{"productId":`, expectedCode: http.StatusBadRequest, expectedQty: 5, expectedError: "Invalid request body"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			st := seededStore(t)
			r := newTestRouter(t, st)
			// when
			rr := do(t, r, http.MethodPost, "/api/v1/stock/adjustments", tc.body)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, rr.Body.String())
			products, err := store.LoadRecords[store.Product](context.Background(), st, store.Products)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedQty, products[0].Quantity)
			if tc.expectedCode == http.StatusCreated {
				result := decode[service.StockResult](t, rr)
				assert.Equal(t, tc.expectedQty, result.Product.Quantity)
				assert.True(t, result.LowStockAlert)
				assert.Equal(t, "id-1", result.Transaction.ID)
			}
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decode[ErrorResponse](t, rr).Error)
			}
		})
	}
}

func Test_Handler_AdjustStock_ValidationErrors(t *testing.T) {
	// given
	r := newTestRouter(t, seededStore(t))
	// when
	rr := do(t, r, http.MethodPost, "/api/v1/stock/adjustments", `{"productId":"p1","type":"set","quantity":0}`)
	// then
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[ValidationErrorResponse](t, rr)
	assert.Equal(t, map[string]string{
		"Type":     "failed on rule: oneof",
		"Quantity": "failed on rule: required",
	}, resp.ValidationErrors)
}

func Test_Handler_RecordSale(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedCode int
		expectedQty  int
	}{
		{name: "Success", body: `{"productId":"p1","customerId":"c1","quantity":5}`, expectedCode: http.StatusCreated, expectedQty: 0},
		{name: "Error - oversell", body: `{"productId":"p1","customerId":"c1","quantity":6}`, expectedCode: http.StatusConflict, expectedQty: 5},
		{name: "Error - unknown customer", body: `{"productId":"p1","customerId":"c9","quantity":1}`, expectedCode: http.StatusNotFound, expectedQty: 5},
		{name: "Error - missing quantity", body: `{"productId":"p1","customerId":"c1"}`, expectedCode: http.StatusBadRequest, expectedQty: 5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			st := seededStore(t)
			r := newTestRouter(t, st)
			// when
			rr := do(t, r, http.MethodPost, "/api/v1/sales", tc.body)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, rr.Body.String())
			products, err := store.LoadRecords[store.Product](context.Background(), st, store.Products)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedQty, products[0].Quantity)
			if tc.expectedCode == http.StatusCreated {
				sale := decode[service.SaleDto](t, rr)
				assert.Equal(t, "50.00", sale.TotalPrice)
				assert.Equal(t, "Thabo", sale.CustomerName)

				list := decode[[]service.SaleDto](t, do(t, r, http.MethodGet, "/api/v1/sales?limit=5", ""))
				assert.Len(t, list, 1)
			}
		})
	}
}

func Test_Handler_QuoteSale(t *testing.T) {
	testCases := []struct {
		name         string
		query        string
		expectedCode int
		expected     string
	}{
		{name: "Success", query: "productId=p1&quantity=3", expectedCode: http.StatusOK, expected: "M30.00"},
		{name: "Error - bad quantity", query: "productId=p1&quantity=2.5", expectedCode: http.StatusBadRequest},
		{name: "Error - missing product", query: "quantity=2", expectedCode: http.StatusBadRequest},
		{name: "Error - unknown product", query: "productId=p9&quantity=2", expectedCode: http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, seededStore(t))
			rr := do(t, r, http.MethodGet, "/api/v1/sales/quote?"+tc.query, "")
			assert.Equal(t, tc.expectedCode, rr.Code, rr.Body.String())
			if tc.expected != "" {
				assert.Equal(t, tc.expected, decode[service.QuoteDto](t, rr).Display)
			}
		})
	}
}

func Test_Handler_Products(t *testing.T) {
	// given
	st := seededStore(t)
	r := newTestRouter(t, st)

	// create
	rr := do(t, r, http.MethodPost, "/api/v1/products", `{"name":"Cake","category":"Dessert","price":"4.25","quantity":12}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[service.ProductDto](t, rr)
	assert.Equal(t, "id-1", created.ID)
	assert.True(t, created.LowStock)

	// invalid price
	rr = do(t, r, http.MethodPost, "/api/v1/products", `{"name":"Cake","category":"Dessert","price":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "failed on rule: min", decode[ValidationErrorResponse](t, rr).ValidationErrors["Price"])

	// list
	list := decode[[]service.ProductDto](t, do(t, r, http.MethodGet, "/api/v1/products", ""))
	assert.Len(t, list, 3)

	// low stock
	alert := decode[[]service.ProductDto](t, do(t, r, http.MethodGet, "/api/v1/products/low-stock?threshold=alert", ""))
	assert.Len(t, alert, 1)
	dashboard := decode[[]service.ProductDto](t, do(t, r, http.MethodGet, "/api/v1/products/low-stock", ""))
	assert.Len(t, dashboard, 2)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/products/low-stock?threshold=other", "").Code)

	// update
	rr = do(t, r, http.MethodPut, "/api/v1/products/p2", `{"name":"Coke Zero","category":"Beverage","price":1.75,"quantity":30}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Coke Zero", decode[service.ProductDto](t, rr).Name)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/api/v1/products/p9", `{"name":"X","category":"Food"}`).Code)

	// get and delete
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/products/p2", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/v1/products/p2", "").Code)
	rr = do(t, r, http.MethodGet, "/api/v1/products/p2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decode[ErrorResponse](t, rr).Error, "product not found")
}

func Test_Handler_Customers(t *testing.T) {
	// given
	r := newTestRouter(t, seededStore(t))

	rr := do(t, r, http.MethodPost, "/api/v1/customers", `{"name":"Lerato","email":"lerato@example.com"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "id-1", decode[service.CustomerDto](t, rr).ID)

	rr = do(t, r, http.MethodPost, "/api/v1/customers", `{"name":"Lerato","email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Len(t, decode[[]service.CustomerDto](t, do(t, r, http.MethodGet, "/api/v1/customers", "")), 2)

	rr = do(t, r, http.MethodPut, "/api/v1/customers/c1", `{"name":"Thabo M."}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Thabo M.", decode[service.CustomerDto](t, rr).Name)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/api/v1/customers/c1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/customers/c1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/api/v1/customers/c1", "").Code)
}

func Test_Handler_RecentTransactions(t *testing.T) {
	// given
	r := newTestRouter(t, seededStore(t))
	for i := 0; i < 12; i++ {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/v1/stock/adjustments", `{"productId":"p2","type":"add","quantity":1}`).Code)
	}
	testCases := []struct {
		name         string
		query        string
		expectedCode int
		expectedLen  int
	}{
		{name: "default limit", query: "", expectedCode: http.StatusOK, expectedLen: 10},
		{name: "explicit limit", query: "?limit=3", expectedCode: http.StatusOK, expectedLen: 3},
		{name: "invalid limit", query: "?limit=0", expectedCode: http.StatusBadRequest},
		{name: "non numeric limit", query: "?limit=abc", expectedCode: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, r, http.MethodGet, "/api/v1/stock/transactions"+tc.query, "")
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedCode == http.StatusOK {
				list := decode[[]service.TransactionDto](t, rr)
				assert.Len(t, list, tc.expectedLen)
				assert.Equal(t, "id-12", list[0].ID)
			}
		})
	}
}

func Test_Handler_Reports(t *testing.T) {
	// given
	st := seededStore(t)
	r := newTestRouter(t, st)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/v1/sales", `{"productId":"p2","customerId":"c1","quantity":4}`).Code)

	// dashboard
	dashboard := decode[service.Dashboard](t, do(t, r, http.MethodGet, "/api/v1/reports/dashboard", ""))
	assert.Equal(t, service.Dashboard{TotalProducts: 2, LowStockItems: 1, TotalSales: 1, TotalCustomers: 1}, dashboard)

	// inventory json
	inventory := decode[service.InventoryReport](t, do(t, r, http.MethodGet, "/api/v1/reports/inventory", ""))
	assert.Equal(t, "89.00", inventory.Summary.TotalInventoryValue)

	// sales filtered by a range that excludes the sale
	sales := decode[service.SalesReport](t, do(t, r, http.MethodGet, "/api/v1/reports/sales?from=2025-01-01&to=2025-01-31", ""))
	assert.Empty(t, sales.Items)

	// sales range including the sale day
	sales = decode[service.SalesReport](t, do(t, r, http.MethodGet, "/api/v1/reports/sales?from=2025-03-01&to=2025-03-01", ""))
	assert.Len(t, sales.Items, 1)
	assert.Equal(t, "6.00", sales.Summary.TotalSalesValue)

	// bad date and unknown type
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/reports/sales?from=03/01/2025&to=2025-03-02", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/reports/orders", "").Code)
}

func Test_Handler_ExportReport(t *testing.T) {
	// given
	r := newTestRouter(t, seededStore(t))
	// when
	rr := do(t, r, http.MethodGet, "/api/v1/reports/inventory/export", "")
	// then
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "inventory_report_")
	assert.Equal(t, "name,category,quantity,price,status\nBurger,Food,5,10.00,Low Stock\nCoke,Beverage,30,1.50,In Stock\n", rr.Body.String())

	// no sales yet
	rr = do(t, r, http.MethodGet, "/api/v1/reports/sales/export", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "no data to export", decode[ErrorResponse](t, rr).Error)
}

func Test_Handler_BackendFailure(t *testing.T) {
	r := newTestRouter(t, failingStore{})
	testCases := []struct {
		method string
		target string
		body   string
	}{
		{method: http.MethodGet, target: "/api/v1/products"},
		{method: http.MethodGet, target: "/api/v1/customers/c1"},
		{method: http.MethodPost, target: "/api/v1/stock/adjustments", body: `{"productId":"p1","type":"add","quantity":1}`},
		{method: http.MethodPost, target: "/api/v1/sales", body: `{"productId":"p1","customerId":"c1","quantity":1}`},
		{method: http.MethodGet, target: "/api/v1/reports/dashboard"},
	}
	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rr := do(t, r, tc.method, tc.target, tc.body)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.True(t, strings.HasPrefix(decode[ErrorResponse](t, rr).Error, "Failed to "))
		})
	}
}

func Test_Handler_QuantityLimits(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "adjustment above limit", method: http.MethodPost, path: "/api/v1/stock/adjustments", body: `{"productId":"p1","type":"add","quantity":1000000001}`},
		{name: "sale above limit", method: http.MethodPost, path: "/api/v1/sales", body: `{"productId":"p1","customerId":"c1","quantity":1000000001}`},
		{name: "product above limit", method: http.MethodPost, path: "/api/v1/products", body: `{"name":"Ribs","category":"Food","price":"10","quantity":1000000001}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			r := newTestRouter(t, seededStore(t))
			// when
			rr := do(t, r, tc.method, tc.path, tc.body)
			// then
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decode[ValidationErrorResponse](t, rr)
			assert.Equal(t, "failed on rule: max", resp.ValidationErrors["Quantity"])
		})
	}
}
