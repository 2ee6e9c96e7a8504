package service

import (
	"strconv"
	"strings"

	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/shopspring/decimal"
)

// Low-stock thresholds. Alerts and the inventory report status use AlertThreshold,
// the dashboard and the product list use DashboardThreshold. The two values differ
// in the screens this service replaces and are kept apart on purpose.
const (
	AlertThreshold     = 10
	DashboardThreshold = 20
)

// CurrencySymbol prefixes formatted amounts (Lesotho loti).
const CurrencySymbol = "M"

// IsValidQuantityInput reports whether value is a base-10 integer greater than zero.
// Surrounding whitespace is ignored.
func IsValidQuantityInput(value string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	return err == nil && n > 0
}

// ComputeLowStock returns the products whose quantity is below threshold, in input order.
func ComputeLowStock(products []store.Product, threshold int) []store.Product {
	low := make([]store.Product, 0)
	for _, p := range products {
		if p.Quantity < threshold {
			low = append(low, p)
		}
	}
	return low
}

// FormatCurrency renders amount with the currency symbol and two decimals, e.g. M80.00.
func FormatCurrency(amount decimal.Decimal) string {
	return CurrencySymbol + amount.StringFixed(2)
}

// ComputeTotal returns price × quantity rounded to two decimal places.
func ComputeTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
