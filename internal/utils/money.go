package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatPrice renders an amount with its currency code for documents.
func FormatPrice(amount float64, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return FormatMoney(amount)
	}
	return currency + " " + FormatMoney(amount)
}

// ParseAmount parses supplier price strings like "550.00" or "1,250.50".
// Returns 0 on anything unparseable; upstream price fields are best-effort.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
