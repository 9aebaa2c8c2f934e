package validation

import (
	"math"
	"net/url"
	"strings"

	"golang.org/x/text/currency"
)

// IsValidAmount reports whether v is a finite positive money amount with at
// most two decimals worth of precision.
func IsValidAmount(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return false
	}
	return math.Round(v*100) >= 1
}

// NormalizeCurrency upper-cases an ISO 4217 code and reports whether it is known.
func NormalizeCurrency(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", false
	}
	return unit.String(), true
}

// IsAbsoluteURL accepts http(s) URLs with a host.
func IsAbsoluteURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
