package http

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"grocerydash/internal/core"
)

// formatDollars formats cents as a dollar string (e.g. "$12.34").
func formatDollars(cents int64) string {
	return core.Money{Cents: cents}.String()
}

// formatDollarsFloat formats a dollar amount already rounded to two
// decimals, guarding against float representation drift.
func formatDollarsFloat(dollars float64) string {
	return formatDollars(int64(math.Round(dollars * 100)))
}

// formatPercent renders a share with one decimal place ("28.5%").
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// formatQuantity renders a quantity without trailing zeros ("2", "1.5").
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	return "req_" + uuid.NewString()
}

// searchCacheKey scopes a cached search result to one snapshot, so a
// new upload can never serve stale results.
func searchCacheKey(snapshotID, term string) string {
	return snapshotID + "|" + strings.ToLower(strings.TrimSpace(term))
}
