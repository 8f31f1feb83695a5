package services

import (
	"strconv"
	"strings"
	"time"

	"datamart-etl/utils"
)

// timeLayout is the canonical rendering for every coerced timestamp.
const timeLayout = "2006-01-02 15:04:05"

// timeParseLayouts are the accepted input formats, tried in order.
var timeParseLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
}

// Transformer applies the per-source cleaning and normalization rules.
// No transform ever returns an error: every coercion failure resolves to
// a documented default value instead.
type Transformer struct {
	logger *utils.Logger
}

// NewTransformer creates a Transformer with the given logger.
func NewTransformer(logger *utils.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// parseTimestamp coerces a free-text date into a calendar timestamp.
// The boolean result is false when no accepted layout matches.
func parseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeParseLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// formatFloat renders a float the shortest exact way, so re-running a
// transform over already-coerced values is a no-op.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// backwardFill replaces missing values with the next non-missing value
// later in record order. Trailing missing values stay missing.
func backwardFill(values []string) []string {
	next := ""
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] == "" {
			values[i] = next
		} else {
			next = values[i]
		}
	}
	return values
}
