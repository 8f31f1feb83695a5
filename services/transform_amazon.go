package services

import (
	"strconv"
	"strings"

	"datamart-etl/models"
)

const (
	// indexColumn is the spurious row-number column some Amazon exports
	// carry. It is dropped when present; its absence is not an error.
	indexColumn = "Unnamed: 0"

	currencySymbol = "₹"
)

// notRatedTokens are literal ratings values that mean "no rating".
var notRatedTokens = map[string]struct{}{
	"Get":  {},
	"FREE": {},
}

// TransformAmazon normalizes the Amazon sales table: the ratings and
// price columns become floats, the ratings count becomes an integer, and
// the spurious index column is removed. Every record survives — a value
// that cannot be coerced collapses to 0 rather than dropping the row.
func (t *Transformer) TransformAmazon(tbl models.Table) models.Table {
	out := tbl.Clone().DropColumn(indexColumn)

	ratings := out.ColumnIndex("ratings")
	count := out.ColumnIndex("no_of_ratings")
	discount := out.ColumnIndex("discount_price")
	actual := out.ColumnIndex("actual_price")

	for _, row := range out.Rows {
		if ratings != -1 {
			row[ratings] = coerceRating(row[ratings])
		}
		if count != -1 {
			row[count] = coerceCount(row[count])
		}
		if discount != -1 {
			row[discount] = coerceMoney(row[discount])
		}
		if actual != -1 {
			row[actual] = coerceMoney(row[actual])
		}
	}

	t.logger.Info("[transform] amazon: coerced %d rows, %d columns", out.NumRows(), out.NumColumns())
	return out
}

// coerceRating maps "Get"/"FREE" to missing, strips the currency symbol
// and thousands separators, and parses the remainder as a float.
// Missing or unparseable values become 0.
func coerceRating(raw string) string {
	s := strings.TrimSpace(raw)
	if _, notRated := notRatedTokens[s]; notRated {
		return "0"
	}
	return coerceMoney(s)
}

// coerceMoney strips the currency symbol and thousands separators and
// parses the remainder as a float, defaulting to 0.
func coerceMoney(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, currencySymbol, "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return "0"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "0"
	}
	return formatFloat(v)
}

// coerceCount strips thousands separators and parses an integer,
// defaulting to 0.
func coerceCount(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return "0"
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Counts occasionally arrive as "1,234.0"; fall back to a float
		// parse before giving up.
		v, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return "0"
		}
		n = int(v)
	}
	return strconv.Itoa(n)
}
