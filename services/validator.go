package services

import (
	"strconv"
	"strings"

	"datamart-etl/models"
	"datamart-etl/utils"
)

// Validator emits per-table data quality diagnostics: shape, inferred
// column types, and per-column missing-value percentages. It is a pure
// pass-through — no record is filtered, rejected, or corrected.
type Validator struct {
	logger *utils.Logger
}

// NewValidator creates a Validator with the given logger.
func NewValidator(logger *utils.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate reports diagnostics for one table and returns it unchanged.
func (v *Validator) Validate(name string, tbl models.Table) models.Table {
	v.logger.Info("[validate] %s: shape %d rows x %d columns", name, tbl.NumRows(), tbl.NumColumns())

	for i, col := range tbl.Columns {
		v.logger.Info("[validate] %s: column %q type=%s", name, col, inferColumnType(tbl, i))
	}

	for i, col := range tbl.Columns {
		v.logger.Info("[validate] %s: column %q missing=%.1f%%", name, col, v.MissingPercentage(tbl, i))
	}

	return tbl
}

// MissingPercentage returns 100*missing/total for one column. An empty
// table reports 0 rather than dividing by zero.
func (v *Validator) MissingPercentage(tbl models.Table, col int) float64 {
	if tbl.NumRows() == 0 {
		return 0
	}
	missing := 0
	for _, row := range tbl.Rows {
		if row[col] == "" {
			missing++
		}
	}
	return float64(missing) * 100 / float64(tbl.NumRows())
}

// inferColumnType reports the narrowest type that fits every non-missing
// cell of the column: integer, float, boolean, timestamp, or text.
// A column with no non-missing cells is text.
func inferColumnType(tbl models.Table, col int) string {
	isInt, isFloat, isBool, isTime := true, true, true, true
	seen := false

	for _, row := range tbl.Rows {
		cell := row[col]
		if cell == "" {
			continue
		}
		seen = true

		if isInt {
			if _, err := strconv.Atoi(cell); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
		if isBool && !isBoolToken(cell) {
			isBool = false
		}
		if isTime {
			if _, ok := parseTimestamp(cell); !ok {
				isTime = false
			}
		}

		if !isInt && !isFloat && !isBool && !isTime {
			return "text"
		}
	}

	switch {
	case !seen:
		return "text"
	case isInt:
		return "integer"
	case isFloat:
		return "float"
	case isBool:
		return "boolean"
	case isTime:
		return "timestamp"
	default:
		return "text"
	}
}

func isBoolToken(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}
