package services

import (
	"testing"

	"datamart-etl/models"
	"datamart-etl/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestCoerceRating(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"4.1", "4.1"},
		{"Get", "0"},
		{"FREE", "0"},
		{"", "0"},
		{"not a number", "0"},
		{"₹3.9", "3.9"},
	}

	for _, tt := range tests {
		if got := coerceRating(tt.raw); got != tt.want {
			t.Errorf("coerceRating(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCoerceMoney(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"₹1,299", "1299"},
		{"₹58,990.50", "58990.5"},
		{"", "0"},
		{"garbage", "0"},
		{"449", "449"},
	}

	for _, tt := range tests {
		if got := coerceMoney(tt.raw); got != tt.want {
			t.Errorf("coerceMoney(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2,255", "2255"},
		{"15", "15"},
		{"", "0"},
		{"n/a", "0"},
		{"1,234.0", "1234"},
	}

	for _, tt := range tests {
		if got := coerceCount(tt.raw); got != tt.want {
			t.Errorf("coerceCount(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestTransformAmazonDropsIndexColumn(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tbl := models.NewTable("Unnamed: 0", "name", "ratings", "no_of_ratings", "discount_price", "actual_price")
	tbl.AppendRow([]string{"0", "Widget", "4.1", "2,255", "₹1,299", "₹2,499"})
	tbl.AppendRow([]string{"1", "Gadget", "Get", "", "", "₹58,990"})

	out := tr.TransformAmazon(tbl)

	if out.ColumnIndex("Unnamed: 0") != -1 {
		t.Error("expected index column to be dropped")
	}
	if out.NumColumns() != 5 {
		t.Errorf("expected 5 columns, got %d", out.NumColumns())
	}

	ratings := out.ColumnIndex("ratings")
	if out.Rows[1][ratings] != "0" {
		t.Errorf("ratings 'Get' should collapse to 0, got %q", out.Rows[1][ratings])
	}
	discount := out.ColumnIndex("discount_price")
	if out.Rows[0][discount] != "1299" {
		t.Errorf("discount_price = %q; want 1299", out.Rows[0][discount])
	}
	if out.Rows[1][discount] != "0" {
		t.Errorf("empty discount_price should collapse to 0, got %q", out.Rows[1][discount])
	}
}

func TestTransformAmazonNeverDropsRows(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tbl := models.NewTable("ratings", "no_of_ratings", "discount_price", "actual_price")
	tbl.AppendRow([]string{"garbage", "garbage", "garbage", "garbage"})
	tbl.AppendRow([]string{"", "", "", ""})

	out := tr.TransformAmazon(tbl)
	if out.NumRows() != 2 {
		t.Fatalf("expected all rows to survive, got %d of 2", out.NumRows())
	}
	for _, row := range out.Rows {
		for i, cell := range row {
			if cell != "0" {
				t.Errorf("column %s: garbage should collapse to 0, got %q", out.Columns[i], cell)
			}
		}
	}
}

func TestTransformAmazonIdempotent(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tbl := models.NewTable("ratings", "no_of_ratings", "discount_price", "actual_price")
	tbl.AppendRow([]string{"₹4.3", "1,023", "₹999.99", "₹1,999"})

	once := tr.TransformAmazon(tbl)
	twice := tr.TransformAmazon(once)

	for i := range once.Rows[0] {
		if once.Rows[0][i] != twice.Rows[0][i] {
			t.Errorf("column %s not idempotent: %q != %q",
				once.Columns[i], once.Rows[0][i], twice.Rows[0][i])
		}
	}
}

func TestTransformAmazonMissingColumns(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	// A narrower query result must not panic or error.
	tbl := models.NewTable("name", "ratings")
	tbl.AppendRow([]string{"Widget", "4.5"})

	out := tr.TransformAmazon(tbl)
	if out.NumRows() != 1 {
		t.Fatalf("expected 1 row, got %d", out.NumRows())
	}
}
