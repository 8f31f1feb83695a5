package models

import "testing"

func TestColumnIndex(t *testing.T) {
	tbl := NewTable("a", "b", "c")

	tests := []struct {
		name string
		want int
	}{
		{"a", 0},
		{"c", 2},
		{"missing", -1},
	}

	for _, tt := range tests {
		if got := tbl.ColumnIndex(tt.name); got != tt.want {
			t.Errorf("ColumnIndex(%q) = %d; want %d", tt.name, got, tt.want)
		}
	}
}

func TestAppendRowPadsShortRows(t *testing.T) {
	tbl := NewTable("a", "b", "c")
	tbl.AppendRow([]string{"1"})

	if got := len(tbl.Rows[0]); got != 3 {
		t.Fatalf("expected padded row of 3 cells, got %d", got)
	}
	if tbl.Rows[0][1] != "" || tbl.Rows[0][2] != "" {
		t.Errorf("expected missing cells after padding, got %v", tbl.Rows[0])
	}
}

func TestCloneIsDeep(t *testing.T) {
	tbl := NewTable("a")
	tbl.AppendRow([]string{"original"})

	clone := tbl.Clone()
	clone.Rows[0][0] = "changed"
	clone.Columns[0] = "renamed"

	if tbl.Rows[0][0] != "original" {
		t.Errorf("mutating clone changed the source row: %q", tbl.Rows[0][0])
	}
	if tbl.Columns[0] != "a" {
		t.Errorf("mutating clone changed the source columns: %q", tbl.Columns[0])
	}
}

func TestDropColumn(t *testing.T) {
	tbl := NewTable("a", "b", "c")
	tbl.AppendRow([]string{"1", "2", "3"})

	out := tbl.DropColumn("b")
	if out.NumColumns() != 2 {
		t.Fatalf("expected 2 columns after drop, got %d", out.NumColumns())
	}
	if out.Columns[0] != "a" || out.Columns[1] != "c" {
		t.Errorf("unexpected columns after drop: %v", out.Columns)
	}
	if out.Rows[0][0] != "1" || out.Rows[0][1] != "3" {
		t.Errorf("unexpected row after drop: %v", out.Rows[0])
	}

	same := tbl.DropColumn("nope")
	if same.NumColumns() != 3 {
		t.Errorf("dropping an absent column should be a no-op, got %d columns", same.NumColumns())
	}
}

func TestAddColumn(t *testing.T) {
	tbl := NewTable("a")
	tbl.AppendRow([]string{"1"})
	tbl.AppendRow([]string{"2"})

	out := tbl.AddColumn("b", []string{"x"})
	if out.Columns[1] != "b" {
		t.Fatalf("unexpected columns: %v", out.Columns)
	}
	if out.Rows[0][1] != "x" {
		t.Errorf("row 0 value = %q; want %q", out.Rows[0][1], "x")
	}
	if out.Rows[1][1] != "" {
		t.Errorf("row 1 should pad with missing, got %q", out.Rows[1][1])
	}
}
