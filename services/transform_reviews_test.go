package services

import (
	"testing"

	"datamart-etl/models"
)

func rawReviewTable() models.Table {
	return models.NewTable(
		"reviewer", "profile_link", "review_date", "helpful_count", "overall_rating", "review_body",
	)
}

func TestTransformReviewsExtractsSubRatings(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tbl := rawReviewTable()
	tbl.AppendRow([]string{"kdramafan", "/profile/1", "Dec 27, 2016", "152", "9.0",
		"Overall 8.5 Story 9 great show"})

	out := tr.TransformReviews(tbl)

	tests := []struct {
		column string
		want   string
	}{
		{"overall_rating", "8.5"}, // parsed value replaces the scraped score
		{"story_rating", "9"},
		{"acting_rating", "0"},
		{"music_rating", "0"},
		{"rewatch_value", "0"},
		{"reviews", "great show"},
		{"review_date", "2016-12-27 00:00:00"},
	}

	for _, tt := range tests {
		idx := out.ColumnIndex(tt.column)
		if idx == -1 {
			t.Fatalf("missing column %q in output", tt.column)
		}
		if got := out.Rows[0][idx]; got != tt.want {
			t.Errorf("%s = %q; want %q", tt.column, got, tt.want)
		}
	}

	if out.ColumnIndex("review_body") != -1 {
		t.Error("review_body should be dropped from the output")
	}
}

func TestTransformReviewsFullLabelSet(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tbl := rawReviewTable()
	tbl.AppendRow([]string{"viewer", "/profile/2", "No Date", "3", "10",
		"Overall 10 Story 9.5 Acting/Cast 10 Music 8.0 Rewatch Value 7 Loved every minute of it."})

	out := tr.TransformReviews(tbl)

	tests := []struct {
		column string
		want   string
	}{
		{"overall_rating", "10"},
		{"story_rating", "9.5"},
		{"acting_rating", "10"},
		{"music_rating", "8"},
		{"rewatch_value", "7"},
		{"reviews", "Loved every minute of it."},
	}
	for _, tt := range tests {
		if got := out.Rows[0][out.ColumnIndex(tt.column)]; got != tt.want {
			t.Errorf("%s = %q; want %q", tt.column, got, tt.want)
		}
	}

	// "No Date" cannot be coerced and stays missing — no fill.
	if got := out.Rows[0][out.ColumnIndex("review_date")]; got != "" {
		t.Errorf("unparseable review_date should stay missing, got %q", got)
	}
}

func TestTransformReviewsNoLabels(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	body := "Just a plain opinion with no ratings at all."
	tbl := rawReviewTable()
	tbl.AppendRow([]string{"viewer", "/profile/3", "Jan 3, 2017", "0", "0", body})

	out := tr.TransformReviews(tbl)

	if got := out.Rows[0][out.ColumnIndex("reviews")]; got != body {
		t.Errorf("reviews = %q; want the whole body", got)
	}
	for _, column := range []string{"overall_rating", "story_rating", "acting_rating", "music_rating", "rewatch_value"} {
		if got := out.Rows[0][out.ColumnIndex(column)]; got != "0" {
			t.Errorf("%s = %q; want 0", column, got)
		}
	}
}

func TestTransformReviewsCaseInsensitiveLabels(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tbl := rawReviewTable()
	tbl.AppendRow([]string{"viewer", "/profile/4", "No Date", "1", "8",
		"overall 7.5 STORY 8 rewatch value 6.5 solid drama"})

	out := tr.TransformReviews(tbl)

	tests := []struct {
		column string
		want   string
	}{
		{"overall_rating", "7.5"},
		{"story_rating", "8"},
		{"rewatch_value", "6.5"},
		{"reviews", "solid drama"},
	}
	for _, tt := range tests {
		if got := out.Rows[0][out.ColumnIndex(tt.column)]; got != tt.want {
			t.Errorf("%s = %q; want %q", tt.column, got, tt.want)
		}
	}
}

func TestResidualReview(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"Overall 8.5 Story 9 great show", "great show"},
		{"no labels here", "no labels here"},
		{"Overall 10", ""},
		{"  padded   ", "padded"},
	}

	for _, tt := range tests {
		if got := residualReview(tt.body); got != tt.want {
			t.Errorf("residualReview(%q) = %q; want %q", tt.body, got, tt.want)
		}
	}
}
