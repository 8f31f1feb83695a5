package mydramalist

import (
	"context"
	"errors"
	"testing"

	"datamart-etl/config"
	"datamart-etl/utils"
)

func TestScrapeContinuesPastFailedPage(t *testing.T) {
	cfg := &config.Config{
		ScrapePages: 3,
		ScrapeURL:   "http://reviews.test/listing?page=%d",
	}
	s := New(cfg, utils.NewLogger())
	s.fetchPage = func(_ context.Context, url string) ([]pageReview, error) {
		if url == "http://reviews.test/listing?page=2" {
			return nil, errors.New("navigate: timeout")
		}
		return []pageReview{{Reviewer: "from " + url, ReviewBody: "Overall 9 fine"}}, nil
	}

	tbl, err := s.Scrape()
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	// Page 2 contributes zero records; pages 1 and 3 survive intact.
	if tbl.NumRows() != 2 {
		t.Fatalf("got %d rows; want 2", tbl.NumRows())
	}
	want := []string{
		"from http://reviews.test/listing?page=1",
		"from http://reviews.test/listing?page=3",
	}
	for i, w := range want {
		if got := tbl.Rows[i][0]; got != w {
			t.Errorf("row %d reviewer = %q; want %q", i, got, w)
		}
	}
}

func TestBuildRecordDefaults(t *testing.T) {
	got := buildRecord(pageReview{})

	want := []string{"Unknown", "No Profile Link", "No Date", "0", "0", "No Review Available"}
	if len(got) != len(Columns) {
		t.Fatalf("record has %d fields; want %d", len(got), len(Columns))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("%s = %q; want %q", Columns[i], got[i], w)
		}
	}
}

func TestBuildRecordPassThrough(t *testing.T) {
	got := buildRecord(pageReview{
		Reviewer:      "  kdramafan  ",
		ProfileLink:   "/profile/kdramafan",
		ReviewDate:    "Dec 27, 2016",
		HelpfulCount:  "152",
		OverallRating: "9.0",
		ReviewBody:    "Overall 9 great show",
	})

	want := []string{"kdramafan", "/profile/kdramafan", "Dec 27, 2016", "152", "9.0", "Overall 9 great show"}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("%s = %q; want %q", Columns[i], got[i], w)
		}
	}
}

func TestBuildRecordCollapsesNewlines(t *testing.T) {
	got := buildRecord(pageReview{ReviewBody: "line one\r\nline two\nline three"})

	if body := got[5]; body != "line one line two line three" {
		t.Errorf("body = %q; want newlines collapsed to spaces", body)
	}
}

func TestBuildRecordTruncatedSuffix(t *testing.T) {
	got := buildRecord(pageReview{ReviewBody: "short body", Truncated: true})

	if body := got[5]; body != "short body (Full Review Not Available)" {
		t.Errorf("body = %q; want the truncation marker appended", body)
	}
}

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	if got := findChromeBinary("/custom/chrome"); got != "/custom/chrome" {
		t.Errorf("findChromeBinary = %q; want the configured path", got)
	}
}
