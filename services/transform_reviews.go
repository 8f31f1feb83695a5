package services

import (
	"regexp"
	"strconv"
	"strings"

	"datamart-etl/models"
)

// ratingExtractors is the declarative table of labeled sub-ratings
// embedded in review bodies. Each label is searched case-insensitively
// and independently; an absent label yields the "0" default.
var ratingExtractors = []struct {
	column string
	re     *regexp.Regexp
}{
	{"overall_rating", regexp.MustCompile(`(?i)Overall\s*(\d+(\.\d+)?)`)},
	{"story_rating", regexp.MustCompile(`(?i)Story\s*(\d+(\.\d+)?)`)},
	{"acting_rating", regexp.MustCompile(`(?i)Acting/Cast\s*(\d+(\.\d+)?)`)},
	{"music_rating", regexp.MustCompile(`(?i)Music\s*(\d+(\.\d+)?)`)},
	{"rewatch_value", regexp.MustCompile(`(?i)Rewatch Value\s*(\d+(\.\d+)?)`)},
}

// ratingSplitRegexp matches any label+number pattern; the residual review
// text is whatever trails the last match.
var ratingSplitRegexp = regexp.MustCompile(
	`(?i)Overall\s*\d+(\.\d+)?|Story\s*\d+(\.\d+)?|Acting/Cast\s*\d+(\.\d+)?|Music\s*\d+(\.\d+)?|Rewatch Value\s*\d+(\.\d+)?`)

// TransformReviews coerces review_date to a timestamp (unparseable stays
// missing, no fill) and replaces the free-text review_body with the five
// extracted numeric sub-ratings plus the residual "reviews" text.
func (t *Transformer) TransformReviews(tbl models.Table) models.Table {
	out := tbl.Clone()

	if idx := out.ColumnIndex("review_date"); idx != -1 {
		for _, row := range out.Rows {
			ts, ok := parseTimestamp(row[idx])
			if !ok {
				row[idx] = ""
				continue
			}
			row[idx] = ts.Format(timeLayout)
		}
	}

	bodyIdx := out.ColumnIndex("review_body")
	bodies := make([]string, len(out.Rows))
	if bodyIdx != -1 {
		for i, row := range out.Rows {
			bodies[i] = row[bodyIdx]
		}
	}

	for _, ex := range ratingExtractors {
		values := make([]string, len(bodies))
		for i, body := range bodies {
			values[i] = extractRating(ex.re, body)
		}
		if idx := out.ColumnIndex(ex.column); idx != -1 {
			// overall_rating already exists on the scraped record; the
			// parsed value replaces it.
			for r, row := range out.Rows {
				row[idx] = values[r]
			}
			continue
		}
		out = out.AddColumn(ex.column, values)
	}

	residuals := make([]string, len(bodies))
	for i, body := range bodies {
		residuals[i] = residualReview(body)
	}
	out = out.AddColumn("reviews", residuals)

	out = out.DropColumn("review_body")

	t.logger.Info("[transform] reviews: extracted sub-ratings for %d rows", out.NumRows())
	return out
}

// extractRating returns the captured number for one label, coerced to a
// float rendering, or "0" when the label is absent or unparseable.
func extractRating(re *regexp.Regexp, body string) string {
	m := re.FindStringSubmatch(body)
	if len(m) < 2 {
		return "0"
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "0"
	}
	return formatFloat(v)
}

// residualReview returns the free text trailing the last label+number
// pattern, trimmed. A body with no labels is returned whole.
func residualReview(body string) string {
	parts := ratingSplitRegexp.Split(body, -1)
	return strings.TrimSpace(parts[len(parts)-1])
}
