package mydramalist

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"datamart-etl/config"
	"datamart-etl/models"
	"datamart-etl/utils"
)

// Columns is the raw review record shape, in scrape order.
var Columns = []string{
	"reviewer", "profile_link", "review_date", "helpful_count", "overall_rating", "review_body",
}

// Defaults used when a review element is missing a field.
const (
	defaultReviewer    = "Unknown"
	defaultProfileLink = "No Profile Link"
	defaultDate        = "No Date"
	defaultCount       = "0"
	defaultScore       = "0"
	defaultBody        = "No Review Available"

	// truncatedSuffix marks bodies cut short by a "read more" link; the
	// full text is deliberately not fetched.
	truncatedSuffix = " (Full Review Not Available)"
)

// pageReview is the field set extracted from one review element before
// defaults are applied.
type pageReview struct {
	Reviewer      string `json:"reviewer"`
	ProfileLink   string `json:"profileLink"`
	ReviewDate    string `json:"reviewDate"`
	HelpfulCount  string `json:"helpfulCount"`
	OverallRating string `json:"overallRating"`
	ReviewBody    string `json:"reviewBody"`
	Truncated     bool   `json:"truncated"`
}

// Scraper collects drama reviews from the paginated listing.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger

	// fetchPage loads one listing page. Defaults to the chromedp
	// implementation; tests swap it out.
	fetchPage func(ctx context.Context, url string) ([]pageReview, error)
}

// New creates a ready-to-use review Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	s := &Scraper{cfg: cfg, logger: logger}
	s.fetchPage = s.scrapePage
	return s
}

// Scrape fetches every page in [1, ScrapePages] sequentially, one
// blocking request per page. A failed page logs a warning and yields
// zero records for that page; the scrape carries on — lenient and
// retry-free, so one bad page never aborts the run.
func (s *Scraper) Scrape() (models.Table, error) {
	s.logger.Info("[mydramalist] Starting scrape — %d pages", s.cfg.ScrapePages)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()
	allocCtx = silentCtx

	tbl := models.NewTable(Columns...)

	for page := 1; page <= s.cfg.ScrapePages; page++ {
		url := fmt.Sprintf(s.cfg.ScrapeURL, page)

		reviews, err := s.fetchPage(allocCtx, url)
		if err != nil {
			s.logger.Warn("[mydramalist] Page %d failed: %v — continuing with 0 records", page, err)
			continue
		}

		for _, r := range reviews {
			tbl.AppendRow(buildRecord(r))
		}
		s.logger.Debug("[mydramalist] Page %d done — %d reviews, %d total", page, len(reviews), tbl.NumRows())
	}

	s.logger.Info("[mydramalist] Scrape complete — total raw reviews: %d", tbl.NumRows())
	return tbl, nil
}

// scrapePage loads one listing page and extracts its review elements.
func (s *Scraper) scrapePage(allocCtx context.Context, url string) ([]pageReview, error) {
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
	defer cancelTimeout()

	var reviews []pageReview

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(3*time.Second),

		chromedp.Evaluate(`
			(function() {
				var results = [];
				var reviews = document.querySelectorAll('div.review');
				for (var i = 0; i < reviews.length; i++) {
					var r = reviews[i];
					var author = r.querySelector('a.text-primary');
					var date   = r.querySelector('small.datetime');
					var stats  = r.querySelector('div.user-stats b');
					var score  = r.querySelector('span.score');
					var body   = r.querySelector('div.review-body');

					results.push({
						reviewer:      author ? author.innerText.trim() : '',
						profileLink:   author ? (author.getAttribute('href') || '') : '',
						reviewDate:    date ? date.innerText.trim() : '',
						helpfulCount:  stats ? stats.innerText.trim() : '',
						overallRating: score ? score.innerText.trim() : '',
						reviewBody:    body ? body.innerText.trim() : '',
						truncated:     !!r.querySelector('p.read-more')
					});
				}
				return results;
			})()
		`, &reviews),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp page extract: %w", err)
	}

	return reviews, nil
}

// buildRecord turns one extracted review element into a raw record,
// applying the documented defaults for absent fields and collapsing
// embedded newlines in the body to single spaces.
func buildRecord(r pageReview) []string {
	reviewer := withDefault(r.Reviewer, defaultReviewer)
	profile := withDefault(r.ProfileLink, defaultProfileLink)
	date := withDefault(r.ReviewDate, defaultDate)
	helpful := withDefault(r.HelpfulCount, defaultCount)
	score := withDefault(r.OverallRating, defaultScore)

	body := collapseNewlines(strings.TrimSpace(r.ReviewBody))
	if body == "" {
		body = defaultBody
	}
	if r.Truncated {
		body += truncatedSuffix
	}

	return []string{reviewer, profile, date, helpful, score, body}
}

func withDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func collapseNewlines(s string) string {
	return newlineReplacer.Replace(s)
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
