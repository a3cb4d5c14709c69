package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/common"
	"github.com/ternarybob/speculo/internal/httpclient"
	"github.com/ternarybob/speculo/internal/interfaces"
)

// ErrNotFound is returned when the page loads but the target anchor is
// absent.
var ErrNotFound = fmt.Errorf("download URL not found")

const scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Service performs a single page-load and extracts the href of the target
// anchor. JavaScript-heavy pages are rendered with chromedp; with rendering
// disabled the static HTML is parsed with goquery instead.
type Service struct {
	config *common.ScrapeConfig
	logger arbor.ILogger
}

// NewService creates a page scraper.
func NewService(config *common.ScrapeConfig, logger arbor.ILogger) interfaces.PageScraper {
	return &Service{
		config: config,
		logger: logger,
	}
}

func (s *Service) ScrapeDownloadURL(ctx context.Context, pageURL, selector string) (string, error) {
	if selector == "" {
		selector = s.config.Selector
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	if s.config.EnableJavaScript {
		return s.scrapeRendered(ctx, pageURL, selector)
	}
	return s.scrapeStatic(ctx, pageURL, selector)
}

// scrapeRendered loads the page in a headless browser and reads the anchor
// href after rendering settles.
func (s *Service) scrapeRendered(ctx context.Context, pageURL, selector string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocatorCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	defer browserCancel()

	// Evaluated lookup: a missing anchor yields "" immediately rather than
	// waiting on the node until the context deadline.
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el ? (el.getAttribute("href") || "") : ""; })()`,
		selector,
	)

	var href string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(expr, &href),
	)
	if err != nil {
		return "", fmt.Errorf("failed to scrape %s: %w", pageURL, err)
	}
	if href == "" {
		return "", ErrNotFound
	}

	s.logger.Debug().
		Str("page_url", pageURL).
		Str("download_url", href).
		Msg("Download URL scraped")

	return href, nil
}

// scrapeStatic fetches the raw HTML and parses it without rendering.
// Download portals often reject the default Go user agent, so requests
// identify as a desktop browser.
func (s *Service) scrapeStatic(ctx context.Context, pageURL, selector string) (string, error) {
	client := httpclient.NewHTTPClientWithUserAgent(0, scrapeUserAgent)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create scrape request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	href, exists := doc.Find(selector).First().Attr("href")
	if !exists || href == "" {
		return "", ErrNotFound
	}

	// Resolve relative links against the page URL.
	base, err := url.Parse(pageURL)
	if err == nil {
		if ref, refErr := url.Parse(href); refErr == nil {
			href = base.ResolveReference(ref).String()
		}
	}

	return href, nil
}
