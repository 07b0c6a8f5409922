package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/infrastructure/extractor"
)

// Renderer is the fallback extraction path for pages that serve interstitials
// to plain HTTP clients. Each Render call runs a single-use headless browser
// session that is torn down on every exit path.
type Renderer struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	log       *slog.Logger
}

func New(client *http.Client, userAgent string, timeout time.Duration, log *slog.Logger) *Renderer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Renderer{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		log:       log,
	}
}

// Render loads the page in a headless browser, waits for the DOM to settle and
// extracts content from the rendered markup. The title comes from a plain
// re-download because the rendered document often rewrites it.
func (r *Renderer) Render(ctx context.Context, url string) (domain.ExtractedContent, error) {
	html, err := r.renderedHTML(ctx, url)
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("render %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("parse rendered html: %w", err)
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})

	return domain.ExtractedContent{
		Title:    r.fetchTitle(ctx, url),
		Text:     strings.Join(paragraphs, " "),
		HTML:     html,
		Metadata: extractor.HarvestMetadata(doc),
		Method:   domain.MethodRendered,
	}, nil
}

func (r *Renderer) renderedHTML(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(r.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// fetchTitle re-downloads the page without rendering just for the <title>
// element. Failures degrade to the placeholder.
func (r *Renderer) fetchTitle(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.NoPageTitle
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Warn("title refetch failed", "url", url, "error", err)
		return domain.NoPageTitle
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.NoPageTitle
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return domain.NoPageTitle
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return domain.NoPageTitle
}
