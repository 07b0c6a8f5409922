package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/pkg/backoff"
)

const maxBodyBytes = 10 << 20

var multiNewline = regexp.MustCompile(`\n{3,}`)

// Extractor downloads a page and produces cleaned article content. It is the
// primary extraction path; pages that gate content behind scripts fall through
// to the rendering fallback upstream.
type Extractor struct {
	client    *http.Client
	userAgent string
	retry     backoff.Policy
	log       *slog.Logger
}

func New(client *http.Client, userAgent string, log *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Extractor{
		client:    client,
		userAgent: userAgent,
		retry:     backoff.Policy{Attempts: 3, Base: 2 * time.Second},
		log:       log,
	}
}

// Extract fetches and parses the page, retrying transient failures. After
// retries are exhausted the last error is returned and the caller decides how
// to degrade.
func (e *Extractor) Extract(ctx context.Context, url string) (domain.ExtractedContent, error) {
	var content domain.ExtractedContent

	err := e.retry.Retry(ctx, func() (backoff.Outcome, error) {
		c, err := e.extractOnce(ctx, url)
		if err != nil {
			e.log.Warn("extraction attempt failed", "url", url, "error", err)
			return backoff.Retryable, err
		}
		content = c
		return backoff.Done, nil
	})
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("extract %s: %w", url, err)
	}
	return content, nil
}

func (e *Extractor) extractOnce(ctx context.Context, url string) (domain.ExtractedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ExtractedContent{}, fmt.Errorf("fetch: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("parse html: %w", err)
	}

	// Metadata first: the date sources include tags the cleanup pass removes.
	metadata := HarvestMetadata(doc)
	title := pageTitle(doc)

	doc.Find("script, style, font, footer, aside, nav, advertisement").Remove()

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})

	text := strings.Join(paragraphs, "\n")
	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}
	text = strings.TrimSpace(multiNewline.ReplaceAllString(text, "\n\n"))

	return domain.ExtractedContent{
		Title:    title,
		Text:     text,
		HTML:     string(raw),
		Metadata: metadata,
		Method:   domain.MethodPrimary,
	}, nil
}

func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return domain.NoArticleTitle
}
