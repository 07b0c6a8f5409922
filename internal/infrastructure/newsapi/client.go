package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"NewsAnalyzer/internal/domain"
)

// Client fetches recent article stubs for a company from the upstream
// discovery API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *slog.Logger
}

func New(baseURL, apiKey string, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		log:        log,
	}
}

type articleStub struct {
	URL string `json:"url"`
}

// RecentNews lists the company's articles from the trailing 30 days. The API
// has drifted between a wrapped {"articles": [...]} payload and a bare array,
// so both shapes decode.
func (c *Client) RecentNews(ctx context.Context, companyID string) ([]domain.ArticleReference, error) {
	endpoint := fmt.Sprintf("%s/entities/%s/news?trailingRange=30", c.baseURL, companyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", companyID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch news for %s: unexpected status %d", companyID, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}

	stubs, err := decodeStubs(raw)
	if err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	refs := make([]domain.ArticleReference, 0, len(stubs))
	for _, stub := range stubs {
		if strings.TrimSpace(stub.URL) == "" {
			c.log.Warn("skipping article stub without url", "companyId", companyID)
			continue
		}
		refs = append(refs, domain.ArticleReference{
			CompanyID: companyID,
			URL:       stub.URL,
		})
	}
	return refs, nil
}

func decodeStubs(raw []byte) ([]articleStub, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var stubs []articleStub
		if err := json.Unmarshal(raw, &stubs); err != nil {
			return nil, err
		}
		return stubs, nil
	}

	var wrapped struct {
		Articles []articleStub `json:"articles"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Articles, nil
}
