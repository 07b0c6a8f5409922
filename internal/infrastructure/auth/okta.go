package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsAnalyzer/internal/config"
	"NewsAnalyzer/pkg/backoff"
)

// Provider exchanges client credentials for a short-lived bearer token used on
// the completion endpoint. Tokens are not cached: each call performs a fresh
// exchange.
type Provider struct {
	client *http.Client
	cfg    config.AuthConfig
	retry  backoff.Policy
	log    *slog.Logger
}

func New(cfg config.AuthConfig, log *slog.Logger) *Provider {
	return &Provider{
		client: &http.Client{Timeout: 300 * time.Second},
		cfg:    cfg,
		retry:  backoff.Policy{Attempts: 3, Base: 2 * time.Second},
		log:    log,
	}
}

// Token performs the client-credentials exchange. A response that transported
// but carries no access_token is logged and returned as an empty token with a
// nil error; callers treat empty as a hard stop for the current article.
func (p *Provider) Token(ctx context.Context) (string, error) {
	var token string

	err := p.retry.Retry(ctx, func() (backoff.Outcome, error) {
		t, err := p.exchange(ctx)
		if err != nil {
			p.log.Warn("token exchange attempt failed", "error", err)
			return backoff.Retryable, err
		}
		token = t
		return backoff.Done, nil
	})
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	return token, nil
}

func (p *Provider) exchange(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {p.cfg.Scope},
	}

	endpoint := strings.TrimRight(p.cfg.URL, "/") + "/v1/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString(
		[]byte(p.cfg.ClientID + ":" + p.cfg.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if payload.AccessToken == "" {
		p.log.Error("token response carried no access_token")
	}
	return payload.AccessToken, nil
}
