package llm

import (
	"context"
	"fmt"
	"log/slog"

	"NewsAnalyzer/internal/ports"
)

const scoringSystemPrompt = "You are an NLP evaluation expert who explains " +
	"model-quality metrics to a non-technical audience."

const scoringInstructions = `Compare the generated analysis below against the original article text.
Compute two metrics:
1. A BERT-style semantic similarity score between 0 and 1.
2. An accuracy score between 0 and 100 reflecting how faithfully the analysis represents the article.
Present both in a small table, then explain in plain, non-technical language what the scores mean and where the analysis diverges from the article.`

// Scorer judges a generated analysis against its source article. It is
// self-contained: each call performs its own token exchange so scoring keeps
// working even when the analysis stage's token has gone stale.
type Scorer struct {
	client *Client
	tokens ports.TokenProvider
	log    *slog.Logger
}

func NewScorer(client *Client, tokens ports.TokenProvider, log *slog.Logger) *Scorer {
	return &Scorer{client: client, tokens: tokens, log: log}
}

// Score returns the model's free-form evaluation text. The result is opaque
// prose, persisted as-is, never parsed as a number.
func (s *Scorer) Score(ctx context.Context, referenceText, generated string) (string, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("scoring token: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("scoring token: empty token")
	}

	prompt := fmt.Sprintf("%s\n\nOriginal article:\n%s\n\nGenerated analysis:\n%s",
		scoringInstructions, referenceText, generated)

	content, err := s.client.complete(ctx, token, []chatMessage{
		{Role: "system", Content: scoringSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("scoring call: %w", err)
	}
	return content, nil
}
