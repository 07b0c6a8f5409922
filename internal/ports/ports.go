package ports

import (
	"context"

	"NewsAnalyzer/internal/domain"
)

// NewsSource lists recent article references for a company.
type NewsSource interface {
	RecentNews(ctx context.Context, companyID string) ([]domain.ArticleReference, error)
}

// ContentExtractor pulls cleaned article content straight from page markup.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (domain.ExtractedContent, error)
}

// PageRenderer re-extracts content with a full browser render for pages that
// serve interstitials to plain HTTP clients.
type PageRenderer interface {
	Render(ctx context.Context, url string) (domain.ExtractedContent, error)
}

// TokenProvider exchanges client credentials for a short-lived bearer token.
// An empty token with a nil error means the exchange transported but the
// payload carried no token; callers treat that as a hard stop for analysis.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Analyzer runs the structured financial-sentiment analysis over one article.
type Analyzer interface {
	Analyze(ctx context.Context, token string, req domain.AnalysisRequest) (domain.AnalysisResult, error)
}

// Scorer judges a generated analysis against the source article text. It is
// self-contained: implementations fetch their own token per call.
type Scorer interface {
	Score(ctx context.Context, referenceText, generated string) (string, error)
}

// ArticleRepository persists finished article records.
type ArticleRepository interface {
	Save(ctx context.Context, rec domain.ArticleRecord) error
	NextBatchID(ctx context.Context) (int, error)
}

// ErrorLog appends failure entries; writes are best-effort.
type ErrorLog interface {
	Save(ctx context.Context, entry domain.ErrorLogEntry) error
}
