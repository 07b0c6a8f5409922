package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsAnalyzer/internal/domain"
)

const (
	// Layout the analysis model is instructed to emit.
	modelTimestampLayout = "01/02/2006 15:04:05"
	// Layout persisted for downstream reporting.
	storedTimestampLayout = "01-02-2006 15:04:05"
)

// ArticleRepository persists finished article records into Postgres. Records
// are insert-only; re-running a batch stores duplicates.
type ArticleRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewArticleRepository(db *sql.DB, log *slog.Logger) *ArticleRepository {
	return &ArticleRepository{db: db, log: log}
}

// Save inserts one article record.
func (r *ArticleRepository) Save(ctx context.Context, rec domain.ArticleRecord) error {
	analysisJSON, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	query, args, err := sq.Insert("article_analysis_data").
		Columns(
			"company_id", "company_url", "art_title", "art_raw_data",
			"art_summary", "art_eval_metrics", "art_sentiment_score",
			"art_sentiment_score_reasoning", "art_analysis",
			"art_published_on", "art_modified_on",
			"company_valuation_significance", "company_valuation_significance_reasoning",
			"explicit_company_impacts", "implicit_industry_impacts",
			"implicit_impact_peer_companies",
			"sys_name", "user_name", "exe_on", "batch_id", "raw_html_content",
		).
		Values(
			rec.Reference.CompanyID,
			rec.Reference.URL,
			rec.Content.Title,
			rec.Content.Text,
			rec.Analysis.SummaryText,
			nullIfEmpty(rec.Confidence),
			rec.Analysis.SentimentScore,
			rec.Analysis.SentimentReasoning,
			string(analysisJSON),
			persistTimestamp(rec.Analysis.PublishedPT),
			persistTimestamp(rec.Analysis.ModifiedPT),
			rec.Analysis.ValuationSignificance,
			rec.Analysis.ValuationReasoning,
			rec.Analysis.ExplicitImpacts,
			rec.Analysis.ImplicitImpacts,
			rec.Analysis.PeerCompanies,
			rec.Run.SystemName,
			rec.Run.UserName,
			rec.Run.ExecutedAt,
			rec.Run.BatchID,
			rec.Content.HTML,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert article record: %w", err)
	}
	return nil
}

// NextBatchID derives a batch number from the count of prior batch executions.
// Used when the trigger payload omits one.
func (r *ArticleRepository) NextBatchID(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM batch_execution_details").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count batch executions: %w", err)
	}
	return count + 1, nil
}

// persistTimestamp converts a model-emitted Pacific timestamp into the stored
// layout. Sentinels and anything unparseable persist as NULL.
func persistTimestamp(value string) any {
	trimmed := strings.TrimSpace(value)
	switch trimmed {
	case "", "N/A", "None", domain.InsufficientData:
		return nil
	}
	t, err := time.Parse(modelTimestampLayout, trimmed)
	if err != nil {
		return nil
	}
	return t.Format(storedTimestampLayout)
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
