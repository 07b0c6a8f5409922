package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"NewsAnalyzer/internal/domain"
)

// ErrorLogRepository appends failure rows to the logs table. Writes are
// best-effort: a failed write is reported to the logger, never to the caller's
// pipeline flow.
type ErrorLogRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewErrorLogRepository(db *sql.DB, log *slog.Logger) *ErrorLogRepository {
	return &ErrorLogRepository{db: db, log: log}
}

func (r *ErrorLogRepository) Save(ctx context.Context, entry domain.ErrorLogEntry) error {
	query, args, err := sq.Insert("logs").
		Columns("log_timestamp", "error_type", "error_message", "error_data", "related_item").
		Values(entry.Timestamp, entry.Category, entry.Message, entry.Details, entry.RelatedItem).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}
