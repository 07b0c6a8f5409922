package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"NewsAnalyzer/internal/config"
	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/infrastructure/auth"
	"NewsAnalyzer/internal/infrastructure/browser"
	"NewsAnalyzer/internal/infrastructure/extractor"
	"NewsAnalyzer/internal/infrastructure/llm"
	"NewsAnalyzer/internal/infrastructure/newsapi"
	"NewsAnalyzer/internal/infrastructure/storage"
	"NewsAnalyzer/internal/usecase"
)

// App owns the wired pipeline and its database handle.
type App struct {
	pipeline *usecase.Pipeline
	db       *sql.DB
	log      *slog.Logger
}

// New connects to Postgres and assembles every adapter around one pipeline.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	tokens := auth.New(cfg.Auth, log.With("component", "auth"))
	llmClient := llm.NewClient(cfg.LLM.Endpoint, cfg.LLM.MaxTokens, cfg.LLM.Temperature,
		log.With("component", "llm"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		News: newsapi.New(cfg.News.BaseURL, cfg.News.APIKey,
			log.With("component", "newsapi")),
		Extractor: extractor.New(httpClient, cfg.Pipeline.UserAgent,
			log.With("component", "extractor")),
		Renderer: browser.New(httpClient, cfg.Pipeline.UserAgent,
			cfg.Pipeline.RenderTimeout(), log.With("component", "browser")),
		Tokens:   tokens,
		Analyzer: llm.NewAnalyzer(llmClient, log.With("component", "analyzer")),
		Scorer:   llm.NewScorer(llmClient, tokens, log.With("component", "scorer")),
		Articles: storage.NewArticleRepository(db, log.With("component", "storage")),
		Errors:   storage.NewErrorLogRepository(db, log.With("component", "errorlog")),

		SystemName: cfg.Pipeline.SystemName,
		UserName:   cfg.Pipeline.UserName,

		Logger: log,
	})

	return &App{pipeline: pipeline, db: db, log: log}, nil
}

// Run executes one batch.
func (a *App) Run(ctx context.Context, trigger domain.BatchTrigger) error {
	return a.pipeline.ProcessBatch(ctx, trigger)
}

func (a *App) Close() error {
	return a.db.Close()
}
