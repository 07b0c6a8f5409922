package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsAnalyzer/internal/domain"
	"NewsAnalyzer/internal/ports"
)

// PipelineDeps carries every collaborator the orchestrator needs. All fields
// are required except Now, which defaults to time.Now.
type PipelineDeps struct {
	News      ports.NewsSource
	Extractor ports.ContentExtractor
	Renderer  ports.PageRenderer
	Tokens    ports.TokenProvider
	Analyzer  ports.Analyzer
	Scorer    ports.Scorer
	Articles  ports.ArticleRepository
	Errors    ports.ErrorLog

	SystemName string
	UserName   string

	Logger *slog.Logger
	Now    func() time.Time
}

// Pipeline sequences extraction, analysis, scoring and persistence per
// article. Articles run strictly sequentially; every failure degrades into a
// log entry plus a well-formed record, never an aborted batch.
type Pipeline struct {
	deps PipelineDeps
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{deps: deps}
}

// ProcessBatch walks every company of the trigger, discovers its recent
// articles and runs the per-article pipeline over each.
func (p *Pipeline) ProcessBatch(ctx context.Context, trigger domain.BatchTrigger) error {
	batchID := trigger.BatchID
	if batchID == 0 {
		id, err := p.deps.Articles.NextBatchID(ctx)
		if err != nil {
			return fmt.Errorf("derive batch id: %w", err)
		}
		batchID = id
	}

	runID := uuid.NewString()
	log := p.deps.Logger.With("runId", runID, "batchId", batchID)
	log.Info("batch started", "companies", len(trigger.Companies))

	var processed, skipped int
	for _, company := range trigger.Companies {
		if company.ID == "" {
			skipped++
			log.Warn("skipping company without id", "company", company.Name)
			continue
		}

		refs, err := p.deps.News.RecentNews(ctx, company.ID)
		if err != nil {
			p.reportError(ctx, log, domain.ErrAPIRequest,
				"news discovery failed", err.Error(), company.ID)
			continue
		}

		for _, ref := range refs {
			ref.CompanyName = company.Name
			p.processArticle(ctx, log, ref, domain.RunMetadata{
				SystemName: p.deps.SystemName,
				UserName:   p.deps.UserName,
				ExecutedAt: p.deps.Now(),
				BatchID:    batchID,
			})
			processed++
		}
	}

	log.Info("batch finished", "articlesProcessed", processed, "companiesSkipped", skipped)
	return nil
}

// processArticle is the per-article state machine. Each stage converts its
// failure into an error-log entry plus a degraded continuation value.
func (p *Pipeline) processArticle(ctx context.Context, log *slog.Logger, ref domain.ArticleReference, run domain.RunMetadata) {
	log = log.With("url", ref.URL, "company", ref.CompanyName)
	log.Info("processing article")

	content, err := p.deps.Extractor.Extract(ctx, ref.URL)
	if err != nil {
		p.reportError(ctx, log, domain.ErrScraping,
			"content extraction failed", err.Error(), ref.URL)
		content = domain.ExtractedContent{
			Title:  domain.NoArticleTitle,
			Method: domain.MethodPrimary,
		}
	}

	if content.Text == "" || domain.Blocked(content.Text) {
		rendered, rerr := p.deps.Renderer.Render(ctx, ref.URL)
		if rerr != nil {
			p.reportError(ctx, log, domain.ErrScraping,
				"rendering fallback failed", rerr.Error(), ref.URL)
		} else {
			content = rendered
		}
		if domain.Blocked(content.Text) {
			p.reportError(ctx, log, domain.ErrJavaScript,
				"content blocked behind script gate after rendering", content.Text, ref.URL)
			content.Text = domain.BlockedContentText
		}
	}

	token, err := p.deps.Tokens.Token(ctx)
	if err != nil || token == "" {
		details := "token exchange returned no token"
		if err != nil {
			details = err.Error()
		}
		p.reportError(ctx, log, domain.ErrAuth,
			"authentication failed, skipping analysis", details, ref.URL)
		p.persist(ctx, log, domain.ArticleRecord{
			Reference: ref,
			Content:   content,
			Analysis:  domain.DegradedAnalysis(),
			Run:       run,
		})
		return
	}

	analysis, err := p.deps.Analyzer.Analyze(ctx, token, domain.AnalysisRequest{
		ArticleText: content.Text,
		CompanyName: ref.CompanyName,
		URL:         ref.URL,
		Title:       content.Title,
		Metadata:    content.Metadata,
	})
	if err != nil {
		p.reportError(ctx, log, domain.ErrAnalysis,
			"analysis failed", err.Error(), ref.URL)
		analysis = domain.DegradedAnalysis()
	}

	confidence := p.scoreAnalysis(ctx, log, ref.URL, content.Text, analysis)

	p.persist(ctx, log, domain.ArticleRecord{
		Reference:  ref,
		Content:    content,
		Analysis:   analysis,
		Confidence: confidence,
		Run:        run,
	})
}

// scoreAnalysis is always attempted once a token exists, independent of
// whether the analysis itself succeeded. An empty result means "no score
// available" and persists as NULL.
func (p *Pipeline) scoreAnalysis(ctx context.Context, log *slog.Logger, url, articleText string, analysis domain.AnalysisResult) string {
	generated, err := json.Marshal(analysis)
	if err != nil {
		p.reportError(ctx, log, domain.ErrScoring,
			"cannot serialize analysis for scoring", err.Error(), url)
		return ""
	}

	confidence, err := p.deps.Scorer.Score(ctx, articleText, string(generated))
	if err != nil {
		p.reportError(ctx, log, domain.ErrScoring,
			"evaluation scoring failed", err.Error(), url)
		return ""
	}
	return confidence
}

func (p *Pipeline) persist(ctx context.Context, log *slog.Logger, rec domain.ArticleRecord) {
	if err := p.deps.Articles.Save(ctx, rec); err != nil {
		p.reportError(ctx, log, domain.ErrDatabase,
			"article record insert failed", err.Error(), rec.Reference.URL)
		return
	}
	log.Info("article record persisted")
}

// reportError logs the failure and appends a best-effort error-log row. A
// failed row write is itself only logged; it never interrupts the pipeline.
func (p *Pipeline) reportError(ctx context.Context, log *slog.Logger, category, message, details, related string) {
	log.Error(message, "category", category, "details", details)

	entry := domain.ErrorLogEntry{
		Timestamp:   p.deps.Now(),
		Category:    category,
		Message:     message,
		Details:     details,
		RelatedItem: related,
	}
	if err := p.deps.Errors.Save(ctx, entry); err != nil {
		log.Error("error log write failed", "error", err)
	}
}
