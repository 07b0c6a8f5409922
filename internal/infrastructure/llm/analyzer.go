package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"NewsAnalyzer/internal/domain"
)

var (
	braceRe  = regexp.MustCompile(`(?s)\{.*\}`)
	sourceRe = regexp.MustCompile(`https?://(?:www\.)?([^.]+(?:\.[^.]+)*)\.com`)
)

const analysisSystemPrompt = "You are a financial analyst specialized in assessing " +
	"the impact of news coverage on company valuations. You always answer with a " +
	"single JSON object and nothing else."

const analysisSchema = `Return a JSON object with exactly these keys, in exactly this order:
"Company Name": the company the analysis is about.
"Article Title": the article's title. Use the title detected in the text; only if none is present, use the fallback title provided below. Never invent one.
"Article Published Timestamp in PT": the publication timestamp converted to Pacific time, formatted MM/dd/yyyy HH:mm:ss. Source timestamps may be in Eastern, Central or Pacific time under any abbreviation (ET, EST, EDT, CT, CST, CDT, PT, PST, PDT); always convert to Pacific.
"Article Modified Timestamp in PT": the modification timestamp converted the same way, or "N/A" when absent.
"Article News Source": the publishing outlet. Prefer the source named in the text; otherwise use the domain hint provided below.
"Article Summary": a concise factual summary of the article. Do not invent content that is not in the text.
"Sentiment Score": an integer from -10 (extremely negative for the company) to 10 (extremely positive).
"Sentiment Score Reasoning": why that score was assigned.
"Company Valuation Significance": High, Medium or Low significance of this news for the company's valuation.
"Company Valuation Significance Reasoning": why that rating was assigned.
"Explicit Company Impacts": impacts on the company stated directly in the article.
"Implicit Industry Impacts": industry-level impacts implied by the article.
"Implicit Impact Peer Companies": peer companies plausibly affected, comma-joined.

If the article text is empty or carries no analyzable content, set every field to "Insufficient Data to Analyse" except "Sentiment Score", which must be "Not Analyzed".
If the text itself contains no dates, fall back to the harvested date candidates listed below; if those are absent too, use "Insufficient Data to Analyse".`

// Analyzer issues the structured financial-sentiment analysis call and parses
// the JSON object embedded in the model's free-text answer.
type Analyzer struct {
	client *Client
	log    *slog.Logger
}

func NewAnalyzer(client *Client, log *slog.Logger) *Analyzer {
	return &Analyzer{client: client, log: log}
}

// Analyze runs one analysis call. Transport failures retry inside the client;
// a malformed answer (no JSON object, undecodable content) is terminal.
func (a *Analyzer) Analyze(ctx context.Context, token string, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	content, err := a.client.complete(ctx, token, []chatMessage{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: buildAnalysisPrompt(req)},
	})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analysis call: %w", err)
	}

	result, err := parseAnalysis(content)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("parse analysis: %w", err)
	}
	return result, nil
}

func buildAnalysisPrompt(req domain.AnalysisRequest) string {
	var b strings.Builder
	b.WriteString(analysisSchema)
	b.WriteString("\n\nCompany: ")
	b.WriteString(req.CompanyName)

	if source := inferSource(req.URL); source != "" {
		b.WriteString("\nNews source domain hint: ")
		b.WriteString(source)
	}
	b.WriteString("\nFallback article title: ")
	b.WriteString(fallbackTitle(req))

	if len(req.Metadata) > 0 {
		b.WriteString("\nHarvested date candidates (use only when the text has no dates):")
		for _, key := range []string{"datePublished", "dateModified"} {
			if v, ok := req.Metadata[key]; ok {
				b.WriteString("\n  ")
				b.WriteString(key)
				b.WriteString(": ")
				b.WriteString(v)
			}
		}
	}

	b.WriteString("\n\nArticle text:\n")
	b.WriteString(req.ArticleText)
	return b.String()
}

// fallbackTitle resolves the title hint passed to the model. When extraction
// produced only a placeholder, the URL path is the best remaining signal.
func fallbackTitle(req domain.AnalysisRequest) string {
	title := strings.TrimSpace(req.Title)
	if title != "" && title != domain.NoArticleTitle && title != domain.NoPageTitle {
		return title
	}
	if u, err := url.Parse(req.URL); err == nil {
		if path := strings.Trim(u.Path, "/"); path != "" {
			return path
		}
	}
	return domain.NoArticleTitle
}

// inferSource derives the outlet name from a second-level .com host. URLs of
// any other shape yield no hint and the model decides from the text.
func inferSource(rawURL string) string {
	m := sourceRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func parseAnalysis(content string) (domain.AnalysisResult, error) {
	match := braceRe.FindString(content)
	if match == "" {
		return domain.AnalysisResult{}, fmt.Errorf("no JSON object in model answer")
	}

	repaired, err := jsonrepair.RepairJSON(match)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("repair JSON: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(repaired), &fields); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode JSON: %w", err)
	}

	normalized := make(map[string]string, len(fields))
	for key, value := range fields {
		normalized[normalizeKey(key)] = stringValue(value)
	}

	result := domain.AnalysisResult{
		CompanyName:           normalized["Company Name"],
		ArticleTitle:          normalized["Article Title"],
		PublishedPT:           normalized["Article Published Timestamp in PT"],
		ModifiedPT:            normalized["Article Modified Timestamp in PT"],
		NewsSource:            normalized["Article News Source"],
		SummaryText:           normalized["Article Summary"],
		SentimentScore:        normalized["Sentiment Score"],
		SentimentReasoning:    normalized["Sentiment Score Reasoning"],
		ValuationSignificance: normalized["Company Valuation Significance"],
		ValuationReasoning:    normalized["Company Valuation Significance Reasoning"],
		ExplicitImpacts:       normalized["Explicit Company Impacts"],
		ImplicitImpacts:       normalized["Implicit Industry Impacts"],
		PeerCompanies:         normalized["Implicit Impact Peer Companies"],
	}
	result.FillDefaults()
	return result, nil
}

// normalizeKey accepts both plain and markdown-emphasized ("**Key**") key
// spellings, a drift seen across model versions.
func normalizeKey(key string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(key), "*"))
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
