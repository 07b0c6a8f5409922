package domain

import "strings"

// Sentinel values emitted when the source article has no usable content.
const (
	InsufficientData = "Insufficient Data to Analyse"
	NotAnalyzed      = "Not Analyzed"
)

// AnalysisResult is the fixed-schema output of the sentiment analysis.
// Field order matters: downstream consumers read the marshalled object by
// exact key and rely on the key sequence, so the struct declaration order is
// the schema order and no field is ever omitted.
type AnalysisResult struct {
	CompanyName           string `json:"Company Name"`
	ArticleTitle          string `json:"Article Title"`
	PublishedPT           string `json:"Article Published Timestamp in PT"`
	ModifiedPT            string `json:"Article Modified Timestamp in PT"`
	NewsSource            string `json:"Article News Source"`
	SummaryText           string `json:"Article Summary"`
	SentimentScore        string `json:"Sentiment Score"`
	SentimentReasoning    string `json:"Sentiment Score Reasoning"`
	ValuationSignificance string `json:"Company Valuation Significance"`
	ValuationReasoning    string `json:"Company Valuation Significance Reasoning"`
	ExplicitImpacts       string `json:"Explicit Company Impacts"`
	ImplicitImpacts       string `json:"Implicit Industry Impacts"`
	PeerCompanies         string `json:"Implicit Impact Peer Companies"`
}

// FillDefaults replaces empty fields with the degraded-input sentinels so the
// marshalled object always carries every key. Sentiment score uses its own
// sentinel because "Not Analyzed" is meaningful to scoring consumers.
func (r *AnalysisResult) FillDefaults() {
	fields := []*string{
		&r.CompanyName, &r.ArticleTitle, &r.PublishedPT, &r.ModifiedPT,
		&r.NewsSource, &r.SummaryText, &r.SentimentReasoning,
		&r.ValuationSignificance, &r.ValuationReasoning,
		&r.ExplicitImpacts, &r.ImplicitImpacts, &r.PeerCompanies,
	}
	for _, f := range fields {
		if strings.TrimSpace(*f) == "" {
			*f = InsufficientData
		}
	}
	if strings.TrimSpace(r.SentimentScore) == "" {
		r.SentimentScore = NotAnalyzed
	}
}

// DegradedAnalysis returns the fixed-shape result used when analysis could not
// run at all.
func DegradedAnalysis() AnalysisResult {
	var r AnalysisResult
	r.FillDefaults()
	return r
}

// AnalysisRequest carries everything the analysis prompt needs for one
// article. Metadata holds harvested date candidates used only when the model
// finds no dates in the text itself.
type AnalysisRequest struct {
	ArticleText string
	CompanyName string
	URL         string
	Title       string
	Metadata    map[string]string
}
