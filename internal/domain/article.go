package domain

import "time"

// ExtractionMethod records which extraction path produced the content.
type ExtractionMethod string

const (
	MethodPrimary  ExtractionMethod = "primary"
	MethodRendered ExtractionMethod = "rendered"
)

// Placeholder titles used when a page exposes none; body text may be empty but
// titles never are.
const (
	NoArticleTitle = "No Article"
	NoPageTitle    = "No Title"
)

// BlockedContentText substitutes the body when a script-gate interstitial
// survives even the rendered extraction pass.
const BlockedContentText = "JavaScript is disabled - Capturing Irrelevant data / Advertisements data from the website"

// ArticleReference points at one article discovered for a company. Immutable
// once produced by the news source.
type ArticleReference struct {
	CompanyID   string
	CompanyName string
	URL         string
}

// ExtractedContent is the cleaned output of either extraction path.
// Text is never "unset": an empty string means no extractable content.
type ExtractedContent struct {
	Title    string
	Text     string
	HTML     string
	Metadata map[string]string
	Method   ExtractionMethod
}

// RunMetadata tags every persisted record with its originating batch run.
type RunMetadata struct {
	SystemName string
	UserName   string
	ExecutedAt time.Time
	BatchID    int
}

// ArticleRecord is the final insert-only row assembled per article. Records
// carry no natural key, so re-running a batch stores duplicates by design.
type ArticleRecord struct {
	Reference  ArticleReference
	Content    ExtractedContent
	Analysis   AnalysisResult
	Confidence string
	Run        RunMetadata
}

// Company identifies one entity in a batch trigger payload.
type Company struct {
	Name string
	ID   string
}

// BatchTrigger is the inbound invocation payload: which companies to process
// and under which batch number. A zero BatchID means "derive one".
type BatchTrigger struct {
	BatchID   int
	Companies []Company
}
