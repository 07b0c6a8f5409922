package domain

import (
	"strings"
	"time"
)

// Interstitial phrases that mark a page as script-gated or paywalled. Matching
// is a case-insensitive substring check against the extracted body text; the
// outlet-specific entries come from pages that serve teaser shells to clients
// without JavaScript.
var blockedPhrases = []string{
	"JavaScript is disabled",
	"Please enable JavaScript",
	"This site requires JavaScript",
	"Your browser does not support JavaScript",
	"enable JavaScript",
	"JavaScript has been disabled",
	"Sign up now for free access to this content",
	"Continue to Checkout",
	"Continue reading your article with a subscription to continue reading",
	"Continue reading your article with",
	"Economic Times",
	"Economic Times Prime",
	"Subscribers Only",
	"Download The Economic Times",
}

// Blocked reports whether the text looks like an interstitial rather than
// article content, which routes the article to the rendering fallback.
func Blocked(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range blockedPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// ErrorLogEntry is one append-only failure row. Writes are best-effort and
// never block the pipeline from moving to the next article.
type ErrorLogEntry struct {
	Timestamp   time.Time
	Category    string
	Message     string
	Details     string
	RelatedItem string
}

// Error categories persisted with log entries.
const (
	ErrScraping   = "Scraping Error"
	ErrJavaScript = "JavaScript Disabled"
	ErrAuth       = "Authentication Error"
	ErrAnalysis   = "Analysis Error"
	ErrScoring    = "Scoring Error"
	ErrDatabase   = "Database Error"
	ErrAPIRequest = "API Request Error"
)
