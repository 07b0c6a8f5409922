package extractor

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metadata keys harvested from article pages.
const (
	KeyPublished = "datePublished"
	KeyModified  = "dateModified"
)

var (
	// Either an ISO date or a long-form "2 January 2006, 3:04 PM ET" string.
	genericDatePattern = regexp.MustCompile(
		`\d{4}-\d{2}-\d{2}|\d{1,2} [A-Z][a-z]+ \d{4}, \d{1,2}:\d{2} (?:AM|PM) [A-Za-z]{2,3}`)

	// "January 2, 2006, 3:04 PM ET" as found inside article-body containers.
	longFormDatePattern = regexp.MustCompile(
		`[A-Z][a-z]+ \d{1,2}, \d{4}, \d{1,2}:\d{2} (?:AM|PM) [A-Za-z]{2,3}`)
)

// dateStrategy inspects the document and writes any date candidates it finds
// into meta. Strategies run in declaration order and overwrite earlier values,
// so the most aggressive source wins.
type dateStrategy func(doc *goquery.Document, meta map[string]string)

var dateStrategies = []dateStrategy{
	fromMetaTags,
	fromJSONLD,
	fromTimeTags,
	fromVisibleText,
	fromArticleBody,
}

// HarvestMetadata collects publication and modification date candidates from
// the document. Later strategies override earlier ones on a per-key basis.
func HarvestMetadata(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	for _, strategy := range dateStrategies {
		strategy(doc, meta)
	}
	return meta
}

func fromMetaTags(doc *goquery.Document, meta map[string]string) {
	properties := map[string]string{
		"article:published_time": KeyPublished,
		"og:published_time":      KeyPublished,
		"article:modified_time":  KeyModified,
		"og:updated_time":        KeyModified,
	}
	doc.Find("meta[property]").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		key, ok := properties[prop]
		if !ok {
			return
		}
		if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
			meta[key] = strings.TrimSpace(content)
		}
	})
	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if name != KeyPublished && name != KeyModified {
			return
		}
		if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
			meta[name] = strings.TrimSpace(content)
		}
	})
}

func fromJSONLD(doc *goquery.Document, meta map[string]string) {
	block := doc.Find(`script[type="application/ld+json"]`).First()
	if block.Length() == 0 {
		return
	}

	raw := strings.TrimSpace(block.Text())
	if raw == "" {
		return
	}

	var obj map[string]any
	if strings.HasPrefix(raw, "[") {
		var list []map[string]any
		if err := json.Unmarshal([]byte(raw), &list); err != nil || len(list) == 0 {
			return
		}
		obj = list[0]
	} else if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return
	}

	for _, key := range []string{KeyPublished, KeyModified} {
		if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
			meta[key] = strings.TrimSpace(v)
		}
	}
}

func fromTimeTags(doc *goquery.Document, meta map[string]string) {
	doc.Find("time").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("jsdtTime") {
			text := strings.TrimSpace(s.Text())
			text = strings.TrimSpace(strings.TrimPrefix(text, "Last Updated:"))
			if text != "" {
				meta[KeyModified] = text
			}
			return
		}
		if _, ok := s.Attr("dateModified"); ok {
			if dt, ok := s.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
				meta[KeyPublished] = strings.TrimSpace(dt)
			}
		}
	})
}

// fromVisibleText is the most aggressive source: any date-looking string in
// the page's visible text wins over the structured sources. Script and style
// text is excluded so embedded JSON does not masquerade as page content.
func fromVisibleText(doc *goquery.Document, meta map[string]string) {
	clone := doc.Selection.Clone()
	clone.Find("script, style").Remove()
	text := clone.Text()

	if m := genericDatePattern.FindString(text); m != "" {
		meta[KeyPublished] = m
	}
	if m := longFormDatePattern.FindString(text); m != "" {
		meta[KeyPublished] = m
	}
}

func fromArticleBody(doc *goquery.Document, meta map[string]string) {
	body := doc.Find("#article-body").Text() + " " + doc.Find("#teaser").Text()
	if m := longFormDatePattern.FindString(body); m != "" {
		meta[KeyPublished] = m
	}
}
