// Package scraper extracts lead signals from LinkedIn profile and company
// pages through a browser session and filters companies by relevance.
package scraper

import (
	"context"
	"time"
)

// Session is the browser capability the scraper drives. A live
// implementation is provided by internal/browser; tests substitute stubs.
type Session interface {
	Navigate(url string) error
	Exists(selector string) bool
	Text(selector string) (string, error)
	WaitFor(selector string, timeout time.Duration) bool
	Eval(js string, out any) error
	Sleep(d time.Duration)
}

// Classifier decides whether a company description relates to the keyword
// set. Implementations treat backend failures as a negative verdict.
type Classifier interface {
	IsRelevant(ctx context.Context, description string, keywords []string) bool
}

// firstText tries selectors in order and returns the first non-empty text.
func firstText(s Session, selectors []string) string {
	for _, sel := range selectors {
		text, err := s.Text(sel)
		if err == nil && text != "" {
			return text
		}
	}
	return ""
}
