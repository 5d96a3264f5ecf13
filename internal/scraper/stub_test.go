package scraper

import (
	"context"
	"time"
)

// stubSession is a canned browser session. Eval results are routed by the
// type of the output pointer: href lists for the harvester, a string for
// the connections lookup.
type stubSession struct {
	existing    map[string]bool
	texts       map[string]string
	waitOK      bool
	hrefs       []string
	connections string

	navigated []string
	navErr    error
	evalErr   error
}

func (s *stubSession) Navigate(url string) error {
	s.navigated = append(s.navigated, url)
	return s.navErr
}

func (s *stubSession) Exists(selector string) bool {
	return s.existing[selector]
}

func (s *stubSession) Text(selector string) (string, error) {
	return s.texts[selector], nil
}

func (s *stubSession) WaitFor(selector string, timeout time.Duration) bool {
	return s.waitOK
}

func (s *stubSession) Eval(js string, out any) error {
	if s.evalErr != nil {
		return s.evalErr
	}
	switch v := out.(type) {
	case *[]string:
		*v = append([]string(nil), s.hrefs...)
	case *string:
		*v = s.connections
	}
	return nil
}

func (s *stubSession) Sleep(d time.Duration) {}

// stubClassifier returns canned verdicts keyed by description and records
// every call.
type stubClassifier struct {
	verdicts map[string]bool
	calls    []string
	panics   bool
}

func (c *stubClassifier) IsRelevant(ctx context.Context, description string, keywords []string) bool {
	if c.panics {
		panic("classifier exploded")
	}
	c.calls = append(c.calls, description)
	return c.verdicts[description]
}
