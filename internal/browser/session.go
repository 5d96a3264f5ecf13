package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"linkedin-leads/internal/models"
)

// Session wraps a single Chrome browser tab. One session serves a whole
// batch; navigation state is mutated in place, so callers must not share
// a session between concurrent navigations.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// New launches Chrome and, when credentials are configured, logs in to
// LinkedIn. The returned session must be released with Close.
func New(ctx context.Context, cfg models.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	combinedCancel := func() {
		browserCancel()
		allocCancel()
	}

	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		combinedCancel()
		return nil, fmt.Errorf("failed to enable network events: %w", err)
	}

	s := &Session{ctx: browserCtx, cancel: combinedCancel}

	if cfg.LinkedInEmail != "" && cfg.LinkedInPassword != "" {
		if err := s.login(cfg.LinkedInEmail, cfg.LinkedInPassword); err != nil {
			combinedCancel()
			return nil, fmt.Errorf("linkedin login failed: %w", err)
		}
	}

	return s, nil
}

// Close releases the browser and its allocator.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Navigate opens the given URL in the session's tab.
func (s *Session) Navigate(url string) error {
	return chromedp.Run(s.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
	)
}

// Exists reports whether any element matches the CSS selector.
// Evaluation errors count as a negative signal.
func (s *Session) Exists(selector string) bool {
	var found bool
	js := fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &found)); err != nil {
		return false
	}
	return found
}

// Text returns the trimmed text content of the first element matching the
// CSS selector, or the empty string when no element matches.
func (s *Session) Text(selector string) (string, error) {
	var text string
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		return el ? (el.textContent || '').replace(/\s+/g, ' ').trim() : '';
	})()`, selector)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &text)); err != nil {
		return "", err
	}
	return text, nil
}

// WaitFor polls for an element matching the selector until it appears or
// the timeout elapses.
func (s *Session) WaitFor(selector string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.Exists(selector) {
			return true
		}
		select {
		case <-s.ctx.Done():
			return false
		case <-time.After(250 * time.Millisecond):
		}
	}
	return s.Exists(selector)
}

// Eval runs a script in the page and unmarshals its result into out.
// Pass nil when the result is not needed.
func (s *Session) Eval(js string, out any) error {
	return chromedp.Run(s.ctx, chromedp.EvaluateAsDevTools(js, out))
}

// Sleep blocks for the given settle delay, respecting session cancellation.
func (s *Session) Sleep(d time.Duration) {
	_ = chromedp.Run(s.ctx, chromedp.Sleep(d))
}
