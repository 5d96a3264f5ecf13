package scraper

import (
	"log"
	"strings"
	"time"
)

// scrollJS walks the viewport down the page in steps so that lazy-loaded
// experience entries get rendered before anchors are collected.
const scrollJS = `(() => {
	let y = 0, i = 0;
	const max = Math.max(document.body.scrollHeight, document.documentElement.scrollHeight);
	const step = Math.max(400, Math.floor(window.innerHeight * 0.8));
	const tick = () => {
		if (i++ > 12 || y > max) return;
		y += step;
		window.scrollTo(0, y);
		setTimeout(tick, 120);
	};
	tick();
	return true;
})()`

// harvestJS collects hrefs of experience-company logo anchors, falling back
// to any company link inside the experience section on older markup.
const harvestJS = `(() => {
	let anchors = Array.from(document.querySelectorAll('a[data-field="experience_company_logo"]'));
	if (anchors.length === 0) {
		anchors = Array.from(document.querySelectorAll('section#experience a[href*="/company/"], #experience ~ div a[href*="/company/"]'));
	}
	return anchors.map(a => a.href || '').filter(h => h.includes('/company/'));
})()`

// Harvester collects the distinct company page URLs referenced by the
// experience entries of the profile the session is currently on.
type Harvester struct {
	settle time.Duration
}

// NewHarvester creates a new Harvester instance
func NewHarvester(settle time.Duration) *Harvester {
	return &Harvester{settle: settle}
}

// HarvestCompanyLinks scrolls the page, then returns the set of normalized
// company URLs found. Extraction failures yield an empty set, logged only.
func (h *Harvester) HarvestCompanyLinks(s Session) map[string]struct{} {
	links := make(map[string]struct{})

	if err := s.Eval(scrollJS, nil); err != nil {
		log.Printf("⚠️ Page scroll failed, harvesting without it: %v", err)
	}
	s.Sleep(h.settle)

	var hrefs []string
	if err := s.Eval(harvestJS, &hrefs); err != nil {
		log.Printf("⚠️ Company link harvest failed: %v", err)
		return links
	}

	for _, href := range hrefs {
		// Strip tracking query parameters
		href = strings.Split(href, "?")[0]
		if href != "" {
			links[href] = struct{}{}
		}
	}

	return links
}
