package scraper

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"linkedin-leads/internal/models"
)

// Validator drives one profile visit end to end: navigate, extract the
// top-card fields, harvest company links, inspect each company. It is the
// only component that decides whether a profile becomes a lead candidate.
type Validator struct {
	fields    *FieldExtractor
	harvester *Harvester
	inspector *CompanyInspector
	settle    time.Duration
}

// NewValidator creates a new Validator instance wired to the given classifier
func NewValidator(cfg models.Config, classifier Classifier) *Validator {
	return &Validator{
		fields:    NewFieldExtractor(),
		harvester: NewHarvester(cfg.ScrollSettle),
		inspector: NewCompanyInspector(classifier, cfg.Keywords, cfg.AboutWait),
		settle:    cfg.NavigateSettle,
	}
}

// Validate runs the profile pipeline and returns nil whenever the profile is
// not a lead: empty URL, navigation failure, or no relevant company. Nothing
// inside the pipeline escapes as an error; panics are recovered and logged.
func (v *Validator) Validate(ctx context.Context, s Session, profileURL string) (result *models.ProfileResult) {
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic while validating %s: %v", profileURL, r)
			result = nil
		}
	}()

	if err := s.Navigate(profileURL); err != nil {
		log.Printf("❌ Could not open profile %s: %v", profileURL, err)
		return nil
	}
	s.Sleep(v.settle)

	fields := v.fields.Extract(s)

	links := make([]string, 0, 8)
	for link := range v.harvester.HarvestCompanyLinks(s) {
		links = append(links, link)
	}
	// Stable visiting order, so "first matching company" is deterministic.
	sort.Strings(links)

	var matches []models.CompanyMatch
	for _, link := range links {
		if m := v.inspector.Inspect(ctx, s, link); m != nil {
			matches = append(matches, *m)
		}
	}

	// A profile without a relevant company is not a lead, whatever its
	// photo and title say.
	if len(matches) == 0 {
		log.Printf("📭 No matching companies for %s", profileURL)
		return nil
	}

	return &models.ProfileResult{
		HasPhoto:    fields.HasPhoto,
		JobTitle:    fields.JobTitle,
		Connections: fields.Connections,
		Companies:   matches,
	}
}
