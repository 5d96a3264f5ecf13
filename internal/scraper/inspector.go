package scraper

import (
	"context"
	"log"
	"strings"
	"time"

	"linkedin-leads/internal/models"
)

var aboutSelectors = []string{
	`section.org-about-module p`,
	`.org-about-module__description`,
	`p.break-words`,
}

// CompanyInspector visits a company's about page and keeps the company only
// when its description passes the relevance classifier.
type CompanyInspector struct {
	classifier Classifier
	keywords   []string
	wait       time.Duration
}

// NewCompanyInspector creates a new CompanyInspector instance
func NewCompanyInspector(classifier Classifier, keywords []string, wait time.Duration) *CompanyInspector {
	return &CompanyInspector{
		classifier: classifier,
		keywords:   keywords,
		wait:       wait,
	}
}

// Inspect navigates to the company's about sub-page and returns a match when
// the description is present and classified relevant, nil otherwise. A
// missing about section and a negative verdict are both ordinary outcomes.
func (ci *CompanyInspector) Inspect(ctx context.Context, s Session, companyURL string) *models.CompanyMatch {
	aboutURL := strings.TrimRight(companyURL, "/") + "/about/"

	if err := s.Navigate(aboutURL); err != nil {
		log.Printf("⚠️ Could not open about page %s: %v", aboutURL, err)
		return nil
	}

	if !s.WaitFor(strings.Join(aboutSelectors, ", "), ci.wait) {
		log.Printf("📭 No about section found for %s", companyURL)
		return nil
	}

	about := strings.TrimSpace(firstText(s, aboutSelectors))
	if about == "" {
		log.Printf("📭 No about section found for %s", companyURL)
		return nil
	}

	if !ci.classifier.IsRelevant(ctx, about, ci.keywords) {
		return nil
	}

	return &models.CompanyMatch{
		CompanyURL: companyURL,
		About:      about,
	}
}
