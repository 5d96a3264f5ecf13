package scraper

import (
	"linkedin-leads/internal/models"
)

// Selector fallback lists for the profile top card. LinkedIn rotates its
// markup between cohorts, so each field is probed with an ordered list and
// the first hit wins.
var photoSelectors = []string{
	`img.profile-photo`,
	`img.pv-top-card-profile-picture__image`,
	`.pv-top-card__photo`,
}

var jobTitleSelectors = []string{
	`.text-body-medium.break-words`,
	`.pv-text-details__left-panel`,
	`.pv-top-card--list`,
}

const connectionsJS = `(() => {
	const res = document.evaluate("//*[contains(text(),'connections')]", document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
	const node = res.singleNodeValue;
	return node ? (node.textContent || '').replace(/\s+/g, ' ').trim() : '';
})()`

// FieldExtractor reads the photo/title/connections signals from the profile
// page the session is currently on.
type FieldExtractor struct{}

// NewFieldExtractor creates a new FieldExtractor instance
func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

// Extract probes the current page for the top-card fields. A selector that
// matches nothing is a negative signal, not an error: the photo flag stays
// false and the strings stay empty.
func (fe *FieldExtractor) Extract(s Session) models.FieldSet {
	var fields models.FieldSet

	for _, sel := range photoSelectors {
		if s.Exists(sel) {
			fields.HasPhoto = true
			break
		}
	}

	fields.JobTitle = firstText(s, jobTitleSelectors)

	var connections string
	if err := s.Eval(connectionsJS, &connections); err == nil {
		fields.Connections = connections
	}

	return fields
}
