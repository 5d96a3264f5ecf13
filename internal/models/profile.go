package models

// FieldSet holds the signals extracted from a profile's top card
type FieldSet struct {
	HasPhoto    bool
	JobTitle    string
	Connections string
}

// CompanyMatch represents a company whose about text passed the relevance filter
type CompanyMatch struct {
	CompanyURL string
	About      string
}

// ProfileResult represents the outcome of one profile visit.
// It lives only for the duration of a single batch row.
type ProfileResult struct {
	HasPhoto    bool
	JobTitle    string
	Connections string
	Companies   []CompanyMatch
}
