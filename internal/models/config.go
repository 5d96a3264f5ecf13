package models

import "time"

// Config represents the application configuration
type Config struct {
	ListenAddr string

	UploadDir  string
	ResultsDir string
	DBPath     string

	LinkedInEmail    string
	LinkedInPassword string
	Headless         bool
	ChromePath       string

	OllamaURL   string
	OllamaModel string
	Keywords    []string

	NavigateSettle time.Duration
	ScrollSettle   time.Duration
	AboutWait      time.Duration
	LLMTimeout     time.Duration

	URLColumn    string
	PreviewRows  int
	ResultPrefix string
}
