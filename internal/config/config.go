package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"linkedin-leads/internal/models"
)

// DefaultConfig returns the default configuration for the lead service
func DefaultConfig() models.Config {
	return models.Config{
		ListenAddr: ":8000",

		UploadDir:  "uploads",
		ResultsDir: "results",
		DBPath:     "leads.db",

		Headless: true,

		OllamaURL:   "http://localhost:11434",
		OllamaModel: "llama3",
		Keywords: []string{
			"software", "saas", "technology", "cloud", "artificial intelligence", "data",
		},

		NavigateSettle: 3 * time.Second,
		ScrollSettle:   2 * time.Second,
		AboutWait:      5 * time.Second,
		LLMTimeout:     60 * time.Second,

		URLColumn:    "linkedinUrl",
		PreviewRows:  100,
		ResultPrefix: "processed_",
	}
}

// Load builds the configuration from defaults plus environment overrides.
// A .env file, if present, is expected to be loaded by the caller beforehand.
func Load() models.Config {
	cfg := DefaultConfig()

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}

	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.ResultsDir = getEnv("RESULTS_DIR", cfg.ResultsDir)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)

	cfg.LinkedInEmail = getEnv("LINKEDIN_EMAIL", "")
	cfg.LinkedInPassword = getEnv("LINKEDIN_PASSWORD", "")
	cfg.Headless = getEnvBool("HEADLESS", cfg.Headless)
	cfg.ChromePath = getEnv("CHROME_PATH", "")

	cfg.OllamaURL = getEnv("OLLAMA_URL", cfg.OllamaURL)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	if kw := os.Getenv("RELEVANCE_KEYWORDS"); kw != "" {
		cfg.Keywords = splitList(kw)
	}

	cfg.NavigateSettle = getEnvDuration("NAVIGATE_SETTLE", cfg.NavigateSettle)
	cfg.ScrollSettle = getEnvDuration("SCROLL_SETTLE", cfg.ScrollSettle)
	cfg.AboutWait = getEnvDuration("ABOUT_WAIT", cfg.AboutWait)
	cfg.LLMTimeout = getEnvDuration("LLM_TIMEOUT", cfg.LLMTimeout)

	cfg.URLColumn = getEnv("URL_COLUMN", cfg.URLColumn)

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
