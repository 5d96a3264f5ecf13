// Package relevance classifies company descriptions against the lead
// keyword set using a local Ollama-compatible model backend.
package relevance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the standard local Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

// Client is a thin client for the backend's generate endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a new Client instance
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// IsRelevant asks the model whether the description relates to any of the
// keywords. The model is a best-effort oracle: any transport or decode
// failure is logged and counts as a negative verdict, never an error.
func (c *Client) IsRelevant(ctx context.Context, description string, keywords []string) bool {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: buildPrompt(description, keywords),
		Stream: false,
	})
	if err != nil {
		log.Printf("⚠️ Classifier request encode failed: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		log.Printf("⚠️ Classifier request build failed: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️ Classifier backend unreachable: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️ Classifier backend returned status %d", resp.StatusCode)
		return false
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Printf("⚠️ Classifier response decode failed: %v", err)
		return false
	}

	return strings.Contains(strings.ToLower(out.Response), "yes")
}

func buildPrompt(description string, keywords []string) string {
	return fmt.Sprintf(`You are a lead qualification assistant. Does the following company description relate to any of these topics: %s?

Answer with a single word: yes or no.

Description: %s`, strings.Join(keywords, ", "), description)
}
