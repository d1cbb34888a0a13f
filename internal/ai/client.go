package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"smart-planner-backend/internal/planner"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Models to try, in order of preference. The first one that answers
// (or answers with a quota error — it exists, just rate limited) is
// cached for the rest of the process lifetime.
var preferredModels = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-flash-latest",
	"gemini-1.5-pro",
	"gemini-pro",
	"gemini-1.0-pro",
}

var errModelNotFound = errors.New("model not available")

// APIError is a non-2xx answer from the generation API.
type APIError struct {
	Model  string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini %s: status %d: %s", e.Model, e.Status, e.Body)
}

// GeminiClient calls the Google Generative Language API directly over
// HTTP. It satisfies planner.Generator.
type GeminiClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client

	mu      sync.Mutex
	working string // first model name that responded
}

func New(apiKey string) *GeminiClient {
	return &GeminiClient{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate sends prompt to the working model, probing the preference
// list until a model responds. Wraps planner.ErrRateLimited and
// planner.ErrModelUnavailable so callers can classify.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if model := c.workingModel(); model != "" {
		return c.generateWith(ctx, model, prompt)
	}

	for _, name := range preferredModels {
		text, err := c.generateWith(ctx, name, prompt)
		if err == nil {
			c.setWorking(name)
			log.Printf("✅ using Gemini model: %s", name)
			return text, nil
		}
		if errors.Is(err, planner.ErrRateLimited) {
			// model exists, keep it; this call still fails
			c.setWorking(name)
			log.Printf("✅ using Gemini model: %s (quota limited, will retry)", name)
			return "", err
		}
		if errors.Is(err, errModelNotFound) {
			log.Printf("[WARN] model %s not available, trying next...", name)
			continue
		}
		log.Printf("[WARN] model %s error: %v", name, err)
	}

	return "", fmt.Errorf("%w: tried %d models", planner.ErrModelUnavailable, len(preferredModels))
}

// ResetModelCache forgets the cached working model so the next call
// probes the preference list again.
func (c *GeminiClient) ResetModelCache() {
	c.mu.Lock()
	c.working = ""
	c.mu.Unlock()
}

func (c *GeminiClient) workingModel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.working
}

func (c *GeminiClient) setWorking(name string) {
	c.mu.Lock()
	c.working = name
	c.mu.Unlock()
}

func (c *GeminiClient) generateWith(ctx context.Context, model, prompt string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	payload, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.BaseURL, model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	data, _ := io.ReadAll(res.Body)

	if res.StatusCode != http.StatusOK {
		apiErr := &APIError{Model: model, Status: res.StatusCode, Body: strings.TrimSpace(string(data))}
		lower := strings.ToLower(apiErr.Body)
		switch {
		case res.StatusCode == http.StatusTooManyRequests || strings.Contains(lower, "quota"):
			return "", fmt.Errorf("%w: %v", planner.ErrRateLimited, apiErr)
		case res.StatusCode == http.StatusNotFound ||
			strings.Contains(lower, "not found") ||
			strings.Contains(lower, "not supported"):
			return "", fmt.Errorf("%w: %v", errModelNotFound, apiErr)
		default:
			return "", apiErr
		}
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini %s: empty response", model)
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return strings.TrimSpace(text.String()), nil
}
