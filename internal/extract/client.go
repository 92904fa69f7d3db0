// Package extract calls the remote extraction service that turns a raw
// transcript into structured task fields. The service is a black box from
// the pipeline's perspective: failures and timeouts surface as errors at
// this boundary and become "no deadline" upstream.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/voicetask/internal/model"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
	apiURL           = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"

	// requestTimeout bounds a single extraction call. A timed-out call
	// is recoverable: the capture flow reports a transient error and
	// the user retries.
	requestTimeout = 30 * time.Second
)

// Client talks to the Claude Messages API to extract task fields from a
// transcript.
type Client struct {
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client

	// BaseURL overrides the production endpoint, used by tests.
	BaseURL string
}

// New creates an extraction client with the given configuration.
func New(apiKey, modelName string, maxTokens int) *Client {
	if modelName == "" {
		modelName = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: requestTimeout},
		BaseURL:   apiURL,
	}
}

// Extract sends the transcript and the current-date reference to the
// extraction service and decodes the structured result. Relative-day
// language ("tomorrow", "next Friday") is resolved by the service against
// currentDate; the local parser only understands absolute and
// anchored-to-current-date formats.
func (c *Client) Extract(ctx context.Context, transcript, currentDate string) (model.ExtractionResult, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    buildSystemPrompt(currentDate),
		Messages: []apiMessage{
			{Role: "user", Content: transcript},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.BaseURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("calling extraction service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return model.ExtractionResult{}, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return model.ExtractionResult{}, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return model.ExtractionResult{}, fmt.Errorf("decoding response: %w", err)
	}

	return decodeExtraction(result)
}

// buildSystemPrompt instructs the model to emit a single JSON object and
// to resolve relative dates against the supplied current date.
func buildSystemPrompt(currentDate string) string {
	var sb strings.Builder

	sb.WriteString("You extract task data from a spoken transcript. ")
	sb.WriteString("Today's date is ")
	sb.WriteString(currentDate)
	sb.WriteString(".\n\n")

	sb.WriteString("Respond with a single JSON object and nothing else:\n")
	sb.WriteString(`{"title": "...", "description": "...", "datetime": "...", "priority": 3}`)
	sb.WriteString("\n\n")

	sb.WriteString("Rules:\n")
	sb.WriteString("- title: short imperative summary of the task\n")
	sb.WriteString("- description: one sentence of detail, or empty\n")
	sb.WriteString("- datetime: the deadline if the transcript names one. ")
	sb.WriteString("Resolve relative expressions like \"tomorrow\" or \"next Friday\" ")
	sb.WriteString("against today's date and emit an absolute value: ")
	sb.WriteString("a full timestamp (2006-01-02T15:04), a bare date (2006-01-02), ")
	sb.WriteString("or a time of day (15:04) when only a time is spoken. ")
	sb.WriteString("Empty string if no deadline is mentioned.\n")
	sb.WriteString("- priority: 1 (highest) to 5 (lowest), default 3\n")

	return sb.String()
}

// decodeExtraction pulls the JSON object out of the response text. Models
// occasionally wrap the object in prose or code fences, so the first
// balanced object is located by brace scan.
func decodeExtraction(resp apiResponse) (model.ExtractionResult, error) {
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	raw := firstJSONObject(text.String())
	if raw == "" {
		return model.ExtractionResult{}, fmt.Errorf("no JSON object in extraction response")
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return model.ExtractionResult{}, fmt.Errorf("decoding extraction payload: %w", err)
	}

	return model.ExtractionResult{
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		DateTime:    strings.TrimSpace(payload.DateTime),
		Priority:    decodePriority(payload.Priority),
	}, nil
}

// firstJSONObject returns the first balanced {...} block in s, or "".
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// decodePriority tolerates both numeric and quoted priority values.
func decodePriority(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 3
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil && n >= 1 && n <= 5 {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 1 && n <= 5 {
			return n
		}
	}
	return 3
}
