package extract

import "encoding/json"

// apiRequest is the Claude Messages API request body.
type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// apiResponse is the Claude Messages API response body.
type apiResponse struct {
	Content    []apiContentBlock `json:"content"`
	StopReason string            `json:"stop_reason"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// apiErrorResponse is the error envelope returned on non-200 statuses.
type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// extractionPayload is the JSON object the model is instructed to emit.
// Priority arrives as a raw value because some responses quote it.
type extractionPayload struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DateTime    string          `json:"datetime"`
	Priority    json.RawMessage `json:"priority"`
}
