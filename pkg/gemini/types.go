package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// GenerateRequest is the body for POST /{model}:generateContent.
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	Tools            []Tool            `json:"tools,omitempty"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one conversation turn.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single content segment: text or inline document bytes.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries a base64-encoded document inside the request.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Tool enables provider-side augmentation; only web search is used here.
type Tool struct {
	GoogleSearch *GoogleSearch `json:"google_search,omitempty"`
}

// GoogleSearch is the grounding tool config (no options).
type GoogleSearch struct{}

// GenerationConfig bounds the model's output.
type GenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
}

// GenerateResponse is the provider's nested response mapping.
type GenerateResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

// Candidate is one generated completion.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// UsageMetadata reports token consumption.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// ModelInfo describes one provider model.
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

// SupportsGenerate reports whether the model accepts generateContent calls.
func (m ModelInfo) SupportsGenerate() bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// StatusError is a non-2xx provider response: the status, the raw body, and
// any Retry-After header value. The retrying wrapper decides what to do
// with it; the base client never retries.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("gemini: status %d: %s", e.StatusCode, body)
}

// retryDelayPattern matches the RetryInfo delay format, e.g. "32s".
var retryDelayPattern = regexp.MustCompile(`^(\d+)\s*s`)

// RetryHint extracts a server-supplied retry delay: the Retry-After header
// when present, otherwise the RetryInfo detail embedded in the error body.
// Returns false when the response carries no usable hint.
func (e *StatusError) RetryHint() (time.Duration, bool) {
	if secs, err := strconv.Atoi(e.RetryAfter); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, true
	}

	var body struct {
		Error struct {
			Details []map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		return 0, false
	}
	for _, d := range body.Error.Details {
		t, _ := d["@type"].(string)
		if len(t) < len("RetryInfo") || t[len(t)-len("RetryInfo"):] != "RetryInfo" {
			continue
		}
		rd, _ := d["retryDelay"].(string)
		if m := retryDelayPattern.FindStringSubmatch(rd); m != nil {
			if secs, err := strconv.Atoi(m[1]); err == nil {
				return time.Duration(secs) * time.Second, true
			}
		}
	}
	return 0, false
}
