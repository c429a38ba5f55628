package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContentSuccess(t *testing.T) {
	var gotPath string
	var gotBody GenerateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := GenerateResponse{
			Candidates: []Candidate{{
				Content:      Content{Parts: []Part{{Text: `{"ok": true}`}}},
				FinishReason: "STOP",
			}},
			UsageMetadata: &UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 5},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithModel("models/test"))

	resp, err := c.GenerateContent(context.Background(), GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "안녕"}}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/models/test:generateContent", gotPath)
	assert.Equal(t, "안녕", gotBody.Contents[0].Parts[0].Text)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "STOP", resp.Candidates[0].FinishReason)
	assert.Equal(t, 10, resp.UsageMetadata.PromptTokenCount)
}

func TestGenerateContentStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := c.GenerateContent(context.Background(), GenerateRequest{})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 429, se.StatusCode)
	assert.Equal(t, "30", se.RetryAfter)
	assert.Contains(t, se.Body, "RESOURCE_EXHAUSTED")
}

func TestGenerateContentMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.GenerateContent(context.Background(), GenerateRequest{})
	assert.Error(t, err)
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"models": [
			{"name": "models/gemini-2.0-flash", "displayName": "Flash", "supportedGenerationMethods": ["generateContent"]},
			{"name": "models/embedding-001", "displayName": "Embedding", "supportedGenerationMethods": ["embedContent"]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.True(t, models[0].SupportsGenerate())
	assert.False(t, models[1].SupportsGenerate())
}

func TestGenerateContentContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GenerateContent(ctx, GenerateRequest{})
	assert.Error(t, err)
}
