package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*GeminiService, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	svc := NewGeminiService(&common.GeminiConfig{BaseURL: server.URL + "/"}, arbor.NewLogger())
	return svc, &hits
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestGeminiService_GenerateReturnsFirstCandidateText(t *testing.T) {
	var gotPath, gotPrompt, gotRole string
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var body struct {
			Contents []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			gotPrompt = body.Contents[0].Parts[0].Text
			gotRole = body.Contents[0].Role
		}

		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"First answer"},{"text":"ignored"}]}}]}`)
	})

	completion, err := svc.Generate(context.Background(), "test-key", "What are the main requirements?")
	require.NoError(t, err)

	assert.Equal(t, "First answer", completion.Text)
	assert.Equal(t, DefaultModel, completion.Model)
	assert.Equal(t, "What are the main requirements?", gotPrompt)
	assert.Empty(t, gotRole)
	assert.True(t, strings.HasSuffix(gotPath, "/models/gemini-1.5-flash:generateContent"), gotPath)
	assert.True(t, strings.Contains(gotPath, "/v1beta/"), gotPath)
}

func TestGeminiService_GenerateWithoutKeyMakesNoCall(t *testing.T) {
	svc, hits := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	_, err := svc.Generate(context.Background(), "", "question")
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestGeminiService_GenerateStatusError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	})

	_, err := svc.Generate(context.Background(), "bad-key", "question")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
}

func TestGeminiService_GenerateRejectsEmptyCandidates(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"candidates":[]}`)
	})

	_, err := svc.Generate(context.Background(), "test-key", "question")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGeminiService_ProbeOutcomes(t *testing.T) {
	t.Run("no key", func(t *testing.T) {
		svc, hits := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})

		result := svc.Probe(context.Background(), "")
		assert.False(t, result.Success)
		assert.Equal(t, "Google API key is not configured", result.Message)
		assert.Equal(t, int64(0), result.ResponseTime)
		assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	})

	t.Run("success", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Hello there!"}]}}]}`)
		})

		result := svc.Probe(context.Background(), "test-key")
		assert.True(t, result.Success)
		assert.Equal(t, "Google AI API is working correctly!", result.Message)
		assert.Equal(t, "Hello there!", result.Response)
		assert.Empty(t, result.Error)
	})

	t.Run("status", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`)
		})

		result := svc.Probe(context.Background(), "test-key")
		assert.False(t, result.Success)
		assert.Equal(t, "API request failed with status 400", result.Message)
		assert.NotEmpty(t, result.Error)
	})

	t.Run("bad shape", func(t *testing.T) {
		svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`)
		})

		result := svc.Probe(context.Background(), "test-key")
		assert.False(t, result.Success)
		assert.Equal(t, "Invalid response format from Google AI", result.Message)
	})
}

func TestGeminiService_ClientsAreCachedPerKey(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	})

	ctx := context.Background()
	_, err := svc.Generate(ctx, "key-a", "one")
	require.NoError(t, err)
	_, err = svc.Generate(ctx, "key-a", "two")
	require.NoError(t, err)
	_, err = svc.Generate(ctx, "key-b", "three")
	require.NoError(t, err)

	assert.Len(t, svc.clients, 2)
}
