package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/documents"
	"github.com/ternarybob/docqa/internal/services/kv"
	"github.com/ternarybob/docqa/internal/services/llm"
	"github.com/ternarybob/docqa/internal/services/qa"
	"github.com/ternarybob/docqa/internal/storage/memory"
)

type fixture struct {
	registry  *documents.Registry
	manager   *qa.Manager
	documents *DocumentHandler
	qa        *QAHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := arbor.NewLogger()
	store := kv.NewStore(memory.NewKVStorage(), logger)

	registry := documents.NewRegistry(store, nil, logger, documents.Options{UploadInterval: time.Millisecond})
	manager := qa.NewManager(store, nil, nil, logger, qa.Options{DebounceDelay: -1})
	t.Cleanup(registry.Close)
	t.Cleanup(manager.Close)

	ctx := context.Background()
	registry.Load(ctx)
	manager.Load(ctx)

	return &fixture{
		registry:  registry,
		manager:   manager,
		documents: NewDocumentHandler(registry, logger),
		qa:        NewQAHandler(manager, registry, logger),
	}
}

func do(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestDocumentHandler_ListAndSelect(t *testing.T) {
	f := newFixture(t)

	rec := do(f.documents.ListHandler, http.MethodGet, "/api/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[DocumentListResponse](t, rec)
	assert.Len(t, list.Documents, 4)
	assert.Equal(t, "1", list.SelectedID)
	assert.Equal(t, documents.PhaseReady, list.Phase)

	rec = do(f.documents.SelectHandler, http.MethodPost, "/api/documents/select", `{"id":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API_Documentation.md", decode[models.Document](t, rec).Name)

	rec = do(f.documents.SelectHandler, http.MethodPost, "/api/documents/select", `{"id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(f.documents.SelectHandler, http.MethodPost, "/api/documents/select", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "id is required")

	rec = do(f.documents.ListHandler, http.MethodPost, "/api/documents", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDocumentHandler_Upload(t *testing.T) {
	f := newFixture(t)

	rec := do(f.documents.StartUploadHandler, http.MethodPost, "/api/documents/upload", `{"name":"image.png","size":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ".pdf")

	rec = do(f.documents.StartUploadHandler, http.MethodPost, "/api/documents/upload", `{"name":"notes.md","size":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(f.documents.StartUploadHandler, http.MethodPost, "/api/documents/upload", `{"name":"notes.md","size":2048}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, decode[models.UploadStatus](t, rec).Uploading)

	assert.Eventually(t, func() bool {
		var status models.UploadStatus
		rec := do(f.documents.UploadStatusHandler, http.MethodGet, "/api/documents/upload", "")
		return json.Unmarshal(rec.Body.Bytes(), &status) == nil && !status.Uploading
	}, 2*time.Second, 5*time.Millisecond)

	selected, ok := f.registry.Selected()
	require.True(t, ok)
	assert.Equal(t, "notes.md", selected.Name)
}

func TestDocumentHandler_UploadConflict(t *testing.T) {
	logger := arbor.NewLogger()
	registry := documents.NewRegistry(kv.NewStore(memory.NewKVStorage(), logger), nil, logger, documents.Options{UploadInterval: time.Hour})
	t.Cleanup(registry.Close)
	registry.Load(context.Background())
	handler := NewDocumentHandler(registry, logger)

	rec := do(handler.StartUploadHandler, http.MethodPost, "/api/documents/upload", `{"name":"a.txt","size":1}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(handler.StartUploadHandler, http.MethodPost, "/api/documents/upload", `{"name":"b.txt","size":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestQAHandler_AskUsesSelectedDocument(t *testing.T) {
	f := newFixture(t)

	rec := do(f.qa.AskHandler, http.MethodPost, "/api/qa/ask", `{"question":"  What is the retry policy?  "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	record := decode[models.QA](t, rec)
	assert.Equal(t, "1", record.DocumentID)
	assert.Equal(t, "What is the retry policy?", record.Question)
	require.NotNil(t, record.Metadata)
	assert.Equal(t, models.SourceMock, record.Metadata.Source)

	rec = do(f.qa.AskHandler, http.MethodPost, "/api/qa/ask", `{"question":"Hi","documentId":"2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 3")

	rec = do(f.qa.AskHandler, http.MethodPost, "/api/qa/ask", `{"question":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQAHandler_HistorySearchAndFilter(t *testing.T) {
	f := newFixture(t)

	rec := do(f.qa.AskHandler, http.MethodPost, "/api/qa/ask", `{"question":"Where is the deployment guide?","documentId":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	history := decode[HistoryResponse](t, do(f.qa.HistoryHandler, http.MethodGet, "/api/qa/history", ""))
	require.Len(t, history.History, 2)
	assert.Equal(t, "2", history.History[0].DocumentID)
	assert.Empty(t, history.History[0].AnswerHTML)
	assert.False(t, history.AIEnabled)

	rec = do(f.qa.SearchHandler, http.MethodPut, "/api/qa/search", `{"query":"REQUIREMENTS"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	history = decode[HistoryResponse](t, do(f.qa.HistoryHandler, http.MethodGet, "/api/qa/history?render=html", ""))
	require.Len(t, history.History, 1)
	assert.Equal(t, "REQUIREMENTS", history.SettledSearch)
	assert.Contains(t, history.History[0].AnswerHTML, "<strong>environment requirements</strong>")
	assert.Contains(t, history.History[0].AnswerHTML, "<code")

	rec = do(f.qa.SearchHandler, http.MethodPut, "/api/qa/search", `{"query":""}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	rec = do(f.qa.FilterHandler, http.MethodPut, "/api/qa/filter", `{"documentId":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	history = decode[HistoryResponse](t, do(f.qa.HistoryHandler, http.MethodGet, "/api/qa/history", ""))
	require.Len(t, history.History, 1)
	assert.Equal(t, "2", history.DocumentFilter)
}

func TestQAHandler_Export(t *testing.T) {
	f := newFixture(t)
	f.qa.now = func() time.Time { return time.Date(2026, time.October, 14, 8, 0, 0, 0, time.UTC) }

	rec := do(f.qa.ExportHandler, http.MethodGet, "/api/qa/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="qa-history-2026-10-14T08:00:00.000Z.json"`, rec.Header().Get("Content-Disposition"))

	var records []models.QA
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].ID)

	rec = do(f.qa.ExportHandler, http.MethodGet, "/api/qa/export?format=yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".yaml")
	assert.Contains(t, rec.Body.String(), "documentId:")

	rec = do(f.qa.ExportHandler, http.MethodGet, "/api/qa/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubProber struct {
	gotKey string
}

func (s *stubProber) Probe(ctx context.Context, apiKey string) llm.ProbeResult {
	s.gotKey = apiKey
	return llm.ProbeResult{Success: false, Message: "Google API key is not configured"}
}

func TestStatusHandler(t *testing.T) {
	prober := &stubProber{}
	handler := NewStatusHandler(prober, "", arbor.NewLogger())

	rec := do(handler.HealthHandler, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.Contains(t, health, "goroutines")

	rec = do(handler.VersionHandler, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec), "version")

	rec = do(handler.ProbeHandler, http.MethodGet, "/api/ai/probe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[llm.ProbeResult](t, rec)
	assert.False(t, result.Success)
	assert.Equal(t, "Google API key is not configured", result.Message)
	assert.Equal(t, "", prober.gotKey)
}
