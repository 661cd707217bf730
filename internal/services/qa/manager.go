// Package qa manages question submission, answer resolution and the
// persisted, filterable question/answer history.
package qa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/debounce"
	"github.com/ternarybob/docqa/internal/services/kv"
)

var (
	// ErrEmptyQuestion is returned by Ask for blank input
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrBusy is returned by Ask while another question is being answered
	ErrBusy = errors.New("another question is being answered")
)

const defaultDebounceDelay = 300 * time.Millisecond

// Options configures a Manager
type Options struct {
	// APIKey enables remote answers when non-empty
	APIKey string

	// DebounceDelay applies to SetSearch; zero uses the default, negative settles immediately
	DebounceDelay time.Duration

	Clock func() time.Time
}

// Manager owns the Q&A history. History is kept newest first.
type Manager struct {
	store    *kv.Store
	provider interfaces.AnswerProvider
	events   interfaces.EventService
	logger   arbor.ILogger
	apiKey   string
	clock    func() time.Time
	ids      common.TimeIDSource

	search *debounce.Value[string]

	mu             sync.RWMutex
	history        []models.QA
	loaded         bool
	busy           bool
	documentFilter string
}

// NewManager creates a manager with an empty history. Call Load before use.
// provider may be nil when no remote service is wired; events may be nil.
func NewManager(store *kv.Store, provider interfaces.AnswerProvider, events interfaces.EventService, logger arbor.ILogger, opts Options) *Manager {
	m := &Manager{
		store:    store,
		provider: provider,
		events:   events,
		logger:   logger,
		apiKey:   opts.APIKey,
		clock:    opts.Clock,
	}
	if m.clock == nil {
		m.clock = time.Now
	}

	delay := opts.DebounceDelay
	if delay == 0 {
		delay = defaultDebounceDelay
	}
	m.search = debounce.New(delay, "", debounce.WithOnSettle(func(query string) {
		m.logger.Debug().Str("query", query).Msg("Search settled")
		m.publish(interfaces.EventSearchSettled, query)
	}))

	return m
}

// Load restores history from the store, or the seed record when nothing usable is stored.
// It never writes.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return
	}

	var stored []storedQA
	if m.store.Load(ctx, common.KeyQAHistory, &stored) && stored != nil {
		history, bad := fromStored(stored)
		if len(bad) > 0 {
			m.logger.Warn().Strs("qa_ids", bad).Msg("Stored QA records with unreadable timestamps")
		}
		m.history = history
		m.logger.Info().Int("records", len(history)).Msg("QA history restored from store")
	} else {
		m.history = SeedHistory(m.clock())
		m.logger.Info().Msg("No stored QA history, using sample record")
	}

	m.loaded = true
}

// Ask answers question against documentID, records the exchange and returns it.
// Only blank input and a concurrent Ask are errors; remote failures produce a
// fallback answer flagged in the metadata.
func (m *Manager) Ask(ctx context.Context, question, documentID string) (*models.QA, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.busy = true
	m.mu.Unlock()

	started := m.clock()
	answer, metadata := m.resolve(ctx, question)
	finished := m.clock()
	metadata.ResponseTime = finished.Sub(started).Milliseconds()

	record := models.QA{
		ID:         m.ids.Next(finished),
		DocumentID: documentID,
		Question:   question,
		Answer:     answer,
		Timestamp:  finished,
		Metadata:   metadata,
	}

	m.mu.Lock()
	m.history = append([]models.QA{record}, m.history...)
	if m.loaded {
		m.store.Save(ctx, common.KeyQAHistory, toStored(m.history))
	}
	m.busy = false
	m.mu.Unlock()

	m.logger.Info().
		Str("qa_id", record.ID).
		Str("document_id", documentID).
		Str("source", metadata.Source).
		Bool("is_error", metadata.IsError).
		Int64("response_time_ms", metadata.ResponseTime).
		Msg("Question answered")

	m.publish(interfaces.EventQACreated, record)
	return &record, nil
}

// resolve picks the remote answer when a credential is configured, else the fallback
func (m *Manager) resolve(ctx context.Context, question string) (string, *models.QAMetadata) {
	if m.apiKey == "" || m.provider == nil {
		return fallbackAnswer(question, false), &models.QAMetadata{Source: models.SourceMock}
	}

	completion, err := m.provider.Generate(ctx, m.apiKey, question)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Remote answer failed, using fallback")
		return fallbackAnswer(question, true), &models.QAMetadata{Source: models.SourceMock, IsError: true}
	}

	return completion.Text, &models.QAMetadata{Source: models.SourceAI, Model: completion.Model}
}

// History returns the view: records matching the document filter and the settled search text
func (m *Manager) History() []models.QA {
	query := m.search.Settled()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return Filter(m.history, m.documentFilter, query)
}

// All returns the full history, newest first
func (m *Manager) All() []models.QA {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.QA, len(m.history))
	copy(out, m.history)
	return out
}

// SetSearch updates the search text; the view follows once it has been stable for the debounce delay
func (m *Manager) SetSearch(query string) {
	m.search.Set(query)
}

// Search returns the latest search input
func (m *Manager) Search() string {
	return m.search.Pending()
}

// SettledSearch returns the search text currently applied to the view
func (m *Manager) SettledSearch() string {
	return m.search.Settled()
}

// SetDocumentFilter restricts the view to documentID, or clears the restriction when empty
func (m *Manager) SetDocumentFilter(documentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documentFilter = documentID
}

// DocumentFilter returns the document restriction applied to the view
func (m *Manager) DocumentFilter() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documentFilter
}

// Busy reports whether a question is being answered
func (m *Manager) Busy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.busy
}

// HasCredential reports whether remote answers are enabled
func (m *Manager) HasCredential() bool {
	return m.apiKey != ""
}

// Close disposes the search debouncer
func (m *Manager) Close() {
	m.search.Close()
}

func (m *Manager) publish(eventType interfaces.EventType, payload interface{}) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(context.Background(), interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		m.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish event")
	}
}
