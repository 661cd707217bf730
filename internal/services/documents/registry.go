// Package documents owns the list of known documents, the current selection
// and the simulated upload that adds new entries.
package documents

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
	"github.com/ternarybob/docqa/internal/models"
	"github.com/ternarybob/docqa/internal/services/kv"
	"github.com/ternarybob/docqa/internal/services/scheduler"
)

var (
	// ErrUploadInProgress is returned by StartUpload while another upload is running
	ErrUploadInProgress = errors.New("upload already in progress")

	// ErrDocumentNotFound is returned by Select for an unknown id
	ErrDocumentNotFound = errors.New("document not found")

	// ErrNotReady is returned by mutations attempted before Load completes
	ErrNotReady = errors.New("document registry is still loading")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("document registry closed")
)

// Phase is the registry lifecycle state
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

const (
	defaultUploadInterval = 200 * time.Millisecond
	defaultUploadStep     = 10
)

// Options tunes the simulated upload and the clock
type Options struct {
	UploadInterval time.Duration
	UploadStep     int
	Now            func() time.Time
}

// Registry holds documents and the selection, persisting both after the initial load
type Registry struct {
	store  *kv.Store
	events interfaces.EventService
	logger arbor.ILogger

	interval time.Duration
	step     int
	now      func() time.Time

	mu        sync.RWMutex
	phase     Phase
	documents []models.Document
	selected  *models.Document
	closed    bool

	uploading  bool
	progress   int
	uploadName string
	task       *scheduler.Task
	result     chan models.Document
}

// NewRegistry creates a registry in the loading phase. events may be nil.
func NewRegistry(store *kv.Store, events interfaces.EventService, logger arbor.ILogger, opts Options) *Registry {
	r := &Registry{
		store:    store,
		events:   events,
		logger:   logger,
		interval: opts.UploadInterval,
		step:     opts.UploadStep,
		now:      opts.Now,
		phase:    PhaseLoading,
	}
	if r.interval <= 0 {
		r.interval = defaultUploadInterval
	}
	if r.step <= 0 {
		r.step = defaultUploadStep
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Load reads persisted documents and selection, falling back to the seed set.
// It never fails and never writes back what it read.
func (r *Registry) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseReady {
		return
	}

	var stored []storedDocument
	if r.store.Load(ctx, common.KeyDocuments, &stored) && stored != nil {
		docs, badDates := fromStored(stored)
		if len(badDates) > 0 {
			r.logger.Warn().Strs("document_ids", badDates).Msg("Stored documents with unreadable upload dates")
		}
		r.documents = docs
		r.selected = nil

		if len(docs) > 0 {
			var selectedID string
			if r.store.Load(ctx, common.KeySelectedDocument, &selectedID) {
				r.selected = findDocument(docs, selectedID)
			}
			if r.selected == nil {
				first := docs[0]
				r.selected = &first
			}
		}

		r.logger.Info().Int("documents", len(docs)).Msg("Documents restored from store")
	} else {
		r.documents = SeedDocuments()
		first := r.documents[0]
		r.selected = &first
		r.logger.Info().Int("documents", len(r.documents)).Msg("No stored documents, using sample set")
	}

	r.phase = PhaseReady
}

// Phase returns the lifecycle state
func (r *Registry) Phase() Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase
}

// Documents returns a copy of the document list in insertion order
func (r *Registry) Documents() []models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Document, len(r.documents))
	copy(out, r.documents)
	return out
}

// Selected returns the current selection
func (r *Registry) Selected() (models.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.selected == nil {
		return models.Document{}, false
	}
	return *r.selected, true
}

// Select makes the document with id the current selection and persists the id
func (r *Registry) Select(ctx context.Context, id string) (models.Document, error) {
	r.mu.Lock()

	if err := r.checkMutable(); err != nil {
		r.mu.Unlock()
		return models.Document{}, err
	}

	doc := findDocument(r.documents, id)
	if doc == nil {
		r.mu.Unlock()
		return models.Document{}, ErrDocumentNotFound
	}

	changed := r.selected == nil || r.selected.ID != doc.ID
	r.selected = doc
	if changed {
		r.store.Save(ctx, common.KeySelectedDocument, doc.ID)
	}
	selected := *doc
	r.mu.Unlock()

	if changed {
		r.publishSync(ctx, interfaces.EventDocumentSelected, selected)
	}
	return selected, nil
}

// UploadStatus reports the upload flag and progress
func (r *Registry) UploadStatus() models.UploadStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.statusLocked()
}

// StartUpload begins a simulated upload of file. The returned channel receives the
// resulting document once progress completes and is then closed; it is closed
// without a value if the registry is closed first.
func (r *Registry) StartUpload(ctx context.Context, file models.File) (<-chan models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkMutable(); err != nil {
		return nil, err
	}
	if r.uploading {
		r.logger.Debug().Str("file", file.Name).Str("in_flight", r.uploadName).Msg("Upload rejected, another upload is in flight")
		return nil, ErrUploadInProgress
	}

	r.uploading = true
	r.progress = 0
	r.uploadName = file.Name
	r.result = make(chan models.Document, 1)
	result := r.result

	r.logger.Info().Str("file", file.Name).Int64("size_bytes", file.Size).Msg("Upload started")
	r.publish(interfaces.EventUploadStarted, r.statusLocked())

	r.task = scheduler.Every("upload:"+file.Name, r.interval, r.logger, func() bool {
		return r.advance(file)
	})

	return result, nil
}

// advance runs on each progress tick; it returns false once the task should stop
func (r *Registry) advance(file models.File) bool {
	r.mu.Lock()

	if !r.uploading {
		r.mu.Unlock()
		return false
	}

	if r.progress < 100 {
		r.progress += r.step
		if r.progress > 100 {
			r.progress = 100
		}
		status := r.statusLocked()
		r.mu.Unlock()

		r.publish(interfaces.EventUploadProgress, status)
		return true
	}

	doc, result := r.completeLocked(file)
	r.mu.Unlock()

	r.publish(interfaces.EventDocumentUploaded, doc)
	r.publishSync(context.Background(), interfaces.EventDocumentSelected, doc)

	result <- doc
	close(result)
	return false
}

// completeLocked creates the document, applies dedupe and selection, and clears the upload flag
func (r *Registry) completeLocked(file models.File) (models.Document, chan models.Document) {
	ctx := context.Background()
	now := r.now()
	doc := models.Document{
		ID:          common.NewDocumentID(now, file.Name),
		Name:        file.Name,
		Size:        FormatSize(file.Size),
		SizeInBytes: file.Size,
		UploadDate:  now,
		Type:        FileType(file.Name),
	}

	if r.hasDuplicateLocked(doc) {
		r.logger.Info().Str("file", doc.Name).Str("size", doc.Size).Msg("Document already present, list unchanged")
	} else {
		r.documents = append(r.documents, doc)
		r.store.Save(ctx, common.KeyDocuments, toStored(r.documents))
	}

	// The new record becomes the selection even when the list already held a match
	selected := doc
	r.selected = &selected
	r.store.Save(ctx, common.KeySelectedDocument, doc.ID)

	result := r.result
	r.uploading = false
	r.result = nil
	r.task = nil

	r.logger.Info().Str("document_id", doc.ID).Str("file", doc.Name).Msg("Upload complete")
	return doc, result
}

func (r *Registry) hasDuplicateLocked(doc models.Document) bool {
	for _, existing := range r.documents {
		if existing.Name == doc.Name && existing.Size == doc.Size && existing.SizeInBytes == doc.SizeInBytes {
			return true
		}
	}
	return false
}

// Close stops any in-flight upload without creating a document
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	if r.task != nil {
		r.task.Stop()
		r.task = nil
	}
	if r.uploading {
		r.logger.Warn().Str("file", r.uploadName).Int("progress", r.progress).Msg("Upload cancelled by shutdown")
		r.uploading = false
		close(r.result)
		r.result = nil
	}
}

func (r *Registry) checkMutable() error {
	if r.closed {
		return ErrClosed
	}
	if r.phase != PhaseReady {
		return ErrNotReady
	}
	return nil
}

func (r *Registry) statusLocked() models.UploadStatus {
	status := models.UploadStatus{Uploading: r.uploading, Progress: r.progress}
	if r.uploading {
		status.FileName = r.uploadName
	}
	return status
}

func (r *Registry) publish(eventType interfaces.EventType, payload interface{}) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(context.Background(), interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		r.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish event")
	}
}

// publishSync runs subscribers before returning, so views derived from the
// selection are current once Select or an upload completes
func (r *Registry) publishSync(ctx context.Context, eventType interfaces.EventType, payload interface{}) {
	if r.events == nil {
		return
	}
	if err := r.events.PublishSync(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		r.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Event subscribers failed")
	}
}

func findDocument(docs []models.Document, id string) *models.Document {
	for i := range docs {
		if docs[i].ID == id {
			doc := docs[i]
			return &doc
		}
	}
	return nil
}
