package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/models"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("DOCQA_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := common.NewDefaultConfig()
	cfg.Storage.Type = "memory"
	cfg.Upload.Interval = "1ms"
	cfg.Search.DebounceDelay = "1ms"

	application, err := New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })
	return application
}

func TestNew_LoadsSeedStateAndWiresFilter(t *testing.T) {
	application := newTestApp(t)

	assert.Empty(t, application.APIKey)
	assert.Len(t, application.Documents.Documents(), 4)
	assert.Len(t, application.QA.All(), 1)
	assert.Equal(t, "1", application.QA.DocumentFilter())

	_, err := application.Documents.Select(context.Background(), "2")
	require.NoError(t, err)

	assert.Equal(t, "2", application.QA.DocumentFilter())
	assert.Empty(t, application.QA.History())
}

func TestSelect_FilterCurrentOnReturn(t *testing.T) {
	application := newTestApp(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := application.Documents.Select(ctx, "2")
		require.NoError(t, err)
		require.Equal(t, "2", application.QA.DocumentFilter())

		_, err = application.Documents.Select(ctx, "1")
		require.NoError(t, err)
		require.Equal(t, "1", application.QA.DocumentFilter())
		require.Len(t, application.QA.History(), 1)
	}
}

func TestNew_UploadedDocumentBecomesFilter(t *testing.T) {
	application := newTestApp(t)

	ch, err := application.Documents.StartUpload(context.Background(), models.File{Name: "guide.md", Size: 1024})
	require.NoError(t, err)

	var doc models.Document
	select {
	case doc = <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("upload did not complete")
	}

	assert.Equal(t, doc.ID, application.QA.DocumentFilter())
}

func TestNew_MaintenanceJobRegistered(t *testing.T) {
	application := newTestApp(t)

	status, err := application.SchedulerService.GetJobStatus(maintenanceJobName)
	require.NoError(t, err)
	assert.Equal(t, "0 */6 * * *", status.Schedule)

	require.NoError(t, application.SchedulerService.TriggerJob(maintenanceJobName))
}

func TestNew_ConfigKeyEnablesAI(t *testing.T) {
	t.Setenv("DOCQA_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := common.NewDefaultConfig()
	cfg.Storage.Type = "memory"
	cfg.Maintenance.Enabled = false
	cfg.Gemini.APIKey = "from-config"

	application, err := New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	defer application.Close()

	assert.Equal(t, "from-config", application.APIKey)
	assert.True(t, application.QA.HasCredential())
}
