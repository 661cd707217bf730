package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docqa/internal/models"
	"gopkg.in/yaml.v3"
)

var testNow = time.Date(2026, time.October, 14, 9, 5, 7, 123000000, time.UTC)

func testRecords() []models.QA {
	return []models.QA{
		{
			ID:         "1760000000000000000",
			DocumentID: "2",
			Question:   "What is the timeout?",
			Answer:     "Thirty seconds.",
			Timestamp:  testNow,
			Metadata:   &models.QAMetadata{Source: models.SourceAI, ResponseTime: 412, Model: "gemini-1.5-flash"},
		},
		{
			ID:         "1",
			DocumentID: "1",
			Question:   "What are the main requirements?",
			Answer:     "See **environment requirements**.",
			Timestamp:  testNow.Add(-23 * time.Minute),
		},
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "qa-history-2026-10-14T09:05:07.123Z.json", Filename(testNow, FormatJSON))
	assert.Equal(t, "qa-history-2026-10-14T09:05:07.123Z.yaml", Filename(testNow, FormatYAML))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestSnapshotJSON(t *testing.T) {
	artifact, err := Snapshot(testRecords(), FormatJSON, testNow)
	require.NoError(t, err)

	assert.Equal(t, "application/json", artifact.ContentType)
	assert.True(t, strings.HasPrefix(string(artifact.Data), "[\n  {\n    \"id\": "), string(artifact.Data))

	var decoded []models.QA
	require.NoError(t, json.Unmarshal(artifact.Data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "2", decoded[0].DocumentID)
	assert.Equal(t, "gemini-1.5-flash", decoded[0].Metadata.Model)
	assert.Nil(t, decoded[1].Metadata)
	assert.NotContains(t, string(artifact.Data), "isError")
}

func TestSnapshotEmptyView(t *testing.T) {
	artifact, err := Snapshot(nil, FormatJSON, testNow)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(artifact.Data))
}

func TestSnapshotYAML(t *testing.T) {
	artifact, err := Snapshot(testRecords(), FormatYAML, testNow)
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", artifact.ContentType)

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(artifact.Data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "2", decoded[0]["documentId"])
	assert.Equal(t, "2026-10-14T09:05:07.123Z", decoded[0]["timestamp"])
	_, hasMeta := decoded[1]["metadata"]
	assert.False(t, hasMeta)
}
