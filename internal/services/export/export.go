// Package export serializes a Q&A view into a downloadable artifact
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/models"
	"gopkg.in/yaml.v3"
)

// Format selects the artifact encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Artifact is a named, typed export payload
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseFormat maps a user-supplied name to a Format; empty means JSON
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", name)
	}
}

// Filename returns qa-history-<ISO timestamp>.<ext> for now
func Filename(now time.Time, format Format) string {
	return "qa-history-" + common.ISOTimestamp(now) + "." + extension(format)
}

// Marshal encodes records as an indented JSON array or a YAML sequence
func Marshal(records []models.QA, format Format) ([]byte, error) {
	if records == nil {
		records = []models.QA{}
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(toYAML(records)); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return data, nil
	}
}

// Snapshot builds the artifact for view as it is at the moment of the call
func Snapshot(view []models.QA, format Format, now time.Time) (*Artifact, error) {
	data, err := Marshal(view, format)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Filename:    Filename(now, format),
		ContentType: contentType(format),
		Data:        data,
	}, nil
}

func extension(format Format) string {
	if format == FormatYAML {
		return "yaml"
	}
	return "json"
}

func contentType(format Format) string {
	if format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// yamlQA mirrors the JSON field names, which yaml.v3 would otherwise lowercase
type yamlQA struct {
	ID         string      `yaml:"id"`
	DocumentID string      `yaml:"documentId"`
	Question   string      `yaml:"question"`
	Answer     string      `yaml:"answer"`
	Timestamp  string      `yaml:"timestamp"`
	Metadata   *yamlMetaQA `yaml:"metadata,omitempty"`
}

type yamlMetaQA struct {
	Source       string `yaml:"source"`
	ResponseTime int64  `yaml:"responseTime"`
	Model        string `yaml:"model,omitempty"`
	IsError      bool   `yaml:"isError,omitempty"`
}

func toYAML(records []models.QA) []yamlQA {
	out := make([]yamlQA, len(records))
	for i, r := range records {
		out[i] = yamlQA{
			ID:         r.ID,
			DocumentID: r.DocumentID,
			Question:   r.Question,
			Answer:     r.Answer,
			Timestamp:  common.FormatTimestamp(r.Timestamp),
		}
		if r.Metadata != nil {
			out[i].Metadata = &yamlMetaQA{
				Source:       r.Metadata.Source,
				ResponseTime: r.Metadata.ResponseTime,
				Model:        r.Metadata.Model,
				IsError:      r.Metadata.IsError,
			}
		}
	}
	return out
}
