package qa

import (
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/models"
)

// storedQA is the persisted shape with the timestamp as a string
type storedQA struct {
	ID         string             `json:"id"`
	DocumentID string             `json:"documentId"`
	Question   string             `json:"question"`
	Answer     string             `json:"answer"`
	Timestamp  string             `json:"timestamp"`
	Metadata   *models.QAMetadata `json:"metadata,omitempty"`
}

func toStored(history []models.QA) []storedQA {
	out := make([]storedQA, len(history))
	for i, qa := range history {
		out[i] = storedQA{
			ID:         qa.ID,
			DocumentID: qa.DocumentID,
			Question:   qa.Question,
			Answer:     qa.Answer,
			Timestamp:  common.FormatTimestamp(qa.Timestamp),
			Metadata:   qa.Metadata,
		}
	}
	return out
}

// fromStored keeps records whose timestamp cannot be parsed, with the zero time
func fromStored(stored []storedQA) (history []models.QA, badTimestamps []string) {
	history = make([]models.QA, len(stored))
	for i, s := range stored {
		ts, err := common.ParseTimestamp(s.Timestamp)
		if err != nil {
			badTimestamps = append(badTimestamps, s.ID)
		}
		history[i] = models.QA{
			ID:         s.ID,
			DocumentID: s.DocumentID,
			Question:   s.Question,
			Answer:     s.Answer,
			Timestamp:  ts,
			Metadata:   s.Metadata,
		}
	}
	return history, badTimestamps
}
