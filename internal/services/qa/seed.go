package qa

import (
	"time"

	"github.com/ternarybob/docqa/internal/models"
)

const seedAnswer = "The document provides detailed specifications:\n\n" +
	"```typescript\n" +
	"interface Configuration {\n" +
	"  maxConnections: number;\n" +
	"  timeout: number;\n" +
	"  retryAttempts: number;\n" +
	"}\n" +
	"```\n\n" +
	"These settings should be configured based on your **environment requirements**."

// SeedHistory returns the sample history used when nothing has been stored yet
func SeedHistory(now time.Time) []models.QA {
	return []models.QA{
		{
			ID:         "1",
			DocumentID: "1",
			Question:   "What are the main requirements?",
			Answer:     seedAnswer,
			Timestamp:  now.Add(-23 * time.Minute),
		},
	}
}
