package qa

import (
	"strings"

	"github.com/ternarybob/docqa/internal/models"
)

// Filter keeps records that belong to documentID (any document when empty) and whose
// question or answer contains query case-insensitively (everything when empty).
// Order is preserved and the input is not modified.
func Filter(history []models.QA, documentID, query string) []models.QA {
	needle := strings.ToLower(query)
	out := make([]models.QA, 0, len(history))
	for _, qa := range history {
		if documentID != "" && qa.DocumentID != documentID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(qa.Question), needle) &&
			!strings.Contains(strings.ToLower(qa.Answer), needle) {
			continue
		}
		out = append(out, qa)
	}
	return out
}
