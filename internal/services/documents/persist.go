package documents

import (
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/models"
)

// storedDocument is the persisted shape: timestamps as strings, and a
// pointer size so records written before sizeInBytes existed can be detected
type storedDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        string `json:"size"`
	SizeInBytes *int64 `json:"sizeInBytes"`
	UploadDate  string `json:"uploadDate"`
	Type        string `json:"type"`
}

func toStored(docs []models.Document) []storedDocument {
	out := make([]storedDocument, len(docs))
	for i, doc := range docs {
		size := doc.SizeInBytes
		out[i] = storedDocument{
			ID:          doc.ID,
			Name:        doc.Name,
			Size:        doc.Size,
			SizeInBytes: &size,
			UploadDate:  common.FormatTimestamp(doc.UploadDate),
			Type:        doc.Type,
		}
	}
	return out
}

// fromStored reconstructs documents. Unparseable dates become the zero time
// and are reported through badDates rather than discarding the record.
func fromStored(stored []storedDocument) (docs []models.Document, badDates []string) {
	docs = make([]models.Document, len(stored))
	for i, s := range stored {
		uploaded, err := common.ParseTimestamp(s.UploadDate)
		if err != nil {
			badDates = append(badDates, s.ID)
		}

		var size int64
		if s.SizeInBytes != nil {
			size = *s.SizeInBytes
		}

		docs[i] = models.Document{
			ID:          s.ID,
			Name:        s.Name,
			Size:        s.Size,
			SizeInBytes: size,
			UploadDate:  uploaded,
			Type:        s.Type,
		}
	}
	return docs, badDates
}
