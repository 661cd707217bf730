package documents

import (
	"time"

	"github.com/ternarybob/docqa/internal/models"
)

// SeedDocuments returns the built-in sample documents used when nothing has been stored yet
func SeedDocuments() []models.Document {
	return []models.Document{
		{
			ID:          "1",
			Name:        "Project_Requirements.pdf",
			Size:        "2.3 MB",
			SizeInBytes: 2411725, // 2.3 * 1024 * 1024
			UploadDate:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Type:        "pdf",
		},
		{
			ID:          "2",
			Name:        "Technical_Specification.docx",
			Size:        "1.2 MB",
			SizeInBytes: 1258291,
			UploadDate:  time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC),
			Type:        "docx",
		},
		{
			ID:          "3",
			Name:        "API_Documentation.md",
			Size:        "554.6 KB",
			SizeInBytes: 567910,
			UploadDate:  time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC),
			Type:        "md",
		},
		{
			ID:          "4",
			Name:        "Coding_TypesScript_Interview_Package.pdf",
			Size:        "691 KB",
			SizeInBytes: 707584,
			UploadDate:  time.Date(2024, time.January, 18, 0, 0, 0, 0, time.UTC),
			Type:        "pdf",
		},
	}
}
