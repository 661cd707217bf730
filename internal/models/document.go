package models

import "time"

// Document is an uploaded file's metadata record. Content is never stored or parsed.
type Document struct {
	ID          string    `json:"id"`          // <unix-ms>-<name>-<random>
	Name        string    `json:"name"`        // Original filename
	Size        string    `json:"size"`        // Human-readable, e.g. "2.3 MB"
	SizeInBytes int64     `json:"sizeInBytes"` // 0 for records persisted before the field existed
	UploadDate  time.Time `json:"uploadDate"`
	Type        string    `json:"type"` // Lowercase extension, display only
}

// File describes an upload request: a filename and its byte size
type File struct {
	Name string `json:"name" validate:"required,docext,max=255"`
	Size int64  `json:"size" validate:"gte=0"`
}

// UploadStatus reports the simulated upload progress
type UploadStatus struct {
	Uploading bool   `json:"uploading"`
	Progress  int    `json:"progress"` // 0-100
	FileName  string `json:"fileName,omitempty"`
}
