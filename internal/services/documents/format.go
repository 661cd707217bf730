package documents

import (
	"fmt"
	"math"
	"strings"
)

const bytesPerMB = 1024 * 1024

// AcceptedExtensions lists the file extensions the upload shells accept
var AcceptedExtensions = []string{".pdf", ".docx", ".doc", ".md", ".txt", ".json"}

// FormatSize renders a byte count in megabytes with one decimal place, e.g. "2.3 MB".
// Halves round up (262144 bytes is "0.3 MB") to match sizes already stored by the web client.
func FormatSize(sizeInBytes int64) string {
	mb := math.Floor(float64(sizeInBytes)/bytesPerMB*10+0.5) / 10
	return fmt.Sprintf("%.1f MB", mb)
}

// FileType returns the lowercased suffix after the last period, or "" when there is none
func FileType(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// IsAcceptedFile reports whether name carries one of AcceptedExtensions (case-insensitive)
func IsAcceptedFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range AcceptedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
