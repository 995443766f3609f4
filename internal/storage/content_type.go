package storage

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// =============================================================================
// Content Type Detection
// =============================================================================

// DetectContentType determines the MIME type of a file.
//
// Detection priority:
// 1. If providedType is non-empty, use it directly
// 2. Try to detect from file extension using mime.TypeByExtension
// 3. Sniff content from the first 512 bytes of data (if available)
// 4. Fall back to "application/octet-stream"
//
// Parameters:
//   - providedType: Explicitly provided content type (e.g., from HTTP header)
//   - filename: File name used to extract extension for MIME lookup
//   - data: Optional reader for content sniffing (only first 512 bytes are read)
//
// Returns the detected MIME type.
func DetectContentType(providedType, filename string, data io.Reader) string {
	// 1. Use provided type if available
	if providedType != "" {
		return providedType
	}

	// 2. Try extension-based detection
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType := ContentTypeForFormat(strings.TrimPrefix(ext, ".")); contentType != "" {
		return contentType
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	// 3. Try content sniffing if data is available
	if data != nil {
		// Read up to 512 bytes for sniffing (http.DetectContentType requirement)
		buffer := make([]byte, 512)
		n, err := io.ReadFull(data, buffer)
		if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
			return http.DetectContentType(buffer[:n])
		}
	}

	// 4. Fall back to generic binary type
	return "application/octet-stream"
}

// =============================================================================
// Artifact Format Helpers
// =============================================================================

// artifactContentTypes maps rendered artifact formats to their MIME types.
var artifactContentTypes = map[string]string{
	"html": "text/html; charset=utf-8",
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ContentTypeForFormat returns the MIME type for a rendered artifact format
// ("html", "pdf" or "docx"). Returns an empty string for unknown formats.
func ContentTypeForFormat(format string) string {
	return artifactContentTypes[strings.ToLower(strings.TrimSpace(format))]
}

// IsPDF returns true if the content type is a PDF document.
func IsPDF(contentType string) bool {
	return baseContentType(contentType) == "application/pdf"
}

// IsDocument returns true if the content type is one of the artifact formats
// this service renders.
func IsDocument(contentType string) bool {
	base := baseContentType(contentType)
	for _, ct := range artifactContentTypes {
		if baseContentType(ct) == base {
			return true
		}
	}
	return false
}

// baseContentType strips parameters (like charset) and normalizes case.
func baseContentType(contentType string) string {
	base := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(base))
}
