package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// MimePDF is the only mime type accepted for documents.
const MimePDF = "application/pdf"

// FileMetadata is derived from the file the user supplied.
type FileMetadata struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"type"`
	LastModified time.Time `json:"lastModified"`
}

// Document is the loaded PDF. Content is opaque to the core.
type Document struct {
	Content  []byte
	Metadata FileMetadata
}

// NewDocument builds a document and derives its metadata from the payload.
func NewDocument(name string, content []byte, mimeType string, modified time.Time) *Document {
	if mimeType == "" {
		mimeType = MimePDF
	}
	return &Document{
		Content: content,
		Metadata: FileMetadata{
			Name:         name,
			Size:         int64(len(content)),
			MimeType:     mimeType,
			LastModified: modified,
		},
	}
}

// ID returns the identifier the backend knows this document by.
// It is the display name with a trailing ".pdf" removed, so two different
// files with the same name alias on the backend.
func (d *Document) ID() string {
	return DocumentIDFromName(d.Metadata.Name)
}

// Name returns the display file name.
func (d *Document) Name() string {
	return d.Metadata.Name
}

// DocumentIDFromName strips directories and a case-insensitive ".pdf" suffix.
func DocumentIDFromName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// IsPDF reports whether a file name or mime type identifies a PDF.
func IsPDF(name, mimeType string) bool {
	if strings.EqualFold(mimeType, MimePDF) {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
