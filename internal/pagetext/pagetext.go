package pagetext

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/solardesk/pvtopo/internal/report"
)

// Provider extracts per-page text from one report file format. Page
// boundaries matter downstream: the array-characteristics pages are located
// by page, so providers preserve them where the format has any.
type Provider interface {
	Pages(r io.Reader, filename string) ([]report.PageText, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".html": true,
	".htm":  true,
	".txt":  true,
}

// ForFile returns the provider for a filename.
func ForFile(filename string) (Provider, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFProvider{}, nil
	case ".docx":
		return &DOCXProvider{}, nil
	case ".html", ".htm":
		return &HTMLProvider{}, nil
	case ".txt":
		return &TextProvider{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// pagesFromText splits form-feed separated text into PageText records,
// dropping blank pages but keeping the original page numbering.
func pagesFromText(text string) []report.PageText {
	var pages []report.PageText
	for i, page := range strings.Split(text, "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		pages = append(pages, report.PageText{Page: i + 1, Text: page})
	}
	return pages
}
