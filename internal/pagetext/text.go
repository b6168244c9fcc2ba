package pagetext

import (
	"fmt"
	"io"

	"github.com/solardesk/pvtopo/internal/report"
)

// TextProvider handles plain-text dumps, typically pdftotext output saved
// to disk. Form feeds mark page boundaries when present; without them the
// file is a single page.
type TextProvider struct{}

func (p *TextProvider) Pages(r io.Reader, filename string) ([]report.PageText, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return pagesFromText(string(data)), nil
}
