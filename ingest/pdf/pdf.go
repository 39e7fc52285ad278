// Package pdf drafts catalog topics from PDF reference manuals.
//
// It uses ledongthuc/pdf (BSD-3, pure Go, no CGO) for text extraction. This
// is a separate subpackage so that the dependency is only pulled in by
// authors who draft from PDFs.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/stlref/stlref/ingest"
)

// FromBytes extracts the text of a PDF document into a Draft. Unreadable
// pages are skipped; an error is returned only when no page yields text.
func FromBytes(content []byte, source string) (ingest.Draft, error) {
	if len(content) == 0 {
		return ingest.Draft{}, fmt.Errorf("empty PDF content")
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ingest.Draft{}, fmt.Errorf("open pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip unreadable pages
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	if text.Len() == 0 {
		return ingest.Draft{}, fmt.Errorf("no extractable text in %s", source)
	}
	return ingest.FromText(titleFromSource(source), text.String(), source), nil
}

// titleFromSource derives a provisional title from the file name.
func titleFromSource(source string) string {
	base := source
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".pdf")
}
