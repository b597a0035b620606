package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// ErrExtraction marks every failure to turn document bytes into text.
var ErrExtraction = errors.New("pdf extraction failed")

const pageMarkerFormat = "\n--- Page %d ---\n"

// PageMarker returns the boundary line written before page n (1-based).
func PageMarker(n int) string {
	return fmt.Sprintf(pageMarkerFormat, n)
}

type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfPages struct {
	reader *pdf.Reader
}

func (p pdfPages) NumPage() int {
	return p.reader.NumPage()
}

func (p pdfPages) PageText(n int) (string, error) {
	page := p.reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d could not be resolved", n)
	}
	return page.GetPlainText(nil)
}

// ExtractPDF returns the text of every page, each preceded by its page
// marker. Any error discards the whole result.
func ExtractPDF(data []byte) (text string, err error) {
	// The parser panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: parser panic: %v", ErrExtraction, r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create PDF reader: %w", ErrExtraction, err)
	}

	return collectPages(pdfPages{reader: pdfReader})
}

func collectPages(src pageSource) (string, error) {
	var textBuilder strings.Builder
	numPages := src.NumPage()

	for i := 1; i <= numPages; i++ {
		pageText, err := src.PageText(i)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %w", ErrExtraction, i, err)
		}

		textBuilder.WriteString(PageMarker(i))
		textBuilder.WriteString(norm.NFC.String(pageText))
	}

	return textBuilder.String(), nil
}
