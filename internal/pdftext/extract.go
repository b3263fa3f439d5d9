package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNotPDF is returned when the input does not start with a PDF header.
	ErrNotPDF = errors.New("file is not a PDF")
	// ErrNoText is returned when no page yields any text (e.g. scanned documents).
	ErrNoText = errors.New("no extractable text found in PDF")
)

// Result holds the text pulled out of a PDF along with page bookkeeping.
type Result struct {
	Text         string
	TotalPages   int
	SkippedPages int
}

// IsPDF reports whether data begins with the %PDF- magic header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-"))
}

// ExtractBytes is a convenience wrapper around Extract for in-memory uploads.
func ExtractBytes(data []byte) (*Result, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}
	return Extract(bytes.NewReader(data), int64(len(data)))
}

// Extract reads every page of the PDF and joins their plain text with newlines.
// Pages that fail to decode are skipped rather than failing the whole document.
func Extract(r io.ReaderAt, size int64) (res *Result, err error) {
	// The pdf package panics on some malformed xref tables.
	defer func() {
		if rec := recover(); rec != nil {
			res = nil
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	res = &Result{TotalPages: reader.NumPage()}
	var text strings.Builder

	// Pages are 1-indexed in ledongthuc/pdf
	for i := 1; i <= res.TotalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			res.SkippedPages++
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("WARN: Skipping PDF page %d: %v", i, err)
			res.SkippedPages++
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			res.SkippedPages++
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	res.Text = text.String()
	if strings.TrimSpace(res.Text) == "" {
		return res, ErrNoText
	}
	return res, nil
}
