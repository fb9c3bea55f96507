package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var (
	ErrExtract     = errors.New("failed to extract text")
	ErrUnsupported = errors.New("unsupported source document")
)

var pdfMagic = []byte("%PDF-")

func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic)
}

// ExtractText returns the text content of a PDF or UTF-8 text document.
func ExtractText(data []byte) (string, error) {
	if IsPDF(data) {
		return extractPDF(data)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return "", ErrUnsupported
}

// extractPDF converts a malformed document's reader panic into ErrExtract.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrExtract, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}
	return string(out), nil
}
