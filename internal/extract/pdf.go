// Package extract pulls text out of source PDF decks for the extraction
// prompt. Page breaks are marked so the model can keep table context.
package extract

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// Text extracts the plain text of every page, with a page marker between
// pages. Pages whose text cannot be decoded are skipped rather than failing
// the document.
func Text(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "extract: read %s", path)
	}
	return textFromBytes(content)
}

func textFromBytes(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", eris.Wrap(err, "extract: open pdf")
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or image-only pages: keep going, inline-bytes mode
			// covers them.
			continue
		}
		fmt.Fprintf(&buf, "\n--- Page %d ---\n%s", i, text)
	}
	return buf.String(), nil
}

// Bytes reads the raw PDF for the inline-document request variant.
func Bytes(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: read %s", path)
	}
	return content, nil
}
