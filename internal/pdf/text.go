package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxTextSize caps extracted text
const maxTextSize = 10 * 1024 * 1024

// ExtractText returns the plain text of every page, each preceded by a
// "--- Page N ---" header. Pages without text are skipped. Extraction is
// best effort: a document that cannot be parsed yields an empty string.
func ExtractText(data []byte) string {
	text, _, err := extractText(data)
	if err != nil {
		return ""
	}
	return text
}

func extractText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var parts []string
	total := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(content) == "" {
			continue
		}

		part := fmt.Sprintf("--- Page %d ---\n%s", pageNum, content)
		if total+len(part) > maxTextSize {
			break
		}
		parts = append(parts, part)
		total += len(part)
	}

	return strings.Join(parts, "\n\n"), reader.NumPage(), nil
}
