// Package pdftext fetches a PDF over HTTP and extracts its text as a flat
// string. No layout reconstruction, no OCR.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

type Extractor struct {
	httpClient *http.Client
}

func NewExtractor() *Extractor {
	return &Extractor{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Extract downloads the PDF at pdfURL and returns its plain text, page by
// page, rows joined with newlines. A non-success status or an unparseable
// body is an error; callers decide whether to degrade.
func (e *Extractor) Extract(ctx context.Context, pdfURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pdf request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pdf fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf body: %w", err)
	}

	return extractText(body)
}

func extractText(body []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("failed to extract text on page %d: %w", i, err)
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			sb.WriteString(strings.Join(words, " "))
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}
