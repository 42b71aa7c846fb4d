package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FetchAbstract scrapes the abstract text from the paper's /abs page.
// Used as a fallback when the metadata feed carries no summary.
func (c *Client) FetchAbstract(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, URLs(id).Abstract, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("abstract page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("abstract page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse abstract page: %w", err)
	}

	abstract := doc.Find("blockquote.abstract").Text()
	if abstract == "" {
		return "", fmt.Errorf("abstract not found on page for id %s", id)
	}

	abstract = strings.TrimPrefix(strings.TrimSpace(abstract), "Abstract:")
	return CleanText(abstract), nil
}
