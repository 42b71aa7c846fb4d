package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrNoEntries is returned when the metadata feed decodes successfully but
// contains no entry for the requested id.
var ErrNoEntries = errors.New("no entries in arxiv feed")

var whitespaceRuns = regexp.MustCompile(`\s+`)

type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Metadata holds the fields extracted from the arXiv Atom feed. Every field
// is independently optional: a field the feed omits stays at its zero value
// rather than failing the whole fetch.
type Metadata struct {
	Title      string
	Authors    []string
	Abstract   string
	Categories []string
	Published  time.Time
}

// feed represents the arXiv Atom feed response.
type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID              string     `xml:"id"`
	Title           string     `xml:"title"`
	Summary         string     `xml:"summary"`
	Published       string     `xml:"published"`
	Authors         []author   `xml:"author"`
	PrimaryCategory *category  `xml:"primary_category"`
	Categories      []category `xml:"category"`
}

type author struct {
	Name string `xml:"name"`
}

type category struct {
	Term   string `xml:"term,attr"`
	Scheme string `xml:"scheme,attr"`
}

const atomScheme = "http://arxiv.org/schemas/atom"

// FetchMetadata queries the arXiv API for a single id and extracts the
// metadata fields. Extraction is field-by-field: missing fields come back
// empty, a missing published date falls back to the current time. A network
// failure or a non-success status is an error; so is a feed with no entry.
func (c *Client) FetchMetadata(ctx context.Context, id string) (*Metadata, error) {
	reqURL := URLs(id).API

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read arxiv response: %w", err)
	}

	var f feed
	if err := xml.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("failed to parse arxiv response: %w", err)
	}
	if len(f.Entries) == 0 {
		return nil, ErrNoEntries
	}

	return entryToMetadata(&f.Entries[0]), nil
}

func entryToMetadata(e *entry) *Metadata {
	md := &Metadata{
		Title:    strings.TrimSpace(e.Title),
		Abstract: CleanText(e.Summary),
	}

	for _, a := range e.Authors {
		name := strings.TrimSpace(a.Name)
		if name != "" {
			md.Authors = append(md.Authors, name)
		}
	}

	// Only the primary category is retained. When the feed omits the
	// primary_category element, the first Atom-scheme category stands in.
	if e.PrimaryCategory != nil && e.PrimaryCategory.Term != "" {
		md.Categories = []string{e.PrimaryCategory.Term}
	} else {
		for _, cat := range e.Categories {
			if cat.Scheme == atomScheme && cat.Term != "" {
				md.Categories = []string{cat.Term}
				break
			}
		}
	}

	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		md.Published = t
	} else {
		md.Published = time.Now()
	}

	return md
}

// CleanText collapses internal whitespace runs to single spaces and trims
// the result.
func CleanText(s string) string {
	return whitespaceRuns.ReplaceAllString(strings.TrimSpace(s), " ")
}
