package domain

import (
	"context"
	"time"
)

// Paper is the durable unit composed by the scrape pipeline. ID is the
// canonical arXiv identifier with any version suffix stripped; URL and
// PDFURL are derived from it deterministically. Content holds the full
// extracted PDF text, or the abstract when extraction degraded.
type Paper struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Abstract   string    `json:"abstract"`
	Categories []string  `json:"categories"`
	URL        string    `json:"url"`
	PDFURL     string    `json:"pdfUrl"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PaperRepository persists papers keyed by canonical arXiv id.
// Get returns (nil, nil) when no record exists; absence is not an error.
// Put overwrites any existing record for the same id unconditionally.
type PaperRepository interface {
	Put(ctx context.Context, paper *Paper) (string, error)
	Get(ctx context.Context, id string) (*Paper, error)
	ListIDs(ctx context.Context) ([]string, error)
}
