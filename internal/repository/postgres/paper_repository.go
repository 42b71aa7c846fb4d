// Package postgres implements domain.PaperRepository on a papers table
// keyed by the canonical arXiv id. Selected when DATABASE_URL is set.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paper-chat/backend/internal/domain"
)

type PaperRepository struct {
	db *pgxpool.Pool
}

func NewPaperRepository(db *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{db: db}
}

// EnsureSchema creates the papers table if it does not exist.
func (r *PaperRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS papers (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL DEFAULT '',
			authors    TEXT[] NOT NULL DEFAULT '{}',
			abstract   TEXT NOT NULL DEFAULT '',
			categories TEXT[] NOT NULL DEFAULT '{}',
			url        TEXT NOT NULL DEFAULT '',
			pdf_url    TEXT NOT NULL DEFAULT '',
			content    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating papers table: %w", err)
	}
	return nil
}

// nonNilStrings guards the NOT NULL array columns: pgx encodes a nil
// []string as SQL NULL, and a sparse metadata feed leaves Authors and
// Categories nil.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *PaperRepository) Put(ctx context.Context, paper *domain.Paper) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO papers (id, title, authors, abstract, categories, url, pdf_url, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			authors = EXCLUDED.authors,
			abstract = EXCLUDED.abstract,
			categories = EXCLUDED.categories,
			url = EXCLUDED.url,
			pdf_url = EXCLUDED.pdf_url,
			content = EXCLUDED.content,
			created_at = EXCLUDED.created_at
	`

	_, err := r.db.Exec(ctx, query,
		paper.ID,
		paper.Title,
		nonNilStrings(paper.Authors),
		paper.Abstract,
		nonNilStrings(paper.Categories),
		paper.URL,
		paper.PDFURL,
		paper.Content,
		paper.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("storing paper %s: %w", paper.ID, err)
	}
	return paper.ID, nil
}

func (r *PaperRepository) Get(ctx context.Context, id string) (*domain.Paper, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, title, authors, abstract, categories, url, pdf_url, content, created_at
		FROM papers WHERE id = $1
	`

	paper := &domain.Paper{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&paper.ID,
		&paper.Title,
		&paper.Authors,
		&paper.Abstract,
		&paper.Categories,
		&paper.URL,
		&paper.PDFURL,
		&paper.Content,
		&paper.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading paper %s: %w", id, err)
	}
	return paper, nil
}

func (r *PaperRepository) ListIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id FROM papers`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning paper id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
