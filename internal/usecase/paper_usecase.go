package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/paper-chat/backend/internal/domain"
	"github.com/paper-chat/backend/pkg/arxiv"
)

var ErrInvalidURL = errors.New("not a recognizable arxiv url or identifier")

// MetadataClient fetches paper metadata from arXiv.
type MetadataClient interface {
	FetchMetadata(ctx context.Context, id string) (*arxiv.Metadata, error)
	FetchAbstract(ctx context.Context, id string) (string, error)
}

// ContentExtractor turns a PDF URL into flat text.
type ContentExtractor interface {
	Extract(ctx context.Context, pdfURL string) (string, error)
}

type PaperUsecase struct {
	repo      domain.PaperRepository
	metadata  MetadataClient
	extractor ContentExtractor
	logger    *slog.Logger
}

func NewPaperUsecase(repo domain.PaperRepository, metadata MetadataClient, extractor ContentExtractor, logger *slog.Logger) *PaperUsecase {
	return &PaperUsecase{
		repo:      repo,
		metadata:  metadata,
		extractor: extractor,
		logger:    logger,
	}
}

// Ingest resolves the input to a canonical arXiv id, fetches metadata and
// PDF text concurrently, composes the paper record, and stores it. A
// metadata failure aborts the ingest; a content-extraction failure degrades
// to the abstract (or an empty string when the abstract is also unknown)
// and still succeeds.
func (u *PaperUsecase) Ingest(ctx context.Context, input string) (*domain.Paper, error) {
	id, ok := arxiv.ExtractID(input)
	if !ok {
		return nil, ErrInvalidURL
	}
	links := arxiv.URLs(id)

	var (
		md         *arxiv.Metadata
		content    string
		extractErr error
	)

	// The two fetches are independent: content extraction only needs the
	// PDF URL. Extraction failure is recorded, never propagated.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		md, err = u.metadata.FetchMetadata(gctx, id)
		if err != nil {
			return fmt.Errorf("fetching metadata for %s: %w", id, err)
		}
		return nil
	})
	g.Go(func() error {
		content, extractErr = u.extractor.Extract(gctx, links.PDF)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if md.Abstract == "" {
		abstract, err := u.metadata.FetchAbstract(ctx, id)
		if err != nil {
			u.logger.Warn("abstract page fallback failed", "id", id, "error", err)
		} else {
			md.Abstract = abstract
		}
	}

	if extractErr != nil {
		u.logger.Warn("pdf extraction failed, falling back to abstract", "id", id, "error", extractErr)
		content = md.Abstract
	}

	paper := &domain.Paper{
		ID:         id,
		Title:      md.Title,
		Authors:    md.Authors,
		Abstract:   md.Abstract,
		Categories: md.Categories,
		URL:        links.Abstract,
		PDFURL:     links.PDF,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := u.repo.Put(ctx, paper); err != nil {
		return nil, fmt.Errorf("storing paper %s: %w", id, err)
	}

	u.logger.Info("paper ingested", "id", id, "title", paper.Title, "contentBytes", len(paper.Content))
	return paper, nil
}

// Get returns the stored paper, or (nil, nil) when none exists.
func (u *PaperUsecase) Get(ctx context.Context, id string) (*domain.Paper, error) {
	return u.repo.Get(ctx, id)
}

// ListIDs enumerates the ids of all stored papers.
func (u *PaperUsecase) ListIDs(ctx context.Context) ([]string, error) {
	return u.repo.ListIDs(ctx)
}
