package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paper-chat/backend/internal/domain"
	"github.com/paper-chat/backend/internal/repository/memory"
	"github.com/paper-chat/backend/pkg/arxiv"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMetadataClient struct {
	metadata    *arxiv.Metadata
	metadataErr error
	abstract    string
	abstractErr error
}

func (f *fakeMetadataClient) FetchMetadata(ctx context.Context, id string) (*arxiv.Metadata, error) {
	if f.metadataErr != nil {
		return nil, f.metadataErr
	}
	return f.metadata, nil
}

func (f *fakeMetadataClient) FetchAbstract(ctx context.Context, id string) (string, error) {
	if f.abstractErr != nil {
		return "", f.abstractErr
	}
	return f.abstract, nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, pdfURL string) (string, error) {
	return f.text, f.err
}

func TestIngest(t *testing.T) {
	repo := memory.NewPaperRepository()
	md := &fakeMetadataClient{metadata: &arxiv.Metadata{
		Title:      "Example Paper",
		Authors:    []string{"A. Researcher"},
		Abstract:   "An abstract.",
		Categories: []string{"cs.LG"},
	}}
	u := NewPaperUsecase(repo, md, &fakeExtractor{text: "Full body text"}, discardLogger())

	paper, err := u.Ingest(context.Background(), "2401.12345")
	require.NoError(t, err)
	require.Equal(t, "2401.12345", paper.ID)
	require.Equal(t, "Example Paper", paper.Title)
	require.Equal(t, []string{"A. Researcher"}, paper.Authors)
	require.Equal(t, "Full body text", paper.Content)
	require.Equal(t, "https://arxiv.org/abs/2401.12345", paper.URL)
	require.Equal(t, "https://arxiv.org/pdf/2401.12345.pdf", paper.PDFURL)
	require.False(t, paper.CreatedAt.IsZero())

	stored, err := repo.Get(context.Background(), "2401.12345")
	require.NoError(t, err)
	require.Equal(t, paper, stored)
}

func TestIngestInvalidInput(t *testing.T) {
	repo := memory.NewPaperRepository()
	u := NewPaperUsecase(repo, &fakeMetadataClient{}, &fakeExtractor{}, discardLogger())

	_, err := u.Ingest(context.Background(), "not a url")
	require.ErrorIs(t, err, ErrInvalidURL)

	ids, err := repo.ListIDs(context.Background())
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestIngestExtractionFallsBackToAbstract(t *testing.T) {
	repo := memory.NewPaperRepository()
	md := &fakeMetadataClient{metadata: &arxiv.Metadata{
		Title:    "Example Paper",
		Abstract: "The abstract stands in.",
	}}
	u := NewPaperUsecase(repo, md, &fakeExtractor{err: errors.New("bad pdf")}, discardLogger())

	paper, err := u.Ingest(context.Background(), "https://arxiv.org/pdf/2401.12345v2")
	require.NoError(t, err)
	require.Equal(t, "The abstract stands in.", paper.Content)
}

func TestIngestDoubleFailureLeavesContentEmpty(t *testing.T) {
	repo := memory.NewPaperRepository()
	md := &fakeMetadataClient{
		metadata:    &arxiv.Metadata{Title: "Example Paper"},
		abstractErr: errors.New("abs page down"),
	}
	u := NewPaperUsecase(repo, md, &fakeExtractor{err: errors.New("bad pdf")}, discardLogger())

	paper, err := u.Ingest(context.Background(), "2401.12345")
	require.NoError(t, err)
	require.Equal(t, "", paper.Content)
}

func TestIngestAbstractPageFallback(t *testing.T) {
	repo := memory.NewPaperRepository()
	md := &fakeMetadataClient{
		metadata: &arxiv.Metadata{Title: "Example Paper"},
		abstract: "Scraped abstract.",
	}
	u := NewPaperUsecase(repo, md, &fakeExtractor{err: errors.New("bad pdf")}, discardLogger())

	paper, err := u.Ingest(context.Background(), "2401.12345")
	require.NoError(t, err)
	require.Equal(t, "Scraped abstract.", paper.Abstract)
	require.Equal(t, "Scraped abstract.", paper.Content)
}

func TestIngestMetadataFailureAborts(t *testing.T) {
	repo := memory.NewPaperRepository()
	md := &fakeMetadataClient{metadataErr: errors.New("arxiv down")}
	u := NewPaperUsecase(repo, md, &fakeExtractor{text: "Full body text"}, discardLogger())

	_, err := u.Ingest(context.Background(), "2401.12345")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidURL)

	ids, err := repo.ListIDs(context.Background())
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestIngestOverwriteLastWriteWins(t *testing.T) {
	repo := memory.NewPaperRepository()
	md := &fakeMetadataClient{metadata: &arxiv.Metadata{Title: "First Title"}}
	u := NewPaperUsecase(repo, md, &fakeExtractor{text: "v1"}, discardLogger())

	_, err := u.Ingest(context.Background(), "2401.12345")
	require.NoError(t, err)

	md.metadata = &arxiv.Metadata{Title: "Second Title"}
	u2 := NewPaperUsecase(repo, md, &fakeExtractor{text: "v2"}, discardLogger())
	_, err = u2.Ingest(context.Background(), "2401.12345")
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), "2401.12345")
	require.NoError(t, err)
	require.Equal(t, "Second Title", stored.Title)
	require.Equal(t, "v2", stored.Content)
}

func TestGetAbsent(t *testing.T) {
	u := NewPaperUsecase(memory.NewPaperRepository(), &fakeMetadataClient{}, &fakeExtractor{}, discardLogger())

	paper, err := u.Get(context.Background(), "9999.99999")
	require.NoError(t, err)
	require.Nil(t, paper)
}

var _ domain.PaperRepository = (*memory.PaperRepository)(nil)
