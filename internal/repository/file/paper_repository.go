// Package file implements domain.PaperRepository as one JSON document per
// paper under a fixed storage root.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/paper-chat/backend/internal/domain"
)

type PaperRepository struct {
	dir string
}

func NewPaperRepository(dir string) *PaperRepository {
	return &PaperRepository{dir: dir}
}

// unsafeChars maps id characters that cannot appear in a filename.
var unsafeChars = strings.NewReplacer("/", "-", ":", "-")

func (r *PaperRepository) path(id string) string {
	return filepath.Join(r.dir, unsafeChars.Replace(id)+".json")
}

// Put writes the record under its id, creating the storage root if absent.
// An existing record for the same id is overwritten unconditionally.
func (r *PaperRepository) Put(ctx context.Context, paper *domain.Paper) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating storage dir: %w", err)
	}

	data, err := json.MarshalIndent(paper, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling paper %s: %w", paper.ID, err)
	}
	if err := os.WriteFile(r.path(paper.ID), data, 0o644); err != nil {
		return "", fmt.Errorf("writing paper %s: %w", paper.ID, err)
	}
	return paper.ID, nil
}

// Get returns the stored record, or (nil, nil) when none exists.
func (r *PaperRepository) Get(ctx context.Context, id string) (*domain.Paper, error) {
	data, err := os.ReadFile(r.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading paper %s: %w", id, err)
	}

	var paper domain.Paper
	if err := json.Unmarshal(data, &paper); err != nil {
		return nil, fmt.Errorf("decoding paper %s: %w", id, err)
	}
	return &paper, nil
}

// ListIDs enumerates stored ids in directory-listing order. Ids come back
// in their filename rendering; the escaping in unsafeChars is lossy, but it
// is the identity for every id the resolver admits (YYYY.NNNNN), so the
// listing matches the canonical ids as long as that stays true.
func (r *PaperRepository) ListIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
