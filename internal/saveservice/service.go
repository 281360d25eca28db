// Package saveservice coordinates storage, decoding and search for the HTTP
// and MCP surfaces.
package saveservice

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/starford/savscan/internal/apperr"
	"github.com/starford/savscan/internal/models"
	"github.com/starford/savscan/internal/report"
	"github.com/starford/savscan/internal/savefile"
	"github.com/starford/savscan/internal/search"
	"github.com/starford/savscan/internal/storage"
)

// Options holds the defaults applied to every request.
type Options struct {
	PreviewLimit int
	SummaryLimit int
}

// Service loads saves from a storage provider on demand. Every call decodes
// its own document; nothing is cached between calls.
type Service struct {
	store  storage.Provider
	loader *savefile.Loader
	opts   Options
}

// NewService creates a new save service.
func NewService(store storage.Provider, loader *savefile.Loader, opts Options) *Service {
	return &Service{store: store, loader: loader, opts: opts}
}

// ListSaves returns metadata for every save under the storage root.
func (s *Service) ListSaves(_ context.Context) ([]models.SaveMetadata, error) {
	return s.store.List("")
}

// Open reads and decodes the save at path.
func (s *Service) Open(_ context.Context, path string) (*savefile.Save, error) {
	raw, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrFileNotFound, path)
		}
		return nil, err
	}
	save, err := s.loader.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	save.Path = path
	return save, nil
}

// Summary returns the save metadata and root-level shape of path.
func (s *Service) Summary(ctx context.Context, path string) (*report.Result, error) {
	save, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return report.NewResult(save, s.opts.SummaryLimit), nil
}

// FindValue runs a value search over the save at path.
func (s *Service) FindValue(ctx context.Context, path, target string, caseSensitive bool) (*models.SearchResult, error) {
	save, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	res := search.ValueSearch(save.Root, target, s.searchOptions(caseSensitive))
	return &res, nil
}

// FindKey runs a key search over the save at path.
func (s *Service) FindKey(ctx context.Context, path, key string, caseSensitive bool) (*models.SearchResult, error) {
	save, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	res := search.KeySearch(save.Root, key, s.searchOptions(caseSensitive))
	return &res, nil
}

func (s *Service) searchOptions(caseSensitive bool) search.Options {
	return search.Options{CaseSensitive: caseSensitive, PreviewLimit: s.opts.PreviewLimit}
}
