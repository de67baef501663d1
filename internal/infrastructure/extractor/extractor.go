// Package extractor dispatches text extraction by file extension. Supported
// formats yield ordered per-page text; pages that trim to empty are dropped
// silently, leaving the degenerate zero-page case to the ingestion pipeline.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/extractor/pdf"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/extractor/plaintext"
	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/infrastructure/extractor/xlsx"
)

type pageExtractor interface {
	ExtractPages(ctx context.Context, filePath, sourceName string) ([]domain.Page, error)
}

type Registry struct {
	byExtension map[string]pageExtractor
}

func NewRegistry() *Registry {
	plain := plaintext.New()
	return &Registry{
		byExtension: map[string]pageExtractor{
			".pdf":  pdf.New(),
			".txt":  plain,
			".md":   plain,
			".xlsx": xlsx.New(),
		},
	}
}

func (r *Registry) Extract(ctx context.Context, filePath, sourceName string) ([]domain.Page, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrNotFound, "extract", fmt.Errorf("file %s", filePath))
		}
		return nil, fmt.Errorf("stat %s: %w", filePath, err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	ex, ok := r.byExtension[ext]
	if !ok {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "extract", fmt.Errorf("extension %q", ext))
	}

	pages, err := ex.ExtractPages(ctx, filePath, sourceName)
	if err != nil {
		return nil, err
	}
	return dropEmptyPages(pages), nil
}

func dropEmptyPages(pages []domain.Page) []domain.Page {
	out := pages[:0]
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		out = append(out, page)
	}
	return out
}
