package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractPages treats the whole file as a single page 1.
func (e *Extractor) ExtractPages(_ context.Context, filePath, sourceName string) ([]domain.Page, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	if !utf8.Valid(raw) {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "extract plaintext", fmt.Errorf("binary content in %s", filePath))
	}

	return []domain.Page{{
		Text:       strings.TrimSpace(string(raw)),
		Number:     1,
		SourceName: sourceName,
	}}, nil
}
