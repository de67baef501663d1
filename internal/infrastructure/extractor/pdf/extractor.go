package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractPages reads one domain.Page per PDF page. A page whose text cannot
// be decoded is skipped rather than failing the whole document.
func (e *Extractor) ExtractPages(ctx context.Context, filePath, sourceName string) ([]domain.Page, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filePath, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]domain.Page, 0, total)
	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, domain.Page{
			Text:       strings.TrimSpace(text),
			Number:     num,
			SourceName: sourceName,
		})
	}
	return pages, nil
}
