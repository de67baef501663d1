package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractPages maps each worksheet to one page, in workbook order. Rows are
// joined by newlines, cells by tabs.
func (e *Extractor) ExtractPages(ctx context.Context, filePath, sourceName string) ([]domain.Page, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", filePath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	pages := make([]domain.Page, 0, len(sheets))
	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				lines = append(lines, line)
			}
		}

		pages = append(pages, domain.Page{
			Text:       strings.Join(lines, "\n"),
			Number:     i + 1,
			SourceName: sourceName,
		})
	}
	return pages, nil
}
