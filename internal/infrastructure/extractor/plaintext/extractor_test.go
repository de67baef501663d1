package plaintext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

func TestExtractPagesWholeFileAsPageOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("line one\nline two\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	pages, err := New().ExtractPages(context.Background(), path, "doc.txt")
	if err != nil {
		t.Fatalf("ExtractPages() error = %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected single page, got %d", len(pages))
	}
	if pages[0].Number != 1 || pages[0].Text != "line one\nline two" {
		t.Fatalf("unexpected page %+v", pages[0])
	}
}

func TestExtractPagesRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x81}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := New().ExtractPages(context.Background(), path, "doc.txt")
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
