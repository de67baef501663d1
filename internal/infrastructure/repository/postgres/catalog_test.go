package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

func newCatalogWithMock(t *testing.T) (*DocumentCatalog, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentCatalog{db: db}, mock, func() { _ = db.Close() }
}

func TestCreateInsertsDocument(t *testing.T) {
	catalog, mock, done := newCatalogWithMock(t)
	defer done()

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          "doc-1",
		SourceName:  "report.pdf",
		Filename:    "report.pdf",
		MimeType:    "application/pdf",
		StoragePath: "doc-1_report.pdf",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID, doc.SourceName, doc.Filename, doc.MimeType, doc.StoragePath,
			string(doc.Status), 0, 0, "", now, now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := catalog.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	catalog, mock, done := newCatalogWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, source_name, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := catalog.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansDocument(t *testing.T) {
	catalog, mock, done := newCatalogWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "source_name", "filename", "mime_type", "storage_path",
		"status", "pages", "chunks", "error_message", "created_at", "updated_at",
	}).AddRow("doc-1", "report.pdf", "report.pdf", "application/pdf", "doc-1_report.pdf",
		"ready", 4, 9, nil, now, now)

	mock.ExpectQuery("SELECT id, source_name, filename, mime_type, storage_path").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := catalog.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusReady || doc.Pages != 4 || doc.Chunks != 9 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Error != "" {
		t.Fatalf("expected empty error for null column, got %q", doc.Error)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	catalog, mock, done := newCatalogWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := catalog.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveCountsReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	catalog, mock, done := newCatalogWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", 3, 7, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := catalog.SaveCounts(context.Background(), "missing", 3, 7)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
