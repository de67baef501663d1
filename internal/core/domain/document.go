package domain

import (
	"fmt"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document is one uploaded source file tracked in the catalog. SourceName is
// the re-ingestion key: at most one live generation of chunks exists per
// SourceName at any time.
type Document struct {
	ID          string         `json:"id"`
	SourceName  string         `json:"source_name"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Status      DocumentStatus `json:"status"`
	Pages       int            `json:"pages,omitempty"`
	Chunks      int            `json:"chunks,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Page is one unit of raw extracted text. Number is 1-based.
type Page struct {
	Text       string `json:"text"`
	Number     int    `json:"number"`
	SourceName string `json:"source_name"`
}

// ChunkMetadata is the fixed metadata set attached to every chunk.
type ChunkMetadata struct {
	SourceName string `json:"source_name"`
	PageNumber int    `json:"page_number"`
	ChunkIndex int    `json:"chunk_index"`
	FilePath   string `json:"file_path,omitempty"`
}

// Chunk is the atomic retrievable unit. ID is the deterministic composite
// source_name:page_number:chunk_index, collision-free within one corpus
// because re-ingestion deletes the previous generation first.
type Chunk struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Vector   []float32     `json:"-"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkID builds the composite chunk identifier.
func ChunkID(sourceName string, pageNumber, chunkIndex int) string {
	return fmt.Sprintf("%s:%d:%d", sourceName, pageNumber, chunkIndex)
}

// IngestReport summarizes one successful ingestion call.
type IngestReport struct {
	Source string `json:"source"`
	Pages  int    `json:"pages"`
	Chunks int    `json:"chunks"`
}

// IngestFailure records one failed file inside a batch. The error travels as
// data so a bad file never aborts its siblings.
type IngestFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// BatchReport is the outcome of ingesting several files with shared handles.
type BatchReport struct {
	Ingested    []IngestReport  `json:"ingested"`
	Failed      []IngestFailure `json:"failed"`
	TotalChunks int             `json:"total_chunks"`
}
