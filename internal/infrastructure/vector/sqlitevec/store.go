// Package sqlitevec persists chunk vectors, texts and metadata in a single
// SQLite file inside a per-corpus directory. The store is a rebuildable cache
// of document state, not a source of truth, which is what makes the
// quarantine-and-recreate repair in open.go acceptable.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

const dbFileName = "chunks.db"

type Store struct {
	db  *sql.DB
	dir string
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the corpus directory this store persists into.
func (s *Store) Dir() string {
	return s.dir
}

// Upsert writes all chunks in one transaction. Existing ids are overwritten.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO chunks (id, source_name, page_number, chunk_index, file_path, content, embedding)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	source_name = excluded.source_name,
	page_number = excluded.page_number,
	chunk_index = excluded.chunk_index,
	file_path = excluded.file_path,
	content = excluded.content,
	embedding = excluded.embedding
`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		m := chunk.Metadata
		_, err := stmt.ExecContext(ctx,
			chunk.ID, m.SourceName, m.PageNumber, m.ChunkIndex, m.FilePath,
			chunk.Content, float32SliceToBytes(chunk.Vector),
		)
		if err != nil {
			return fmt.Errorf("upsert chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}
	return nil
}

// DeleteBySource removes every chunk of one source generation and reports how
// many rows went away.
func (s *Store) DeleteBySource(ctx context.Context, sourceName string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE source_name = ?`, sourceName)
	if err != nil {
		return 0, fmt.Errorf("delete chunks for source %q: %w", sourceName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted rows: %w", err)
	}
	return int(n), nil
}

func (s *Store) DeleteIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM chunks WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("delete chunk %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	return nil
}

// QueryNearest scans stored vectors and returns the k chunks with highest
// cosine similarity to the query vector. Brute force is adequate for a
// single-corpus embedded store.
func (s *Store) QueryNearest(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	chunks, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]domain.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		scored = append(scored, domain.RetrievedChunk{
			Chunk: chunk,
			Score: cosineSimilarity(vector, chunk.Vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (s *Store) GetAll(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, source_name, page_number, chunk_index, file_path, content, embedding
FROM chunks
ORDER BY source_name, page_number, chunk_index
`)
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var embedding []byte
		err := rows.Scan(
			&chunk.ID, &chunk.Metadata.SourceName, &chunk.Metadata.PageNumber,
			&chunk.Metadata.ChunkIndex, &chunk.Metadata.FilePath, &chunk.Content, &embedding,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		chunk.Vector = bytesToFloat32Slice(embedding)
		out = append(out, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
