package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"subcity/internal/model"
	"subcity/internal/repository"
)

const documentColumns = `id, title, category, description, file_path, file_size, file_type,
	tags, upload_date, uploaded_by`

func scanDocument(sc scanner) (*model.Document, error) {
	var d model.Document
	if err := sc.Scan(
		&d.ID,
		&d.Title,
		&d.Category,
		&d.Description,
		&d.FilePath,
		&d.FileSize,
		&d.FileType,
		pq.Array(&d.Tags),
		&d.UploadDate,
		&d.UploadedBy,
	); err != nil {
		return nil, err
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return &d, nil
}

// ListDocuments returns documents newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY upload_date DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *Store) GetDocument(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *Store) CreateDocument(ctx context.Context, in model.DocumentInput) (*model.Document, error) {
	const q = `
		INSERT INTO documents (title, category, description, file_path, file_size, file_type, tags, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	var out *model.Document
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		d, err := scanDocument(tx.QueryRowContext(ctx, q,
			in.Title,
			in.Category,
			in.Description,
			in.FilePath,
			in.FileSize,
			in.FileType,
			pq.Array(tags),
			in.UploadedBy,
		))
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		if _, err := insertActivity(ctx, tx, repository.DocumentCreatedMsg(d.Title), repository.ActorFrom(ctx), time.Time{}); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM documents WHERE id = $1 RETURNING title`
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var title string
		if err := tx.QueryRowContext(ctx, q, id).Scan(&title); err != nil {
			return err
		}
		_, err := insertActivity(ctx, tx, repository.DocumentDeletedMsg(title), repository.ActorFrom(ctx), time.Time{})
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) DocumentCount(ctx context.Context) (int, error) {
	return s.count(ctx, "documents")
}
