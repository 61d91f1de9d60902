// documents.go handles writes to the data table (one JSON document per row).
//
// Go Pattern: We split database operations into multiple files for
// organization. They all use the same *DB receiver.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// CreateDocument inserts a new document and returns its generated id.
// payload must be valid JSON; it is cast to JSONB by PostgreSQL.
func (db *DB) CreateDocument(ctx context.Context, payload []byte) (int64, error) {
	var id int64
	// lib/pq sends []byte as bytea, so the JSON goes over the wire as text.
	err := db.QueryRowContext(ctx,
		`INSERT INTO data (data) VALUES ($1::jsonb) RETURNING id`,
		string(payload),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create document: %w", err)
	}
	return id, nil
}

// GetDocument retrieves the raw stored document by id.
func (db *DB) GetDocument(ctx context.Context, id int64) (*models.DocumentRow, error) {
	var row models.DocumentRow
	err := db.GetContext(ctx, &row, `SELECT id, data FROM data WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}
	return &row, nil
}

// UpdateDocument replaces the stored document. Returns ErrNotFound when no
// row has that id, in which case nothing was written.
func (db *DB) UpdateDocument(ctx context.Context, id int64, payload []byte) error {
	result, err := db.ExecContext(ctx,
		`UPDATE data SET data = $1::jsonb, updated_at = NOW() WHERE id = $2`,
		string(payload), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDocument removes a document by id. Deleting a missing id is not an
// error: the end state is the same.
func (db *DB) DeleteDocument(ctx context.Context, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM data WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
