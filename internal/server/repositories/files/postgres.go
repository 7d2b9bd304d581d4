// Package files provides the PostgreSQL-backed repository for file metadata.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new record. The (owner_id, stored_name) unique constraint
// backs the vault's no-implicit-overwrite invariant at the metadata level.
func (r *PostgresRepository) Create(ctx context.Context, record *models.FileRecord) error {
	query := `
		INSERT INTO files (id, owner_id, display_name, stored_name, is_encrypted, size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		record.ID, record.OwnerID, record.DisplayName, record.StoredName,
		record.IsEncrypted, record.Size).Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns the record with the given id or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileRecord, error) {
	query := `
		SELECT id, owner_id, display_name, stored_name, is_encrypted, size, created_at
		FROM files
		WHERE id = $1
	`
	record := &models.FileRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID, &record.OwnerID, &record.DisplayName, &record.StoredName,
		&record.IsEncrypted, &record.Size, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// ListByOwner returns all records owned by ownerID, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.FileRecord, error) {
	query := `
		SELECT id, owner_id, display_name, stored_name, is_encrypted, size, created_at
		FROM files
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, ownerID)
}

// ListSharedWith returns all records shared with granteeID, newest first.
func (r *PostgresRepository) ListSharedWith(ctx context.Context, granteeID string) ([]*models.FileRecord, error) {
	query := `
		SELECT f.id, f.owner_id, f.display_name, f.stored_name, f.is_encrypted, f.size, f.created_at
		FROM files f
		JOIN file_shares s ON s.file_id = f.id
		WHERE s.grantee_id = $1
		ORDER BY f.created_at DESC
	`
	return r.list(ctx, query, granteeID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.FileRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		var item models.FileRecord
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.DisplayName, &item.StoredName,
			&item.IsEncrypted, &item.Size, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the record with the given id. Missing rows yield
// common.ErrNotFound so retried deletes surface cleanly.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM files WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
