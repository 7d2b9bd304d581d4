// Package shares provides the PostgreSQL-backed repository for share grants.
package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a grant. Re-sharing with the same grantee is a no-op, which
// keeps Share idempotent at the storage level.
func (r *PostgresRepository) Create(ctx context.Context, grant *models.ShareGrant) error {
	query := `
		INSERT INTO file_shares (file_id, grantee_id)
		VALUES ($1, $2)
		ON CONFLICT (file_id, grantee_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, grant.FileID, grant.GranteeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the grant for (fileID, granteeID) or common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, fileID, granteeID string) (*models.ShareGrant, error) {
	query := `
		SELECT file_id, grantee_id, created_at FROM file_shares
		WHERE file_id = $1 AND grantee_id = $2
	`
	grant := &models.ShareGrant{}
	err := r.db.QueryRowContext(ctx, query, fileID, granteeID).
		Scan(&grant.FileID, &grant.GranteeID, &grant.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return grant, nil
}

// Delete removes a single grant. Missing grants yield common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, fileID, granteeID string) error {
	query := `DELETE FROM file_shares WHERE file_id = $1 AND grantee_id = $2`
	result, err := r.db.ExecContext(ctx, query, fileID, granteeID)
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

// DeleteForFile removes every grant referencing fileID. Used when the file
// record itself is destroyed.
func (r *PostgresRepository) DeleteForFile(ctx context.Context, fileID string) error {
	query := `DELETE FROM file_shares WHERE file_id = $1`
	if _, err := r.db.ExecContext(ctx, query, fileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
