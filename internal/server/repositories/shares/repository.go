package shares

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, grant *models.ShareGrant) error
	Get(ctx context.Context, fileID, granteeID string) (*models.ShareGrant, error)
	Delete(ctx context.Context, fileID, granteeID string) error
	DeleteForFile(ctx context.Context, fileID string) error
}
