// Package vault implements the secure file vault: upload, retrieval, deletion
// and sharing of encrypted payloads, with the ownership/sharing policy
// enforced before any blob or cipher operation.
package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/cryptox"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
	"github.com/google/uuid"
)

// Service orchestrates the vault operations over the metadata repositories,
// the blob backend and the cipher.
type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	cipher      *cryptox.Cipher
	logger      logging.Logger

	maxPayloadSize int64
	allowedExts    map[string]struct{}
}

// NewService constructs the vault service. allowedExts is an optional
// lowercase extension allowlist (with leading dots); empty means any
// extension is accepted.
func NewService(db *sql.DB, rm repomanager.RepositoryManager, blobs storage.BlobStore,
	cipher *cryptox.Cipher, logger logging.Logger, maxPayloadSize int64, allowedExts []string) *Service {

	exts := make(map[string]struct{}, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(e)] = struct{}{}
	}

	return &Service{
		db:             db,
		repomanager:    rm,
		blobs:          blobs,
		cipher:         cipher,
		logger:         logger.With("module", "vault"),
		maxPayloadSize: maxPayloadSize,
		allowedExts:    exts,
	}
}

func (s *Service) validatePayload(displayName string, payload []byte) error {
	if len(payload) == 0 {
		return common.ErrEmptyPayload
	}
	if s.maxPayloadSize > 0 && int64(len(payload)) > s.maxPayloadSize {
		return fmt.Errorf("payload of %d bytes exceeds limit of %d: %w",
			len(payload), s.maxPayloadSize, common.ErrPayloadTooLarge)
	}
	if len(s.allowedExts) > 0 {
		ext := strings.ToLower(path.Ext(displayName))
		if _, ok := s.allowedExts[ext]; !ok {
			return fmt.Errorf("extension %q: %w", ext, common.ErrExtensionDenied)
		}
	}
	return nil
}

// Store validates, encrypts and persists a payload for ownerID and records
// its metadata. If anything fails after the ciphertext was written, the blob
// is removed again so no orphaned bytes remain.
func (s *Service) Store(ctx context.Context, ownerID, displayName string, payload []byte) (*models.FileRecord, error) {
	if err := s.validatePayload(displayName, payload); err != nil {
		return nil, err
	}

	sealed, err := s.cipher.Seal(payload)
	if err != nil {
		return nil, fmt.Errorf("seal payload: %w", err)
	}

	storedName, err := s.blobs.Save(ctx, ownerID, displayName, sealed)
	if err != nil {
		return nil, err
	}

	record := &models.FileRecord{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		DisplayName: displayName,
		StoredName:  storedName,
		IsEncrypted: true,
		Size:        int64(len(payload)),
	}

	filesRepo := s.repomanager.Files(s.db)
	if err := filesRepo.Create(ctx, record); err != nil {
		if cleanupErr := s.blobs.Delete(ctx, ownerID, storedName); cleanupErr != nil {
			s.logger.Error(ctx, "failed to remove blob after metadata error",
				"owner", ownerID, "stored_name", storedName, "error", cleanupErr.Error())
		}
		return nil, fmt.Errorf("create file record: %w", err)
	}

	s.logger.Info(ctx, "stored file", "file_id", record.ID, "owner", ownerID, "stored_name", storedName)
	return record, nil
}

// hasGrant reports whether an exact share grant exists for (fileID, actor).
func (s *Service) hasGrant(ctx context.Context, fileID, actor string) (bool, error) {
	_, err := s.repomanager.Shares(s.db).Get(ctx, fileID, actor)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) authorize(ctx context.Context, actor string, record *models.FileRecord, action Action) error {
	hasGrant := false
	if action == ActionRead && actor != record.OwnerID {
		var err error
		hasGrant, err = s.hasGrant(ctx, record.ID, actor)
		if err != nil {
			return err
		}
	}
	if !Allowed(actor, record, action, hasGrant) {
		return common.ErrUnauthorized
	}
	return nil
}

// Retrieve loads, authorizes and decrypts a stored payload. Decryption
// failures are surfaced as such and never masked as a missing file, since
// they indicate tampering or a key mismatch.
func (s *Service) Retrieve(ctx context.Context, actor, fileID string) ([]byte, *models.FileRecord, error) {
	record, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.authorize(ctx, actor, record, ActionRead); err != nil {
		return nil, nil, err
	}

	if !record.IsEncrypted {
		return nil, nil, fmt.Errorf("record %s has no sealed payload: %w", record.ID, common.ErrInternal)
	}

	sealed, err := s.blobs.Load(ctx, record.OwnerID, record.StoredName)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := s.cipher.Open(sealed)
	if err != nil {
		s.logger.Error(ctx, "decryption failed, possible ciphertext tampering",
			"file_id", record.ID, "owner", record.OwnerID)
		return nil, nil, err
	}

	return plaintext, record, nil
}

// Delete removes the ciphertext blob, then the share grants, then the record,
// in that order: a crash mid-sequence leaves only rows that a retried delete
// can still clean up, never a record pointing at live ciphertext.
func (s *Service) Delete(ctx context.Context, actor, fileID string) error {
	record, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if !Allowed(actor, record, ActionDelete, false) {
		return common.ErrUnauthorized
	}

	if err := s.blobs.Delete(ctx, record.OwnerID, record.StoredName); err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Shares(tx).DeleteForFile(ctx, record.ID); err != nil {
			return err
		}
		return s.repomanager.Files(tx).Delete(ctx, record.ID)
	})
	if err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}

	s.logger.Info(ctx, "deleted file", "file_id", record.ID, "owner", record.OwnerID)
	return nil
}

// Share grants granteeID read access to fileID. Only the owner may manage
// sharing; sharing with oneself is rejected; re-sharing with the same grantee
// returns the existing grant.
func (s *Service) Share(ctx context.Context, actor, fileID, granteeID string) (*models.ShareGrant, error) {
	record, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if !Allowed(actor, record, ActionWrite, false) {
		return nil, common.ErrUnauthorized
	}
	if granteeID == record.OwnerID {
		return nil, common.ErrSelfShare
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, granteeID); err != nil {
		return nil, err
	}

	sharesRepo := s.repomanager.Shares(s.db)
	if err := sharesRepo.Create(ctx, &models.ShareGrant{FileID: record.ID, GranteeID: granteeID}); err != nil {
		return nil, err
	}

	grant, err := sharesRepo.Get(ctx, record.ID, granteeID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "shared file", "file_id", record.ID, "grantee", granteeID)
	return grant, nil
}

// ShareWithUsername resolves the grantee by username through the unique
// username index and delegates to Share.
func (s *Service) ShareWithUsername(ctx context.Context, actor, fileID, username string) (*models.ShareGrant, error) {
	grantee, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.Share(ctx, actor, fileID, grantee.ID)
}

// Unshare revokes a grant. Only the owner may manage sharing.
func (s *Service) Unshare(ctx context.Context, actor, fileID, granteeID string) error {
	record, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if !Allowed(actor, record, ActionWrite, false) {
		return common.ErrUnauthorized
	}

	if err := s.repomanager.Shares(s.db).Delete(ctx, record.ID, granteeID); err != nil {
		return err
	}

	s.logger.Info(ctx, "unshared file", "file_id", record.ID, "grantee", granteeID)
	return nil
}

// UnshareWithUsername resolves the grantee by username and delegates to
// Unshare.
func (s *Service) UnshareWithUsername(ctx context.Context, actor, fileID, username string) error {
	grantee, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.Unshare(ctx, actor, fileID, grantee.ID)
}

// ListForUser returns the records userID owns and the records shared with
// them.
func (s *Service) ListForUser(ctx context.Context, userID string) (owned, shared []*models.FileRecord, err error) {
	filesRepo := s.repomanager.Files(s.db)

	owned, err = filesRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	shared, err = filesRepo.ListSharedWith(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return owned, shared, nil
}
