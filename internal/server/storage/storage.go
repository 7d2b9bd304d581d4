// Package storage defines the blob backend contract used by the vault and
// shared naming helpers. Backends store opaque ciphertext; they never see
// plaintext.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// BlobStore persists ciphertext blobs inside per-user scopes.
//
// Save resolves naming collisions itself and returns the name the blob was
// actually stored under; it must never overwrite an existing blob. Load and
// Delete address a blob by the stored name Save returned.
type BlobStore interface {
	Save(ctx context.Context, scope, name string, data []byte) (storedName string, err error)
	Load(ctx context.Context, scope, storedName string) ([]byte, error)
	Delete(ctx context.Context, scope, storedName string) error
}

// SuffixedName returns name with a numeric disambiguation suffix inserted
// before the extension. Attempt 0 leaves the name unchanged:
//
//	SuffixedName("report.pdf", 0) == "report.pdf"
//	SuffixedName("report.pdf", 2) == "report_2.pdf"
func SuffixedName(name string, attempt int) string {
	if attempt == 0 {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", stem, attempt, ext)
}
