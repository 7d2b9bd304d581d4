package models

import "time"

// FileRecord describes one stored object. The ciphertext itself lives in the
// configured blob backend under StoredName; the record only carries metadata.
type FileRecord struct {
	// ID is the opaque record identifier, assigned at creation.
	ID string
	// OwnerID is the identity of the creating user. Immutable.
	OwnerID string
	// DisplayName is the user-supplied original filename, used only for
	// presentation and download headers.
	DisplayName string
	// StoredName is the resolved, collision-free name of the ciphertext
	// blob inside the owner's storage scope. Assigned once; immutable.
	StoredName string
	// IsEncrypted is true once the payload has been sealed and persisted.
	// Records with it unset are never served.
	IsEncrypted bool
	// Size is the plaintext payload size in bytes.
	Size int64
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time
}
