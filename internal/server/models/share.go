package models

import "time"

// ShareGrant gives a single grantee read access to a file. At most one grant
// exists per (file, grantee) pair; the grantee is never the file's owner.
type ShareGrant struct {
	FileID    string
	GranteeID string
	CreatedAt time.Time
}
