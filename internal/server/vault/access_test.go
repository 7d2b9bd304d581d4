package vault

import (
	"testing"

	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	record := &models.FileRecord{ID: "f1", OwnerID: "u1"}

	tests := []struct {
		name     string
		actor    string
		action   Action
		hasGrant bool
		want     bool
	}{
		{"owner reads", "u1", ActionRead, false, true},
		{"owner writes", "u1", ActionWrite, false, true},
		{"owner deletes", "u1", ActionDelete, false, true},
		{"grantee reads", "u2", ActionRead, true, true},
		{"grantee cannot write", "u2", ActionWrite, true, false},
		{"grantee cannot delete", "u2", ActionDelete, true, false},
		{"stranger cannot read", "u3", ActionRead, false, false},
		{"stranger cannot write", "u3", ActionWrite, false, false},
		{"stranger cannot delete", "u3", ActionDelete, false, false},
		{"empty actor denied", "", ActionRead, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allowed(tc.actor, record, tc.action, tc.hasGrant))
		})
	}
}

func TestAllowed_NilRecordIsDenied(t *testing.T) {
	assert.False(t, Allowed("u1", nil, ActionRead, true))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "read", ActionRead.String())
	assert.Equal(t, "write", ActionWrite.String())
	assert.Equal(t, "delete", ActionDelete.String())
	assert.Equal(t, "unknown", Action(42).String())
}
