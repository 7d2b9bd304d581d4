package vault

import "github.com/dmitrijs2005/filevault/internal/server/models"

// Action is an operation class checked against the ownership/sharing policy.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionWrite:
		return "write"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Allowed is the access decision for (actor, record, action). It is a pure,
// total function evaluated before any blob or cipher operation touches data:
//
//   - Write and Delete require the actor to be the owner.
//   - Read requires ownership or an exact-grantee share grant, reflected in
//     hasGrant (resolved by the caller for the specific (record, actor) pair).
//
// Everything else is denied.
func Allowed(actor string, record *models.FileRecord, action Action, hasGrant bool) bool {
	if record == nil || actor == "" {
		return false
	}
	if actor == record.OwnerID {
		return true
	}
	return action == ActionRead && hasGrant
}
