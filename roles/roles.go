// Package roles defines the access-grant boundary. Role mechanics (creation,
// colours, permission bits) belong to the chat platform adapter.
package roles

import "context"

// Granter assigns a member their class role. Implementations must be
// idempotent: the role is created if absent and assigning an already-held
// role is a no-op. Role names are the bare class number, e.g. "9".
type Granter interface {
	EnsureRoleAndAssign(ctx context.Context, memberID, class string) error
}
