package core

import "context"

// Permission marks an operation the core considers sensitive. The core only
// declares which token an operation requires; mapping roles to tokens is the
// boundary's job.
type Permission string

const (
	// PermEditClosedOrder guards item edits and header changes on orders
	// that already left the pending state.
	PermEditClosedOrder Permission = "order:edit_closed"
	PermDeleteOrder     Permission = "order:delete"
	PermCloseTable      Permission = "table:close"
	PermDeleteTable     Permission = "table:delete"
)

type PermissionChecker interface {
	Allowed(ctx context.Context, actor string, perm Permission) bool
}

// AllowAll satisfies PermissionChecker for wiring where the boundary has
// already authorized the caller, and for tests.
type AllowAll struct{}

func (AllowAll) Allowed(context.Context, string, Permission) bool { return true }
