package handle

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"comanda/internal/pos/app/core"
)

// Authentication proper lives outside this service; the gateway forwards the
// verified identity in headers. The boundary's job is only to map the
// caller's role onto the permission tokens the core declares.
const (
	headerUserName = "X-User-Name"
	headerUserRole = "X-User-Role"
)

type ctxKey int

const (
	ctxKeyActor ctxKey = iota
	ctxKeyRole
)

func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(headerUserName)
		if actor == "" {
			jsonError(w, http.StatusUnauthorized, fmt.Errorf("missing %s header", headerUserName))
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyActor, actor)
		ctx = context.WithValue(ctx, ctxKeyRole, r.Header.Get(headerUserRole))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func Actor(ctx context.Context) string {
	actor, _ := ctx.Value(ctxKeyActor).(string)
	return actor
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(ctxKeyRole).(string)
	return role
}

var rolePermissions = map[string][]core.Permission{
	"administrator": {
		core.PermEditClosedOrder,
		core.PermDeleteOrder,
		core.PermCloseTable,
		core.PermDeleteTable,
	},
	"waiter": {
		core.PermCloseTable,
	},
}

// RoleChecker resolves the core's permission tokens against the role carried
// in the request context.
type RoleChecker struct{}

func (RoleChecker) Allowed(ctx context.Context, _ string, perm core.Permission) bool {
	for _, p := range rolePermissions[Role(ctx)] {
		if p == perm {
			return true
		}
	}
	return false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", core.ErrValidation, s)
	}
	return id, nil
}
