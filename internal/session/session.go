// Package session carries the authenticated caller through a request.
//
// A Principal is built once by the auth middleware and then only read.
// Handlers and services receive it through the request context instead
// of consulting any shared profile store.
package session

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	KindUser   = "user"
	KindAgent  = "agent"
	KindAgency = "agency"
	KindAdmin  = "admin"
)

const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

const ginKey = "principal"

type ctxKey struct{}

type Principal struct {
	AccountID uuid.UUID
	Kind      string
	Email     string
	Role      string
}

func (p Principal) IsAdmin() bool {
	return p.Kind == KindAdmin && (p.Role == RoleAdmin || p.Role == RoleSuperAdmin)
}

func (p Principal) IsSeller() bool {
	return p.Kind == KindAgent || p.Kind == KindAgency
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// Attach stores p on the gin context and on the wrapped request context.
func Attach(c *gin.Context, p Principal) {
	c.Set(ginKey, p)
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}

func FromGin(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(ginKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
