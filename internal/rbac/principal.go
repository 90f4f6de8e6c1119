package rbac

import "context"

// Principal describes the caller of the current request.
type Principal struct {
	ID    string
	Role  Role
	Name  string
	Email string
}

// Anonymous returns the principal used when no identity could be resolved.
func Anonymous() Principal {
	return Principal{}
}

// IsAuthenticated reports whether the principal carries an identity.
func (p Principal) IsAuthenticated() bool {
	return p.ID != ""
}

// IsOperator reports whether the principal is an authenticated operator.
func (p Principal) IsOperator() bool {
	return p.IsAuthenticated() && IsOperatorRole(p.Role)
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal, if any gate stored one.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
