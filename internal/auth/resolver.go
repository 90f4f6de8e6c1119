package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/quillpress/dashboard/internal/rbac"
	"github.com/quillpress/dashboard/internal/shared"
)

// Resolver yields the principal behind a request.
type Resolver interface {
	Resolve(r *http.Request) (rbac.Principal, error)
}

// SessionResolver reads the principal from the cookie session loaded by the
// session middleware. A store failure recorded by that middleware is
// returned so each gate can choose how to degrade.
type SessionResolver struct{}

// Resolve implements Resolver.
func (SessionResolver) Resolve(r *http.Request) (rbac.Principal, error) {
	if err := shared.SessionErrorFromContext(r.Context()); err != nil {
		return rbac.Anonymous(), err
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return rbac.Anonymous(), nil
	}
	return principalFromIdentity(sess.Identity()), nil
}

// TokenResolver reads the principal from an Authorization bearer token.
// Malformed or expired tokens resolve to anonymous, never to an error.
type TokenResolver struct {
	Tokens *TokenManager
}

// Resolve implements Resolver.
func (t TokenResolver) Resolve(r *http.Request) (rbac.Principal, error) {
	raw, ok := BearerToken(r)
	if !ok || t.Tokens == nil {
		return rbac.Anonymous(), nil
	}
	id, err := t.Tokens.Verify(raw)
	if err != nil {
		return rbac.Anonymous(), nil
	}
	return principalFromIdentity(id), nil
}

// ChainResolver returns the first authenticated principal. Errors from
// earlier sources are only reported when no later source authenticates.
type ChainResolver []Resolver

// Resolve implements Resolver.
func (c ChainResolver) Resolve(r *http.Request) (rbac.Principal, error) {
	var errs []error
	for _, source := range c {
		p, err := source.Resolve(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if p.IsAuthenticated() {
			return p, nil
		}
	}
	return rbac.Anonymous(), errors.Join(errs...)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func principalFromIdentity(id shared.Identity) rbac.Principal {
	if id.UserID == "" {
		return rbac.Anonymous()
	}
	return rbac.Principal{
		ID:    id.UserID,
		Role:  rbac.ParseRole(id.Role),
		Name:  id.Name,
		Email: id.Email,
	}
}
