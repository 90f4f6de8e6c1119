package rbac

import (
	"net/url"
	"path"
	"strings"
)

const (
	// DashboardPrefix is the page namespace reserved for operators.
	DashboardPrefix = "/dashboard"
	// DashboardAPIPrefix is the API namespace reserved for operators.
	DashboardAPIPrefix = "/api/dashboard"
)

// ResourceKind classifies a request target.
type ResourceKind int

const (
	// ResourcePublic needs no authorization.
	ResourcePublic ResourceKind = iota
	// ResourceOperatorOnly requires an ADMIN or EDITOR principal.
	ResourceOperatorOnly
)

func (k ResourceKind) String() string {
	if k == ResourceOperatorOnly {
		return "operator-only"
	}
	return "public"
}

// Resource is a classified request target. Path is what the caller asked for
// and is used as the login return path.
type Resource struct {
	Path string
	Kind ResourceKind
}

var operatorPrefixes = []string{DashboardPrefix, DashboardAPIPrefix}

// Classify maps a request URI (path plus optional query) to a Resource.
func Classify(requestURI string) Resource {
	return Resource{Path: requestURI, Kind: classifyPath(stripQuery(requestURI))}
}

// Protected returns an operator-only resource for the given path regardless of
// prefix. API handlers use it for the routes they guard.
func Protected(requestURI string) Resource {
	return Resource{Path: requestURI, Kind: ResourceOperatorOnly}
}

// HasPrefix reports whether p equals prefix or is one of its sub-paths.
func HasPrefix(p, prefix string) bool {
	p = cleanPath(p)
	prefix = strings.TrimSuffix(prefix, "/")
	if p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

func classifyPath(p string) ResourceKind {
	for _, prefix := range operatorPrefixes {
		if HasPrefix(p, prefix) {
			return ResourceOperatorOnly
		}
	}
	return ResourcePublic
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func stripQuery(uri string) string {
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		return uri[:i]
	}
	return uri
}

// SafeReturnPath returns raw when it is a local absolute path and "" otherwise,
// so login callbacks cannot be used as open redirects.
func SafeReturnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return ""
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return raw
}
