package rbac

import "net/url"

// Context tells the policy how the caller can be answered.
type Context int

const (
	// ContextAPI callers receive structured errors; they cannot follow redirects.
	ContextAPI Context = iota
	// ContextBrowser callers are page navigations and can be redirected.
	ContextBrowser
)

func (c Context) String() string {
	if c == ContextBrowser {
		return "browser"
	}
	return "api"
}

// DecisionKind enumerates policy outcomes.
type DecisionKind int

const (
	// Allow lets the request through.
	Allow DecisionKind = iota
	// RedirectToLogin sends a browser caller to the login page.
	RedirectToLogin
	// RedirectToHome sends a browser caller to the site root.
	RedirectToHome
	// Deny answers an API caller with 403.
	Deny
)

func (k DecisionKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToHome:
		return "redirect_home"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// Reason explains a non-allow decision.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonInsufficientRole
)

func (r Reason) String() string {
	switch r {
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonInsufficientRole:
		return "insufficient_role"
	default:
		return "none"
	}
}

// Decision is the outcome of Decide. ReturnPath is only set for RedirectToLogin.
type Decision struct {
	Kind       DecisionKind
	ReturnPath string
	Reason     Reason
}

// Allowed reports whether the decision lets the request proceed.
func (d Decision) Allowed() bool {
	return d.Kind == Allow
}

// Decide evaluates the dashboard policy. It performs no I/O and is fully
// determined by its arguments. Any context other than ContextBrowser is
// answered as an API call.
func Decide(p Principal, res Resource, ctx Context) Decision {
	if res.Kind != ResourceOperatorOnly {
		return Decision{Kind: Allow}
	}
	if !p.IsAuthenticated() {
		if ctx == ContextBrowser {
			return Decision{Kind: RedirectToLogin, ReturnPath: res.Path, Reason: ReasonUnauthenticated}
		}
		return Decision{Kind: Deny, Reason: ReasonUnauthenticated}
	}
	if !IsOperatorRole(p.Role) {
		if ctx == ContextBrowser {
			return Decision{Kind: RedirectToHome, Reason: ReasonInsufficientRole}
		}
		return Decision{Kind: Deny, Reason: ReasonInsufficientRole}
	}
	return Decision{Kind: Allow}
}

// LoginURL builds the login redirect target carrying the percent-encoded
// return path as the callbackUrl parameter.
func LoginURL(loginPath, returnPath string) string {
	if returnPath == "" {
		return loginPath
	}
	return loginPath + "?callbackUrl=" + url.QueryEscape(returnPath)
}
