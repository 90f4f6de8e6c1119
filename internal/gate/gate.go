// Package gate enforces the dashboard policy at the edge, in page layouts and
// in API handlers. Every enforcement point delegates to rbac.Decide.
package gate

import (
	"net/http"

	"github.com/quillpress/dashboard/internal/rbac"
)

const (
	// DefaultLoginPath is where unauthenticated browsers are sent.
	DefaultLoginPath = "/auth/login"
	// DefaultHomePath is where authenticated non-operators are sent.
	DefaultHomePath = "/"
)

// PrincipalSource resolves the caller behind a request.
type PrincipalSource interface {
	Resolve(r *http.Request) (rbac.Principal, error)
}

// Recorder counts gate decisions. *observability.Metrics implements it.
type Recorder interface {
	RecordGateDecision(gate, decision string)
}

type nopRecorder struct{}

func (nopRecorder) RecordGateDecision(string, string) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
