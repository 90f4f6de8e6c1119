package gate

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingNavigator struct {
	targets []string
}

func (n *recordingNavigator) Replace(target string) {
	n.targets = append(n.targets, target)
}

func TestGuardWaitsWhileLoading(t *testing.T) {
	nav := &recordingNavigator{}
	g := NewGuard(nav, "", "")

	for i := 0; i < 3; i++ {
		assert.Equal(t, ViewWaiting, g.Evaluate(SessionState{Status: StatusLoading}, "/dashboard"))
	}
	assert.Empty(t, nav.targets)
}

func TestGuardRedirectsOnceWhenUnauthenticated(t *testing.T) {
	nav := &recordingNavigator{}
	g := NewGuard(nav, "", "")

	assert.Equal(t, ViewWaiting, g.Evaluate(SessionState{Status: StatusLoading}, "/dashboard/comments"))
	assert.Empty(t, nav.targets)

	for i := 0; i < 3; i++ {
		assert.Equal(t, ViewBlank, g.Evaluate(SessionState{Status: StatusUnauthenticated}, "/dashboard/comments"))
	}
	assert.Equal(t, []string{"/auth/login?callbackUrl=%2Fdashboard%2Fcomments"}, nav.targets)
	assert.Equal(t, "/auth/login?callbackUrl=%2Fdashboard%2Fcomments", g.Pending())
}

func TestGuardRedirectsNonOperatorHome(t *testing.T) {
	nav := &recordingNavigator{}
	g := NewGuard(nav, "/auth/login", "/")

	state := SessionState{Status: StatusAuthenticated, Principal: reader}
	assert.Equal(t, ViewBlank, g.Evaluate(state, "/dashboard"))
	assert.Equal(t, ViewBlank, g.Evaluate(state, "/dashboard"))
	assert.Equal(t, []string{"/"}, nav.targets)
}

func TestGuardRendersContentForOperators(t *testing.T) {
	nav := &recordingNavigator{}
	g := NewGuard(nav, "", "")

	assert.Equal(t, ViewContent, g.Evaluate(SessionState{Status: StatusAuthenticated, Principal: editor}, "/dashboard"))
	assert.Empty(t, nav.targets)
}

func TestGuardReevaluatesOnRouteAndSessionChange(t *testing.T) {
	nav := &recordingNavigator{}
	g := NewGuard(nav, "", "")
	anon := SessionState{Status: StatusUnauthenticated}

	assert.Equal(t, ViewContent, g.Evaluate(anon, "/about"))
	assert.Equal(t, ViewBlank, g.Evaluate(anon, "/dashboard"))
	assert.Equal(t, ViewBlank, g.Evaluate(anon, "/dashboard/posts"))
	assert.Equal(t, []string{
		"/auth/login?callbackUrl=%2Fdashboard",
		"/auth/login?callbackUrl=%2Fdashboard%2Fposts",
	}, nav.targets)

	assert.Equal(t, ViewContent, g.Evaluate(SessionState{Status: StatusAuthenticated, Principal: admin}, "/dashboard/posts"))
	assert.Empty(t, g.Pending())

	// Signing out again after the pending redirect was cleared navigates anew.
	assert.Equal(t, ViewBlank, g.Evaluate(anon, "/dashboard/posts"))
	assert.Len(t, nav.targets, 3)
}

func TestGuardIgnoresPrincipalWhenUnauthenticated(t *testing.T) {
	nav := &recordingNavigator{}
	g := NewGuard(nav, "", "")

	view := g.Evaluate(SessionState{Status: StatusUnauthenticated, Principal: admin}, "/dashboard")
	assert.Equal(t, ViewBlank, view)
	assert.Equal(t, []string{"/auth/login?callbackUrl=%2Fdashboard"}, nav.targets)
}

func TestLayoutRendersOnlyForOperators(t *testing.T) {
	cases := []struct {
		name     string
		source   *stubSource
		code     int
		location string
		calls    int
	}{
		{name: "anonymous", source: &stubSource{}, code: http.StatusSeeOther, location: "/auth/login?callbackUrl=%2Fdashboard%2Fposts"},
		{name: "store failure", source: &stubSource{principal: admin, err: errors.New("down")}, code: http.StatusSeeOther, location: "/auth/login?callbackUrl=%2Fdashboard%2Fposts"},
		{name: "reader", source: &stubSource{principal: reader}, code: http.StatusSeeOther, location: "/"},
		{name: "editor", source: &stubSource{principal: editor}, code: http.StatusOK, calls: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := &countingHandler{}
			rec := &countingRecorder{}
			h := Layout{Source: tc.source, Recorder: rec}.Wrap(next)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/posts", nil))

			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.location, w.Header().Get("Location"))
			assert.Equal(t, tc.calls, next.calls)
			total := 0
			for _, n := range rec.counts {
				total += n
			}
			assert.Equal(t, 1, total)
		})
	}
}
