package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/dashboard/internal/shared"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderUsesPageContent(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.Render(rec, "pages/dashboard.html", TemplateData{
		Title: "Dashboard",
		User:  &shared.Identity{UserID: "1", Role: "ADMIN", Name: "Ada"},
		Data:  map[string]int{"Pending": 4, "Reported": 1, "Posts": 9},
	})
	require.NoError(t, err)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Dashboard</h1>")
	assert.Contains(t, body, "Ada (ADMIN)")
	assert.NotContains(t, body, "Sign in</h1>")
}

func TestRenderUnknownPage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)
	assert.Error(t, engine.Render(httptest.NewRecorder(), "pages/missing.html", TemplateData{}))
}
