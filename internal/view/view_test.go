package view

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFaro struct {
	Enabled    bool
	URL        string
	AppName    string
	AppVersion string
}

type testRow struct {
	ID        uint
	Value     int
	UpdatedAt string
}

func TestRenderIndex(t *testing.T) {
	r := MustPageRenderer()

	var buf bytes.Buffer
	err := r.RenderTemplate(&buf, "index.html", map[string]any{
		"Dice":       "4",
		"List":       []testRow{{ID: 2, Value: 4, UpdatedAt: "2026-04-01T12:00:00"}},
		"CurrentURL": "http://localhost:8080/",
		"Faro":       testFaro{Enabled: true, URL: "http://localhost:12347/collect", AppName: "webui", AppVersion: "1.0.0"},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `<span id="dice-value" class="dice-value">4</span>`)
	assert.Contains(t, html, "<td>2026-04-01T12:00:00</td>")
	assert.Contains(t, html, `href="http://localhost:8080/?sleep=3"`)
	assert.Contains(t, html, "/static/script/faro.js")
}

func TestRenderIndexEmptyHistoryWithoutFaro(t *testing.T) {
	r := MustPageRenderer()

	var buf bytes.Buffer
	err := r.RenderTemplate(&buf, "index.html", map[string]any{
		"Dice":       "0",
		"List":       []testRow{},
		"CurrentURL": "http://localhost:8080/",
		"Faro":       testFaro{},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No history")
	assert.NotContains(t, buf.String(), "faro.js")
}

func TestRenderMissingTemplate(t *testing.T) {
	err := MustPageRenderer().RenderTemplate(&bytes.Buffer{}, "missing.html", nil)
	assert.Error(t, err)
}

func TestStaticFS(t *testing.T) {
	for _, name := range []string{"script/main.js", "script/eventlistener.js", "script/faro.js", "css/main.css"} {
		_, err := fs.Stat(StaticFS(), name)
		assert.NoError(t, err, name)
	}
}
