package render

import (
	"net/http/httptest"
	"testing"

	"github.com/haguru/obito/pkg/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templatesDir = "../../res/templates"

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(templatesDir, zerolog.NewZerologLogger("render-test"))
	require.NoError(t, err)
	return r
}

func TestNewRenderer_BadDir(t *testing.T) {
	_, err := NewRenderer("./no-such-dir", zerolog.NewZerologLogger("render-test"))
	assert.Error(t, err)
}

func TestRenderer_Render(t *testing.T) {
	renderer := newTestRenderer(t)

	tests := []struct {
		name        string
		page        string
		data        Data
		wantContain []string
	}{
		{
			name:        "homepage shows username",
			page:        PageHomepage,
			data:        Data{Username: "alice"},
			wantContain: []string{"Welcome, alice"},
		},
		{
			name:        "login with error message",
			page:        PageLogin,
			data:        Data{Error: "Invalid credentials"},
			wantContain: []string{"Invalid credentials"},
		},
		{
			name:        "login without error message",
			page:        PageLogin,
			data:        Data{},
			wantContain: []string{"<form action=\"/login\""},
		},
		{
			name:        "signup with duplicate error",
			page:        PageSignup,
			data:        Data{Error: "Username already exists"},
			wantContain: []string{"Username already exists"},
		},
		{
			name:        "success shows path and username",
			page:        PageSuccess,
			data:        Data{Username: "bob", FilePath: "/uploads/123-abc-avatar.png"},
			wantContain: []string{"bob", "/uploads/123-abc-avatar.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			renderer.Render(rr, tt.page, tt.data)

			assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
			for _, want := range tt.wantContain {
				assert.Contains(t, rr.Body.String(), want)
			}
		})
	}
}

func TestRenderer_RenderEscapesHTML(t *testing.T) {
	renderer := newTestRenderer(t)

	rr := httptest.NewRecorder()
	renderer.Render(rr, PageHomepage, Data{Username: "<script>alert(1)</script>"})

	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script>")
}
