package preview_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-fieldsets/pkg/model"
	"github.com/goliatone/go-fieldsets/pkg/preview"
)

func sampleConfiguration() model.Configuration {
	return model.Configuration{
		{
			Name: "PARTY_A",
			Fields: []model.Field{
				{Name: "PARTY_A_NAME", Label: "Party A Name", Type: model.FieldTypeText},
				{Name: "PARTY_A_EMAIL", Label: "Party A Email", Type: model.FieldTypeEmail},
			},
		},
	}
}

func TestRender_EmbeddedTemplates(t *testing.T) {
	renderer, err := preview.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), sampleConfiguration(), []string{"LEFT_OVER"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	html := string(out)
	for _, want := range []string{"PARTY_A", "Party A Name", "PARTY_A_EMAIL", "field-type-email", "LEFT_OVER", "Unassigned variables"} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestRender_NoUnassignedSection(t *testing.T) {
	renderer, err := preview.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), sampleConfiguration(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "Unassigned variables") {
		t.Fatalf("unassigned section should be omitted when the list is empty")
	}
}

func TestRender_SanitizesOperatorText(t *testing.T) {
	renderer, err := preview.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := model.Configuration{
		{
			Name: "PARTIES",
			Fields: []model.Field{
				{Name: "PARTY_A_NAME", Label: `<script>alert(1)</script>Party`, Description: "<b>bold</b> note"},
			},
		},
	}
	out, err := renderer.Render(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>") {
		t.Fatalf("markup not stripped from operator text:\n%s", html)
	}
	if !strings.Contains(html, "Party") || !strings.Contains(html, "bold") {
		t.Fatalf("text content lost during sanitization:\n%s", html)
	}
}

type stubSelector struct {
	selection *theme.Selection
}

func (s *stubSelector) Select(_, _ string, _ ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, nil
}

func TestRender_ThemeChrome(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{"preview.stylesheet": "preview.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#654321"}},
		},
	}
	selector := &stubSelector{selection: &theme.Selection{Theme: "acme", Variant: "dark", Manifest: manifest}}

	renderer, err := preview.New(preview.WithTheme(selector, "acme", "dark"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), sampleConfiguration(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "/assets/themes/acme/preview.css") {
		t.Fatalf("stylesheet url missing:\n%s", html)
	}
	if !strings.Contains(html, "--brand: #654321;") {
		t.Fatalf("variant token should win in css vars:\n%s", html)
	}
	if !strings.Contains(html, "theme-acme") || !strings.Contains(html, "theme-variant-dark") {
		t.Fatalf("theme classes missing:\n%s", html)
	}
}
