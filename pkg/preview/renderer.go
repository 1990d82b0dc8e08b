// Package preview renders a fieldset configuration as static HTML so an
// operator can eyeball the grouping outside the interactive editor, or attach
// it to a review ticket.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-fieldsets/pkg/model"
	rendertemplate "github.com/goliatone/go-fieldsets/pkg/preview/template"
	"github.com/goliatone/go-fieldsets/pkg/preview/template/gotemplate"
)

const configTemplateName = "configuration"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.Renderer
	themeSelector    theme.ThemeSelector
	themeName        string
	themeVariant     string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom template engine implementation.
func WithTemplateRenderer(renderer rendertemplate.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme resolves the named theme/variant through a go-theme selector and
// feeds the merged tokens and stylesheet into the preview chrome.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.themeSelector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// Renderer produces HTML previews of fieldset configurations.
type Renderer struct {
	templates rendertemplate.Renderer
	themeCtx  themeContext
}

// New constructs a Renderer, defaulting to the embedded template bundle.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{templateFS: EmbeddedTemplates()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("preview: template engine: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{templates: renderer}
	if cfg.themeSelector != nil {
		selection, err := cfg.themeSelector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("preview: resolve theme: %w", err)
		}
		r.themeCtx = buildThemeContext(selection)
	}
	return r, nil
}

// Render produces the HTML preview. Unassigned variables are listed after the
// fieldsets so reviewers can see what still needs a home.
func (r *Renderer) Render(ctx context.Context, cfg model.Configuration, unassigned []string) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("preview: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := r.templates.RenderTemplate(configTemplateName, templateData(cfg, unassigned, r.themeCtx))
	if err != nil {
		return nil, fmt.Errorf("preview: render configuration: %w", err)
	}
	return []byte(out), nil
}

func templateData(cfg model.Configuration, unassigned []string, themeCtx themeContext) map[string]any {
	fieldsets := make([]map[string]any, 0, len(cfg))
	for _, set := range cfg {
		fields := make([]map[string]any, 0, len(set.Fields))
		for _, field := range set.Fields {
			fields = append(fields, map[string]any{
				"name":        field.Name,
				"label":       sanitizeText(field.Label),
				"description": sanitizeText(field.Description),
				"type":        string(field.Type),
			})
		}
		fieldsets = append(fieldsets, map[string]any{
			"name":   set.Name,
			"fields": fields,
		})
	}

	return map[string]any{
		"fieldsets":  fieldsets,
		"unassigned": append([]string(nil), unassigned...),
		"theme": map[string]any{
			"name":       themeCtx.Name,
			"variant":    themeCtx.Variant,
			"css_vars":   themeCtx.CSSVarsStyle,
			"stylesheet": themeCtx.StylesheetURL,
		},
	}
}
