// Package template defines the engine seam the preview renderer depends on,
// so render logic stays testable without a real template set and callers can
// swap engines.
package template

// Renderer renders a named template or inline template content against a
// context map.
type Renderer interface {
	RenderTemplate(name string, data map[string]any) (string, error)
	RenderString(content string, data map[string]any) (string, error)
}
