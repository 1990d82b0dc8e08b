package preview

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embeddedTemplates embed.FS

// EmbeddedTemplates returns the default template bundle rooted at the
// template names the renderer expects.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed path is fixed at compile time; failure here means a
		// broken build, not a runtime condition.
		panic(err)
	}
	return sub
}
