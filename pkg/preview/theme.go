package preview

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// themeContext is the flattened theme data templates consume.
type themeContext struct {
	Name          string
	Variant       string
	CSSVarsStyle  string
	StylesheetURL string
}

const stylesheetAssetKey = "preview.stylesheet"

// buildThemeContext flattens a go-theme selection into template-friendly
// values: merged tokens become CSS custom properties, and the preview
// stylesheet asset resolves to a URL under the manifest's asset prefix.
func buildThemeContext(selection *theme.Selection) themeContext {
	if selection == nil || selection.Manifest == nil {
		return themeContext{}
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	assets := make(map[string]string, len(manifest.Assets.Files))
	for key, file := range manifest.Assets.Files {
		assets[key] = file
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, file := range variant.Assets.Files {
			assets[key] = file
		}
	}

	ctx := themeContext{
		Name:         selection.Theme,
		Variant:      selection.Variant,
		CSSVarsStyle: cssVarsStyle(tokens),
	}
	if file := assets[stylesheetAssetKey]; file != "" {
		ctx.StylesheetURL = joinAssetURL(manifest.Assets.Prefix, file)
	}
	return ctx
}

func cssVarsStyle(tokens map[string]string) string {
	if len(tokens) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		parts = append(parts, "--"+key+": "+tokens[key]+";")
	}
	return strings.Join(parts, " ")
}

func joinAssetURL(prefix, file string) string {
	trimmedPrefix := strings.TrimRight(prefix, "/")
	trimmedFile := strings.TrimLeft(file, "/")
	if trimmedPrefix == "" {
		return trimmedFile
	}
	return trimmedPrefix + "/" + trimmedFile
}
