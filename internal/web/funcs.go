package web

import (
	"html/template"

	"citybus-tracker/internal/transit"
)

var palette = map[string]string{
	transit.ColorBlue:   "#2563eb",
	transit.ColorGreen:  "#16a34a",
	transit.ColorYellow: "#ca8a04",
	transit.ColorRed:    "#dc2626",
	transit.ColorPurple: "#9333ea",
	transit.ColorOrange: "#ea580c",
	transit.ColorPink:   "#db2777",
	transit.ColorIndigo: "#4f46e5",
	transit.ColorGray:   "#6b7280",
}

// cssColor maps a palette key to a CSS color. Catalog routes may carry a hex
// color already, which passes through.
func cssColor(name string) string {
	if c, ok := palette[name]; ok {
		return c
	}
	if len(name) > 0 && name[0] == '#' {
		return name
	}
	return palette[transit.ColorGray]
}

var templateFuncs = template.FuncMap{
	"css": func(name string) template.CSS { return template.CSS(cssColor(name)) },
}
