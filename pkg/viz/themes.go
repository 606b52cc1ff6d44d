package viz

import (
	"sort"

	"goeq/pkg/eq"
)

// DefaultTheme is the palette used when nothing else is configured.
const DefaultTheme = "classic"

// Themes contains all built-in palettes.
var Themes = map[string]eq.Palette{
	DefaultTheme: eq.DefaultPalette(),
	"monokai": {
		Background: "#272822",
		Bar:        "#a6e22e",
		Bar2:       "#66d9ef",
		Bar3:       "#e6db74",
	},
	"solarized": {
		Background: "#002b36",
		Bar:        "#859900",
		Bar2:       "#268bd2",
		Bar3:       "#b58900",
	},
	"nord": {
		Background: "#2e3440",
		Bar:        "#88c0d0",
		Bar2:       "#81a1c1",
		Bar3:       "#ebcb8b",
	},
	"dracula": {
		Background: "#282a36",
		Bar:        "#50fa7b",
		Bar2:       "#8be9fd",
		Bar3:       "#f1fa8c",
	},
}

// ThemeNames returns the theme names with the default first.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		if name != DefaultTheme {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{DefaultTheme}, names...)
}

// Theme looks up a palette by name.
func Theme(name string) (eq.Palette, bool) {
	p, ok := Themes[name]
	return p, ok
}
