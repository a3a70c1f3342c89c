package model

// Theme holds the colors used when exporting a deck. Colors are RGB hex without '#'.
type Theme struct {
	Name       string `json:"name"`
	TitleColor string `json:"titleColor"`
	BodyColor  string `json:"bodyColor"`
	Background string `json:"background"`
}

// DefaultTheme is used when no theme, or an unknown one, is requested.
const DefaultTheme = "light"

var themes = []Theme{
	{Name: "light", TitleColor: "111827", BodyColor: "374151", Background: "FFFFFF"},
	{Name: "dark", TitleColor: "F9FAFB", BodyColor: "D1D5DB", Background: "111827"},
	{Name: "indigo", TitleColor: "312E81", BodyColor: "3730A3", Background: "EEF2FF"},
	{Name: "sunset", TitleColor: "7C2D12", BodyColor: "9A3412", Background: "FFF7ED"},
}

// Themes returns all available export themes.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeByName looks a theme up by name and falls back to DefaultTheme.
func ThemeByName(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}
