package domain

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

type Language string

const (
	LangES Language = "es"
	LangEN Language = "en"
)

// Preferences are the only per-device settings that survive a restart.
type Preferences struct {
	Theme    Theme    `json:"theme" db:"theme"`
	FontSize FontSize `json:"fontSize" db:"font_size"`
	Language Language `json:"language" db:"language"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, FontSize: FontMedium, Language: LangES}
}

// Normalize replaces unknown values with defaults.
func (p Preferences) Normalize() Preferences {
	d := DefaultPreferences()
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		p.Theme = d.Theme
	}
	switch p.FontSize {
	case FontSmall, FontMedium, FontLarge:
	default:
		p.FontSize = d.FontSize
	}
	if p.Language != LangES && p.Language != LangEN {
		p.Language = d.Language
	}
	return p
}

// Palette is the resolved colour set for a theme. Values are copied out of
// PaletteFor, so callers cannot alter the shared definitions.
type Palette struct {
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	TextMuted  string `json:"textMuted"`
	Primary    string `json:"primary"`
	Accent     string `json:"accent"`
	Border     string `json:"border"`
	Error      string `json:"error"`
	Success    string `json:"success"`
}

var (
	lightPalette = Palette{
		Background: "#FFFFFF",
		Surface:    "#F4F6F8",
		Text:       "#1A1A1A",
		TextMuted:  "#6B7280",
		Primary:    "#0B5FFF",
		Accent:     "#00A6A6",
		Border:     "#D0D5DD",
		Error:      "#D92D20",
		Success:    "#039855",
	}
	darkPalette = Palette{
		Background: "#101418",
		Surface:    "#1C2229",
		Text:       "#F2F4F7",
		TextMuted:  "#98A2B3",
		Primary:    "#5B8CFF",
		Accent:     "#2ED3C6",
		Border:     "#344054",
		Error:      "#F97066",
		Success:    "#32D583",
	}
)

func PaletteFor(t Theme) Palette {
	if t == ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// FontScale is the multiplier applied to base text sizes.
func (f FontSize) FontScale() float64 {
	switch f {
	case FontSmall:
		return 0.875
	case FontLarge:
		return 1.25
	}
	return 1
}
