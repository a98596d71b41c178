// Package themes loads the UI color palettes and tracks the one in use.
package themes

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultThemes []byte

var (
	ErrUnknownTheme = errors.New("unknown theme")
	ErrNoThemes     = errors.New("theme file defines no themes")
)

// Palette holds the six base colors of a theme.
type Palette struct {
	Primary    string `toml:"primary" json:"primary"`
	Secondary  string `toml:"secondary" json:"secondary"`
	Background string `toml:"background" json:"background"`
	Surface    string `toml:"surface" json:"surface"`
	Text       string `toml:"text" json:"text"`
	Accent     string `toml:"accent" json:"accent"`
}

// Theme is a named palette.
type Theme struct {
	Name   string  `toml:"name" json:"name"`
	Dark   bool    `toml:"dark" json:"dark"`
	Colors Palette `toml:"colors" json:"colors"`
}

type themeFile struct {
	Themes []Theme `toml:"theme"`
}

// Defaults returns the built-in themes.
func Defaults() []Theme {
	themes, err := decode(defaultThemes)
	if err != nil {
		panic(fmt.Sprintf("embedded themes: %v", err))
	}
	return themes
}

// Load reads themes from a TOML file; an empty path yields Defaults.
func Load(path string) ([]Theme, error) {
	if path == "" {
		return Defaults(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read themes: %w", err)
	}
	themes, err := decode(b)
	if err != nil {
		return nil, fmt.Errorf("parse themes %s: %w", path, err)
	}
	return themes, nil
}

func decode(b []byte) ([]Theme, error) {
	var f themeFile
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if len(f.Themes) == 0 {
		return nil, ErrNoThemes
	}
	return f.Themes, nil
}

// CSSVariables maps custom property names (without the leading "--") to
// values. Shadow and border follow the theme brightness.
func (t Theme) CSSVariables() map[string]string {
	vars := map[string]string{
		"primary":    t.Colors.Primary,
		"secondary":  t.Colors.Secondary,
		"background": t.Colors.Background,
		"surface":    t.Colors.Surface,
		"text":       t.Colors.Text,
		"accent":     t.Colors.Accent,
	}
	if t.Dark {
		vars["shadow"] = "rgba(0, 0, 0, 0.3)"
		vars["border"] = "rgba(255, 255, 255, 0.1)"
	} else {
		vars["shadow"] = "rgba(0, 0, 0, 0.1)"
		vars["border"] = "rgba(0, 0, 0, 0.1)"
	}
	return vars
}

// State tracks the selected theme for the session.
type State struct {
	mu      sync.RWMutex
	themes  []Theme
	current int
}

// NewState selects initial, falling back to the first theme when out of range.
func NewState(themes []Theme, initial int) *State {
	if initial < 0 || initial >= len(themes) {
		initial = 0
	}
	return &State{themes: append([]Theme(nil), themes...), current: initial}
}

// List returns all themes and the selected index.
func (s *State) List() ([]Theme, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Theme(nil), s.themes...), s.current
}

// Current returns the selected theme.
func (s *State) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.themes[s.current]
}

// Apply selects the theme at index.
func (s *State) Apply(index int) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.themes) {
		return Theme{}, fmt.Errorf("%w: %d", ErrUnknownTheme, index)
	}
	s.current = index
	return s.themes[index], nil
}
