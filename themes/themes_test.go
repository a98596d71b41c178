package themes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	themes := Defaults()
	if len(themes) != 4 {
		t.Fatalf("len = %d", len(themes))
	}
	names := []string{"Claro Profissional", "Escuro Minimalista", "Azul Corporativo", "Terra Natural"}
	for i, name := range names {
		if themes[i].Name != name {
			t.Fatalf("themes[%d] = %q, want %q", i, themes[i].Name, name)
		}
		if themes[i].Colors.Primary == "" || themes[i].Colors.Accent == "" {
			t.Fatalf("theme %q has empty colors", name)
		}
	}
	if !themes[1].Dark || themes[0].Dark {
		t.Fatalf("dark flags wrong")
	}
}

func TestCSSVariables(t *testing.T) {
	themes := Defaults()
	light := themes[0].CSSVariables()
	if light["primary"] != "#2C3E50" || light["shadow"] != "rgba(0, 0, 0, 0.1)" || light["border"] != "rgba(0, 0, 0, 0.1)" {
		t.Fatalf("light vars = %v", light)
	}
	dark := themes[1].CSSVariables()
	if dark["shadow"] != "rgba(0, 0, 0, 0.3)" || dark["border"] != "rgba(255, 255, 255, 0.1)" {
		t.Fatalf("dark vars = %v", dark)
	}
	if len(dark) != 8 {
		t.Fatalf("vars = %d", len(dark))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "themes.toml")
	content := `
[[theme]]
name = "Sépia"
dark = false
[theme.colors]
primary = "#704214"
secondary = "#A0522D"
background = "#F5ECD9"
surface = "#FFF8E7"
text = "#3B2F2F"
accent = "#C04000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	themes, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(themes) != 1 || themes[0].Name != "Sépia" || themes[0].Colors.Background != "#F5ECD9" {
		t.Fatalf("themes = %+v", themes)
	}

	if def, err := Load(""); err != nil || len(def) != 4 {
		t.Fatalf("Load(\"\") = %d, %v", len(def), err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	typo := filepath.Join(dir, "typo.toml")
	if err := os.WriteFile(typo, []byte("[[theme]]\nname = \"x\"\ncolour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(typo); err == nil {
		t.Fatalf("unknown keys must be rejected")
	}

	empty := filepath.Join(dir, "empty.toml")
	if err := os.WriteFile(empty, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); !errors.Is(err, ErrNoThemes) {
		t.Fatalf("err = %v", err)
	}
}

func TestState(t *testing.T) {
	s := NewState(Defaults(), 9)
	if _, current := s.List(); current != 0 {
		t.Fatalf("out of range initial should fall back to 0, got %d", current)
	}

	th, err := s.Apply(2)
	if err != nil || th.Name != "Azul Corporativo" || s.Current().Name != "Azul Corporativo" {
		t.Fatalf("Apply(2) = %+v, %v", th, err)
	}
	if _, err := s.Apply(4); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.Apply(-1); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("err = %v", err)
	}
	if s.Current().Name != "Azul Corporativo" {
		t.Fatalf("failed apply changed the theme")
	}

	list, _ := s.List()
	list[0].Name = "changed"
	if again, _ := s.List(); again[0].Name == "changed" {
		t.Fatalf("List exposes internal slice")
	}
}
