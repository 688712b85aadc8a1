// Package theme holds the light/dark selection the effect engines react to.
package theme

import (
	"fmt"
	"strings"

	dark "github.com/thiagokokada/dark-mode-go"
)

type Theme uint8

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	switch t {
	case Light:
		return "light"
	case Dark:
		return "dark"
	}
	return fmt.Sprintf("Theme(%d)", uint8(t))
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Parse accepts "light", "dark" and the empty string, which means Light.
func Parse(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, fmt.Errorf("unknown theme %q", s)
}

// Detect reads the OS colour scheme preference. On failure it returns
// Light together with the error.
func Detect() (Theme, error) {
	isDark, err := dark.IsDarkMode()
	if err != nil {
		return Light, fmt.Errorf("detect dark mode: %w", err)
	}
	if isDark {
		return Dark, nil
	}
	return Light, nil
}

// Resolve turns a configured setting into a theme. "auto" asks the OS and
// falls back to Light, returning the detection error alongside.
func Resolve(setting string) (Theme, error) {
	if strings.EqualFold(strings.TrimSpace(setting), "auto") {
		return Detect()
	}
	return Parse(setting)
}
