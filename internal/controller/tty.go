package controller

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ColorMode controls whether success and failure messages are colored.
type ColorMode string

// Available ColorMode values.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a user supplied color mode. Empty means auto.
func ParseColorMode(value string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}

	return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", value)
}

// Enabled reports whether colors should be emitted when writing to out.
func (c ColorMode) Enabled(out *os.File) bool {
	switch c {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
	}

	return IsTTY(out)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
