package domain

import (
	"io/fs"
	"strings"
)

// RequiredExcludeSuffixes are never compiled, whatever the configuration:
// ".glsl" files are includes shared by the real shader sources, ".py" and
// ".go" are build tooling.
var RequiredExcludeSuffixes = []string{".glsl", ".py", ".go"}

// FilterRules narrow down which directory entries are candidate shader
// sources. They only ever add exclusions on top of RequiredExcludeSuffixes.
type FilterRules struct {
	// ExcludeSuffixes rejects names ending with any of the suffixes.
	ExcludeSuffixes []string
	// IgnoreNames rejects exact base names (the tool itself, its config and log).
	IgnoreNames []string
}

// IsCandidate reports whether info describes a shader source to compile.
// Everything that is a regular file and not excluded qualifies, whatever
// its extension.
func IsCandidate(info fs.FileInfo, rules FilterRules) bool {
	if info == nil || !info.Mode().IsRegular() {
		return false
	}

	name := info.Name()

	if hasAnySuffix(name, RequiredExcludeSuffixes) || hasAnySuffix(name, rules.ExcludeSuffixes) {
		return false
	}

	for _, ignored := range rules.IgnoreNames {
		if name == ignored {
			return false
		}
	}

	return true
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}
