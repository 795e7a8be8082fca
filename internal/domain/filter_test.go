package domain

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statEntry(t *testing.T, fsys fstest.MapFS, name string) fs.FileInfo {
	t.Helper()

	info, err := fs.Stat(fsys, name)
	require.NoError(t, err)

	return info
}

func TestIsCandidate(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert":            {Data: []byte("void main() {}")},
		"b.frag":            {Data: []byte("void main() {}")},
		"c.comp":            {Data: []byte("void main() {}")},
		"shared.glsl":       {Data: []byte("// include")},
		"compile_shader.py": {Data: []byte("#!/usr/bin/python")},
		"main.go":           {Data: []byte("package main")},
		"README":            {Data: []byte("docs")},
		"bin":               {Mode: fs.ModeDir},
		"dir.vert":          {Mode: fs.ModeDir},
		"spvbuild":          {Data: []byte{0x7f, 'E', 'L', 'F'}},
	}

	rules := FilterRules{IgnoreNames: []string{"spvbuild"}}

	tests := []struct {
		name string
		want bool
	}{
		{"a.vert", true},
		{"b.frag", true},
		{"c.comp", true},
		{"README", true},
		{"shared.glsl", false},
		{"compile_shader.py", false},
		{"main.go", false},
		{"bin", false},
		{"dir.vert", false},
		{"spvbuild", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCandidate(statEntry(t, fsys, tt.name), rules))
		})
	}
}

func TestIsCandidate_NilInfo(t *testing.T) {
	assert.False(t, IsCandidate(nil, FilterRules{}))
}

func TestIsCandidate_ExtraSuffixesAddToRequired(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert":            {Data: []byte("void main() {}")},
		"notes.txt":         {Data: []byte("todo")},
		"shared.glsl":       {Data: []byte("// include")},
		"compile_shader.py": {Data: []byte("#!/usr/bin/python")},
		"main.go":           {Data: []byte("package main")},
	}

	rules := FilterRules{ExcludeSuffixes: []string{".txt"}}

	assert.True(t, IsCandidate(statEntry(t, fsys, "a.vert"), rules))
	assert.False(t, IsCandidate(statEntry(t, fsys, "notes.txt"), rules))
	assert.False(t, IsCandidate(statEntry(t, fsys, "shared.glsl"), rules))
	assert.False(t, IsCandidate(statEntry(t, fsys, "compile_shader.py"), rules))
	assert.False(t, IsCandidate(statEntry(t, fsys, "main.go"), rules))
}

func TestIsCandidate_EmptyRulesStillSkipIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"shared.glsl": {Data: []byte("// include")},
		"README":      {Data: []byte("docs")},
	}

	rules := FilterRules{ExcludeSuffixes: []string{""}}

	assert.False(t, IsCandidate(statEntry(t, fsys, "shared.glsl"), rules))
	assert.True(t, IsCandidate(statEntry(t, fsys, "README"), rules))
}
