// Package model defines the data structures for batch shader compilation.
package model

import "path/filepath"

// Path represents a file system path.
type Path string

// ArtifactSuffix is appended to a source name to form its compiled artifact name.
const ArtifactSuffix = ".spv"

// Candidate is a directory entry selected for compilation.
type Candidate struct {
	// Name is the base name of the source, e.g. "a.vert".
	Name string
	// Path is Name joined with the base directory.
	Path Path
}

// Artifact is the compiled output of a Candidate.
type Artifact struct {
	Source Candidate
	// Path is relative to the base directory, e.g. "bin/a.vert.spv".
	Path Path
}

// ArtifactName derives the artifact file name from a source file name.
func ArtifactName(name string) string {
	return name + ArtifactSuffix
}

// NewArtifact returns the artifact a candidate compiles to inside outputDir.
func NewArtifact(source Candidate, outputDir Path) Artifact {
	return Artifact{
		Source: source,
		Path:   Path(filepath.Join(string(outputDir), ArtifactName(source.Name))),
	}
}
