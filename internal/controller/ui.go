// Package controller provides output adapters for displaying shader build progress.
package controller

import (
	"context"
	"fmt"
	"strings"

	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

// PlanFormat selects how a build plan is rendered.
type PlanFormat string

// Available PlanFormat values.
const (
	PlanTable PlanFormat = "table"
	PlanYAML  PlanFormat = "yaml"
)

// ParsePlanFormat validates a user supplied plan format. Empty means table.
func ParsePlanFormat(value string) (PlanFormat, error) {
	switch PlanFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", PlanTable:
		return PlanTable, nil
	case PlanYAML:
		return PlanYAML, nil
	}

	return "", fmt.Errorf("unknown plan format %q (want %s or %s)", value, PlanTable, PlanYAML)
}

// Reporter announces the overall outcome of a build.
type Reporter interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string)
}

// UI defines everything the workflow displays while building.
// Implementations can use different output methods (styled text, capture for tests).
type UI interface {
	Reporter
	DisplayHeader(ctx context.Context, message string)
	DisplayCandidate(ctx context.Context, candidate m.Candidate)
	DisplayPlan(ctx context.Context, artifacts []m.Artifact, format PlanFormat) error
}
