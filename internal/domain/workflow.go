package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"spvbuild.dev/pkg/spvbuild/internal/adapter"
	"spvbuild.dev/pkg/spvbuild/internal/controller"
	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

// Console messages of a build.
const (
	CompilingHeader = "Compiling shader"
	SuccessMessage  = "Shader compiled!"
	FailureMessage  = "ERROR"
)

// ScanArgs locate the shader directory and select its candidates.
type ScanArgs struct {
	// BaseDir is scanned for shaders; empty means the executable's directory.
	BaseDir m.Path
	// OutputDir receives the artifacts, relative to BaseDir unless absolute.
	OutputDir m.Path
	Filter    FilterRules
}

// CompileArgs holds the arguments for a full build.
type CompileArgs struct {
	ScanArgs
	CompileOptions
}

// ListArgs holds the arguments for printing a build plan.
type ListArgs struct {
	ScanArgs
	Format controller.PlanFormat
}

// Workflow is the shader batch compiler.
type Workflow interface {
	// Compile compiles every candidate in order and stops at the first
	// failure. Every returned error matches ErrCompilationFailure.
	Compile(ctx context.Context, args CompileArgs) error
	// List displays the artifacts Compile would produce without running
	// the compiler or creating the output directory.
	List(ctx context.Context, args ListArgs) error
}

type workflow struct {
	adapter.ShaderFSAdapter
	controller.UI
	ShaderCompiler
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.ShaderFSAdapter,
	ui controller.UI,
	shaderCompiler ShaderCompiler,
) Workflow {
	return &workflow{
		ShaderFSAdapter: fsAdapter,
		UI:              ui,
		ShaderCompiler:  shaderCompiler,
	}
}

func (w *workflow) Compile(ctx context.Context, args CompileArgs) error {
	w.DisplayHeader(ctx, CompilingHeader)

	baseDir, err := w.resolveBaseDir(ctx, args.BaseDir)
	if err != nil {
		return w.fail(ctx, setupError("resolve base directory", err))
	}

	outputDir := outputDirOrDefault(args.OutputDir)

	if err := w.EnsureDir(ctx, w.outputPath(ctx, baseDir, outputDir)); err != nil {
		return w.fail(ctx, setupError(fmt.Sprintf("create output directory %s", outputDir), err))
	}

	candidates, err := w.scan(ctx, baseDir, args.Filter)
	if err != nil {
		return w.fail(ctx, setupError("list shaders", err))
	}

	slog.Info("Starting shader build", "baseDir", baseDir, "outputDir", outputDir, "shaders", len(candidates))

	for _, candidate := range candidates {
		w.DisplayCandidate(ctx, candidate)

		_, err := w.CompileShader(ctx, CompileRequest{
			BaseDir:   baseDir,
			OutputDir: outputDir,
			Candidate: candidate,
			Options:   args.CompileOptions,
		})
		if err != nil {
			return w.fail(ctx, err)
		}
	}

	w.Success(ctx, SuccessMessage)

	return nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	baseDir, err := w.resolveBaseDir(ctx, args.BaseDir)
	if err != nil {
		slog.Error("Failed to resolve base directory", "error", err)
		return fmt.Errorf("resolve base directory: %w", err)
	}

	candidates, err := w.scan(ctx, baseDir, args.Filter)
	if err != nil {
		slog.Error("Failed to list shaders", "baseDir", baseDir, "error", err)
		return fmt.Errorf("list shaders: %w", err)
	}

	outputDir := outputDirOrDefault(args.OutputDir)
	artifacts := make([]m.Artifact, 0, len(candidates))

	for _, candidate := range candidates {
		artifacts = append(artifacts, m.NewArtifact(candidate, outputDir))
	}

	if err := w.DisplayPlan(ctx, artifacts, args.Format); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) fail(ctx context.Context, err error) error {
	slog.Error("Shader build failed", "error", err)
	w.Failure(ctx, FailureMessage)

	return err
}

// resolveBaseDir returns the absolute directory to scan.
func (w *workflow) resolveBaseDir(ctx context.Context, baseDir m.Path) (m.Path, error) {
	if baseDir == "" {
		return w.ExecutableDir(ctx)
	}

	return w.Abs(ctx, baseDir)
}

func (w *workflow) outputPath(ctx context.Context, baseDir, outputDir m.Path) m.Path {
	if filepath.IsAbs(string(outputDir)) {
		return outputDir
	}

	return w.JoinPath(ctx, string(baseDir), string(outputDir))
}

// scan lists baseDir and keeps the candidates, in name order.
func (w *workflow) scan(ctx context.Context, baseDir m.Path, rules FilterRules) ([]m.Candidate, error) {
	infos, err := w.ReadDir(ctx, baseDir)
	if err != nil {
		return nil, err
	}

	rules = w.withExecutableIgnored(ctx, baseDir, rules)
	candidates := make([]m.Candidate, 0, len(infos))

	for _, info := range infos {
		if !IsCandidate(info, rules) {
			slog.Debug("Skipping entry", "name", info.Name(), "mode", info.Mode())
			continue
		}

		candidates = append(candidates, m.Candidate{
			Name: info.Name(),
			Path: w.JoinPath(ctx, string(baseDir), info.Name()),
		})
	}

	return candidates, nil
}

// withExecutableIgnored keeps the tool's own binary out of the candidates
// when it lives in the scanned directory.
func (w *workflow) withExecutableIgnored(ctx context.Context, baseDir m.Path, rules FilterRules) FilterRules {
	exeDir, err := w.ExecutableDir(ctx)
	if err != nil || filepath.Clean(string(exeDir)) != filepath.Clean(string(baseDir)) {
		return rules
	}

	name, err := w.ExecutableName(ctx)
	if err != nil || name == "" {
		return rules
	}

	ignored := make([]string, 0, len(rules.IgnoreNames)+1)
	ignored = append(ignored, rules.IgnoreNames...)
	rules.IgnoreNames = append(ignored, name)

	return rules
}

func outputDirOrDefault(outputDir m.Path) m.Path {
	if outputDir == "" {
		return DefaultOutputDir
	}

	return outputDir
}
