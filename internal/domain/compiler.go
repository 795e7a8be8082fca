package domain

import (
	"context"
	"log/slog"
	"time"

	"spvbuild.dev/pkg/spvbuild/internal/adapter"
	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

// Defaults matching the glslc invocation the build has always used.
const (
	DefaultCompiler  = "glslc"
	DefaultTargetEnv = "vulkan1.2"
	DefaultOutputDir = m.Path("bin")
)

// CompileOptions configure the external compiler.
type CompileOptions struct {
	Compiler  string
	TargetEnv string
	Optimize  bool
	// Timeout bounds each invocation; zero means no limit.
	Timeout time.Duration
}

// DefaultCompileOptions returns glslc targeting Vulkan 1.2 with optimizations on.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{
		Compiler:  DefaultCompiler,
		TargetEnv: DefaultTargetEnv,
		Optimize:  true,
	}
}

// CompileRequest asks for one candidate to be compiled.
type CompileRequest struct {
	BaseDir   m.Path
	OutputDir m.Path
	Candidate m.Candidate
	Options   CompileOptions
}

// ShaderCompiler turns a single candidate into its artifact by running the
// external compiler inside the base directory.
type ShaderCompiler interface {
	CompileShader(ctx context.Context, req CompileRequest) (m.Artifact, error)
}

type shaderCompiler struct {
	compilerAdapter adapter.CompilerAdapter
}

// NewShaderCompiler constructs a ShaderCompiler backed by the provided
// compiler adapter.
func NewShaderCompiler(compilerAdapter adapter.CompilerAdapter) ShaderCompiler {
	return &shaderCompiler{compilerAdapter: compilerAdapter}
}

func (sc *shaderCompiler) CompileShader(ctx context.Context, req CompileRequest) (m.Artifact, error) {
	artifact := m.NewArtifact(req.Candidate, req.OutputDir)

	if err := ctx.Err(); err != nil {
		return artifact, &CompileError{Candidate: req.Candidate.Name, Err: err}
	}

	options := req.Options
	if options.Compiler == "" {
		options.Compiler = DefaultCompiler
	}

	inv := m.Invocation{
		Compiler:  options.Compiler,
		TargetEnv: options.TargetEnv,
		Optimize:  options.Optimize,
		Input:     m.Path(req.Candidate.Name),
		Output:    artifact.Path,
		WorkDir:   req.BaseDir,
		Timeout:   options.Timeout,
	}

	slog.Info("Compiling shader", "shader", req.Candidate.Name, "artifact", artifact.Path, "compiler", inv.Compiler)

	if err := sc.compilerAdapter.Compile(ctx, inv); err != nil {
		slog.Error("Shader compilation failed", "shader", req.Candidate.Name, "args", inv.Args(), "error", err)
		return artifact, &CompileError{Candidate: req.Candidate.Name, Err: err}
	}

	return artifact, nil
}
