package domain

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	adaptermocks "spvbuild.dev/pkg/spvbuild/internal/adapter/mocks"
	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

func TestShaderCompiler_BuildsInvocation(t *testing.T) {
	compilerAdapter := adaptermocks.NewMockCompilerAdapter(t)
	sc := NewShaderCompiler(compilerAdapter)

	compilerAdapter.On("Compile", mock.Anything, m.Invocation{
		Compiler:  "glslc",
		TargetEnv: "vulkan1.2",
		Optimize:  true,
		Input:     "a.vert",
		Output:    m.Path(filepath.Join("bin", "a.vert.spv")),
		WorkDir:   "/shaders",
		Timeout:   time.Minute,
	}).Return(nil).Once()

	options := DefaultCompileOptions()
	options.Timeout = time.Minute

	artifact, err := sc.CompileShader(context.Background(), CompileRequest{
		BaseDir:   "/shaders",
		OutputDir: "bin",
		Candidate: m.Candidate{Name: "a.vert", Path: "/shaders/a.vert"},
		Options:   options,
	})
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("bin", "a.vert.spv")), artifact.Path)
}

func TestShaderCompiler_EmptyCompilerFallsBackToGlslc(t *testing.T) {
	compilerAdapter := adaptermocks.NewMockCompilerAdapter(t)
	sc := NewShaderCompiler(compilerAdapter)

	compilerAdapter.On("Compile", mock.Anything, mock.MatchedBy(func(inv m.Invocation) bool {
		return inv.Compiler == DefaultCompiler
	})).Return(nil).Once()

	_, err := sc.CompileShader(context.Background(), CompileRequest{
		BaseDir:   "/shaders",
		OutputDir: "bin",
		Candidate: m.Candidate{Name: "a.vert"},
	})
	require.NoError(t, err)
}

func TestShaderCompiler_FailureIsCompilationFailure(t *testing.T) {
	compilerAdapter := adaptermocks.NewMockCompilerAdapter(t)
	sc := NewShaderCompiler(compilerAdapter)

	cause := &exec.Error{Name: "glslc", Err: exec.ErrNotFound}
	compilerAdapter.On("Compile", mock.Anything, mock.Anything).Return(cause).Once()

	_, err := sc.CompileShader(context.Background(), CompileRequest{
		BaseDir:   "/shaders",
		OutputDir: "bin",
		Candidate: m.Candidate{Name: "broken.frag"},
		Options:   DefaultCompileOptions(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompilationFailure)
	assert.ErrorIs(t, err, exec.ErrNotFound)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "broken.frag", compileErr.Candidate)
	assert.Contains(t, err.Error(), "compile broken.frag")
}

func TestShaderCompiler_CancelledContextSkipsCompiler(t *testing.T) {
	compilerAdapter := adaptermocks.NewMockCompilerAdapter(t)
	sc := NewShaderCompiler(compilerAdapter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sc.CompileShader(ctx, CompileRequest{
		BaseDir:   "/shaders",
		OutputDir: "bin",
		Candidate: m.Candidate{Name: "a.vert"},
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrCompilationFailure)
	compilerAdapter.AssertNotCalled(t, "Compile", mock.Anything, mock.Anything)
}
