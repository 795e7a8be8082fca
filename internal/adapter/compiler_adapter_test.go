package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

// fakeCompilerScript mimics glslc closely enough for the adapter: it copies
// the input to the -o path, fails for inputs named broken*, and hangs for
// inputs named slow*. Every invocation is appended to the log file.
const fakeCompilerScript = `#!/bin/sh
out=""
in=""
log=%q
echo "$@" >> "$log"
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    -*) shift ;;
    *) in="$1"; shift ;;
  esac
done
case "$in" in
  broken*) echo "$in: error: unexpected token" >&2; exit 1 ;;
  slow*) exec sleep 5 ;;
esac
echo "compiled $in"
cp "$in" "$out"
`

func writeFakeCompiler(t *testing.T) (string, string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a POSIX shell script")
	}

	dir := t.TempDir()
	logPath := filepath.Join(dir, "invocations.log")
	bin := filepath.Join(dir, "fakeglslc")
	require.NoError(t, os.WriteFile(bin, []byte(fmt.Sprintf(fakeCompilerScript, logPath)), 0o755))

	return bin, logPath
}

func TestLocalCompilerAdapter_Compile_Success(t *testing.T) {
	bin, logPath := writeFakeCompiler(t)
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "a.vert"), "#version 450\nvoid main() {}\n")
	mustMkdir(t, filepath.Join(workDir, "bin"))

	var stdout, stderr bytes.Buffer
	adapter := NewLocalCompilerAdapterWithOutput(&stdout, &stderr)

	err := adapter.Compile(context.Background(), m.Invocation{
		Compiler:  bin,
		TargetEnv: "vulkan1.2",
		Optimize:  true,
		Input:     "a.vert",
		Output:    m.Path(filepath.Join("bin", "a.vert.spv")),
		WorkDir:   m.Path(workDir),
	})
	require.NoError(t, err, "stderr: %s", stderr.String())

	assert.FileExists(t, filepath.Join(workDir, "bin", "a.vert.spv"))
	assert.Contains(t, stdout.String(), "compiled a.vert")

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "--target-env=vulkan1.2 -O -o bin/a.vert.spv a.vert\n", string(logged))
}

func TestLocalCompilerAdapter_Compile_Failure(t *testing.T) {
	bin, _ := writeFakeCompiler(t)
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "broken.frag"), "void main( {}\n")
	mustMkdir(t, filepath.Join(workDir, "bin"))

	var stdout, stderr bytes.Buffer
	adapter := NewLocalCompilerAdapterWithOutput(&stdout, &stderr)

	err := adapter.Compile(context.Background(), m.Invocation{
		Compiler: bin,
		Input:    "broken.frag",
		Output:   m.Path(filepath.Join("bin", "broken.frag.spv")),
		WorkDir:  m.Path(workDir),
	})
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected *exec.ExitError, got %T", err)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stderr.String(), "unexpected token")
	assert.NoFileExists(t, filepath.Join(workDir, "bin", "broken.frag.spv"))
}

func TestLocalCompilerAdapter_Compile_MissingCompiler(t *testing.T) {
	adapter := NewLocalCompilerAdapterWithOutput(&bytes.Buffer{}, &bytes.Buffer{})

	err := adapter.Compile(context.Background(), m.Invocation{
		Compiler: "spvbuild-no-such-compiler",
		Input:    "a.vert",
		Output:   "bin/a.vert.spv",
		WorkDir:  m.Path(t.TempDir()),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound), "got %v", err)
}

func TestLocalCompilerAdapter_Compile_Timeout(t *testing.T) {
	bin, _ := writeFakeCompiler(t)
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "slow.comp"), "void main() {}\n")

	adapter := NewLocalCompilerAdapterWithOutput(&bytes.Buffer{}, &bytes.Buffer{})

	started := time.Now()
	err := adapter.Compile(context.Background(), m.Invocation{
		Compiler: bin,
		Input:    "slow.comp",
		Output:   "slow.comp.spv",
		WorkDir:  m.Path(workDir),
		Timeout:  100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Less(t, time.Since(started), 4*time.Second)
}

func TestLocalCompilerAdapter_Compile_Cancelled(t *testing.T) {
	bin, logPath := writeFakeCompiler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := NewLocalCompilerAdapterWithOutput(&bytes.Buffer{}, &bytes.Buffer{})

	err := adapter.Compile(ctx, m.Invocation{
		Compiler: bin,
		Input:    "a.vert",
		Output:   "a.vert.spv",
		WorkDir:  m.Path(t.TempDir()),
	})
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(logPath)
	assert.True(t, os.IsNotExist(statErr), "compiler should not start on a cancelled context")
}

func TestNewLocalCompilerAdapter_DefaultsToProcessStreams(t *testing.T) {
	adapter := NewLocalCompilerAdapter()

	assert.Same(t, os.Stdout, adapter.stdout)
	assert.Same(t, os.Stderr, adapter.stderr)
}
