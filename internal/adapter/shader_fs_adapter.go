// Package adapter contains filesystem and process adapters for the spvbuild CLI.
package adapter

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

// ShaderFSAdapter abstracts the filesystem operations the domain layer
// relies on when scanning a shader directory. It hides direct `os` access so
// the workflow logic can be tested without touching the disk.
type ShaderFSAdapter interface {
	// ExecutableDir returns the directory holding the running executable,
	// with symlinks resolved.
	ExecutableDir(ctx context.Context) (m.Path, error)

	// ExecutableName returns the base name of the running executable.
	ExecutableName(ctx context.Context) (string, error)

	// Abs returns an absolute, cleaned form of path.
	Abs(ctx context.Context, path m.Path) (m.Path, error)

	// ReadDir lists the entries of dir (non-recursive), sorted by name.
	// Symlinks are followed; a dangling link is reported with its own
	// Lstat metadata.
	ReadDir(ctx context.Context, dir m.Path) ([]fs.FileInfo, error)

	// EnsureDir creates dir and any missing parents. Existing directories
	// are not an error.
	EnsureDir(ctx context.Context, dir m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path
}

// LocalShaderFSAdapter implements ShaderFSAdapter on top of os and path/filepath.
type LocalShaderFSAdapter struct {
	executable func() (string, error)
}

// NewLocalShaderFSAdapter constructs a LocalShaderFSAdapter instance ready to
// be wired into the workflow.
func NewLocalShaderFSAdapter() *LocalShaderFSAdapter {
	return &LocalShaderFSAdapter{executable: os.Executable}
}

// ExecutableDir returns the directory containing the running executable.
func (a *LocalShaderFSAdapter) ExecutableDir(ctx context.Context) (m.Path, error) {
	exe, err := a.resolveExecutable(ctx)
	if err != nil {
		return "", err
	}

	return m.Path(filepath.Dir(exe)), nil
}

// ExecutableName returns the base name of the running executable.
func (a *LocalShaderFSAdapter) ExecutableName(ctx context.Context) (string, error) {
	exe, err := a.resolveExecutable(ctx)
	if err != nil {
		return "", err
	}

	return filepath.Base(exe), nil
}

func (a *LocalShaderFSAdapter) resolveExecutable(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	exe, err := a.executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable %s: %w", exe, err)
	}

	return resolved, nil
}

// Abs returns an absolute representation of path.
func (a *LocalShaderFSAdapter) Abs(ctx context.Context, path m.Path) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// ReadDir lists the entries of dir sorted by file name.
func (a *LocalShaderFSAdapter) ReadDir(ctx context.Context, dir m.Path) ([]fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, err
	}

	infos := make([]fs.FileInfo, 0, len(entries))

	for _, entry := range entries {
		info, err := a.entryInfo(string(dir), entry)
		if err != nil {
			return nil, err
		}

		infos = append(infos, info)
	}

	return infos, nil
}

func (a *LocalShaderFSAdapter) entryInfo(dir string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err == nil {
			return info, nil
		}

		// Dangling, looping or unreadable links keep their own Lstat info,
		// which is never a regular file.
		slog.Debug("Cannot follow symlink", "name", entry.Name(), "error", err)
	}

	info, err := entry.Info()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
	}

	return info, nil
}

// EnsureDir creates dir with 0o755 permissions when it is missing.
func (a *LocalShaderFSAdapter) EnsureDir(ctx context.Context, dir m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// #nosec G301 - artifacts are read by the rest of the build
	return os.MkdirAll(string(dir), 0o755)
}

// JoinPath joins path elements into a single path.
func (a *LocalShaderFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
