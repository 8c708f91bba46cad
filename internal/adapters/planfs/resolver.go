package planfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/natefinch/atomic"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

// Resolver implements ports.PlanFiles on the local filesystem.
// It keeps no state; every call re-reads the directories.
type Resolver struct{}

// Verify interface compliance at compile time
var _ ports.PlanFiles = (*Resolver)(nil)

// NewResolver creates a new Resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// ListAll implements PlanFileLister.ListAll
func (r *Resolver) ListAll(dirs []string) (map[string]string, error) {
	result := make(map[string]string)
	var errs []error

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logging.Logger.Debug("Plan directory does not exist", "directory", dir)
				continue
			}
			logging.Logger.Warn("Skipping unreadable plan directory", "directory", dir, "error", err)
			errs = append(errs, fmt.Errorf("read plan directory %s: %w", dir, err))
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasSuffix(name, ".md") {
				continue
			}
			// First directory wins
			if _, seen := result[name]; seen {
				continue
			}
			if err := domain.ValidateIdentity(name); err != nil {
				logging.Logger.Debug("Skipping plan file with unsafe name", "file", name, "directory", dir)
				continue
			}
			path := filepath.Join(dir, name)
			if !isRegularFile(entry, path) {
				continue
			}
			result[name] = path
		}
	}

	return result, errors.Join(errs...)
}

// Resolve implements PlanFileLister.Resolve
func (r *Resolver) Resolve(identity string, dirs []string) (string, error) {
	if err := domain.ValidateIdentity(identity); err != nil {
		return "", err
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, identity)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", domain.NotFoundError(identity)
}

// Read implements PlanFileReader.Read
func (r *Resolver) Read(path string) (*domain.PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFoundError(filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat plan file: %w", err)
	}

	return &domain.PlanFile{
		Content:    string(data),
		CreatedAt:  fileCreatedAt(path, info),
		Directory:  filepath.Dir(path),
		Filename:   filepath.Base(path),
		ModifiedAt: info.ModTime(),
		Path:       path,
		Size:       info.Size(),
	}, nil
}

// Write implements PlanFileWriter.Write. Readers never see a partial file.
func (r *Resolver) Write(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// Create implements PlanFileWriter.Create
func (r *Resolver) Create(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}

	// Reserve the name exclusively, then fill it atomically
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &domain.IdentityError{Err: domain.ErrPlanExists, Identity: filepath.Base(path)}
		}
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	f.Close()

	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// Rename implements PlanFileWriter.Rename. It refuses to overwrite newPath.
func (r *Resolver) Rename(oldPath, newPath string) error {
	if _, err := os.Lstat(newPath); err == nil {
		return &domain.IdentityError{Err: domain.ErrPlanExists, Identity: filepath.Base(newPath)}
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NotFoundError(filepath.Base(oldPath))
		}
		return fmt.Errorf("failed to rename plan file: %w", err)
	}
	return nil
}

// Remove implements PlanFileWriter.Remove. Missing files are not an error.
func (r *Resolver) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove plan file: %w", err)
	}
	return nil
}

// Move implements PlanFileWriter.Move. A name already taken in destDir gets
// a timestamp suffix. Falls back to copy and delete across filesystems.
func (r *Resolver) Move(path, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	name := filepath.Base(path)
	dest := filepath.Join(destDir, name)
	if _, err := os.Lstat(dest); err == nil {
		stem := strings.TrimSuffix(name, ".md")
		dest = filepath.Join(destDir, fmt.Sprintf("%s-%s.md", stem, time.Now().UTC().Format("20060102T150405.000000000")))
	}

	err := os.Rename(path, dest)
	if err == nil {
		return dest, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.NotFoundError(name)
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", fmt.Errorf("failed to move plan file: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open plan file: %w", err)
	}
	defer src.Close()

	if err := atomic.WriteFile(dest, src); err != nil {
		return "", fmt.Errorf("failed to copy plan file: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("failed to remove moved plan file: %w", err)
	}
	return dest, nil
}

// isRegularFile accepts regular files and symlinks that point at one
func isRegularFile(entry fs.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
