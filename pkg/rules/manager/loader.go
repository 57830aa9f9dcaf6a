package manager

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// LoaderConfig contains configuration for the file loader.
type LoaderConfig struct {
	// MaxFileSize is the maximum accepted RAS file size in bytes.
	// Default: 4MB.
	MaxFileSize int64

	// AllowedExtensions filters files collected from directories.
	// Default: [".ras"].
	AllowedExtensions []string

	// SkipHidden skips dot-files and dot-directories when walking.
	// Default: true.
	SkipHidden bool

	// FollowSymlinks controls whether symbolic links are followed.
	// Default: true.
	FollowSymlinks bool
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize:       4 * 1024 * 1024,
		AllowedExtensions: []string{".ras"},
		SkipHidden:        true,
		FollowSymlinks:    true,
	}
}

// Loader reads RAS sources from the file system with size and encoding
// validation.
type Loader struct {
	config *LoaderConfig
}

// NewLoader creates a loader with the given configuration.
func NewLoader(config *LoaderConfig) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{config: config}
}

// ReadFile reads and validates a single RAS file: it must be a regular
// file, within the size limit, and valid UTF-8.
func (l *Loader) ReadFile(path string) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		if os.IsPermission(err) {
			return nil, &LoadError{FilePath: path, Message: "permission denied", Cause: err}
		}
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if fileInfo.Size() > l.config.MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", fileInfo.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}

	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	return data, nil
}

// CollectFiles collects all RAS file paths under a directory, filtered
// by extension, with hidden-file and symlink handling per the loader
// configuration.
func (l *Loader) CollectFiles(dir string) ([]string, error) {
	fileInfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: dir, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to access directory", Cause: err}
	}
	if !fileInfo.IsDir() {
		return nil, &LoadError{FilePath: dir, Message: "not a directory"}
	}

	var files []string
	visited := make(map[string]bool)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if l.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !l.config.FollowSymlinks {
				return nil
			}
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return &LoadError{FilePath: path, Message: "failed to resolve symlink", Cause: err}
			}
			if visited[realPath] {
				return &LoadError{FilePath: path, Message: "symlink loop detected"}
			}
			visited[realPath] = true
			if !l.hasValidExtension(realPath) {
				return nil
			}
			files = append(files, path)
			return nil
		}

		if !l.hasValidExtension(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			return nil, le
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to walk directory", Cause: err}
	}

	return files, nil
}

// IsDirectory reports whether the path names a directory.
func (l *Loader) IsDirectory(path string) (bool, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, &LoadError{FilePath: path, Message: "path does not exist", Cause: err}
		}
		return false, &LoadError{FilePath: path, Message: "failed to access path", Cause: err}
	}
	return fileInfo.IsDir(), nil
}

// NamespaceFor derives a namespace label from a file path: the base
// name without its extension.
func (l *Loader) NamespaceFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (l *Loader) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, validExt := range l.config.AllowedExtensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}
