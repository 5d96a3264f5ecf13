package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore resolves filenames inside the upload and results directories.
// Filenames coming from API callers are reduced to their base name so they
// can never escape either directory.
type FileStore struct {
	UploadDir  string
	ResultsDir string
}

// NewFileStore creates a new FileStore instance
func NewFileStore(uploadDir, resultsDir string) *FileStore {
	return &FileStore{
		UploadDir:  uploadDir,
		ResultsDir: resultsDir,
	}
}

// EnsureDirs creates both directories if they do not exist.
func (fs *FileStore) EnsureDirs() error {
	for _, dir := range []string{fs.UploadDir, fs.ResultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// UploadPath returns the path of an uploaded file.
func (fs *FileStore) UploadPath(name string) string {
	return filepath.Join(fs.UploadDir, filepath.Base(name))
}

// ResultPath returns the path of a result file.
func (fs *FileStore) ResultPath(name string) string {
	return filepath.Join(fs.ResultsDir, filepath.Base(name))
}

// Exists reports whether the file at path exists.
func (fs *FileStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// FreeUploadName keeps the caller's filename when it is free and otherwise
// derives a unique variant with a short uuid suffix.
func (fs *FileStore) FreeUploadName(name string) string {
	name = filepath.Base(name)
	if !fs.Exists(fs.UploadPath(name)) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", stem, uuid.NewString()[:8], ext)
}
