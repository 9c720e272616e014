package validation

import (
	"log/slog"
	"os"
	"path/filepath"

	"storescan/internal/errors"
)

// FileValidator checks pipeline input and output paths before any work runs,
// so settings problems surface as startup failures rather than mid-run ones.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile validates that the input file exists, is a regular file,
// and is not empty.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("input file does not exist",
			slog.String("path", path))
		return errors.NewIOError("input file does not exist", err).WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("failed to stat input file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return errors.NewIOError("failed to stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("input path is a directory",
			slog.String("path", path))
		return errors.NewIOError("input path is a directory, not a file", nil).WithContext("path", path)
	}
	if info.Size() == 0 {
		v.logger.Error("input file is empty",
			slog.String("path", path))
		return errors.NewIOError("input file is empty", nil).WithContext("path", path)
	}

	v.logger.Info("input file validated",
		slog.String("path", path),
		slog.Int64("size_bytes", info.Size()))
	return nil
}

// ValidateOutputPath ensures the parent directory of an output file exists
// or can be created.
func (v *FileValidator) ValidateOutputPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}
	return nil
}

// ValidateOutputDirectory ensures a directory exists or can be created.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}
	return nil
}
