package render

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"go.protok.dev/protok/lib/fsext"
)

// Writer writes rendered documents through a filesystem, creating output
// directories as needed.
type Writer struct {
	logger logrus.FieldLogger
	fs     fsext.Fs
}

// NewWriter returns a Writer backed by fs.
func NewWriter(logger logrus.FieldLogger, fs fsext.Fs) *Writer {
	return &Writer{logger: logger, fs: fs}
}

// OutputPath routes a schema file to its output location: the schema file's
// base name with the .proto extension swapped for suffix, under dir.
// "schemas/vehicle.proto" with suffix ".md" under "docs" becomes
// "docs/vehicle.md".
func OutputPath(dir, schemaName, suffix string) string {
	base := strings.TrimSuffix(path.Base(schemaName), ".proto")
	return filepath.Join(dir, base+suffix)
}

// Write stores data at the given path, creating missing parent directories.
func (w *Writer) Write(outputPath string, data []byte) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create output directory %q: %w", dir, err)
		}
	}
	if err := fsext.WriteFile(w.fs, outputPath, data, 0o644); err != nil {
		return fmt.Errorf("could not write %q: %w", outputPath, err)
	}
	w.logger.WithField("path", outputPath).Debug("Wrote output file")
	return nil
}
