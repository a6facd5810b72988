// Package output manages the scan-scoped output directory: a screenshots
// subdirectory with collision-resistant names and the final report file.
// Retention and cleanup are the caller's business, not ours.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Workspace is the on-disk home of one scan's artifacts.
type Workspace struct {
	// Root is the scan-scoped directory.
	Root string
	// ShotsDir holds every screenshot taken during the scan.
	ShotsDir string

	id string
}

// NewWorkspace creates a fresh scan directory under baseDir (the working
// directory when empty).
func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		baseDir = wd
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	root := filepath.Join(baseDir, "scan_"+id)
	shots := filepath.Join(root, "screenshots")

	if err := os.MkdirAll(shots, 0755); err != nil {
		return nil, fmt.Errorf("creating scan directory %s: %w", root, err)
	}

	return &Workspace{Root: root, ShotsDir: shots, id: id}, nil
}

// WriteReport writes the rendered report into the scan directory and returns
// its path.
func (w *Workspace) WriteReport(data []byte, ext string) (string, error) {
	path := filepath.Join(w.Root, "usability_report_"+w.id+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}

// ShotPath resolves a screenshot identifier to its file path.
func (w *Workspace) ShotPath(name string) string {
	return filepath.Join(w.ShotsDir, name)
}
