package project

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// ManifestVersion is written into every run manifest.
const ManifestVersion = "1.0.0"

// ManifestName is the manifest's file name inside the output directory.
const ManifestName = "manifest.json"

// Output file kinds.
const (
	KindGCode    = "gcode"
	KindCutList  = "cutlist"
	KindWorkbook = "workbook"
	KindLayout   = "layout"
	KindLabels   = "labels"
)

// ManifestFile is one artifact written by a run, relative to the output
// directory.
type ManifestFile struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// RunManifest records what a pipeline run produced.
type RunManifest struct {
	Version   string              `json:"version"`
	RunID     string              `json:"run_id"`
	Job       string              `json:"job"`
	CreatedAt string              `json:"created_at"`
	Cabinets  []string            `json:"cabinets"`
	Sheets    int                 `json:"sheets"`
	Programs  int                 `json:"programs"`
	Cost      model.CostBreakdown `json:"cost"`
	Files     []ManifestFile      `json:"files"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// NewRunManifest starts a manifest with a fresh run id.
func NewRunManifest(job string) RunManifest {
	return RunManifest{
		Version:   ManifestVersion,
		RunID:     uuid.New().String(),
		Job:       job,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// AddFile records an artifact. path is stored relative to dir when possible.
func (m *RunManifest) AddFile(kind, dir, path string) {
	if rel, err := filepath.Rel(dir, path); err == nil {
		path = rel
	}
	m.Files = append(m.Files, ManifestFile{Kind: kind, Path: filepath.ToSlash(path)})
}

// WriteManifest writes the manifest into dir with files sorted by kind then
// path, and returns the manifest's path.
func WriteManifest(dir string, m RunManifest) (string, error) {
	sort.SliceStable(m.Files, func(i, j int) bool {
		if m.Files[i].Kind != m.Files[j].Kind {
			return m.Files[i].Kind < m.Files[j].Kind
		}
		return m.Files[i].Path < m.Files[j].Path
	})
	path := filepath.Join(dir, ManifestName)
	return path, writeFile(path, m)
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (RunManifest, error) {
	var m RunManifest
	if err := readFile(path, &m); err != nil {
		return RunManifest{}, err
	}
	if m.Version == "" || m.RunID == "" {
		return RunManifest{}, errors.Newf("invalid manifest %s: missing version or run id", path)
	}
	return m, nil
}
