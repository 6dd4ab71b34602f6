package project

import (
	"os"
	"path/filepath"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// DefaultConfigDir returns the per-user CaseCut directory, ~/.casecut.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".casecut")
}

// DefaultTemplatePath returns the default file path for the template store.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.toml")
}

// SaveTemplates writes the template store in the format implied by path.
func SaveTemplates(path string, store model.TemplateStore) error {
	return writeFile(path, store)
}

// LoadTemplates returns the built-in templates followed by those stored at
// path. A stored template replaces a built-in one of the same name. A missing
// file yields the built-in templates only.
func LoadTemplates(path string) (model.TemplateStore, error) {
	store := model.DefaultTemplateStore()
	if path == "" {
		return store, nil
	}

	var stored model.TemplateStore
	if err := readFile(path, &stored); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return store, err
	}

	for _, t := range stored.Templates {
		if existing := store.FindByName(t.Name); existing != nil {
			store.Remove(existing.ID)
		}
		store.Add(t)
	}
	return store, nil
}
