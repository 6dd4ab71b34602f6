package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CaseCut/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "templates"+ext)

			var store model.TemplateStore
			store.Add(model.NewCabinetTemplate("corner-900", "Blind corner base", model.CabinetDesign{
				Name:        "corner-900",
				Dimensions:  model.Dimensions{Width: 900, Height: 720, Depth: 560, Thickness: 18},
				Style:       model.StyleEuro,
				DoorCount:   1,
				IncludeBack: true,
				Material:    "Melamine",
			}))
			require.NoError(t, SaveTemplates(path, store))

			loaded, err := LoadTemplates(path)
			require.NoError(t, err)

			builtIn := len(model.DefaultTemplateStore().Templates)
			require.Len(t, loaded.Templates, builtIn+1)
			corner := loaded.FindByName("corner-900")
			require.NotNil(t, corner)
			assert.Equal(t, store.Templates[0], *corner)
		})
	}
}

func TestLoadTemplates_OverridesBuiltIn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.toml")

	override := model.NewCabinetTemplate("base-600", "Deeper base", model.CabinetDesign{
		Name:       "base-600",
		Dimensions: model.Dimensions{Width: 600, Height: 720, Depth: 600, Thickness: 18},
	})
	require.NoError(t, SaveTemplates(path, model.TemplateStore{Templates: []model.CabinetTemplate{override}}))

	loaded, err := LoadTemplates(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Templates, len(model.DefaultTemplateStore().Templates))
	assert.Equal(t, 600.0, loaded.FindByName("base-600").Design.Dimensions.Depth)
}

func TestLoadTemplates_NotFound(t *testing.T) {
	store, err := LoadTemplates(filepath.Join(t.TempDir(), "nonexistent.toml"))
	require.NoError(t, err)
	defaults := model.DefaultTemplateStore()
	assert.Equal(t, defaults.Names(), store.Names())

	store, err = LoadTemplates("")
	require.NoError(t, err)
	assert.NotEmpty(t, store.Templates)
}

func TestLoadTemplates_UnsupportedExtension(t *testing.T) {
	_, err := LoadTemplates(filepath.Join(t.TempDir(), "templates.ini"))
	assert.ErrorContains(t, err, "unsupported file extension")
}
