package model

import (
	"time"

	"github.com/google/uuid"
)

// CabinetTemplate is a named, reusable cabinet design.
type CabinetTemplate struct {
	ID          string        `json:"id" toml:"id" yaml:"id"`
	Name        string        `json:"name" toml:"name" yaml:"name"`
	Description string        `json:"description" toml:"description" yaml:"description"`
	CreatedAt   string        `json:"created_at" toml:"created_at" yaml:"created_at"`
	Design      CabinetDesign `json:"design" toml:"design" yaml:"design"`
}

// NewCabinetTemplate creates a template from a design.
func NewCabinetTemplate(name, description string, design CabinetDesign) CabinetTemplate {
	return CabinetTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Design:      design,
	}
}

// ToDesign returns the template's design renamed for a new cabinet.
func (t CabinetTemplate) ToDesign(cabinetName string) CabinetDesign {
	d := t.Design
	if cabinetName != "" {
		d.Name = cabinetName
	}
	return d
}

// TemplateStore holds a collection of cabinet templates.
type TemplateStore struct {
	Templates []CabinetTemplate `json:"templates" toml:"templates" yaml:"templates"`
}

// DefaultTemplateStore returns the built-in euro cabinet carcasses.
func DefaultTemplateStore() TemplateStore {
	mk := func(name, desc string, w, h, d float64, style Style, doors, shelves int) CabinetTemplate {
		return NewCabinetTemplate(name, desc, CabinetDesign{
			Name:        name,
			Dimensions:  Dimensions{Width: w, Height: h, Depth: d, Thickness: 18},
			Style:       style,
			DoorCount:   doors,
			ShelfCount:  shelves,
			IncludeBack: true,
			Material:    "Melamine",
		})
	}
	return TemplateStore{Templates: []CabinetTemplate{
		mk("base-600", "Base unit, single door", 600, 720, 560, StyleEuro, 1, 1),
		mk("base-800", "Base unit, double door", 800, 720, 560, StyleEuro, 2, 1),
		mk("wall-600", "Wall unit, single door", 600, 720, 320, StyleEuro, 1, 2),
		mk("tall-600", "Tall pantry unit", 600, 2100, 560, StyleEuro, 2, 4),
		mk("sink-1000", "Sink base, no shelf", 1000, 720, 560, StyleInset, 2, 0),
	}}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t CabinetTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *CabinetTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
