package liturgy

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed data/*.json
var bundled embed.FS

// Component is one reusable piece of an office: a hymn, a psalm, a prayer.
type Component struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	Title         string             `json:"title,omitempty"`
	Content       map[string]Content `json:"content"`
	Rubrics       string             `json:"rubrics,omitempty"`
	LiturgicalUse string             `json:"liturgical_use,omitempty"`
}

// Library holds the components and templates loaded at startup. It is never
// modified after LoadLibrary returns.
type Library struct {
	components map[string]*Component
	templates  map[string]*Template
}

// LoadLibrary reads components.json and templates.json from dir in fsys.
func LoadLibrary(fsys fs.FS, dir string) (*Library, error) {
	var components []*Component
	if err := readJSON(fsys, path.Join(dir, "components.json"), &components); err != nil {
		return nil, err
	}
	var templates []*Template
	if err := readJSON(fsys, path.Join(dir, "templates.json"), &templates); err != nil {
		return nil, err
	}
	return NewLibrary(components, templates)
}

// BundledLibrary returns the library compiled into the binary.
func BundledLibrary() (*Library, error) {
	return LoadLibrary(bundled, "data")
}

// NewLibrary indexes components and templates by id.
func NewLibrary(components []*Component, templates []*Template) (*Library, error) {
	lib := &Library{
		components: make(map[string]*Component, len(components)),
		templates:  make(map[string]*Template, len(templates)),
	}

	var errs []error
	for _, c := range components {
		switch {
		case c.ID == "":
			errs = append(errs, errors.New("component with empty id"))
		case lib.components[c.ID] != nil:
			errs = append(errs, fmt.Errorf("duplicate component %q", c.ID))
		default:
			lib.components[c.ID] = c
		}
	}
	for _, t := range templates {
		switch {
		case t.ID == "":
			errs = append(errs, errors.New("template with empty id"))
		case lib.templates[t.ID] != nil:
			errs = append(errs, fmt.Errorf("duplicate template %q", t.ID))
		case !t.Hour.IsValid():
			errs = append(errs, fmt.Errorf("template %q: unknown hour %q", t.ID, t.Hour))
		default:
			lib.templates[t.ID] = t
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid liturgy library: %w", errors.Join(errs...))
	}

	return lib, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Component returns the component with id. Unknown ids report false.
func (l *Library) Component(id string) (*Component, bool) {
	c, ok := l.components[id]
	return c, ok
}

// Template returns the template with id.
func (l *Library) Template(id string) (*Template, bool) {
	t, ok := l.templates[id]
	return t, ok
}

// Templates returns every template, ordered by id.
func (l *Library) Templates() []*Template {
	out := make([]*Template, 0, len(l.templates))
	for _, t := range l.templates {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Template) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// MissingComponents lists component ids referenced by templates that the
// library does not hold. Missing components are omitted when rendering.
func (l *Library) MissingComponents() []string {
	seen := map[string]bool{}
	var missing []string
	check := func(slots Slots) {
		for _, ids := range slots {
			for _, id := range ids {
				if _, ok := l.components[id]; !ok && !seen[id] {
					seen[id] = true
					missing = append(missing, id)
				}
			}
		}
	}
	for _, t := range l.templates {
		check(t.Components)
		for _, slots := range t.SeasonOverrides {
			check(slots)
		}
	}
	slices.Sort(missing)
	return missing
}
