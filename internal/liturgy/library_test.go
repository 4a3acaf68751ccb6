package liturgy

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledLibrary(t *testing.T) {
	lib, err := BundledLibrary()
	require.NoError(t, err)

	assert.Len(t, lib.Templates(), 7)
	assert.Empty(t, lib.MissingComponents())

	for _, tmpl := range lib.Templates() {
		assert.Equal(t, HourCompline, tmpl.Hour, tmpl.ID)
	}

	hymn, ok := lib.Component("hymn-te-lucis")
	require.True(t, ok)
	assert.True(t, hymn.Content["la"].IsLines(), "encoded array decodes as lines")
	assert.Equal(t, "Te lucis ante terminum,", hymn.Content["la"].Lines()[0])

	sunday, ok := lib.Template("compline-sunday")
	require.True(t, ok)
	assert.Equal(t, SlotIDs{"psalm-91"}, sunday.Components[SlotPsalmody])
}

func TestLoadLibrary_Errors(t *testing.T) {
	tests := []struct {
		name       string
		components string
		templates  string
		wantErr    string
	}{
		{"duplicate component", `[{"id": "a"}, {"id": "a"}]`, `[]`, "duplicate component"},
		{"empty component id", `[{"type": "hymn"}]`, `[]`, "empty id"},
		{"unknown hour", `[]`, `[{"id": "t", "hour": "matins"}]`, "unknown hour"},
		{"duplicate template", `[]`, `[{"id": "t", "hour": "lauds"}, {"id": "t", "hour": "lauds"}]`, "duplicate template"},
		{"malformed json", `[{`, `[]`, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"lib/components.json": {Data: []byte(tt.components)},
				"lib/templates.json":  {Data: []byte(tt.templates)},
			}
			_, err := LoadLibrary(fsys, "lib")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadLibrary_MissingFile(t *testing.T) {
	fsys := fstest.MapFS{"lib/components.json": {Data: []byte(`[]`)}}

	_, err := LoadLibrary(fsys, "lib")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "templates.json")
}

func TestLibrary_MissingComponents(t *testing.T) {
	lib, err := NewLibrary(
		[]*Component{{ID: "present"}},
		[]*Template{{
			ID:              "t",
			Hour:            HourVespers,
			Components:      Slots{SlotHymn: {"present", "ghost"}},
			SeasonOverrides: map[string]Slots{"lent": {SlotHymn: {"phantom", "ghost"}}},
		}},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"ghost", "phantom"}, lib.MissingComponents())
}
