package liturgy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		isLines bool
		lines   []string
	}{
		{"plain string", `"Deus, in adiutorium"`, false, []string{"Deus, in adiutorium"}},
		{"plain string with newlines", `"one\ntwo"`, false, []string{"one", "two"}},
		{"array", `["one", "", "three"]`, true, []string{"one", "", "three"}},
		{"encoded array", `"[\"one\", \"two\"]"`, true, []string{"one", "two"}},
		{"bracketed prose", `"[Rubric] kneel"`, false, []string{"[Rubric] kneel"}},
		{"null", `null`, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Content
			require.NoError(t, json.Unmarshal([]byte(tt.in), &c))
			assert.Equal(t, tt.isLines, c.IsLines())
			assert.Equal(t, tt.lines, c.Lines())
		})
	}
}

func TestContent_UnmarshalJSON_RejectsOtherShapes(t *testing.T) {
	var c Content
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"en": "x"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &c))
}

func TestContent_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Content{
		"la": LinesContent("a", "b"),
		"en": PlainContent("text"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"la": ["a", "b"], "en": "text"}`, string(data))
}

func TestContent_LinesReturnsCopy(t *testing.T) {
	c := LinesContent("a", "b")
	lines := c.Lines()
	lines[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, c.Lines())
	assert.Equal(t, "a\nb", c.Text())
}

func TestSlotIDs_UnmarshalJSON(t *testing.T) {
	var slots Slots
	require.NoError(t, json.Unmarshal([]byte(`{"hymn": "te-lucis", "psalmody": ["ps-4", "ps-134"]}`), &slots))

	assert.Equal(t, SlotIDs{"te-lucis"}, slots["hymn"])
	assert.Equal(t, SlotIDs{"ps-4", "ps-134"}, slots["psalmody"])
}
