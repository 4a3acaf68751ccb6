// Package liturgy resolves canonical-hour templates and renders their
// components for a reader's language preferences.
package liturgy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Content is one language's text of a component. Stored catalogs use three
// shapes for it: a plain string, an array of lines, or a string that itself
// holds a JSON-encoded array. All three decode into Content once, at load
// time.
type Content struct {
	text    string
	lines   []string
	isLines bool
}

// PlainContent returns Content holding a single block of text.
func PlainContent(text string) Content {
	return Content{text: text}
}

// LinesContent returns Content holding an ordered list of lines.
func LinesContent(lines ...string) Content {
	return Content{lines: lines, isLines: true}
}

// IsLines reports whether the content was stored as a list of lines.
func (c Content) IsLines() bool {
	return c.isLines
}

// IsEmpty reports whether the content carries no text.
func (c Content) IsEmpty() bool {
	if c.isLines {
		return len(c.lines) == 0
	}
	return c.text == ""
}

// Lines returns the content split into display lines. Plain text is split
// on newlines.
func (c Content) Lines() []string {
	if c.isLines {
		out := make([]string, len(c.lines))
		copy(out, c.lines)
		return out
	}
	if c.text == "" {
		return nil
	}
	return strings.Split(c.text, "\n")
}

// Text returns the content as a single string, joining lines with newlines.
func (c Content) Text() string {
	if c.isLines {
		return strings.Join(c.lines, "\n")
	}
	return c.text
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Content{}
		return nil
	}

	switch data[0] {
	case '[':
		var lines []string
		if err := json.Unmarshal(data, &lines); err != nil {
			return fmt.Errorf("decode content lines: %w", err)
		}
		*c = LinesContent(lines...)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode content text: %w", err)
		}
		if trimmed := strings.TrimSpace(s); strings.HasPrefix(trimmed, "[") {
			var lines []string
			if err := json.Unmarshal([]byte(trimmed), &lines); err == nil {
				*c = LinesContent(lines...)
				return nil
			}
		}
		*c = PlainContent(s)
		return nil
	default:
		return fmt.Errorf("unsupported content shape %q", truncate(string(data), 20))
	}
}

// MarshalJSON implements json.Marshaler.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.isLines {
		lines := c.lines
		if lines == nil {
			lines = []string{}
		}
		return json.Marshal(lines)
	}
	return json.Marshal(c.text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// SlotIDs is the ordered list of component ids filling one template slot.
// A bare string decodes as a one-element list.
type SlotIDs []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *SlotIDs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*s = SlotIDs{id}
		return nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("decode slot ids: %w", err)
	}
	*s = ids
	return nil
}

// Slots maps a component type to the components that fill it.
type Slots map[string]SlotIDs
