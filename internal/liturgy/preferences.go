package liturgy

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidPreferences is returned when preferences fail validation.
var ErrInvalidPreferences = errors.New("invalid liturgy preferences")

// DisplayMode selects which languages an office is rendered in.
type DisplayMode string

const (
	DisplayPrimaryOnly   DisplayMode = "primary-only"
	DisplaySecondaryOnly DisplayMode = "secondary-only"
	DisplayBilingual     DisplayMode = "bilingual"
)

// IsValid checks if a display mode is known.
func (m DisplayMode) IsValid() bool {
	switch m {
	case DisplayPrimaryOnly, DisplaySecondaryOnly, DisplayBilingual:
		return true
	}
	return false
}

// FontSize is the reader's text size.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
	FontXLarge FontSize = "x-large"
)

// IsValid checks if a font size is known.
func (f FontSize) IsValid() bool {
	switch f {
	case FontSmall, FontMedium, FontLarge, FontXLarge:
		return true
	}
	return false
}

// DefaultLanguage is used when a preference or a content map lacks a language.
const DefaultLanguage = "en"

// Preferences control how an office is rendered for one reader.
type Preferences struct {
	PrimaryLanguage   string      `json:"primary_language"`
	SecondaryLanguage string      `json:"secondary_language,omitempty"`
	DisplayMode       DisplayMode `json:"display_mode"`
	FontSize          FontSize    `json:"font_size"`
	AudioEnabled      bool        `json:"audio_enabled"`
	ShowRubrics       bool        `json:"show_rubrics"`
}

// DefaultPreferences returns the preferences of a reader who has set none.
func DefaultPreferences() Preferences {
	return Preferences{
		PrimaryLanguage: DefaultLanguage,
		DisplayMode:     DisplayPrimaryOnly,
		FontSize:        FontMedium,
		ShowRubrics:     true,
	}
}

// Normalize fills empty fields with defaults, canonicalises language tags,
// and validates the result. Errors wrap ErrInvalidPreferences.
func (p Preferences) Normalize() (Preferences, error) {
	var errs []error

	if p.PrimaryLanguage == "" {
		p.PrimaryLanguage = DefaultLanguage
	}
	if tag, err := CanonicalLanguage(p.PrimaryLanguage); err != nil {
		errs = append(errs, fmt.Errorf("primary_language: %w", err))
	} else {
		p.PrimaryLanguage = tag
	}

	if p.SecondaryLanguage != "" {
		if tag, err := CanonicalLanguage(p.SecondaryLanguage); err != nil {
			errs = append(errs, fmt.Errorf("secondary_language: %w", err))
		} else {
			p.SecondaryLanguage = tag
		}
	}

	if p.DisplayMode == "" {
		p.DisplayMode = DisplayPrimaryOnly
	}
	if !p.DisplayMode.IsValid() {
		errs = append(errs, fmt.Errorf("display_mode: unknown mode %q", p.DisplayMode))
	}

	if p.FontSize == "" {
		p.FontSize = FontMedium
	}
	if !p.FontSize.IsValid() {
		errs = append(errs, fmt.Errorf("font_size: unknown size %q", p.FontSize))
	}

	if len(errs) > 0 {
		return p, fmt.Errorf("%w: %w", ErrInvalidPreferences, errors.Join(errs...))
	}
	return p, nil
}

// CanonicalLanguage parses a BCP 47 tag and returns its canonical form
// ("EN-us" becomes "en-US").
func CanonicalLanguage(s string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", s, err)
	}
	return tag.String(), nil
}

// baseLanguage returns the primary subtag of a language tag ("pt-BR" -> "pt").
func baseLanguage(s string) string {
	tag, err := language.Parse(s)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
