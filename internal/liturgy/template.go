package liturgy

import (
	"maps"
	"slices"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

// Hour is one of the seven canonical hours.
type Hour string

const (
	HourOfficeOfReadings Hour = "office_of_readings"
	HourLauds            Hour = "lauds"
	HourTerce            Hour = "terce"
	HourSext             Hour = "sext"
	HourNone             Hour = "none"
	HourVespers          Hour = "vespers"
	HourCompline         Hour = "compline"
)

// ValidHours returns the canonical hours in the order they are prayed.
func ValidHours() []Hour {
	return []Hour{
		HourOfficeOfReadings,
		HourLauds,
		HourTerce,
		HourSext,
		HourNone,
		HourVespers,
		HourCompline,
	}
}

// IsValid checks if an hour is one of the canonical hours.
func (h Hour) IsValid() bool {
	return slices.Contains(ValidHours(), h)
}

// Component types, in the order a Compline office is rendered.
const (
	SlotOpening        = "opening"
	SlotExamination    = "examination"
	SlotHymn           = "hymn"
	SlotPsalmody       = "psalmody"
	SlotReading        = "reading"
	SlotResponsory     = "responsory"
	SlotCanticle       = "canticle"
	SlotPrayer         = "prayer"
	SlotBlessing       = "blessing"
	SlotMarianAntiphon = "marian_antiphon"
)

// SlotOrder is the canonical rendering order of template slots. Slots not
// listed render afterwards in name order.
var SlotOrder = []string{
	SlotOpening,
	SlotExamination,
	SlotHymn,
	SlotPsalmody,
	SlotReading,
	SlotResponsory,
	SlotCanticle,
	SlotPrayer,
	SlotBlessing,
	SlotMarianAntiphon,
}

// Template describes which components make up one celebration of an hour.
type Template struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Hour            Hour             `json:"hour"`
	Rank            string           `json:"rank"`
	Components      Slots            `json:"components"`
	SeasonOverrides map[string]Slots `json:"season_overrides,omitempty"`
}

// Resolve returns the template's slots with the season's overrides applied.
// Overridden slots replace the base slot entirely. The template is not
// modified.
func (t *Template) Resolve(season calendar.SeasonName) Slots {
	out := make(Slots, len(t.Components))
	for slot, ids := range t.Components {
		out[slot] = slices.Clone(ids)
	}
	for slot, ids := range t.SeasonOverrides[season.Key()] {
		out[slot] = slices.Clone(ids)
	}
	return out
}

// orderedSlots lists the slot names of s in rendering order.
func orderedSlots(s Slots) []string {
	order := make([]string, 0, len(s))
	for _, slot := range SlotOrder {
		if _, ok := s[slot]; ok {
			order = append(order, slot)
		}
	}

	var rest []string
	for slot := range maps.Keys(s) {
		if !slices.Contains(SlotOrder, slot) {
			rest = append(rest, slot)
		}
	}
	slices.Sort(rest)

	return append(order, rest...)
}
