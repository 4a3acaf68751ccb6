package liturgy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

func sampleTemplate() *Template {
	return &Template{
		ID:   "compline-test",
		Hour: HourCompline,
		Components: Slots{
			SlotHymn:       {"hymn-ordinary"},
			SlotPsalmody:   {"ps-4", "ps-134"},
			SlotResponsory: {"resp"},
		},
		SeasonOverrides: map[string]Slots{
			"easter":        {SlotResponsory: {"resp-easter"}},
			"ordinary_time": {SlotHymn: {"hymn-green"}},
		},
	}
}

func TestTemplate_Resolve(t *testing.T) {
	tmpl := sampleTemplate()

	easter := tmpl.Resolve(calendar.SeasonEaster)
	assert.Equal(t, SlotIDs{"resp-easter"}, easter[SlotResponsory])
	assert.Equal(t, SlotIDs{"hymn-ordinary"}, easter[SlotHymn])
	assert.Equal(t, SlotIDs{"ps-4", "ps-134"}, easter[SlotPsalmody])

	ordinary := tmpl.Resolve(calendar.SeasonOrdinary)
	assert.Equal(t, SlotIDs{"hymn-green"}, ordinary[SlotHymn])

	advent := tmpl.Resolve(calendar.SeasonAdvent)
	assert.Equal(t, tmpl.Components, advent)
}

func TestTemplate_ResolveDoesNotMutateBase(t *testing.T) {
	tmpl := sampleTemplate()

	resolved := tmpl.Resolve(calendar.SeasonEaster)
	resolved[SlotPsalmody][0] = "changed"
	resolved["extra"] = SlotIDs{"x"}

	assert.Equal(t, SlotIDs{"resp"}, tmpl.Components[SlotResponsory])
	assert.Equal(t, SlotIDs{"ps-4", "ps-134"}, tmpl.Components[SlotPsalmody])
	assert.NotContains(t, tmpl.Components, "extra")
	assert.Equal(t, SlotIDs{"resp-easter"}, tmpl.SeasonOverrides["easter"][SlotResponsory])
}

func TestOrderedSlots(t *testing.T) {
	slots := Slots{
		SlotBlessing: nil,
		"zeta":       nil,
		SlotOpening:  nil,
		"alpha":      nil,
		SlotHymn:     nil,
	}

	assert.Equal(t, []string{SlotOpening, SlotHymn, SlotBlessing, "alpha", "zeta"}, orderedSlots(slots))
}

func TestHour_IsValid(t *testing.T) {
	assert.True(t, HourCompline.IsValid())
	assert.True(t, HourOfficeOfReadings.IsValid())
	assert.False(t, Hour("matins").IsValid())
	assert.Len(t, ValidHours(), 7)
}
