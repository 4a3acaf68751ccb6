package liturgy

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

func bundledService(t *testing.T) *Service {
	t.Helper()
	lib, err := BundledLibrary()
	require.NoError(t, err)
	return NewService(lib, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComplineForDate_ByWeekday(t *testing.T) {
	svc := bundledService(t)

	want := map[time.Weekday]string{
		time.Sunday:    "compline-sunday",
		time.Monday:    "compline-monday",
		time.Tuesday:   "compline-tuesday",
		time.Wednesday: "compline-wednesday",
		time.Thursday:  "compline-thursday",
		time.Friday:    "compline-friday",
		time.Saturday:  "compline-saturday",
	}

	// Two full years cover every season on every weekday.
	for d := day(2024, time.January, 1); d.Year() < 2026; d = d.AddDate(0, 0, 1) {
		tmpl, ok := svc.ComplineForDate(d)
		require.True(t, ok, calendar.FormatDate(d))
		require.Equal(t, want[d.Weekday()], tmpl.ID, calendar.FormatDate(d))
	}
}

func TestComponent(t *testing.T) {
	svc := bundledService(t)

	c, ok := svc.Component("compline-blessing")
	require.True(t, ok)
	assert.Equal(t, "blessing", c.Type)

	_, ok = svc.Component("no-such-component")
	assert.False(t, ok)
}

func TestMarianAntiphonPeriod(t *testing.T) {
	svc := bundledService(t)

	assert.Equal(t, calendar.ReginaCaeli, svc.MarianAntiphonPeriod(day(2024, time.May, 19)))
	assert.Equal(t, calendar.SalveRegina, svc.MarianAntiphonPeriod(day(2024, time.May, 20)))
}

func TestComplineInfo(t *testing.T) {
	svc := bundledService(t)

	tests := []struct {
		name  string
		date  time.Time
		lang  string
		title string
		class string
		oct   bool
	}{
		{"christmas in latin", day(2024, time.December, 25), "la", "Completorium", "season-christmas", true},
		{"regional polish tag", day(2024, time.March, 5), "pl-PL", "Kompleta", "season-lent", false},
		{"spanish easter octave", day(2024, time.April, 3), "es", "Completas", "season-easter", true},
		{"unknown language", day(2024, time.July, 2), "fr", "Night Prayer", "season-ordinary-time", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := svc.ComplineInfo(tt.date, Preferences{PrimaryLanguage: tt.lang})
			assert.Equal(t, tt.title, info.Title)
			assert.Equal(t, tt.class, info.SeasonClass)
			assert.Equal(t, tt.oct, info.IsOctave)
		})
	}

	info := svc.ComplineInfo(day(2024, time.December, 25), DefaultPreferences())
	assert.Equal(t, "Wednesday, December 25, 2024", info.DateFormatted)
}

func sectionIDs(o *Office) []string {
	out := make([]string, len(o.Sections))
	for i, s := range o.Sections {
		out[i] = s.ComponentID
	}
	return out
}

func TestAssembleCompline_OrdinaryWednesday(t *testing.T) {
	svc := bundledService(t)

	office, ok := svc.AssembleCompline(day(2024, time.July, 3), DefaultPreferences())
	require.True(t, ok)

	assert.Equal(t, "compline-wednesday", office.TemplateID)
	assert.Equal(t, calendar.SalveRegina, office.MarianAntiphon)
	assert.Equal(t, []string{
		"compline-opening",
		"compline-examination",
		"hymn-te-lucis",
		"psalm-31",
		"psalm-130",
		"reading-eph-4",
		"responsory-in-manus",
		"canticle-nunc-dimittis",
		"prayer-wednesday",
		"compline-blessing",
		"marian-salve-regina",
	}, sectionIDs(office))

	assert.Equal(t, "All make the sign of the cross.", office.Sections[0].Rubrics)
	assert.Equal(t, SlotMarianAntiphon, office.Sections[len(office.Sections)-1].Type)
}

func TestAssembleCompline_SeasonOverrides(t *testing.T) {
	svc := bundledService(t)

	easter, ok := svc.AssembleCompline(day(2024, time.March, 31), DefaultPreferences())
	require.True(t, ok)
	assert.Contains(t, sectionIDs(easter), "responsory-in-manus-easter")
	assert.NotContains(t, sectionIDs(easter), "responsory-in-manus")
	assert.Contains(t, sectionIDs(easter), "marian-regina-caeli")

	lent, ok := svc.AssembleCompline(day(2024, time.March, 5), DefaultPreferences())
	require.True(t, ok)
	assert.Contains(t, sectionIDs(lent), "hymn-christe-qui-lux-es")
	assert.Contains(t, sectionIDs(lent), "marian-ave-regina-caelorum")

	// the shared template is unchanged after an override was applied
	tmpl, _ := svc.ComplineForDate(day(2024, time.March, 31))
	assert.Equal(t, SlotIDs{"responsory-in-manus"}, tmpl.Components[SlotResponsory])
}

func TestAssembleCompline_HidesRubrics(t *testing.T) {
	svc := bundledService(t)
	prefs := DefaultPreferences()
	prefs.ShowRubrics = false

	office, ok := svc.AssembleCompline(day(2024, time.July, 3), prefs)
	require.True(t, ok)
	for _, s := range office.Sections {
		assert.Empty(t, s.Rubrics, s.ComponentID)
	}
}

func TestAssembleCompline_Bilingual(t *testing.T) {
	svc := bundledService(t)
	prefs := Preferences{PrimaryLanguage: "en", SecondaryLanguage: "la", DisplayMode: DisplayBilingual}

	office, ok := svc.AssembleCompline(day(2024, time.July, 7), prefs)
	require.True(t, ok)

	blessing := office.Sections[len(office.Sections)-2]
	assert.Equal(t, "compline-blessing", blessing.ComponentID)
	assert.Equal(t, []string{
		"May the all-powerful Lord grant us a restful night and a peaceful death. Amen.",
		"[LA] Noctem quietam et finem perfectum concedat nobis Dominus omnipotens. Amen.",
	}, blessing.Lines)
}

func TestAssembleCompline_OmitsMissingComponents(t *testing.T) {
	lib, err := NewLibrary(
		[]*Component{{ID: "present", Content: map[string]Content{"en": PlainContent("here")}}},
		[]*Template{{
			ID:         "compline-monday",
			Hour:       HourCompline,
			Components: Slots{SlotHymn: {"ghost", "present"}},
		}},
	)
	require.NoError(t, err)
	svc := NewService(lib, nil)

	office, ok := svc.AssembleCompline(day(2024, time.July, 1), DefaultPreferences())
	require.True(t, ok)
	assert.Equal(t, []string{"present"}, sectionIDs(office))

	_, ok = svc.AssembleCompline(day(2024, time.July, 2), DefaultPreferences())
	assert.False(t, ok)
}
