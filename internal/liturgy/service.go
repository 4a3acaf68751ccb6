package liturgy

import (
	"log/slog"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

// complineByWeekday selects the Compline template for each day of the week.
// Selection ignores the season; seasons change a template's contents through
// its overrides.
var complineByWeekday = [7]string{
	time.Sunday:    "compline-sunday",
	time.Monday:    "compline-monday",
	time.Tuesday:   "compline-tuesday",
	time.Wednesday: "compline-wednesday",
	time.Thursday:  "compline-thursday",
	time.Friday:    "compline-friday",
	time.Saturday:  "compline-saturday",
}

var complineTitles = map[string]string{
	"en": "Night Prayer",
	"la": "Completorium",
	"pl": "Kompleta",
	"es": "Completas",
}

// SeasonSource resolves the liturgical season of a date.
type SeasonSource interface {
	Resolve(date time.Time) calendar.Season
}

// Service answers questions about the hours over a Library.
type Service struct {
	library *Library
	seasons SeasonSource
	logger  *slog.Logger
}

// NewService creates a service. A nil logger uses the default.
func NewService(library *Library, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		library: library,
		seasons: calendar.SeasonResolver{},
		logger:  logger,
	}
}

// Library returns the underlying library.
func (s *Service) Library() *Library {
	return s.library
}

// ComplineForDate returns the Compline template for date's day of the week.
func (s *Service) ComplineForDate(date time.Time) (*Template, bool) {
	id := complineByWeekday[calendar.DateOnly(date).Weekday()]
	return s.library.Template(id)
}

// Component returns a component by id. Unknown ids report false.
func (s *Service) Component(id string) (*Component, bool) {
	return s.library.Component(id)
}

// RenderContent renders content for prefs.
func (s *Service) RenderContent(content map[string]Content, prefs Preferences) []string {
	return RenderContent(content, prefs)
}

// MarianAntiphonPeriod returns the Marian antiphon sung after Compline on date.
func (s *Service) MarianAntiphonPeriod(date time.Time) calendar.AntiphonPeriod {
	return calendar.MarianAntiphon(date)
}

// ComplineInfo is the heading shown above an office.
type ComplineInfo struct {
	Title         string `json:"title"`
	DateFormatted string `json:"date_formatted"`
	SeasonClass   string `json:"season_class"`
	IsOctave      bool   `json:"is_octave"`
}

// ComplineInfo returns the localised heading for date.
func (s *Service) ComplineInfo(date time.Time, prefs Preferences) ComplineInfo {
	day := calendar.DateOnly(date)

	title, ok := complineTitles[prefs.PrimaryLanguage]
	if !ok {
		title, ok = complineTitles[baseLanguage(prefs.PrimaryLanguage)]
	}
	if !ok {
		title = complineTitles[DefaultLanguage]
	}

	return ComplineInfo{
		Title:         title,
		DateFormatted: day.Format("Monday, January 2, 2006"),
		SeasonClass:   calendar.SeasonClass(s.seasons.Resolve(day).Name),
		IsOctave:      calendar.IsOctave(day),
	}
}

// Section is one rendered component of an office.
type Section struct {
	Type        string   `json:"type"`
	ComponentID string   `json:"component_id"`
	Title       string   `json:"title,omitempty"`
	Lines       []string `json:"lines"`
	Rubrics     string   `json:"rubrics,omitempty"`
}

// Office is a fully rendered hour.
type Office struct {
	Date           string                  `json:"date"`
	TemplateID     string                  `json:"template_id"`
	Name           string                  `json:"name"`
	Season         calendar.Season         `json:"season"`
	MarianAntiphon calendar.AntiphonPeriod `json:"marian_antiphon"`
	Info           ComplineInfo            `json:"info"`
	Preferences    Preferences             `json:"preferences"`
	Sections       []Section               `json:"sections"`
}

// MarianAntiphonComponentID returns the component id of a Marian antiphon.
func MarianAntiphonComponentID(p calendar.AntiphonPeriod) string {
	return "marian-" + string(p)
}

// AssembleCompline renders the full Compline office of date for prefs.
// Components that are missing from the library are left out. It reports
// false when there is no template for the day.
func (s *Service) AssembleCompline(date time.Time, prefs Preferences) (*Office, bool) {
	day := calendar.DateOnly(date)

	tmpl, ok := s.ComplineForDate(day)
	if !ok {
		s.logger.Warn("no compline template for weekday",
			slog.String("weekday", day.Weekday().String()),
		)
		return nil, false
	}

	season := s.seasons.Resolve(day)
	period := calendar.MarianAntiphon(day)
	slots := tmpl.Resolve(season.Name)
	slots[SlotMarianAntiphon] = SlotIDs{MarianAntiphonComponentID(period)}

	office := &Office{
		Date:           calendar.FormatDate(day),
		TemplateID:     tmpl.ID,
		Name:           tmpl.Name,
		Season:         season,
		MarianAntiphon: period,
		Info:           s.ComplineInfo(day, prefs),
		Preferences:    prefs,
	}

	for _, slot := range orderedSlots(slots) {
		for _, id := range slots[slot] {
			c, ok := s.library.Component(id)
			if !ok {
				s.logger.Debug("omitting missing component",
					slog.String("template", tmpl.ID),
					slog.String("slot", slot),
					slog.String("component", id),
				)
				continue
			}

			section := Section{
				Type:        slot,
				ComponentID: c.ID,
				Title:       c.Title,
				Lines:       RenderContent(c.Content, prefs),
			}
			if prefs.ShowRubrics {
				section.Rubrics = c.Rubrics
			}
			office.Sections = append(office.Sections, section)
		}
	}

	return office, true
}
