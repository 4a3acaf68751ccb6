package celebration

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

//go:embed data/*.yaml
var bundled embed.FS

// CatalogKind separates saints, which give way to the Sunday liturgy, from
// fixed solemnities and feasts of the Lord, which do not.
type CatalogKind string

const (
	KindSaints      CatalogKind = "saints"
	KindSolemnities CatalogKind = "solemnities"
)

// Catalog is one bundled list of fixed-date celebrations.
type Catalog struct {
	Name         string        `yaml:"name"`
	Kind         CatalogKind   `yaml:"kind"`
	Celebrations []Celebration `yaml:"celebrations"`
}

// LoadCatalogs reads every *.yaml catalog under dir in fsys.
func LoadCatalogs(fsys fs.FS, dir string) ([]Catalog, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}

	catalogs := make([]Catalog, 0, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", file, err)
		}

		var cat Catalog
		if err := yaml.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", file, err)
		}
		switch cat.Kind {
		case KindSaints, KindSolemnities:
		default:
			return nil, fmt.Errorf("catalog %s: unknown kind %q", file, cat.Kind)
		}
		catalogs = append(catalogs, cat)
	}

	return catalogs, nil
}

// BundledCatalogs returns the catalogs compiled into the binary.
func BundledCatalogs() ([]Catalog, error) {
	return LoadCatalogs(bundled, "data")
}

// Registry is the read-only set of celebrations the resolver consults.
//
// A Registry is built once and never mutated afterwards, so it is safe for
// concurrent use. The per-year materialisation cache only ever stores
// complete, immutable slices.
type Registry struct {
	policy      calendar.CorpusChristiPolicy
	logger      *slog.Logger
	sanitizer   *bluemonday.Policy
	saints      map[string][]Celebration // keyed by MM-DD
	solemnities []Celebration
	dated       []Celebration
	records     []Celebration
	years       sync.Map // int -> []Celebration
}

// Option configures a Registry.
type Option func(*Registry)

// WithPolicy sets where Corpus Christi is kept.
func WithPolicy(p calendar.CorpusChristiPolicy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithLogger sets the logger used for skipped catalog entries.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecords adds celebrations managed outside the bundled catalogs.
// Records with a fixed MM-DD date join the saints (or the solemnities when
// ranked as such); records with any other date are kept as one-off dated
// celebrations and matched day by day.
func WithRecords(records []Celebration) Option {
	return func(r *Registry) { r.records = append(r.records, records...) }
}

// NewRegistry indexes catalogs and records. Entries with an unknown color or
// an unparseable saint date are skipped and logged, not fatal.
func NewRegistry(catalogs []Catalog, opts ...Option) *Registry {
	r := &Registry{
		policy:    calendar.CorpusChristiSunday,
		logger:    slog.Default(),
		sanitizer: newDisplayPolicy(),
		saints:    make(map[string][]Celebration),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, cat := range catalogs {
		for _, c := range cat.Celebrations {
			c, ok := r.prepare(c, cat.Name)
			if !ok {
				continue
			}
			if cat.Kind == KindSolemnities {
				r.solemnities = append(r.solemnities, c)
				continue
			}
			r.addSaint(c, cat.Name)
		}
	}

	for _, c := range r.records {
		c, ok := r.prepare(c, "records")
		if !ok {
			continue
		}
		switch {
		case isFixed(c.Date) && c.Rank == RankSolemnity:
			r.solemnities = append(r.solemnities, c)
		case isFixed(c.Date):
			r.addSaint(c, "records")
		default:
			if _, ok := ParseCelebrationDate(c.Date, 0); !ok {
				r.logger.Warn("celebration record has unparseable date",
					slog.String("id", c.ID),
					slog.String("date", c.Date),
				)
			}
			r.dated = append(r.dated, c)
		}
	}

	r.logger.Debug("celebration registry built",
		slog.Int("saint_days", len(r.saints)),
		slog.Int("solemnities", len(r.solemnities)),
		slog.Int("dated", len(r.dated)),
		slog.String("corpus_christi", string(r.policy)),
	)

	return r
}

// NewBundledRegistry builds a Registry from the bundled catalogs.
func NewBundledRegistry(opts ...Option) (*Registry, error) {
	catalogs, err := BundledCatalogs()
	if err != nil {
		return nil, err
	}
	return NewRegistry(catalogs, opts...), nil
}

// prepare validates the rank and color and sanitises display content.
func (r *Registry) prepare(c Celebration, source string) (Celebration, bool) {
	if c.Rank == 0 {
		c.Rank = RankOptionalMemorial
	}
	if !c.Rank.IsValid() {
		r.logger.Warn("skipping celebration with invalid rank",
			slog.String("catalog", source),
			slog.String("id", c.ID),
		)
		return c, false
	}

	color, err := calendar.ParseColor(string(c.Color))
	if err != nil {
		r.logger.Warn("skipping celebration with invalid color",
			slog.String("catalog", source),
			slog.String("id", c.ID),
			slog.Any("error", err),
		)
		return c, false
	}
	c.Color = color

	c.Description = r.sanitizer.Sanitize(c.Description)
	c.Biography = r.sanitizer.Sanitize(c.Biography)
	c.Patronage = r.sanitizer.Sanitize(c.Patronage)
	if len(c.Prayers) > 0 {
		prayers := make([]string, len(c.Prayers))
		for i, p := range c.Prayers {
			prayers[i] = r.sanitizer.Sanitize(p)
		}
		c.Prayers = prayers
	}

	return c, true
}

func (r *Registry) addSaint(c Celebration, source string) {
	md, ok := NormalizeMonthDay(c.Date)
	if !ok {
		r.logger.Warn("skipping saint with unparseable date",
			slog.String("catalog", source),
			slog.String("id", c.ID),
			slog.String("date", c.Date),
		)
		return
	}
	c.Date = md
	r.saints[md] = append(r.saints[md], c)
}

// Policy returns the Corpus Christi policy the registry materialises with.
func (r *Registry) Policy() calendar.CorpusChristiPolicy {
	return r.policy
}

// SaintsForDate returns the fixed saints kept on date's MM-DD. Sundays always
// return nothing: the Sunday liturgy supersedes them.
func (r *Registry) SaintsForDate(date time.Time) []Celebration {
	if date.Weekday() == time.Sunday {
		return nil
	}
	return slices.Clone(r.saints[calendar.FormatMonthDay(date)])
}

// AllCelebrations returns every celebration that is dated per year: the
// Easter- and Advent-relative feasts, the fixed solemnities placed in year,
// and the dated records. Dates are ISO strings except where a stored date
// could not be parsed; those are passed through unchanged.
func (r *Registry) AllCelebrations(year int) []Celebration {
	if cached, ok := r.years.Load(year); ok {
		return slices.Clone(cached.([]Celebration))
	}

	all := moveableCelebrations(year, r.policy)
	for _, c := range r.solemnities {
		if t, ok := ParseCelebrationDate(c.Date, year); ok {
			c.Date = calendar.FormatDate(t)
		}
		all = append(all, c)
	}
	all = append(all, r.dated...)

	actual, _ := r.years.LoadOrStore(year, all)
	return slices.Clone(actual.([]Celebration))
}

// Lookup finds a celebration by id among the fixed catalogs and records.
func (r *Registry) Lookup(id string) (Celebration, bool) {
	for _, list := range r.saints {
		for _, c := range list {
			if c.ID == id {
				return c, true
			}
		}
	}
	for _, c := range r.solemnities {
		if c.ID == id {
			return c, true
		}
	}
	for _, c := range r.dated {
		if c.ID == id {
			return c, true
		}
	}
	return Celebration{}, false
}

// newDisplayPolicy allows the light markup used in biographies and prayers.
func newDisplayPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "em")
	policy.RequireNoFollowOnLinks(true)
	return policy
}
