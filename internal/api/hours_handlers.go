package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/liturgy"
	"github.com/zapponejosh/liturgy-api/internal/logger"
)

// applyQueryPreferences overlays the lang, secondary, mode and rubrics query
// parameters on base and normalises the result.
func applyQueryPreferences(base liturgy.Preferences, q url.Values) (liturgy.Preferences, error) {
	if v := q.Get("lang"); v != "" {
		base.PrimaryLanguage = v
	}
	if v := q.Get("secondary"); v != "" {
		base.SecondaryLanguage = v
	}
	if v := q.Get("mode"); v != "" {
		base.DisplayMode = liturgy.DisplayMode(v)
	}
	if v := q.Get("rubrics"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return base, errors.New("rubrics must be true or false")
		}
		base.ShowRubrics = show
	}
	return base.Normalize()
}

// GetCompline handles GET /api/v1/hours/compline/{date}
func (h *Handlers) GetCompline(w http.ResponseWriter, r *http.Request) {
	h.serveCompline(w, r, liturgy.DefaultPreferences())
}

// GetMyCompline handles GET /api/v1/me/compline/{date}
func (h *Handlers) GetMyCompline(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r)

	prefs, err := h.db.PreferencesOrDefault(r.Context(), user.ID)
	if err != nil {
		logger.Error(r.Context(), "failed to load preferences", err)
		WriteInternalError(w, "Failed to retrieve preferences")
		return
	}

	h.serveCompline(w, r, prefs)
}

func (h *Handlers) serveCompline(w http.ResponseWriter, r *http.Request, base liturgy.Preferences) {
	date, err := h.pathDate(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	prefs, err := applyQueryPreferences(base, r.URL.Query())
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	office, ok := h.hours.AssembleCompline(date, prefs)
	if !ok {
		WriteNotFound(w, "No Compline template for "+date.Weekday().String())
		return
	}

	WriteSuccess(w, map[string]any{
		"office":    office,
		"principal": h.currentResolver().Principal(date),
	})
}

// GetComponent handles GET /api/v1/hours/components/{id}
//
// With ?lang= (and optionally secondary/mode) the component is also rendered.
func (h *Handlers) GetComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, ok := h.hours.Component(id)
	if !ok {
		WriteNotFound(w, "Component not found")
		return
	}

	q := r.URL.Query()
	if q.Get("lang") == "" {
		WriteSuccess(w, c)
		return
	}

	prefs, err := applyQueryPreferences(liturgy.DefaultPreferences(), q)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	WriteSuccess(w, map[string]any{
		"component": c,
		"lines":     h.hours.RenderContent(c.Content, prefs),
	})
}

// ListTemplates handles GET /api/v1/hours/templates
func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"templates": h.hours.Library().Templates(),
	})
}

// GetMarianAntiphon handles GET /api/v1/hours/marian-antiphon/{date}
func (h *Handlers) GetMarianAntiphon(w http.ResponseWriter, r *http.Request) {
	date, err := h.pathDate(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	period := h.hours.MarianAntiphonPeriod(date)
	resp := map[string]any{
		"date":   calendar.FormatDate(date),
		"period": period,
	}
	if c, ok := h.hours.Component(liturgy.MarianAntiphonComponentID(period)); ok {
		resp["component"] = c
	}
	WriteSuccess(w, resp)
}
