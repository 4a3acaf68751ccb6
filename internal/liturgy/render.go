package liturgy

import "strings"

// RenderContent returns the display lines of a multi-language content map
// for prefs.
//
// Primary-only renders the primary language, falling back to English.
// Secondary-only renders the secondary language, falling back to the primary
// and then English. Bilingual interleaves each primary line with the
// secondary line at the same index, tagged "[XX] "; blank primary lines are
// kept so stanzas stay apart, and a missing secondary degrades to
// primary-only.
func RenderContent(content map[string]Content, prefs Preferences) []string {
	primary := linesFor(content, prefs.PrimaryLanguage)
	if len(primary) == 0 {
		primary = linesFor(content, DefaultLanguage)
	}

	switch prefs.DisplayMode {
	case DisplaySecondaryOnly:
		if prefs.SecondaryLanguage != "" {
			if secondary := linesFor(content, prefs.SecondaryLanguage); len(secondary) > 0 {
				return secondary
			}
		}
		return primary

	case DisplayBilingual:
		if prefs.SecondaryLanguage == "" {
			return primary
		}
		secondary := linesFor(content, prefs.SecondaryLanguage)
		if len(secondary) == 0 {
			return primary
		}
		return interleave(primary, secondary, languageTag(prefs.SecondaryLanguage))

	default:
		return primary
	}
}

func interleave(primary, secondary []string, tag string) []string {
	n := max(len(primary), len(secondary))
	out := make([]string, 0, len(primary)+len(secondary))
	for i := range n {
		if i < len(primary) {
			out = append(out, primary[i])
		}
		if i < len(secondary) && strings.TrimSpace(secondary[i]) != "" {
			out = append(out, tag+" "+secondary[i])
		}
	}
	return out
}

// linesFor looks up lang, then its base language ("pl-PL" -> "pl").
func linesFor(content map[string]Content, lang string) []string {
	if lang == "" {
		return nil
	}
	if c, ok := content[lang]; ok && !c.IsEmpty() {
		return c.Lines()
	}
	if base := baseLanguage(lang); base != "" && base != lang {
		if c, ok := content[base]; ok && !c.IsEmpty() {
			return c.Lines()
		}
	}
	return nil
}

func languageTag(lang string) string {
	return "[" + strings.ToUpper(lang) + "]"
}
