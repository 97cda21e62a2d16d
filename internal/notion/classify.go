package notion

import (
	"strings"

	"github.com/nguyentantai21042004/bibliosophia/internal/markdown"
)

// Categories is the closed set of labels for the "Categoría" select.
var Categories = []string{
	"Tutorial", "Entretenimiento", "Educativo", "Música",
	"Deportes", "Tecnología", "Noticias", "Salud", "Otros",
}

const (
	fallbackCategory = "Otros"
	classifyPrefix   = 500
	keywordLimit     = 500
	maxTitleKeywords = 6
)

// keywordGroups is checked in order; the first group with a hit wins.
var keywordGroups = []struct {
	category string
	terms    []string
}{
	{"Tutorial", []string{"tutorial", "cómo", "paso a paso", "aprende a"}},
	{"Tecnología", []string{"tecnolog", "software", "programaci", "inteligencia artificial"}},
	{"Música", []string{"música", "musica", "canción", "song"}},
	{"Deportes", []string{"deport", "fútbol", "futbol", "fitness"}},
	{"Salud", []string{"salud", "medicina", "nutrici"}},
	{"Noticias", []string{"noticia", "política", "politica", "economía"}},
	{"Educativo", []string{"educaci", "ciencia", "historia", "universidad"}},
	{"Entretenimiento", []string{"entreteni", "humor", "vlog", "comedy"}},
}

// Classify picks a category: the label named in the summary's Categoría
// section, else the first keyword group matching the title and the start of
// the summary, else "Otros".
func Classify(title, summary string) string {
	if section := markdown.ExtractSection(summary, "Categoría"); section != "" {
		for _, c := range Categories {
			if strings.Contains(section, c) {
				return c
			}
		}
	}

	text := strings.ToLower(title + " " + firstRunes(summary, classifyPrefix))
	for _, g := range keywordGroups {
		for _, term := range g.terms {
			if strings.Contains(text, term) {
				return g.category
			}
		}
	}

	return fallbackCategory
}

// Keywords returns the summary's Keywords section, or up to six title words
// longer than three characters.
func Keywords(title, summary string) string {
	if kw := markdown.ExtractSection(summary, "Keywords"); kw != "" {
		return TruncateToLimit(kw, keywordLimit)
	}

	var words []string
	for _, w := range strings.Fields(title) {
		if len([]rune(w)) > 3 {
			words = append(words, w)
			if len(words) == maxTitleKeywords {
				break
			}
		}
	}
	return strings.Join(words, ", ")
}

// SummaryExcerpt combines Idea Central and Puntos Clave, falling back to the
// whole summary.
func SummaryExcerpt(summary string) string {
	idea := markdown.ExtractSection(summary, "Idea Central")
	points := markdown.ExtractSection(summary, "Puntos Clave")

	var combined string
	switch {
	case idea != "" && points != "":
		combined = idea + "\n\n" + points
	case idea != "":
		combined = idea
	default:
		combined = summary
	}
	return TruncateToLimit(combined, RichTextLimit)
}

// ActionItems returns the Ideas Accionables section or the whole summary.
func ActionItems(summary string) string {
	actions := markdown.ExtractSection(summary, "Ideas Accionables")
	if actions == "" {
		actions = summary
	}
	return TruncateToLimit(actions, RichTextLimit)
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
