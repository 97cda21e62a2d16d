package summarizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/bibliosophia/internal/format"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
)

// DefaultPrompt is the system prompt template used when no prompt file is
// configured. Its section headings are the ones the Notion publisher reads.
const DefaultPrompt = `Eres un asistente experto en análisis de contenido. Tu tarea es crear un resumen ejecutivo estructurado del siguiente video de YouTube.

**Video:** {{video_title}}
**Canal:** {{channel}}
**Duración:** {{duration}}

Genera el resumen con este formato exacto en Español:

## 🎯 Idea Central
Una sola frase que capture la esencia del video.

## 📌 Puntos Clave
• [Punto 1, máximo 2 líneas]
• [Punto 2, máximo 2 líneas]
• [Punto 3, máximo 2 líneas]
• [Punto 4, máximo 2 líneas]
• [Punto 5, máximo 2 líneas]

## 💡 Ideas Accionables
• [Acción concreta que el espectador puede aplicar hoy]
• [Segunda acción práctica]
• [Tercera acción práctica]

## 🔑 Cita Destacada
> "Una cita textual memorable del video"

## 📊 Contextos de Aplicación
Describe en 2-3 líneas quién se beneficia más de este contenido y en qué situaciones aplicarlo.

## 🏷 Categoría
Escoge UNA categoría de esta lista (escribe solo el nombre, sin explicación): Tutorial, Entretenimiento, Educativo, Música, Deportes, Tecnología, Noticias, Salud, Otros

---
Usa el siguiente contenido como base:

{{transcript}}`

// LoadPrompt reads a template file, falling back to DefaultPrompt when path
// is empty.
func LoadPrompt(path string) (string, error) {
	if path == "" {
		return DefaultPrompt, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	return string(data), nil
}

// BuildSystemPrompt substitutes the video placeholders into template.
func BuildSystemPrompt(template string, info models.VideoInfo, transcript string) string {
	r := strings.NewReplacer(
		"{{video_title}}", info.Title,
		"{{channel}}", info.Channel,
		"{{duration}}", format.FormatDuration(info.Duration),
		"{{transcript}}", transcript,
	)
	return r.Replace(template)
}

// BuildUserMessage restates the video fields and the transcript.
func BuildUserMessage(info models.VideoInfo, transcript string) string {
	return fmt.Sprintf("Video: \"%s\"\nCanal: %s\nDuración: %s\n\nTranscripción:\n%s",
		info.Title, info.Channel, format.FormatDuration(info.Duration), transcript)
}
