package export

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reQuote   = regexp.MustCompile(`^>\s*(.+)$`)

	inlineMarkers = strings.NewReplacer("**", "", "__", "", "`", "")
)

// runStyle is the formatting of every run written for one line. Bold
// segments inside the line are always bold.
type runStyle struct {
	bold   bool
	italic bool
	size   uint64
}

var (
	bodyStyle  = runStyle{size: fontSize}
	quoteStyle = runStyle{italic: true, size: fontSize}
)

// headingStyle sizes the first three heading levels above body text.
func headingStyle(level int) runStyle {
	if level > 3 {
		return runStyle{bold: true, size: fontSize}
	}
	return runStyle{bold: true, size: uint64(fontSize + 4 - level)}
}

func (s runStyle) run(p *docx.Paragraph, text string) {
	r := p.AddText(text).Font(fontName).Size(s.size).Color("000000")
	if s.bold {
		r.Bold(true)
	}
	if s.italic {
		r.Italic(true)
	}
}

// writeDocx renders the summary markdown followed by the transcript as a
// styled Word document.
func writeDocx(title, meta, summary, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	writeLine(doc, headingStyle(1), title)
	for _, line := range strings.Split(meta, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			writeLine(doc, bodyStyle, line)
		}
	}

	addMarkdown(doc, summary)

	writeLine(doc, headingStyle(2), "Transcripción completa")
	for _, para := range transcriptParagraphs(transcript) {
		bodyStyle.run(doc.AddParagraph(""), para)
	}

	return doc.SaveTo(outputPath)
}

// addMarkdown writes one paragraph per summary line. Quotes are set in
// italics; numbered items and plain text share the body style.
func addMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.Trim(trimmed, "-") == "" {
			continue
		}

		switch m := reHeading.FindStringSubmatch(trimmed); {
		case m != nil:
			writeLine(doc, headingStyle(len(m[1])), m[2])
		case reBullet.MatchString(trimmed):
			writeLine(doc, bodyStyle, "• "+reBullet.FindStringSubmatch(trimmed)[1])
		case reQuote.MatchString(trimmed):
			writeLine(doc, quoteStyle, reQuote.FindStringSubmatch(trimmed)[1])
		default:
			writeLine(doc, bodyStyle, trimmed)
		}
	}
}

// writeLine adds a paragraph for text, turning **bold** spans into bold runs
// and dropping the remaining inline markers.
func writeLine(doc *docx.RootDoc, style runStyle, text string) {
	p := doc.AddParagraph("")
	bold := style
	bold.bold = true

	last := 0
	for _, m := range reBold.FindAllStringSubmatchIndex(text, -1) {
		if plain := inlineMarkers.Replace(text[last:m[0]]); plain != "" {
			style.run(p, plain)
		}
		bold.run(p, inlineMarkers.Replace(text[m[2]:m[3]]))
		last = m[1]
	}
	if rest := inlineMarkers.Replace(text[last:]); rest != "" {
		style.run(p, rest)
	}
}

// transcriptParagraphs splits the transcript on line breaks, dropping blank
// lines.
func transcriptParagraphs(transcript string) []string {
	var paras []string
	for _, line := range strings.Split(transcript, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paras = append(paras, line)
		}
	}
	return paras
}
