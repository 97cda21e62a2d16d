package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// RichTextLimit is the maximum number of characters in one rich-text item.
const RichTextLimit = 2000

// TranscriptCaption labels the toggle holding the full transcript.
const TranscriptCaption = "📄 Transcripción completa (click para expandir)"

type BlockKind string

const (
	Heading1  BlockKind = "heading_1"
	Heading2  BlockKind = "heading_2"
	Quote     BlockKind = "quote"
	Bullet    BlockKind = "bulleted_list_item"
	Divider   BlockKind = "divider"
	Paragraph BlockKind = "paragraph"
	Toggle    BlockKind = "toggle"
)

// Block is one unit of page content. Children is only used by Toggle.
type Block struct {
	Kind     BlockKind
	Text     string
	Children []Block
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}}}
}

func basic(kind BlockKind) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: notionapi.BlockType(kind)}
}

// toNotion maps compiled blocks onto the API block types. Unknown kinds
// are sent as paragraphs.
func toNotion(blocks []Block) []notionapi.Block {
	out := make([]notionapi.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.notion())
	}
	return out
}

func (b Block) notion() notionapi.Block {
	switch b.Kind {
	case Heading1:
		return &notionapi.Heading1Block{BasicBlock: basic(Heading1), Heading1: notionapi.Heading{RichText: richText(b.Text)}}
	case Heading2:
		return &notionapi.Heading2Block{BasicBlock: basic(Heading2), Heading2: notionapi.Heading{RichText: richText(b.Text)}}
	case Quote:
		return &notionapi.QuoteBlock{BasicBlock: basic(Quote), Quote: notionapi.Quote{RichText: richText(b.Text)}}
	case Bullet:
		return &notionapi.BulletedListItemBlock{BasicBlock: basic(Bullet), BulletedListItem: notionapi.ListItem{RichText: richText(b.Text)}}
	case Divider:
		return &notionapi.DividerBlock{BasicBlock: basic(Divider), Divider: notionapi.Divider{}}
	case Toggle:
		return &notionapi.ToggleBlock{BasicBlock: basic(Toggle), Toggle: notionapi.Toggle{
			RichText: richText(b.Text),
			Children: toNotion(b.Children),
		}}
	}
	return &notionapi.ParagraphBlock{BasicBlock: basic(Paragraph), Paragraph: notionapi.Paragraph{RichText: richText(b.Text)}}
}

// TruncateToLimit shortens text to limit characters, ending with "..." when
// it had to cut. Text within the limit is returned unchanged.
func TruncateToLimit(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit < 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// Compile turns a markdown summary into page blocks followed by a divider
// and a toggle holding the transcript in RichTextLimit-sized paragraphs.
func Compile(summary, transcript string) []Block {
	var blocks []Block

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		blocks = append(blocks, compileLine(line))
	}

	blocks = append(blocks,
		Block{Kind: Divider},
		Block{Kind: Toggle, Text: TranscriptCaption, Children: chunkParagraphs(transcript, RichTextLimit)},
	)
	return blocks
}

// compileLine classifies one raw summary line by its leading characters.
// Indented markers are not recognized.
func compileLine(line string) Block {
	var b Block
	switch {
	case strings.HasPrefix(line, "## "):
		b = Block{Kind: Heading2, Text: headingText(line)}
	case strings.HasPrefix(line, "# "):
		b = Block{Kind: Heading1, Text: headingText(line)}
	case strings.HasPrefix(line, ">"):
		b = Block{Kind: Quote, Text: strings.TrimSpace(strings.TrimPrefix(line, ">"))}
	case strings.HasPrefix(line, "• "), strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		b = Block{Kind: Bullet, Text: strings.TrimLeft(line, "•-* ")}
	case isDivider(line):
		b = Block{Kind: Divider}
	default:
		b = Block{Kind: Paragraph, Text: line}
	}
	b.Text = TruncateToLimit(b.Text, RichTextLimit)
	return b
}

func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

func isDivider(line string) bool {
	return len(line) >= 3 && strings.Trim(line, "-") == ""
}

// chunkParagraphs splits text into paragraphs of at most size characters.
// Concatenating the texts reproduces the input.
func chunkParagraphs(text string, size int) []Block {
	runes := []rune(text)
	var blocks []Block
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		blocks = append(blocks, Block{Kind: Paragraph, Text: string(runes[start:end])})
	}
	return blocks
}
