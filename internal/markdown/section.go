package markdown

import "strings"

// ExtractSection returns the body of the first "## " heading whose text
// contains keyword. The body ends at the next line starting with '#'.
// Later matching headings are never captured.
func ExtractSection(text, keyword string) string {
	var (
		inSection bool
		lines     []string
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "## ") && strings.Contains(line[3:], keyword) {
			inSection = true
			continue
		}
		if inSection {
			if strings.HasPrefix(line, "#") {
				break
			}
			lines = append(lines, line)
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
