package markdown

import (
	"io"
	"strings"
)

const maxHeadingLevel = 6

// Render serializes the document. Blocks are separated by one blank line and
// the output ends with a newline unless the document is empty.
func (d *Document) Render() string {
	var blocks []string
	collect(d.Root, 0, &blocks)
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// WriteTo writes the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.Render())
	return int64(n), err
}

func collect(s *Section, depth int, blocks *[]string) {
	for _, n := range s.Content {
		if md := n.Markdown(); md != "" {
			*blocks = append(*blocks, md)
		}
	}
	for _, c := range s.Children {
		level := c.Level
		if level == 0 {
			level = depth + 1
		}
		*blocks = append(*blocks, headingLine(level, c.Title))
		collect(c, level, blocks)
	}
}

func headingLine(level int, title string) string {
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + title
}
