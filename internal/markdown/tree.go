// Package markdown loads markdown into a heading tree, addresses sections by
// heading text and renders structured values into markdown fragments.
package markdown

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// NodeKind discriminates the content node variants.
type NodeKind int

const (
	KindParagraph NodeKind = iota + 1
	KindCodeBlock
	KindComment
	KindTable
	// KindBlock is any other block, kept as raw markdown.
	KindBlock
	// KindRendered holds structured data to be rendered by a Renderer.
	KindRendered
)

func (k NodeKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindCodeBlock:
		return "code_block"
	case KindComment:
		return "comment"
	case KindTable:
		return "table"
	case KindBlock:
		return "block"
	case KindRendered:
		return "rendered"
	}
	return "unknown"
}

// Node is one block of section content. Raw, when set, is the exact markdown
// the node was parsed from (or rendered to) and is emitted as is.
type Node struct {
	Kind NodeKind
	Raw  string

	Text string     // paragraph text or comment body
	Info string     // code block info string
	Code string     // code block body without fences
	Rows [][]string // table cells, header row first

	Data          *yaml.Node
	RenderType    string
	RenderOptions map[string]any
}

// Markdown returns the node's markdown text.
func (n Node) Markdown() string {
	if n.Raw != "" {
		return n.Raw
	}
	switch n.Kind {
	case KindParagraph, KindBlock:
		return n.Text
	case KindCodeBlock:
		return fence(n.Info, n.Code)
	case KindComment:
		return commentText(n.Text)
	case KindTable:
		if len(n.Rows) == 0 {
			return ""
		}
		return formatTable(n.Rows[0], n.Rows[1:])
	case KindRendered:
		out, err := render(n.Data, n.RenderType, n.RenderOptions)
		if err != nil {
			return ""
		}
		return out
	}
	return ""
}

// Section is a heading and everything up to the next heading of the same or
// a shallower level. The root section has no title and level 0.
type Section struct {
	Title string
	// Level is the heading depth found in the source, 0 for sections created
	// by SetSection.
	Level    int
	Content  []Node
	Children []*Section
}

// Child returns the first direct child with the given title.
func (s *Section) Child(title string) *Section {
	for _, c := range s.Children {
		if c.Title == title {
			return c
		}
	}
	return nil
}

// Document is a parsed markdown file.
type Document struct {
	Root *Section
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Root: &Section{}}
}

func commentText(text string) string {
	return "<!-- " + strings.ReplaceAll(text, "-->", "--&gt;") + " -->"
}

// fence wraps code in a backtick fence longer than any backtick run inside
// it.
func fence(info, code string) string {
	n := 3
	run := 0
	for _, r := range code {
		if r == '`' {
			run++
			if run >= n {
				n = run + 1
			}
			continue
		}
		run = 0
	}
	marker := strings.Repeat("`", n)
	code = strings.TrimSuffix(code, "\n")
	if code == "" {
		return marker + info + "\n" + marker
	}
	return marker + info + "\n" + code + "\n" + marker
}
