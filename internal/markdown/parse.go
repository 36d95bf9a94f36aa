package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const tableTransformerPriority = 200

var delimiterRow = regexp.MustCompile(`^\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?$`)

// newParser builds a block parser with GFM tables. Link reference
// definitions are left in place as paragraphs so they survive a rewrite.
func newParser() parser.Parser {
	return parser.NewParser(
		parser.WithBlockParsers(parser.DefaultBlockParsers()...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(
			util.Prioritized(extension.NewTableParagraphTransformer(), tableTransformerPriority),
		),
	)
}

type topBlock struct {
	node  ast.Node
	start int
}

// Parse folds markdown source into a heading tree. Each non-heading block
// keeps its source text, so unchanged content renders back as it was read.
func Parse(source []byte) *Document {
	src := bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))
	doc := NewDocument()
	if fm, rest, ok := splitFrontMatter(src); ok {
		doc.Root.Content = append(doc.Root.Content, Node{Kind: KindBlock, Raw: fm})
		src = rest
	}
	parseBody(doc, src)
	return doc
}

// splitFrontMatter separates a leading YAML front matter block, fenced by
// "---" and closed by "---" or "...", from the rest of the document.
func splitFrontMatter(src []byte) (string, []byte, bool) {
	const open = "---\n"
	if !bytes.HasPrefix(src, []byte(open)) {
		return "", src, false
	}
	pos := len(open)
	if pos < len(src) && src[pos] == '\n' {
		// A thematic break followed by a blank line.
		return "", src, false
	}
	for pos < len(src) {
		end := bytes.IndexByte(src[pos:], '\n')
		next := len(src)
		line := src[pos:]
		if end >= 0 {
			line = src[pos : pos+end]
			next = pos + end + 1
		}
		if l := string(bytes.TrimRight(line, " \t")); l == "---" || l == "..." {
			return strings.TrimRight(string(src[:pos+len(line)]), " \t"), src[next:], true
		}
		pos = next
	}
	return "", src, false
}

func parseBody(doc *Document, src []byte) {
	root := newParser().Parse(text.NewReader(src))

	var blocks []topBlock
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		start, ok := blockStart(n, src)
		if !ok {
			// No position known: the block stays inside the previous region.
			continue
		}
		if len(blocks) > 0 && start <= blocks[len(blocks)-1].start {
			continue
		}
		blocks = append(blocks, topBlock{node: n, start: start})
	}

	stack := []*Section{doc.Root}

	if len(blocks) == 0 {
		if raw := trimRegion(string(src)); raw != "" {
			doc.Root.Content = append(doc.Root.Content, Node{Kind: KindBlock, Raw: raw})
		}
		return
	}
	if pre := trimRegion(string(src[:blocks[0].start])); pre != "" {
		doc.Root.Content = append(doc.Root.Content, Node{Kind: KindBlock, Raw: pre})
	}

	for i, b := range blocks {
		end := len(src)
		if i+1 < len(blocks) {
			end = blocks[i+1].start
		}
		region := trimRegion(string(src[b.start:end]))

		h, ok := b.node.(*ast.Heading)
		if !ok {
			cur := stack[len(stack)-1]
			cur.Content = append(cur.Content, contentNode(b.node, region, src))
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		sec := &Section{Title: headingTitle(h, src), Level: h.Level}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, sec)
		stack = append(stack, sec)

		if rest := headingRemainder(h, region); rest != "" {
			sec.Content = append(sec.Content, Node{Kind: KindBlock, Raw: rest})
		}
	}
}

// blockStart returns the offset of the first line of a top-level block,
// found from the earliest source position of the block or its descendants.
func blockStart(n ast.Node, src []byte) (int, bool) {
	start := -1
	note := func(pos int) {
		if start < 0 || pos < start {
			start = pos
		}
	}

	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			note(v.Segment.Start)
		case *ast.RawHTML:
			if v.Segments.Len() > 0 {
				note(v.Segments.At(0).Start)
			}
		case *ast.FencedCodeBlock:
			if v.Info != nil {
				note(v.Info.Segment.Start)
			}
		}
		if c.Type() == ast.TypeBlock && c.Lines().Len() > 0 {
			note(c.Lines().At(0).Start)
		}
		return ast.WalkContinue, nil
	})

	if start < 0 {
		return 0, false
	}
	ls := lineStart(src, start)
	if fc, ok := n.(*ast.FencedCodeBlock); ok && fc.Info == nil {
		// The first code line follows the opening fence.
		ls = lineStart(src, ls-1)
	}
	return ls, true
}

func lineStart(src []byte, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(src) {
		pos = len(src)
	}
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}

func trimRegion(s string) string {
	s = strings.TrimRight(s, " \t\n")
	for strings.HasPrefix(s, "\n") {
		s = s[1:]
	}
	return s
}

func headingTitle(h *ast.Heading, src []byte) string {
	lines := h.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if p := strings.TrimSpace(string(seg.Value(src))); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// headingRemainder returns whatever follows the heading line(s) inside its
// region, e.g. blocks the parser gave no position for.
func headingRemainder(h *ast.Heading, region string) string {
	lines := strings.Split(region, "\n")
	consumed := 1
	if !strings.HasPrefix(strings.TrimSpace(lines[0]), "#") {
		// Setext: text lines plus the underline.
		consumed = h.Lines().Len() + 1
	}
	if consumed >= len(lines) {
		return ""
	}
	return trimRegion(strings.Join(lines[consumed:], "\n"))
}

func contentNode(n ast.Node, raw string, src []byte) Node {
	switch v := n.(type) {
	case *ast.HTMLBlock:
		if body, ok := parseComment(raw); ok {
			return Node{Kind: KindComment, Raw: raw, Text: body}
		}
	case *ast.FencedCodeBlock:
		info := ""
		if v.Info != nil {
			info = string(v.Info.Segment.Value(src))
		}
		var code strings.Builder
		lines := v.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code.Write(seg.Value(src))
		}
		return Node{Kind: KindCodeBlock, Raw: raw, Info: info, Code: code.String()}
	case *east.Table:
		return Node{Kind: KindTable, Raw: raw, Rows: parseTableRows(raw)}
	case *ast.Paragraph:
		return Node{Kind: KindParagraph, Raw: raw, Text: raw}
	}
	return Node{Kind: KindBlock, Raw: raw}
}

// parseComment extracts the body of a block that is exactly one HTML
// comment.
func parseComment(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "<!--") || !strings.HasSuffix(s, "-->") || len(s) < len("<!---->") {
		return "", false
	}
	inner := s[len("<!--") : len(s)-len("-->")]
	if strings.Contains(inner, "-->") {
		return "", false
	}
	return strings.ReplaceAll(strings.TrimSpace(inner), "--&gt;", "-->"), true
}

func parseTableRows(raw string) [][]string {
	var rows [][]string
	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i == 1 && delimiterRow.MatchString(line) {
			continue
		}
		rows = append(rows, splitRow(line))
	}
	return rows
}

func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' && i+1 < len(line) && line[i+1] == '|' {
			cur.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	return append(cells, strings.TrimSpace(cur.String()))
}
