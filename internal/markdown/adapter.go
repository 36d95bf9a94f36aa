package markdown

import (
	"io"
	"maps"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/structure"
	"github.com/bianoble/docsync/internal/syncerr"
)

// Adapter addresses markdown sections by heading text. Structured values are
// stored as rendered blocks using the configured render type.
type Adapter struct {
	spec          RenderSpec
	sourceSection string
}

// NewAdapter returns a markdown adapter rendering structured values as code
// blocks until SetOptions says otherwise.
func NewAdapter() structure.Adapter {
	return &Adapter{spec: RenderSpec{Type: RenderCodeBlock, Options: map[string]any{}}}
}

func (a *Adapter) Name() string { return pathexpr.AdapterMarkdown }

func (a *Adapter) Load(r io.Reader) (structure.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.KindFilesystem, err, "reading markdown")
	}
	return Parse(data), nil
}

func (a *Adapter) Dump(doc structure.Document, w io.Writer) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(w); err != nil {
		return syncerr.Wrap(syncerr.KindFilesystem, err, "writing markdown")
	}
	return nil
}

// GetSection returns the section's own content, children excluded. A lone
// yaml or json code block is decoded, a lone table becomes a list of
// mappings, and anything else is returned as markdown text.
func (a *Adapter) GetSection(doc structure.Document, path pathexpr.Path) (*yaml.Node, error) {
	d, err := document(doc)
	if err != nil {
		return nil, err
	}
	if err := checkPath(path); err != nil {
		return nil, err
	}

	sec := d.Root
	for _, seg := range path {
		next := sec.Child(seg.Key)
		if next == nil {
			return nil, syncerr.New(syncerr.KindSectionNotFound, "section '%s' not found in markdown", seg.Key)
		}
		sec = next
	}
	return sectionValue(sec)
}

func (a *Adapter) SetSection(doc structure.Document, path pathexpr.Path, value *yaml.Node, opts structure.SetOptions) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	if err := checkPath(path); err != nil {
		return err
	}

	sec := d.Root
	for _, seg := range path {
		next := sec.Child(seg.Key)
		if next == nil {
			if !opts.Create {
				return syncerr.New(syncerr.KindSectionNotFound, "destination section '%s' not found", seg.Key)
			}
			next = &Section{Title: seg.Key}
			sec.Children = append(sec.Children, next)
		}
		sec = next
	}

	node, err := a.valueNode(value)
	if err != nil {
		return err
	}

	var content []Node
	if opts.Previous != "" {
		content = append(content, Node{Kind: KindComment, Text: opts.Previous})
	}
	if node != nil {
		content = append(content, *node)
	}
	if opts.Next != "" {
		content = append(content, Node{Kind: KindComment, Text: opts.Next})
	}
	sec.Content = content
	return nil
}

func (a *Adapter) RenderComment(text string) string {
	return commentText(text)
}

// SetOptions parses the render option string of a mapping's destination.
func (a *Adapter) SetOptions(opts structure.Options) error {
	spec, err := ParseRenderOptions(opts.Raw)
	if err != nil {
		return err
	}
	a.spec = spec
	a.sourceSection = opts.SourceSection
	return nil
}

// valueNode converts a structured value into section content. Containers are
// rendered up front so renderer errors surface here rather than at Dump.
func (a *Adapter) valueNode(value *yaml.Node) (*Node, error) {
	value = structure.CopyNode(value)
	if value == nil {
		return nil, nil
	}

	if value.Kind == yaml.MappingNode || value.Kind == yaml.SequenceNode {
		opts := maps.Clone(a.spec.Options)
		if opts == nil {
			opts = map[string]any{}
		}
		if a.sourceSection != "" {
			opts[OptSourceSectionName] = a.sourceSection
		}
		renderType := a.spec.Type
		if renderType == "" {
			renderType = RenderCodeBlock
		}
		out, err := render(value, renderType, opts)
		if err != nil {
			return nil, err
		}
		return &Node{
			Kind:          KindRendered,
			Raw:           out,
			Data:          value,
			RenderType:    renderType,
			RenderOptions: opts,
		}, nil
	}

	text := strings.TrimRight(value.Value, "\n")
	if value.Tag == "!!null" || text == "" {
		return nil, nil
	}
	return &Node{Kind: KindParagraph, Text: text}, nil
}

func sectionValue(sec *Section) (*yaml.Node, error) {
	var nodes []Node
	for _, n := range sec.Content {
		if n.Kind == KindComment && structure.IsMarker(n.Text) {
			continue
		}
		nodes = append(nodes, n)
	}

	if len(nodes) == 1 {
		n := nodes[0]
		switch n.Kind {
		case KindRendered:
			return structure.CopyNode(n.Data), nil
		case KindCodeBlock:
			if isDataLanguage(n.Info) {
				var v yaml.Node
				if err := yaml.Unmarshal([]byte(n.Code), &v); err != nil {
					return nil, syncerr.Wrap(syncerr.KindAdapter, err, "decoding %s code block", n.Info)
				}
				if len(v.Content) > 0 {
					return structure.CopyNode(&v), nil
				}
			}
		case KindTable:
			return tableValue(n.Rows), nil
		}
	}

	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if md := n.Markdown(); md != "" {
			parts = append(parts, md)
		}
	}
	return structure.ScalarNode(strings.Join(parts, "\n\n")), nil
}

func isDataLanguage(info string) bool {
	lang, _, _ := strings.Cut(strings.TrimSpace(info), " ")
	switch strings.ToLower(lang) {
	case "yaml", "yml", "json":
		return true
	}
	return false
}

// tableValue turns parsed rows into a list of mappings keyed by the header
// row. Cells stay untagged so numbers and booleans resolve naturally.
func tableValue(rows [][]string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(rows) == 0 {
		return seq
	}
	headers := rows[0]
	for _, row := range rows[1:] {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, h := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: h},
				&yaml.Node{Kind: yaml.ScalarNode, Value: cell},
			)
		}
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func checkPath(path pathexpr.Path) error {
	if len(path) == 0 {
		return syncerr.New(syncerr.KindValidation, "cannot address an empty markdown path")
	}
	for _, seg := range path {
		if !seg.HasKey || len(seg.Indices) > 0 || seg.IsWildcardKey() {
			return syncerr.New(syncerr.KindUnsupported, "markdown adapter requires named sections, got %s", seg)
		}
	}
	return nil
}

func document(doc structure.Document) (*Document, error) {
	d, ok := doc.(*Document)
	if !ok || d == nil || d.Root == nil {
		return nil, syncerr.New(syncerr.KindAdapter, "markdown adapter cannot handle this document")
	}
	return d, nil
}
