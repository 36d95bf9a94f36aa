package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/bianoble/docsync/internal/structure"
	"github.com/bianoble/docsync/internal/syncerr"
)

// Render types accepted in render_as=TYPE.
const (
	RenderCodeBlock        = "code_block"
	RenderTable            = "table"
	RenderTableCapitalized = "table_with_headers_capitalized"
	RenderTableTitleCased  = "table_with_headers_title_cased"
)

// Options understood by the code block renderer.
const (
	OptLanguage                 = "language"
	OptIncludeSourceSectionName = "include_source_section_name"
	OptSourceSectionName        = "source_section_name"

	defaultLanguage = "yaml"
	minColumnWidth  = 3
)

// Renderer turns a structured value into a markdown fragment.
type Renderer func(data *yaml.Node, opts map[string]any) (string, error)

var renderers = map[string]Renderer{
	RenderCodeBlock:        renderCodeBlock,
	RenderTable:            tableRenderer(nil),
	RenderTableCapitalized: tableRenderer(capitalize),
	RenderTableTitleCased:  tableRenderer(titleCase),
}

var renderAsPattern = regexp.MustCompile(`^render_as=(\w+)(?:\((.*)\))?$`)

// RenderSpec is a parsed render option string.
type RenderSpec struct {
	Type    string
	Options map[string]any
}

// ParseRenderOptions parses "render_as=TYPE" or "render_as=TYPE(k=v,...)".
// An empty string selects the code block renderer. Values "true" and
// "false" (any case) become booleans; parameters without "=" are ignored.
func ParseRenderOptions(raw string) (RenderSpec, error) {
	spec := RenderSpec{Type: RenderCodeBlock, Options: map[string]any{}}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return spec, nil
	}

	m := renderAsPattern.FindStringSubmatch(raw)
	if m == nil {
		return RenderSpec{}, syncerr.New(syncerr.KindAdapter, "invalid markdown options: %s", raw)
	}
	if _, ok := renderers[m[1]]; !ok {
		return RenderSpec{}, syncerr.New(syncerr.KindAdapter, "unknown render type: %s", m[1])
	}
	spec.Type = m[1]

	for _, param := range strings.Split(m[2], ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch strings.ToLower(value) {
		case "true":
			spec.Options[key] = true
		case "false":
			spec.Options[key] = false
		default:
			spec.Options[key] = value
		}
	}
	return spec, nil
}

func render(data *yaml.Node, renderType string, opts map[string]any) (string, error) {
	r, ok := renderers[renderType]
	if !ok {
		return "", syncerr.New(syncerr.KindAdapter, "unknown render type: %s", renderType)
	}
	return r(data, opts)
}

func renderCodeBlock(data *yaml.Node, opts map[string]any) (string, error) {
	lang := stringOption(opts, OptLanguage, defaultLanguage)
	if data == nil {
		return fence(lang, ""), nil
	}

	if data.Kind != yaml.MappingNode && data.Kind != yaml.SequenceNode {
		return fence(lang, data.Value), nil
	}

	v := data
	if data.Kind == yaml.MappingNode && boolOption(opts, OptIncludeSourceSectionName) {
		if name := stringOption(opts, OptSourceSectionName, ""); name != "" {
			v = &yaml.Node{
				Kind:    yaml.MappingNode,
				Tag:     "!!map",
				Content: []*yaml.Node{structure.ScalarNode(name), data},
			}
		}
	}
	out, err := structure.Encode(v)
	if err != nil {
		return "", syncerr.Wrap(syncerr.KindAdapter, err, "rendering code block")
	}
	return fence(lang, strings.TrimSpace(out)), nil
}

func tableRenderer(header func(string) string) Renderer {
	return func(data *yaml.Node, _ map[string]any) (string, error) {
		if data == nil || data.Kind != yaml.SequenceNode {
			return "", syncerr.New(syncerr.KindAdapter, "table renderer expects a list of mappings")
		}
		if len(data.Content) == 0 {
			return "", nil
		}
		for _, item := range data.Content {
			if item.Kind != yaml.MappingNode {
				return "", syncerr.New(syncerr.KindAdapter, "table renderer expects all items to be mappings")
			}
		}

		first := data.Content[0]
		var keys, headers []string
		for i := 0; i+1 < len(first.Content); i += 2 {
			k := first.Content[i].Value
			keys = append(keys, k)
			if header != nil {
				k = header(k)
			}
			headers = append(headers, k)
		}

		rows := make([][]string, 0, len(data.Content))
		for _, item := range data.Content {
			row := make([]string, len(keys))
			for i, k := range keys {
				row[i] = cellText(mappingValue(item, k))
			}
			rows = append(rows, row)
		}
		return formatTable(headers, rows), nil
	}
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func cellText(n *yaml.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == yaml.ScalarNode {
		if n.Tag == "!!null" {
			return ""
		}
		return strings.ReplaceAll(n.Value, "\n", " ")
	}
	flow := structure.CopyNode(n)
	flow.Style = yaml.FlowStyle
	out, err := structure.Encode(flow)
	if err != nil {
		return n.Value
	}
	return strings.ReplaceAll(strings.TrimSpace(out), "\n", " ")
}

// formatTable lays out a pipe table with every column padded to its widest
// cell.
func formatTable(headers []string, rows [][]string) string {
	cols := len(headers)
	widths := make([]int, cols)
	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.ReplaceAll(row[i], "|", `\|`)
	}
	for i := 0; i < cols; i++ {
		widths[i] = max(minColumnWidth, runewidth.StringWidth(cell(headers, i)))
		for _, r := range rows {
			widths[i] = max(widths[i], runewidth.StringWidth(cell(r, i)))
		}
	}

	line := func(row []string) string {
		parts := make([]string, cols)
		for i := range parts {
			parts[i] = runewidth.FillRight(cell(row, i), widths[i])
		}
		return "| " + strings.Join(parts, " | ") + " |"
	}

	out := []string{line(headers)}
	sep := make([]string, cols)
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	out = append(out, "| "+strings.Join(sep, " | ")+" |")
	for _, r := range rows {
		out = append(out, line(r))
	}
	return strings.Join(out, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(string(r)) + cases.Lower(language.Und).String(s[size:])
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func stringOption(opts map[string]any, key, def string) string {
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return def
}

func boolOption(opts map[string]any, key string) bool {
	v, _ := opts[key].(bool)
	return v
}
