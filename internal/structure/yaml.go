package structure

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/syncerr"
)

const yamlIndent = 2

// YAMLAdapter reads and writes YAML documents through the yaml.v3 node API,
// so key order and comments of the target survive a merge.
type YAMLAdapter struct{}

// NewYAMLAdapter returns the YAML adapter.
func NewYAMLAdapter() Adapter {
	return &YAMLAdapter{}
}

func (a *YAMLAdapter) Name() string { return pathexpr.AdapterYAML }

func (a *YAMLAdapter) Load(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.KindFilesystem, err, "reading yaml")
	}

	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, syncerr.Wrap(syncerr.KindAdapter, err, "parsing yaml")
	} else if err == nil {
		// Only the first document would be written back.
		var extra yaml.Node
		switch err := dec.Decode(&extra); {
		case errors.Is(err, io.EOF):
		case err != nil:
			return nil, syncerr.Wrap(syncerr.KindAdapter, err, "parsing yaml")
		default:
			return nil, syncerr.New(syncerr.KindAdapter, "yaml stream contains more than one document")
		}
	}

	if doc.Kind != yaml.DocumentNode {
		doc = yaml.Node{Kind: yaml.DocumentNode}
	}
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	return &doc, nil
}

func (a *YAMLAdapter) Dump(doc Document, w io.Writer) error {
	root, err := yamlRoot(doc)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(root); err != nil {
		return syncerr.Wrap(syncerr.KindAdapter, err, "encoding yaml")
	}
	if err := enc.Close(); err != nil {
		return syncerr.Wrap(syncerr.KindAdapter, err, "encoding yaml")
	}
	return nil
}

func (a *YAMLAdapter) GetSection(doc Document, path pathexpr.Path) (*yaml.Node, error) {
	root, err := yamlRoot(doc)
	if err != nil {
		return nil, err
	}
	n, err := GetNode(root, path)
	if err != nil {
		return nil, err
	}
	return CopyNode(n), nil
}

// SetSection assigns a copy of value. Marker texts are ignored: a YAML value
// has no stable place to carry them across a re-encode.
func (a *YAMLAdapter) SetSection(doc Document, path pathexpr.Path, value *yaml.Node, opts SetOptions) error {
	root, err := yamlRoot(doc)
	if err != nil {
		return err
	}
	return SetNode(root, path, CopyNode(value), opts.Create)
}

func (a *YAMLAdapter) RenderComment(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight("# "+l, " ")
	}
	return strings.Join(lines, "\n")
}

func (a *YAMLAdapter) SetOptions(opts Options) error {
	if opts.Raw != "" {
		return syncerr.New(syncerr.KindUnsupported, "yaml adapter does not accept options %q", opts.Raw)
	}
	return nil
}

func yamlRoot(doc Document) (*yaml.Node, error) {
	n, ok := doc.(*yaml.Node)
	if !ok || n == nil {
		return nil, syncerr.New(syncerr.KindAdapter, "yaml adapter cannot handle document of type %s", fmt.Sprintf("%T", doc))
	}
	return n, nil
}

// ScalarNode builds a plain string scalar.
func ScalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// Encode renders v as YAML text with the adapter's indentation. v may be a
// *yaml.Node or any value yaml.v3 can marshal.
func Encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
