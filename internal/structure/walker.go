package structure

import (
	"gopkg.in/yaml.v3"

	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/syncerr"
)

// step is one key lookup or one index lookup.
type step struct {
	key   string
	isKey bool
	index int
}

func (s step) String() string {
	if s.isKey {
		return s.key
	}
	return pathexpr.At(s.index).String()
}

// flatten expands segments into single steps. Wildcard keys are identity
// steps and produce nothing.
func flatten(path pathexpr.Path) ([]step, error) {
	var steps []step
	for _, seg := range path {
		if seg.HasKey && !seg.IsWildcardKey() {
			steps = append(steps, step{key: seg.Key, isKey: true})
		}
		for _, idx := range seg.Indices {
			if idx.Wildcard {
				return nil, syncerr.New(syncerr.KindUnsupported, "wildcard index is not supported in path %s", path)
			}
			steps = append(steps, step{index: idx.Value})
		}
	}
	return steps, nil
}

// GetNode walks path from root and returns the node found. The returned node
// is shared with the tree; use CopyNode before handing it elsewhere.
func GetNode(root *yaml.Node, path pathexpr.Path) (*yaml.Node, error) {
	steps, err := flatten(path)
	if err != nil {
		return nil, err
	}

	cur := contentOf(root)
	for _, st := range steps {
		next, ok, err := lookup(cur, st, path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, syncerr.New(syncerr.KindSectionNotFound, "section not found: %s (missing %s)", path, st)
		}
		cur = next
	}
	return cur, nil
}

// SetNode assigns value at path below root. With create, missing
// intermediate nodes are added: a mapping when the following step is a key,
// a sequence otherwise. A missing final key is always added.
func SetNode(root *yaml.Node, path pathexpr.Path, value *yaml.Node, create bool) error {
	if len(path) == 0 {
		return syncerr.New(syncerr.KindValidation, "path cannot be empty")
	}
	last := path[len(path)-1]
	if len(last.Indices) > 1 {
		return syncerr.New(syncerr.KindUnsupported, "multi-index final segment is not supported: %s", last)
	}
	if last.IsWildcardKey() && len(last.Indices) == 0 {
		return syncerr.New(syncerr.KindUnsupported, "wildcard final segment is not supported: %s", last)
	}

	steps, err := flatten(path)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return syncerr.New(syncerr.KindUnsupported, "path %s does not address a section", path)
	}

	cur := contentOf(root)
	for i, st := range steps[:len(steps)-1] {
		next, ok, err := lookup(cur, st, path)
		if err != nil {
			if !create || !isNull(cur) {
				return err
			}
			makeContainer(cur, st)
			next, ok, err = lookup(cur, st, path)
			if err != nil {
				return err
			}
		}
		if !ok {
			if !create {
				return syncerr.New(syncerr.KindSectionNotFound, "section not found: %s (missing %s)", path, st)
			}
			next = newContainer(steps[i+1])
			if err := assign(cur, st, next, true, path); err != nil {
				return err
			}
		}
		cur = next
	}

	final := steps[len(steps)-1]
	if isNull(cur) && create {
		makeContainer(cur, final)
	}
	return assign(cur, final, value, create, path)
}

// lookup resolves one step. ok is false when the key or index is absent;
// err is set when cur has the wrong kind for the step.
func lookup(cur *yaml.Node, st step, path pathexpr.Path) (*yaml.Node, bool, error) {
	cur = resolveAlias(cur)
	if st.isKey {
		if cur.Kind != yaml.MappingNode {
			return nil, false, syncerr.New(syncerr.KindSectionNotFound, "cannot look up key %q in %s at path %s", st.key, kindName(cur), path)
		}
		for i := 0; i+1 < len(cur.Content); i += 2 {
			if cur.Content[i].Value == st.key {
				return resolveAlias(cur.Content[i+1]), true, nil
			}
		}
		return nil, false, nil
	}

	if cur.Kind != yaml.SequenceNode {
		return nil, false, syncerr.New(syncerr.KindSectionNotFound, "cannot index %s at path %s", kindName(cur), path)
	}
	i, ok := normalizeIndex(st.index, len(cur.Content))
	if !ok {
		return nil, false, nil
	}
	return resolveAlias(cur.Content[i]), true, nil
}

// assign stores value under st in cur, replacing any existing entry.
func assign(cur *yaml.Node, st step, value *yaml.Node, create bool, path pathexpr.Path) error {
	cur = resolveAlias(cur)
	if st.isKey {
		if cur.Kind != yaml.MappingNode {
			return syncerr.New(syncerr.KindSectionNotFound, "cannot set key %q in %s at path %s", st.key, kindName(cur), path)
		}
		for i := 0; i+1 < len(cur.Content); i += 2 {
			if cur.Content[i].Value == st.key {
				carryComments(cur.Content[i+1], value)
				cur.Content[i+1] = value
				return nil
			}
		}
		cur.Content = append(cur.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: st.key}, value)
		return nil
	}

	if cur.Kind != yaml.SequenceNode {
		return syncerr.New(syncerr.KindSectionNotFound, "cannot index %s at path %s", kindName(cur), path)
	}
	if i, ok := normalizeIndex(st.index, len(cur.Content)); ok {
		carryComments(cur.Content[i], value)
		cur.Content[i] = value
		return nil
	}
	if !create || st.index < 0 {
		return syncerr.New(syncerr.KindSectionNotFound, "index %d out of range at path %s", st.index, path)
	}
	for len(cur.Content) < st.index {
		cur.Content = append(cur.Content, nullNode())
	}
	cur.Content = append(cur.Content, value)
	return nil
}

// CopyNode returns a deep copy of n with aliases replaced by their targets
// and document wrappers removed.
func CopyNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	n = contentOf(resolveAlias(n))
	out := &yaml.Node{
		Kind:        n.Kind,
		Style:       n.Style,
		Tag:         n.Tag,
		Value:       n.Value,
		HeadComment: n.HeadComment,
		LineComment: n.LineComment,
		FootComment: n.FootComment,
	}
	if len(n.Content) > 0 {
		out.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = CopyNode(c)
		}
	}
	return out
}

// contentOf unwraps a document node.
func contentOf(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	return n
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func normalizeIndex(i, length int) (int, bool) {
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

func newContainer(next step) *yaml.Node {
	if next.isKey {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

// makeContainer turns a null node into the container st needs, keeping its
// comments.
func makeContainer(n *yaml.Node, st step) {
	c := newContainer(st)
	n.Kind, n.Tag, n.Value, n.Style, n.Content = c.Kind, c.Tag, "", 0, nil
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func isNull(n *yaml.Node) bool {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return false
	}
	if n.Tag == "!!null" {
		return true
	}
	return n.Tag == "" && (n.Value == "" || n.Value == "~" || n.Value == "null")
}

func carryComments(from, to *yaml.Node) {
	if to.LineComment == "" {
		to.LineComment = from.LineComment
	}
	if to.FootComment == "" {
		to.FootComment = from.FootComment
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		if isNull(n) {
			return "null"
		}
		return "scalar"
	}
	return "node"
}
