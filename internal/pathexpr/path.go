package pathexpr

import (
	"strconv"
	"strings"
)

// Index is one bracketed index of a path segment: an integer (negative values
// count from the end) or the wildcard "*".
type Index struct {
	Value    int
	Wildcard bool
}

// Wildcard is the "[*]" index.
var Wildcard = Index{Wildcard: true}

// At returns a concrete integer index.
func At(i int) Index {
	return Index{Value: i}
}

func (i Index) String() string {
	if i.Wildcard {
		return "*"
	}
	return strconv.Itoa(i.Value)
}

// PathSegment is one traversal step: an optional mapping key followed by
// zero or more sequence indices.
type PathSegment struct {
	Key     string
	HasKey  bool
	Indices []Index
}

// Key returns a keyed segment without indices.
func Key(key string) PathSegment {
	return PathSegment{Key: key, HasKey: true}
}

// NewPathSegment builds a segment from a key and raw index tokens, applying
// the same validation the parser does. Pass hasKey=false for index-only
// segments.
func NewPathSegment(key string, hasKey bool, rawIndices ...string) (PathSegment, error) {
	if hasKey && key == "" {
		return PathSegment{}, newError(CodeEmptySegmentKey, "")
	}
	seg := PathSegment{Key: key, HasKey: hasKey}
	for _, raw := range rawIndices {
		idx, err := parseIndex(raw)
		if err != nil {
			return PathSegment{}, err
		}
		seg.Indices = append(seg.Indices, idx)
	}
	return seg, nil
}

// IsWildcardKey reports whether the segment's key is the identity "*".
func (s PathSegment) IsWildcardKey() bool {
	return s.HasKey && s.Key == "*"
}

func (s PathSegment) String() string {
	var b strings.Builder
	if s.HasKey {
		b.WriteString(quoteKey(s.Key))
	}
	for _, idx := range s.Indices {
		b.WriteString("[")
		b.WriteString(idx.String())
		b.WriteString("]")
	}
	return b.String()
}

// Path is an ordered, non-empty sequence of segments.
type Path []PathSegment

// String renders the path back into mapping-argument syntax.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, PathDelimiter)
}

// Keys joins the keys of all keyed segments with ".".
func (p Path) Keys() string {
	var keys []string
	for _, seg := range p {
		if seg.HasKey {
			keys = append(keys, seg.Key)
		}
	}
	return strings.Join(keys, PathDelimiter)
}

func parseIndex(raw string) (Index, error) {
	if raw == "*" {
		return Wildcard, nil
	}
	if raw == "" || strings.Trim(raw, "-0123456789") != "" {
		return Index{}, newError(CodeUnsupportedIndex, raw)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Index{}, newError(CodeInvalidIndex, raw)
	}
	return Index{Value: n}, nil
}

func quoteKey(key string) string {
	if !strings.ContainsAny(key, `.[]"'\ `) {
		return key
	}
	escaped := strings.NewReplacer(`\`, `\\\\`, `"`, `\"`).Replace(key)
	return `"` + escaped + `"`
}
