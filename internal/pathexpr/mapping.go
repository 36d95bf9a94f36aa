// Package pathexpr parses section mapping arguments of the form
//
//	[adapter:]src_path -> [adapter:]dst_path[?option=value(&option=value)*]
//
// into a SectionMapping. Paths use "." between segments, accept "'" and '"'
// quoting and backslash escapes, and may carry [N], [-N] or [*] index
// suffixes. Every failure is an *Error with a stable ErrorCode.
package pathexpr

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	SectionSeparator = "->"
	OptionSeparator  = "?"
	optionJoiner     = "&"
	adapterSeparator = ":"
)

// Adapter identifiers accepted by the grammar.
const (
	AdapterYAML     = "yaml"
	AdapterJSON     = "json"
	AdapterFM       = "fm"
	AdapterMarkdown = "markdown"
)

var supportedAdapters = map[string]bool{
	AdapterYAML:     true,
	AdapterJSON:     true,
	AdapterFM:       true,
	AdapterMarkdown: true,
}

var (
	validAdapter   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	adapterOptions = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\((.*)\)$`)
)

// SectionMapping is the parsed form of one --section argument.
type SectionMapping struct {
	Raw        string
	SrcAdapter string // empty when inferred from the file extension
	SrcOptions string
	SrcPath    Path
	DstAdapter string
	DstOptions string // raw render options, e.g. "render_as=table"
	DstPath    Path
	Create     bool
	Force      bool
}

// Parse parses a mapping argument.
func Parse(argument string) (SectionMapping, error) {
	if argument == "" {
		return SectionMapping{}, newError(CodeEmptyMapping, "")
	}

	mappingPart, optionPart, hasOptions, err := splitOptions(argument)
	if err != nil {
		return SectionMapping{}, err
	}
	srcToken, dstToken, err := splitMapping(mappingPart)
	if err != nil {
		return SectionMapping{}, err
	}

	srcAdapter, srcOptions, srcPathToken, err := splitAdapter(srcToken)
	if err != nil {
		return SectionMapping{}, err
	}
	dstAdapter, dstOptions, dstPathToken, err := splitAdapter(dstToken)
	if err != nil {
		return SectionMapping{}, err
	}

	srcPath, err := ParsePath(srcPathToken)
	if err != nil {
		return SectionMapping{}, err
	}
	dstPath, err := ParsePath(dstPathToken)
	if err != nil {
		return SectionMapping{}, err
	}

	m := SectionMapping{
		Raw:        argument,
		SrcAdapter: srcAdapter,
		SrcOptions: srcOptions,
		SrcPath:    srcPath,
		DstAdapter: dstAdapter,
		DstOptions: dstOptions,
		DstPath:    dstPath,
	}
	if hasOptions {
		opts, err := parseOptions(optionPart)
		if err != nil {
			return SectionMapping{}, err
		}
		m.Create = opts["create"]
		m.Force = opts["force"]
	}
	return m, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(argument string) SectionMapping {
	m, err := Parse(argument)
	if err != nil {
		panic(err)
	}
	return m
}

// ParsePath tokenizes a single path expression such as `a.b[0]."c.d"`.
func ParsePath(path string) (Path, error) {
	if path == "" {
		return nil, newError(CodeEmptyPath, "")
	}
	tokens, err := splitSegments(path)
	if err != nil {
		return nil, err
	}

	var segments Path
	for _, tok := range tokens {
		segs, err := parseSegment(tok)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segs...)
	}
	if len(segments) == 0 {
		return nil, newError(CodeMissingSegment, "")
	}
	return segments, nil
}

func splitOptions(argument string) (string, string, bool, error) {
	mappingPart, optionPart, found := strings.Cut(argument, OptionSeparator)
	if !found {
		return argument, "", false, nil
	}
	if mappingPart == "" {
		return "", "", false, newError(CodeMissingPaths, "")
	}
	if optionPart == "" {
		return "", "", false, newError(CodeEmptyOptions, "")
	}
	return mappingPart, optionPart, true, nil
}

func splitMapping(mappingPart string) (string, string, error) {
	src, dst, found := strings.Cut(mappingPart, SectionSeparator)
	if !found {
		return "", "", newError(CodeMissingSeparator, "")
	}
	src = strings.TrimSpace(src)
	dst = strings.TrimSpace(dst)
	if src == "" || dst == "" {
		return "", "", newError(CodeMissingSourceOrDest, "")
	}
	return src, dst, nil
}

// splitAdapter separates "adapter(options):path". The options group may
// itself contain parentheses, so the adapter ends at the ':' that follows
// the balanced closing parenthesis.
func splitAdapter(token string) (adapter, options, path string, err error) {
	cut := adapterCut(token)
	if cut < 0 {
		return "", "", strings.TrimSpace(token), nil
	}

	adapter = strings.TrimSpace(token[:cut])
	path = strings.TrimSpace(token[cut+1:])

	if adapter == "" {
		return "", "", "", newError(CodeEmptyAdapter, "")
	}

	name := adapter
	if m := adapterOptions.FindStringSubmatch(adapter); m != nil {
		name, options = m[1], m[2]
	} else if !validAdapter.MatchString(adapter) {
		return "", "", "", newError(CodeInvalidAdapter, adapter)
	}
	if !supportedAdapters[name] {
		return "", "", "", newError(CodeUnsupportedAdapter, name)
	}
	if options != "" && name != AdapterMarkdown {
		return "", "", "", newError(CodeInvalidAdapter, adapter)
	}
	if path == "" {
		return "", "", "", newError(CodeEmptyPathAdapter, "")
	}
	return name, options, path, nil
}

func adapterCut(token string) int {
	open := strings.Index(token, "(")
	colon := strings.Index(token, adapterSeparator)
	if colon < 0 {
		return -1
	}
	if open < 0 || open > colon {
		return colon
	}
	depth := 0
	for i := open; i < len(token); i++ {
		switch token[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if next := strings.Index(token[i+1:], adapterSeparator); next >= 0 {
					return i + 1 + next
				}
				return -1
			}
		}
	}
	return colon
}

func parseOptions(optionPart string) (map[string]bool, error) {
	parsed := make(map[string]bool)
	for _, pair := range strings.Split(optionPart, optionJoiner) {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, newError(CodeUnsupportedOption, rawKey)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, newError(CodeInvalidBool, key+"="+rawValue)
		}
		if key != "create" && key != "force" {
			return nil, newError(CodeUnsupportedOption, key)
		}
		b, err := parseBool(key, value)
		if err != nil {
			return nil, err
		}
		parsed[key] = b
	}
	return parsed, nil
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, newError(CodeInvalidBool, key+"="+value)
}
