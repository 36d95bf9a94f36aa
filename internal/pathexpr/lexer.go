package pathexpr

import "regexp"

const (
	// PathDelimiter separates segments of a path.
	PathDelimiter = "."
	// EscapeChar escapes the delimiter, quotes and itself.
	EscapeChar = '\\'

	minQuotedLength = 2
)

var indexToken = regexp.MustCompile(`^(-?\d+|\*)$`)

// rawSegment is one delimiter-separated token after quote removal. protected
// marks runes that came from a quoted span or an escape, so brackets in
// `"a[0]"` stay part of the key.
type rawSegment struct {
	chars     []rune
	protected []bool
}

func (s *rawSegment) add(r rune, protected bool) {
	s.chars = append(s.chars, r)
	s.protected = append(s.protected, protected)
}

// splitSegments tokenizes a path with shell-like quoting. Inside quotes a
// backslash only escapes the active quote character or another backslash.
func splitSegments(path string) ([]rawSegment, error) {
	var (
		segments []rawSegment
		cur      rawSegment
		started  bool
		inQuote  bool
		quote    rune
	)

	runes := []rune(path)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuote:
			if r == EscapeChar && i+1 < len(runes) && (runes[i+1] == quote || runes[i+1] == EscapeChar) {
				i++
				cur.add(runes[i], true)
				continue
			}
			if r == quote {
				inQuote = false
				continue
			}
			cur.add(r, true)
		case r == EscapeChar:
			if i+1 >= len(runes) {
				return nil, newError(CodeDanglingEscape, "")
			}
			i++
			cur.add(runes[i], true)
			started = true
		case r == '"' || r == '\'':
			inQuote = true
			quote = r
			started = true
		case string(r) == PathDelimiter:
			if !started {
				return nil, newError(CodeEmptySegment, "")
			}
			segments = append(segments, cur)
			cur = rawSegment{}
			started = false
		default:
			cur.add(r, false)
			started = true
		}
	}

	if inQuote {
		return nil, newError(CodeUnterminatedQuote, "")
	}
	if !started {
		// Empty input or a trailing unescaped delimiter.
		return nil, newError(CodeEmptySegment, "")
	}
	return append(segments, cur), nil
}

// parseSegment turns one raw token into path segments. A key followed by
// indices yields a keyed segment carrying the first index plus one
// index-only segment per remaining index.
func parseSegment(raw rawSegment) ([]PathSegment, error) {
	if len(raw.chars) == 0 {
		return nil, newError(CodeEmptySegment, "")
	}

	end, rawIndices := splitIndexSuffix(raw)
	keyPart := string(raw.chars[:end])

	if keyPart == "" {
		if len(rawIndices) == 0 {
			return nil, newError(CodeEmptyIndexSegment, "")
		}
		segments := make([]PathSegment, 0, len(rawIndices))
		for _, idx := range rawIndices {
			seg, err := NewPathSegment("", false, idx)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		}
		return segments, nil
	}

	key, err := cleanKey(keyPart)
	if err != nil {
		return nil, err
	}
	if len(rawIndices) == 0 {
		seg, err := NewPathSegment(key, true)
		if err != nil {
			return nil, err
		}
		return []PathSegment{seg}, nil
	}

	head, err := NewPathSegment(key, true, rawIndices[0])
	if err != nil {
		return nil, err
	}
	segments := []PathSegment{head}
	for _, idx := range rawIndices[1:] {
		seg, err := NewPathSegment("", false, idx)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// splitIndexSuffix peels trailing unprotected "[N]", "[-N]" and "[*]" groups
// off a token. It returns where the key ends and the index tokens in order.
func splitIndexSuffix(raw rawSegment) (int, []string) {
	end := len(raw.chars)
	var indices []string
	for end > 0 && raw.chars[end-1] == ']' && !raw.protected[end-1] {
		open := -1
		for j := end - 2; j >= 0; j-- {
			if raw.chars[j] == '[' && !raw.protected[j] {
				open = j
				break
			}
		}
		if open < 0 {
			break
		}
		body := string(raw.chars[open+1 : end-1])
		if !indexToken.MatchString(body) {
			break
		}
		indices = append([]string{body}, indices...)
		end = open
	}
	return end, indices
}

// cleanKey removes a second level of backslash escaping and strips one pair
// of matching surrounding quotes.
func cleanKey(key string) (string, error) {
	var out []rune
	escape := false
	for _, r := range key {
		if escape {
			out = append(out, r)
			escape = false
			continue
		}
		if r == EscapeChar {
			escape = true
			continue
		}
		out = append(out, r)
	}
	if escape {
		return "", newError(CodeDanglingKeyEscape, "")
	}

	if len(out) >= minQuotedLength && out[0] == out[len(out)-1] && (out[0] == '"' || out[0] == '\'') {
		out = out[1 : len(out)-1]
	}
	return string(out), nil
}
