package pathexpr

import "strings"

// ErrorCode is a stable, machine-readable identifier for a mapping error.
type ErrorCode string

const (
	CodeEmptyMapping        ErrorCode = "empty_mapping"
	CodeMissingPaths        ErrorCode = "missing_paths"
	CodeEmptyOptions        ErrorCode = "empty_options"
	CodeMissingSeparator    ErrorCode = "missing_separator"
	CodeMissingSourceOrDest ErrorCode = "missing_source_or_dest"
	CodeEmptyAdapter        ErrorCode = "empty_adapter"
	CodeInvalidAdapter      ErrorCode = "invalid_adapter"
	CodeUnsupportedAdapter  ErrorCode = "unsupported_adapter"
	CodeEmptyPathAdapter    ErrorCode = "empty_path_with_adapter"
	CodeUnsupportedOption   ErrorCode = "unsupported_option"
	CodeInvalidBool         ErrorCode = "invalid_bool"
	CodeEmptyPath           ErrorCode = "empty_path"
	CodeEmptySegment        ErrorCode = "empty_segment"
	CodeEmptyIndexSegment   ErrorCode = "empty_index_segment"
	CodeMissingSegment      ErrorCode = "missing_segment"
	CodeDanglingEscape      ErrorCode = "dangling_escape"
	CodeUnterminatedQuote   ErrorCode = "unterminated_quote"
	CodeEmptySegmentKey     ErrorCode = "empty_segment_key"
	CodeUnsupportedIndex    ErrorCode = "unsupported_index"
	CodeInvalidIndex        ErrorCode = "invalid_index"
	CodeDanglingKeyEscape   ErrorCode = "dangling_key_escape"
)

// messages holds the human-readable template for each code. A "%s" marks
// where the detail goes.
var messages = map[ErrorCode]string{
	CodeEmptyMapping:        "section mapping cannot be empty",
	CodeMissingPaths:        "section mapping must include a source and destination path",
	CodeEmptyOptions:        "section mapping options cannot be empty",
	CodeMissingSeparator:    "section mapping must contain '" + SectionSeparator + "'",
	CodeMissingSourceOrDest: "section mapping must include both source and destination paths",
	CodeEmptyAdapter:        "adapter prefix cannot be empty",
	CodeInvalidAdapter:      "invalid adapter identifier: %s",
	CodeUnsupportedAdapter:  "unsupported adapter: %s",
	CodeEmptyPathAdapter:    "path cannot be empty when adapter is specified",
	CodeUnsupportedOption:   "unsupported option: %s",
	CodeInvalidBool:         "invalid boolean value for %s",
	CodeEmptyPath:           "path cannot be empty",
	CodeEmptySegment:        "path segment cannot be empty",
	CodeEmptyIndexSegment:   "index-only segment must include an index",
	CodeMissingSegment:      "path must contain at least one segment",
	CodeDanglingEscape:      "path cannot end with an incomplete escape sequence",
	CodeUnterminatedQuote:   "unterminated quoted segment in path",
	CodeEmptySegmentKey:     "path segment key cannot be empty",
	CodeUnsupportedIndex:    "unsupported index token: %s",
	CodeInvalidIndex:        "invalid index value: %s",
	CodeDanglingKeyEscape:   "key cannot end with an escape character",
}

// Error is returned for every malformed mapping argument.
type Error struct {
	Code   ErrorCode
	Detail string
}

func newError(code ErrorCode, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

func (e *Error) Error() string {
	tmpl, ok := messages[e.Code]
	if !ok {
		return "unknown section mapping error"
	}
	if strings.Contains(tmpl, "%s") {
		return strings.Replace(tmpl, "%s", e.Detail, 1)
	}
	if e.Detail != "" {
		return tmpl + ": " + e.Detail
	}
	return tmpl
}

// Is reports whether target is an *Error with the same code, so callers can
// write errors.Is(err, &pathexpr.Error{Code: pathexpr.CodeEmptySegment}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
