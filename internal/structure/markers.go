package structure

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const idLength = 8

const (
	startMarkerPrefix   = "Start of section "
	endMarkerPrefix     = "End of section "
	contentMarkerPrefix = "This is auto-generated section with ID: "
)

// SectionID derives the identifier of one mapping's output from the source
// path, the target path and the raw mapping string.
func SectionID(source, target, raw string) string {
	return shortHash(source + target + raw)
}

// ContentID derives the identifier of a whole-file copy from its content.
func ContentID(content string) string {
	return shortHash(content)
}

func shortHash(s string) string {
	return fmt.Sprintf("%016X", xxhash.Sum64String(s))[:idLength]
}

// StartMarker is the text placed before a mapped section.
func StartMarker(id, source, raw string) string {
	return fmt.Sprintf("%s%s. It is auto-generated. Do not edit it. Source: '%s'. Mapping: '%s'", startMarkerPrefix, id, source, raw)
}

// EndMarker is the text placed after a mapped section.
func EndMarker(id string) string {
	return fmt.Sprintf("%s%s. It is auto-generated. Do not edit it.", endMarkerPrefix, id)
}

// ContentMarker is the text placed around a whole-file copy.
func ContentMarker(id string) string {
	return contentMarkerPrefix + id
}

// IsMarker reports whether comment text was produced by one of the marker
// functions.
func IsMarker(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, startMarkerPrefix) && strings.Contains(text, "It is auto-generated") ||
		strings.HasPrefix(text, endMarkerPrefix) && strings.Contains(text, "It is auto-generated") ||
		strings.HasPrefix(text, contentMarkerPrefix)
}
