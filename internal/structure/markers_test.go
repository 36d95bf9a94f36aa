package structure

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var idPattern = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestSectionIDIsDeterministic(t *testing.T) {
	a := SectionID("src.yaml", "README.md", "yaml:data->markdown:Data")
	b := SectionID("src.yaml", "README.md", "yaml:data->markdown:Data")
	c := SectionID("src.yaml", "README.md", "yaml:other->markdown:Data")

	assert.Regexp(t, idPattern, a)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestContentID(t *testing.T) {
	assert.Regexp(t, idPattern, ContentID("hello"))
	assert.Equal(t, ContentID("hello"), ContentID("hello"))
	assert.NotEqual(t, ContentID("hello"), ContentID("hello\n"))
}

func TestMarkers(t *testing.T) {
	start := StartMarker("ABCD1234", "src.yaml", "yaml:a->markdown:A")
	assert.Equal(t, "Start of section ABCD1234. It is auto-generated. Do not edit it. Source: 'src.yaml'. Mapping: 'yaml:a->markdown:A'", start)
	assert.Equal(t, "End of section ABCD1234. It is auto-generated. Do not edit it.", EndMarker("ABCD1234"))
	assert.Equal(t, "This is auto-generated section with ID: ABCD1234", ContentMarker("ABCD1234"))

	assert.True(t, IsMarker(start))
	assert.True(t, IsMarker(EndMarker("X")))
	assert.True(t, IsMarker(" "+ContentMarker("X")+" "))
	assert.False(t, IsMarker("Start of section about cats"))
	assert.False(t, IsMarker("a regular comment"))
}
