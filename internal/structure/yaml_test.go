package structure

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bianoble/docsync/internal/syncerr"
)

func dumpYAML(t *testing.T, a Adapter, doc Document) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, a.Dump(doc, &buf))
	return buf.String()
}

func TestYAMLMergePreservesOtherKeys(t *testing.T) {
	a := NewYAMLAdapter()

	src, err := a.Load(strings.NewReader("nested: 42\n"))
	require.NoError(t, err)
	dst, err := a.Load(strings.NewReader("a:\n  nested: 0\nother: x\n"))
	require.NoError(t, err)

	value, err := a.GetSection(src, path(t, "nested"))
	require.NoError(t, err)
	require.NoError(t, a.SetSection(dst, path(t, "a.nested"), value, SetOptions{Create: true}))

	assert.Equal(t, "a:\n  nested: 42\nother: x\n", dumpYAML(t, a, dst))
}

func TestYAMLKeepsComments(t *testing.T) {
	a := NewYAMLAdapter()
	dst, err := a.Load(strings.NewReader("# header\nkeep: 1 # note\nval: 0\n"))
	require.NoError(t, err)

	require.NoError(t, a.SetSection(dst, path(t, "val"), ScalarNode("new"), SetOptions{}))

	out := dumpYAML(t, a, dst)
	assert.Contains(t, out, "# header")
	assert.Contains(t, out, "# note")
	assert.Contains(t, out, "val: new")
}

func TestYAMLIgnoresMarkers(t *testing.T) {
	a := NewYAMLAdapter()
	dst, err := a.Load(strings.NewReader("val: 0\n"))
	require.NoError(t, err)

	opts := SetOptions{Previous: "Start of section X", Next: "End of section X"}
	require.NoError(t, a.SetSection(dst, path(t, "val"), ScalarNode("1"), opts))
	assert.NotContains(t, dumpYAML(t, a, dst), "section X")
}

func TestYAMLDumpIsDeterministic(t *testing.T) {
	a := NewYAMLAdapter()
	doc, err := a.Load(strings.NewReader("b: 1\na:\n  - x\n  - y\n"))
	require.NoError(t, err)
	first := dumpYAML(t, a, doc)
	second := dumpYAML(t, a, doc)
	assert.Equal(t, first, second)
	assert.Equal(t, "b: 1\na:\n  - x\n  - y\n", first)
}

func TestYAMLRoundTrip(t *testing.T) {
	a := NewYAMLAdapter()
	src, err := a.Load(strings.NewReader("data:\n  - name: Alice\n    age: 30\n"))
	require.NoError(t, err)
	value, err := a.GetSection(src, path(t, "data"))
	require.NoError(t, err)

	dst, err := a.Load(strings.NewReader(""))
	require.NoError(t, err)
	require.NoError(t, a.SetSection(dst, path(t, "copy"), value, SetOptions{}))

	reloaded, err := a.Load(strings.NewReader(dumpYAML(t, a, dst)))
	require.NoError(t, err)
	got, err := a.GetSection(reloaded, path(t, "copy[0].name"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Value)
}

func TestYAMLLoadMalformed(t *testing.T) {
	_, err := NewYAMLAdapter().Load(strings.NewReader("a: [1, 2\n"))
	require.Error(t, err)
	assert.True(t, syncerr.Is(err, syncerr.KindAdapter))
}

func TestYAMLLoadRejectsMultipleDocuments(t *testing.T) {
	for _, in := range []string{
		"a:\n  nested: 0\n---\nsecond: doc\n",
		"- 1\n---\n- 2\n",
	} {
		_, err := NewYAMLAdapter().Load(strings.NewReader(in))
		require.Error(t, err, in)
		assert.True(t, syncerr.Is(err, syncerr.KindAdapter))
		assert.Contains(t, err.Error(), "more than one document")
	}
}

func TestYAMLRenderComment(t *testing.T) {
	a := NewYAMLAdapter()
	assert.Equal(t, "# hello", a.RenderComment("hello"))
	assert.Equal(t, "# one\n# two", a.RenderComment("one\ntwo"))
}

func TestYAMLSetOptionsRejectsRenderOptions(t *testing.T) {
	a := NewYAMLAdapter()
	assert.NoError(t, a.SetOptions(Options{SourceSection: "x"}))
	assert.Error(t, a.SetOptions(Options{Raw: "render_as=table"}))
}

func TestEncode(t *testing.T) {
	out, err := Encode(map[string]any{"k": []int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "k:\n  - 1\n  - 2\n", out)
}
