package structure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/syncerr"
)

func loadYAML(t *testing.T, text string) *yaml.Node {
	t.Helper()
	doc, err := NewYAMLAdapter().Load(strings.NewReader(text))
	require.NoError(t, err)
	return doc.(*yaml.Node)
}

func path(t *testing.T, p string) pathexpr.Path {
	t.Helper()
	parsed, err := pathexpr.ParsePath(p)
	require.NoError(t, err)
	return parsed
}

func TestGetNode(t *testing.T) {
	root := loadYAML(t, `
a:
  b: 1
  list:
    - x
    - y
    - z
matrix:
  - [1, 2]
  - [3, 4]
`)

	tests := []struct {
		path string
		want string
	}{
		{"a.b", "1"},
		{"a.list[0]", "x"},
		{"a.list[-1]", "z"},
		{"matrix[1][0]", "3"},
		{"*.a.b", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, err := GetNode(root, path(t, tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Value)
		})
	}
}

func TestGetNodeWildcardKeyIsIdentity(t *testing.T) {
	root := loadYAML(t, "a: 1\n")
	n, err := GetNode(root, path(t, "*"))
	require.NoError(t, err)
	assert.Equal(t, yaml.MappingNode, n.Kind)
}

func TestGetNodeErrors(t *testing.T) {
	root := loadYAML(t, "a:\n  b: 1\nlist: [1]\n")

	tests := []struct {
		path string
		kind syncerr.Kind
	}{
		{"missing", syncerr.KindSectionNotFound},
		{"a.b.c", syncerr.KindSectionNotFound},
		{"list[5]", syncerr.KindSectionNotFound},
		{"a[0]", syncerr.KindSectionNotFound},
		{"list[*]", syncerr.KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := GetNode(root, path(t, tt.path))
			require.Error(t, err)
			assert.True(t, syncerr.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestGetNodeResolvesAliases(t *testing.T) {
	root := loadYAML(t, "base: &b\n  x: 1\nuse: *b\n")
	n, err := GetNode(root, path(t, "use.x"))
	require.NoError(t, err)
	assert.Equal(t, "1", n.Value)
}

func TestSetNodeReplacesValue(t *testing.T) {
	root := loadYAML(t, "a:\n  nested: 0\nother: x\n")
	require.NoError(t, SetNode(root, path(t, "a.nested"), ScalarNode("v"), false))

	n, err := GetNode(root, path(t, "a.nested"))
	require.NoError(t, err)
	assert.Equal(t, "v", n.Value)

	n, err = GetNode(root, path(t, "other"))
	require.NoError(t, err)
	assert.Equal(t, "x", n.Value)
}

func TestSetNodeMissingFinalKeyIsAdded(t *testing.T) {
	root := loadYAML(t, "a: {}\n")
	require.NoError(t, SetNode(root, path(t, "a.new"), ScalarNode("v"), false))
	n, err := GetNode(root, path(t, "a.new"))
	require.NoError(t, err)
	assert.Equal(t, "v", n.Value)
}

func TestSetNodeMissingIntermediateNeedsCreate(t *testing.T) {
	root := loadYAML(t, "{}\n")
	err := SetNode(root, path(t, "a.b"), ScalarNode("v"), false)
	require.Error(t, err)
	assert.True(t, syncerr.Is(err, syncerr.KindSectionNotFound))
}

func TestSetNodeCreatesContainers(t *testing.T) {
	root := loadYAML(t, "")
	require.NoError(t, SetNode(root, path(t, "a.b[1]"), ScalarNode("v"), true))

	b, err := GetNode(root, path(t, "a.b"))
	require.NoError(t, err)
	require.Equal(t, yaml.SequenceNode, b.Kind)
	require.Len(t, b.Content, 2)
	assert.True(t, isNull(b.Content[0]))
	assert.Equal(t, "v", b.Content[1].Value)
}

func TestSetNodeReplacesNullWithContainer(t *testing.T) {
	root := loadYAML(t, "a: ~\n")
	require.NoError(t, SetNode(root, path(t, "a.b"), ScalarNode("v"), true))
	n, err := GetNode(root, path(t, "a.b"))
	require.NoError(t, err)
	assert.Equal(t, "v", n.Value)
}

func TestSetNodeNegativeIndex(t *testing.T) {
	root := loadYAML(t, "list:\n  - a\n  - b\n")
	require.NoError(t, SetNode(root, path(t, "list[-1]"), ScalarNode("z"), false))
	n, err := GetNode(root, path(t, "list[1]"))
	require.NoError(t, err)
	assert.Equal(t, "z", n.Value)

	err = SetNode(root, path(t, "list[-5]"), ScalarNode("z"), true)
	assert.True(t, syncerr.Is(err, syncerr.KindSectionNotFound))
}

func TestSetNodeUnsupportedFinalSegments(t *testing.T) {
	root := loadYAML(t, "list: [1, 2]\n")

	multi, err := pathexpr.NewPathSegment("list", true, "0", "1")
	require.NoError(t, err)
	err = SetNode(root, pathexpr.Path{multi}, ScalarNode("v"), false)
	assert.True(t, syncerr.Is(err, syncerr.KindUnsupported), "got %v", err)

	err = SetNode(root, path(t, "*"), ScalarNode("v"), false)
	assert.True(t, syncerr.Is(err, syncerr.KindUnsupported), "got %v", err)

	err = SetNode(root, path(t, "list[*]"), ScalarNode("v"), false)
	assert.True(t, syncerr.Is(err, syncerr.KindUnsupported), "got %v", err)
}

func TestCopyNodeIsDeep(t *testing.T) {
	root := loadYAML(t, "a:\n  b: 1\n")
	src, err := GetNode(root, path(t, "a"))
	require.NoError(t, err)

	cp := CopyNode(src)
	cp.Content[1].Value = "2"

	n, err := GetNode(root, path(t, "a.b"))
	require.NoError(t, err)
	assert.Equal(t, "1", n.Value)
}
