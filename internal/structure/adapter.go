// Package structure defines the structural adapter contract shared by every
// document format, the generic node walker that YAML-shaped formats use to
// address sections, and the adapter registry.
package structure

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/docsync/internal/pathexpr"
)

// Document is the in-memory tree an adapter builds on Load. Its concrete
// type belongs to the adapter that produced it.
type Document any

// SetOptions controls a single SetSection call.
type SetOptions struct {
	// Previous and Next are marker texts placed before and after the
	// assigned content. Adapters that cannot represent them ignore them.
	Previous string
	Next     string
	// Create makes missing intermediate nodes instead of failing.
	Create bool
}

// Options configures format-specific rendering for subsequent SetSection
// calls.
type Options struct {
	// Raw is the adapter option string from a mapping, e.g.
	// "render_as=table".
	Raw string
	// SourceSection is the dotted key path of the mapped source section.
	SourceSection string
}

// Adapter loads, addresses and re-serializes one document format.
// Structured values crossing adapters are *yaml.Node trees.
type Adapter interface {
	// Name returns the adapter identifier used in mappings.
	Name() string

	// Load parses r into a fresh document.
	Load(r io.Reader) (Document, error)

	// Dump serializes doc. The same document always yields identical bytes.
	Dump(doc Document, w io.Writer) error

	// GetSection resolves path and returns a copy of the value found there.
	GetSection(doc Document, path pathexpr.Path) (*yaml.Node, error)

	// SetSection assigns value at path.
	SetSection(doc Document, path pathexpr.Path, value *yaml.Node, opts SetOptions) error

	// RenderComment formats text as a comment in this format.
	RenderComment(text string) string

	// SetOptions configures rendering for later SetSection calls.
	SetOptions(opts Options) error
}
