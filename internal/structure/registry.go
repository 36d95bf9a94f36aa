package structure

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bianoble/docsync/internal/syncerr"
)

// Constructor builds a fresh adapter. Adapters carry per-call render
// options, so every sync gets its own instance.
type Constructor func() Adapter

// Registry maps adapter names to constructors and file extensions to adapter
// names. A name registered with a nil constructor is reserved: it resolves
// but fails as not implemented.
type Registry struct {
	constructors map[string]Constructor
	extensions   map[string]string
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
		extensions:   make(map[string]string),
	}
}

// Register adds an adapter and the file extensions it is inferred from.
// Extensions include the leading dot and match case-insensitively.
func (r *Registry) Register(name string, ctor Constructor, extensions ...string) {
	r.constructors[name] = ctor
	for _, ext := range extensions {
		r.extensions[strings.ToLower(ext)] = name
	}
}

// Reserve registers a name that is recognized but not implemented yet.
func (r *Registry) Reserve(name string, extensions ...string) {
	r.Register(name, nil, extensions...)
}

// New returns a new adapter for name.
func (r *Registry) New(name string) (Adapter, error) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, syncerr.New(syncerr.KindAdapter, "unsupported adapter '%s' (supported: %s)", name, r.supported())
	}
	if ctor == nil {
		return nil, syncerr.New(syncerr.KindNotImplemented, "%s adapter is not yet implemented", name)
	}
	return ctor(), nil
}

// Infer returns the adapter name registered for path's extension.
func (r *Registry) Infer(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := r.extensions[ext]
	if !ok {
		return "", syncerr.New(syncerr.KindAdapter, "cannot infer adapter for %s: specify one explicitly (e.g. yaml:path)", path)
	}
	return name, nil
}

// Resolve returns an adapter for an explicit name, or one inferred from
// path when name is empty.
func (r *Registry) Resolve(name, path string) (Adapter, error) {
	if name == "" {
		inferred, err := r.Infer(path)
		if err != nil {
			return nil, err
		}
		name = inferred
	}
	return r.New(name)
}

// Names returns the registered adapter names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for n := range r.constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) supported() string {
	names := r.Names()
	if len(names) == 0 {
		return "(none registered)"
	}
	return strings.Join(names, ", ")
}
