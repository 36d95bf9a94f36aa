package engine

import "github.com/bianoble/docsync/internal/pathexpr"

// Reason explains the outcome of a sync call.
type Reason string

const (
	ReasonTargetCreated     Reason = "target_created"
	ReasonTargetUpdated     Reason = "target_updated"
	ReasonAlreadyInSync     Reason = "already_in_sync"
	ReasonDryRun            Reason = "dry_run"
	ReasonNoSectionsDefined Reason = "no_sections_defined"
)

// DefaultEncoding is the text encoding used when none is configured.
const DefaultEncoding = "utf-8"

// Options configures a single source to target sync.
type Options struct {
	DryRun      bool
	ShowDiff    bool
	Backup      bool
	AllowBinary bool
	Encoding    string

	// Comments adds auto-generated markers around written content.
	Comments bool

	// Sections switches the call to a structured merge when non-nil. An
	// empty, non-nil slice leaves the target alone.
	Sections []pathexpr.SectionMapping
}

// DefaultOptions returns the options used by the CLI when no flag is given.
func DefaultOptions() Options {
	return Options{
		Encoding: DefaultEncoding,
		Comments: true,
	}
}

// Result holds the outcome of a sync call.
type Result struct {
	Changed    bool
	Reason     Reason
	Diff       string
	BackupPath string
}

type mode int

const (
	modeText mode = iota
	modeBinary
	modeSections
)

func (m mode) String() string {
	switch m {
	case modeBinary:
		return "binary"
	case modeSections:
		return "sections"
	default:
		return "text"
	}
}
