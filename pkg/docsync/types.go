package docsync

import (
	"github.com/bianoble/docsync/internal/engine"
	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/syncerr"
)

// Public type aliases for the library API.
type (
	SyncOptions    = engine.Options
	SyncResult     = engine.Result
	Reason         = engine.Reason
	JobResult      = engine.JobResult
	SectionMapping = pathexpr.SectionMapping
	Path           = pathexpr.Path
	PathSegment    = pathexpr.PathSegment
	MappingError   = pathexpr.Error
	Error          = syncerr.Error
	ErrorKind      = syncerr.Kind
)

const (
	ReasonTargetCreated     = engine.ReasonTargetCreated
	ReasonTargetUpdated     = engine.ReasonTargetUpdated
	ReasonAlreadyInSync     = engine.ReasonAlreadyInSync
	ReasonDryRun            = engine.ReasonDryRun
	ReasonNoSectionsDefined = engine.ReasonNoSectionsDefined
)

const (
	KindValidation      = syncerr.KindValidation
	KindBinary          = syncerr.KindBinary
	KindAdapter         = syncerr.KindAdapter
	KindNotImplemented  = syncerr.KindNotImplemented
	KindSectionNotFound = syncerr.KindSectionNotFound
	KindUnsupported     = syncerr.KindUnsupported
	KindMapping         = syncerr.KindMapping
	KindFilesystem      = syncerr.KindFilesystem
)

// DefaultSyncOptions returns comments enabled and UTF-8 text.
func DefaultSyncOptions() SyncOptions {
	return engine.DefaultOptions()
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind ErrorKind) bool {
	return syncerr.Is(err, kind)
}
