package engine

import (
	"context"
	"strings"

	"github.com/bianoble/docsync/internal/pathexpr"
	"github.com/bianoble/docsync/internal/structure"
	"github.com/bianoble/docsync/internal/syncerr"
)

// merge applies every section mapping of opts to the target text and
// returns the new target text. The adapters of the first mapping are used
// for the whole call.
func (e *Engine) merge(ctx context.Context, source string, tgt target, srcText, oldText string, opts Options) (string, error) {
	first := opts.Sections[0]

	srcAdapter, err := e.Registry.Resolve(first.SrcAdapter, source)
	if err != nil {
		return "", err
	}
	dstAdapter, err := e.Registry.Resolve(first.DstAdapter, tgt.path)
	if err != nil {
		return "", err
	}

	srcDoc, err := srcAdapter.Load(strings.NewReader(srcText))
	if err != nil {
		return "", syncerr.Wrap(syncerr.KindAdapter, err, "loading %s", source)
	}
	dstDoc, err := dstAdapter.Load(strings.NewReader(oldText))
	if err != nil {
		return "", syncerr.Wrap(syncerr.KindAdapter, err, "loading %s", tgt.path)
	}

	markers := opts.Comments || dstAdapter.Name() == pathexpr.AdapterMarkdown

	for _, m := range opts.Sections {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		value, err := srcAdapter.GetSection(srcDoc, m.SrcPath)
		if err != nil {
			if syncerr.Is(err, syncerr.KindUnsupported) {
				return "", syncerr.Wrap(syncerr.KindUnsupported, err, "reading '%s'", m.Raw)
			}
			return "", syncerr.Wrap(syncerr.KindSectionNotFound, err, "source section not found: %s", m.SrcPath)
		}

		if err := dstAdapter.SetOptions(structure.Options{Raw: m.DstOptions, SourceSection: m.SrcPath.Keys()}); err != nil {
			return "", err
		}

		set := structure.SetOptions{Create: m.Create}
		if markers {
			id := structure.SectionID(source, tgt.path, m.Raw)
			set.Previous = structure.StartMarker(id, source, m.Raw)
			set.Next = structure.EndMarker(id)
		}
		if err := dstAdapter.SetSection(dstDoc, m.DstPath, value, set); err != nil {
			kind := syncerr.KindOf(err)
			if kind == "" {
				kind = syncerr.KindAdapter
			}
			return "", syncerr.Wrap(kind, err, "applying '%s'", m.Raw)
		}
		e.Logger.Debug("section applied", "mapping", m.Raw)
	}

	var out strings.Builder
	if err := dstAdapter.Dump(dstDoc, &out); err != nil {
		return "", syncerr.Wrap(syncerr.KindAdapter, err, "writing %s", tgt.path)
	}
	text := out.String()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}

// wholeText returns the target text of a whole-file copy. With comments
// enabled the source is bracketed by content markers in the comment syntax
// of the target's adapter; targets without a usable adapter get the source
// unchanged.
func (e *Engine) wholeText(targetPath, srcText string, comments bool) string {
	if !comments {
		return srcText
	}
	name, err := e.Registry.Infer(targetPath)
	if err != nil {
		return srcText
	}
	adapter, err := e.Registry.New(name)
	if err != nil {
		return srcText
	}

	marker := adapter.RenderComment(structure.ContentMarker(structure.ContentID(srcText)))
	body := srcText
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return marker + "\n" + body + marker + "\n"
}
