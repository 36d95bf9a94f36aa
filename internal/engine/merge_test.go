package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/docsync/internal/structure"
	"github.com/bianoble/docsync/internal/syncerr"
)

func TestMergeYAMLSection(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "a:\n  nested: 42\n")
	tgt := writeFile(t, dir, "tgt.yaml", "a:\n  nested: 0\nother: keep # note\n")

	opts := DefaultOptions()
	opts.ShowDiff = true
	opts.Sections = sections(t, "yaml:a.nested->yaml:a.nested?create=true")
	res, err := newTestEngine().Sync(context.Background(), src, tgt, opts)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !res.Changed || res.Reason != ReasonTargetUpdated {
		t.Errorf("result = %+v, want target_updated", res)
	}
	if want := "a:\n  nested: 42\nother: keep # note\n"; readFile(t, tgt) != want {
		t.Errorf("target = %q, want %q", readFile(t, tgt), want)
	}
	if !strings.Contains(res.Diff, "+++ src.yaml (section)") {
		t.Errorf("diff label missing:\n%s", res.Diff)
	}
}

func TestMergeYAMLCreatesIntoMissingTarget(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "settings:\n  port: 8080\n  host: local\n")
	tgt := filepath.Join(dir, "tgt.yaml")

	opts := DefaultOptions()
	opts.Sections = sections(t, "settings->server.config?create=true")
	res, err := newTestEngine().Sync(context.Background(), src, tgt, opts)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Reason != ReasonTargetCreated {
		t.Errorf("reason = %s, want target_created", res.Reason)
	}
	want := "server:\n  config:\n    port: 8080\n    host: local\n"
	if got := readFile(t, tgt); got != want {
		t.Errorf("target = %q, want %q", got, want)
	}
}

func TestMergeMarkdownTable(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "data:\n  - name: Alice\n    age: 30\n  - name: Bob\n    age: 25\n")
	tgt := writeFile(t, dir, "tgt.md", "")

	raw := "yaml:data->markdown(render_as=table):data_section?create=true"
	opts := DefaultOptions()
	opts.Comments = false
	opts.Sections = sections(t, raw)
	e := newTestEngine()

	if _, err := e.Sync(context.Background(), src, tgt, opts); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	id := structure.SectionID(src, tgt, raw)
	want := "# data_section\n" +
		"\n" +
		"<!-- " + structure.StartMarker(id, src, raw) + " -->\n" +
		"\n" +
		"| name  | age |\n" +
		"| ----- | --- |\n" +
		"| Alice | 30  |\n" +
		"| Bob   | 25  |\n" +
		"\n" +
		"<!-- " + structure.EndMarker(id) + " -->\n"
	if got := readFile(t, tgt); got != want {
		t.Errorf("target =\n%s\nwant\n%s", got, want)
	}

	res, err := e.Sync(context.Background(), src, tgt, opts)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if res.Reason != ReasonAlreadyInSync {
		t.Errorf("reason = %s, want already_in_sync", res.Reason)
	}
}

func TestMergeMarkdownKeepsSurroundingContent(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "version: 1.2.3\n")
	tgt := writeFile(t, dir, "README.md", "# Project\n\nIntro.\n\n## Version\n\nstale-text\n\n## License\n\nMIT\n")

	opts := DefaultOptions()
	opts.Sections = sections(t, "yaml:version->markdown:Project.Version")
	if _, err := newTestEngine().Sync(context.Background(), src, tgt, opts); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	got := readFile(t, tgt)
	for _, want := range []string{"# Project\n\nIntro.\n\n## Version\n\n<!-- Start of section ", "-->\n\n1.2.3\n\n<!-- End of section ", "-->\n\n## License\n\nMIT\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("target missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "stale-text") {
		t.Errorf("old content kept:\n%s", got)
	}
}

func TestMergeMultipleMappings(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "a: 1\nb: 2\n")
	tgt := writeFile(t, dir, "tgt.yaml", "x: 0\n")

	opts := plainOptions()
	opts.Sections = sections(t, "a->x", "b->y")
	if _, err := newTestEngine().Sync(context.Background(), src, tgt, opts); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := readFile(t, tgt); got != "x: 1\ny: 2\n" {
		t.Errorf("target = %q", got)
	}
}

func TestMergeSourceSectionNotFound(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "a: 1\n")
	tgt := writeFile(t, dir, "tgt.yaml", "b: 2\n")

	opts := DefaultOptions()
	opts.Sections = sections(t, "missing->b")
	_, err := newTestEngine().Sync(context.Background(), src, tgt, opts)
	if !syncerr.Is(err, syncerr.KindSectionNotFound) {
		t.Fatalf("expected section_not_found, got %v", err)
	}
	if !strings.Contains(err.Error(), "source section not found: missing") {
		t.Errorf("unexpected message: %v", err)
	}
	if got := readFile(t, tgt); got != "b: 2\n" {
		t.Errorf("target modified: %q", got)
	}
}

func TestMergeMarkdownDestinationMissingWithoutCreate(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "a: 1\n")
	tgt := writeFile(t, dir, "tgt.md", "# Docs\n")

	opts := DefaultOptions()
	opts.Sections = sections(t, "yaml:a->markdown:Docs.Missing")
	_, err := newTestEngine().Sync(context.Background(), src, tgt, opts)
	if !syncerr.Is(err, syncerr.KindSectionNotFound) {
		t.Fatalf("expected section_not_found, got %v", err)
	}
	if !strings.Contains(err.Error(), "applying 'yaml:a->markdown:Docs.Missing'") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestMergeAdapterErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.json", "{}\n")
	tgt := writeFile(t, dir, "tgt.yaml", "a: 1\n")
	txt := writeFile(t, dir, "notes.txt", "a: 1\n")

	tests := []struct {
		name    string
		source  string
		mapping string
		kind    syncerr.Kind
	}{
		{"reserved adapter", src, "a->a", syncerr.KindNotImplemented},
		{"explicit reserved", txt, "json:a->yaml:a", syncerr.KindNotImplemented},
		{"cannot infer", txt, "a->a", syncerr.KindAdapter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Sections = sections(t, tt.mapping)
			_, err := newTestEngine().Sync(context.Background(), tt.source, tgt, opts)
			if !syncerr.Is(err, tt.kind) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
		})
	}
}

func TestMergeWildcardWriteUnsupported(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "a: 1\n")
	tgt := writeFile(t, dir, "tgt.yaml", "list:\n  - 1\n")

	opts := DefaultOptions()
	opts.Sections = sections(t, "a->list[*]")
	_, err := newTestEngine().Sync(context.Background(), src, tgt, opts)
	if !syncerr.Is(err, syncerr.KindUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
}

func TestMergeRejectsMultiDocumentTarget(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "a:\n  nested: 42\n")
	content := "a:\n  nested: 0\n---\nsecond: doc\n"
	tgt := writeFile(t, dir, "tgt.yaml", content)

	opts := DefaultOptions()
	opts.Sections = sections(t, "yaml:a.nested->yaml:a.nested?create=true")
	_, err := newTestEngine().Sync(context.Background(), src, tgt, opts)
	if !syncerr.Is(err, syncerr.KindAdapter) {
		t.Fatalf("expected adapter error, got %v", err)
	}
	if !strings.Contains(err.Error(), "more than one document") {
		t.Errorf("unexpected message: %v", err)
	}
	if got := readFile(t, tgt); got != content {
		t.Errorf("target modified: %q", got)
	}
}

func TestMergeRejectsMultiDocumentSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "a: 1\n---\na: 2\n")
	tgt := writeFile(t, dir, "tgt.yaml", "b: 2\n")

	opts := DefaultOptions()
	opts.Sections = sections(t, "a->b")
	_, err := newTestEngine().Sync(context.Background(), src, tgt, opts)
	if !syncerr.Is(err, syncerr.KindAdapter) {
		t.Fatalf("expected adapter error, got %v", err)
	}
	if got := readFile(t, tgt); got != "b: 2\n" {
		t.Errorf("target modified: %q", got)
	}
}

func TestMergeWildcardReadUnsupported(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "a:\n  - 1\n  - 2\n")
	tgt := writeFile(t, dir, "tgt.yaml", "q: 0\n")

	opts := DefaultOptions()
	opts.Sections = sections(t, "yaml:a[*]->yaml:q")
	_, err := newTestEngine().Sync(context.Background(), src, tgt, opts)
	if !syncerr.Is(err, syncerr.KindUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
	if strings.Contains(err.Error(), "source section not found") {
		t.Errorf("wildcard reported as missing section: %v", err)
	}
}
