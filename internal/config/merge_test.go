package config

import (
	"strings"
	"testing"
)

func TestMergeJobsByName(t *testing.T) {
	base := &Config{
		Version: 1,
		Jobs: []Job{
			{Name: "shared", Source: "base.yaml", Target: "out.md"},
			{Name: "base-only", Source: "a", Target: "b"},
		},
	}
	overlay := &Config{
		Version: 1,
		Jobs: []Job{
			{Name: "shared", Source: "overlay.yaml", Target: "out.md"},
			{Name: "overlay-only", Source: "c", Target: "d"},
		},
	}

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged.Jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(merged.Jobs))
	}
	job, ok := merged.Job("shared")
	if !ok || job.Source != "overlay.yaml" {
		t.Errorf("shared job = %+v, want overlay version", job)
	}
	if merged.Jobs[0].Name != "base-only" {
		t.Errorf("jobs[0] = %q, want base-only", merged.Jobs[0].Name)
	}
}

func TestMergeDefaultsFieldByField(t *testing.T) {
	yes, no := true, false
	base := &Config{Version: 1, Defaults: Defaults{Backup: &yes, Comments: &yes, Encoding: "latin1"}}
	overlay := &Config{Defaults: Defaults{Comments: &no}}

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Version != 1 {
		t.Errorf("version = %d, want 1", merged.Version)
	}
	d := merged.Defaults
	if !*d.Backup || *d.Comments || d.Binary != nil || d.Encoding != "latin1" {
		t.Errorf("defaults = %+v", d)
	}
}

func TestMergeVersionMismatch(t *testing.T) {
	_, err := Merge(&Config{Version: 1}, &Config{Version: 2})
	if err == nil || !strings.Contains(err.Error(), "version mismatch") {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestMergeNil(t *testing.T) {
	c := &Config{Version: 1}
	if got, _ := Merge(nil, c); got != c {
		t.Error("Merge(nil, c) should return c")
	}
	if got, _ := Merge(c, nil); got != c {
		t.Error("Merge(c, nil) should return c")
	}
}

func TestMergeAllEmpty(t *testing.T) {
	if _, err := MergeAll(nil); err == nil {
		t.Fatal("expected error")
	}
}
