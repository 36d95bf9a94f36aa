package syncerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"msg only", New(KindValidation, "source %q does not exist", "a.yaml"), `source "a.yaml" does not exist`},
		{"msg and cause", Wrap(KindFilesystem, fs.ErrNotExist, "reading %s", "b"), "reading b: file does not exist"},
		{"cause only", Wrap(KindFilesystem, fs.ErrPermission, ""), "permission denied"},
		{"empty", &Error{Kind: KindAdapter}, "adapter error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("job docs: %w", New(KindSectionNotFound, "section not found"))
	if got := KindOf(err); got != KindSectionNotFound {
		t.Errorf("KindOf = %q, want %q", got, KindSectionNotFound)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}

func TestIsWalksNestedKinds(t *testing.T) {
	inner := New(KindNotImplemented, "json adapter is not yet implemented")
	outer := Wrap(KindAdapter, inner, "destination adapter")

	if !Is(outer, KindAdapter) {
		t.Error("expected outer kind to match")
	}
	if !Is(outer, KindNotImplemented) {
		t.Error("expected inner kind to match")
	}
	if Is(outer, KindBinary) {
		t.Error("unexpected binary kind")
	}
	if !errors.Is(outer, inner) {
		t.Error("expected errors.Is to reach the inner error")
	}
}
