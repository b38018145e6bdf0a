package errors

import (
	stderrs "errors"
	"fmt"
	"testing"
)

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{New(ErrorCodeInvalidArgument, "x"), 2},
		{New(ErrorCodeValidation, "x"), 2},
		{New(ErrorCodeJSON, "x"), 2},
		{New(ErrorCodeNotFound, "x"), 3},
		{New(ErrorCodeIO, "x"), 3},
		{New(ErrorCodeUnknown, "x"), 1},
		{stderrs.New("foreign"), 1},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeJSON, "bad json %d", 12)
	if got := e2.Error(); got != "bad json 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeIO, "read failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeNotFound, "missing %s", "file")
	if want := "missing file: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}
	if got, ok := As(e4); !ok || got.Code() != ErrorCodeNotFound || got.Message() != "missing file" {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// copy-on-write
	e5 := WithField(e3, "file")
	if fe, _ := As(e5); fe.Field() != "file" {
		t.Fatalf("WithField failed")
	}
	if fe0, _ := As(e3); fe0.Field() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if got := WithField(src, "x"); got != src {
		t.Fatalf("WithField on foreign error should return it unchanged")
	}
}

func TestRootAndIsCode(t *testing.T) {
	base := stderrs.New("disk")
	wrapped := fmt.Errorf("outer: %w", Wrap(base, ErrorCodeIO, "read"))
	if Root(wrapped) != base {
		t.Fatalf("Root did not find base cause")
	}
	if !IsCode(wrapped, ErrorCodeIO) {
		t.Fatalf("IsCode through fmt wrap failed")
	}
	if Root(nil) != nil {
		t.Fatalf("Root(nil) should be nil")
	}
}

func TestSugarAndString(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
		name string
	}{
		{InvalidArgf("bad %s", "flag"), ErrorCodeInvalidArgument, "invalid_argument"},
		{NotFoundf("no %s", "file"), ErrorCodeNotFound, "not_found"},
		{Validationf("bad %s", "row"), ErrorCodeValidation, "validation"},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.code {
			t.Fatalf("CodeOf(%v) = %v, want %v", c.err, CodeOf(c.err), c.code)
		}
		if c.code.String() != c.name {
			t.Fatalf("String() = %q, want %q", c.code.String(), c.name)
		}
	}
}
