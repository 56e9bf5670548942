package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatalf("unexpected result: %v", got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrState, "gone"),
			wantIs: false,
		},
		"nil error is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"field error is unwrapped": {
			a:      ErrEmpty,
			b:      Field("Name", ErrEmpty, "required"),
			wantIs: true,
		},
		"any of grouped errors matches": {
			a:      ErrInput,
			b:      Append(ErrEmpty, Wrap(ErrInput, "bad")),
			wantIs: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got %v", got)
			}
		})
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrNotFound.ABCICode(), "duplicate")
}

func TestWrapAttachesStackOnce(t *testing.T) {
	err := Wrap(Wrap(ErrState, "inner"), "outer")
	if stackTrace(err) == nil {
		t.Fatal("stack trace expected")
	}
	if got, want := err.Error(), "outer: inner: invalid state"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	full := fmt.Sprintf("%+v", err)
	if !strings.Contains(full, "errors_test.go") {
		t.Fatalf("stack trace not printed: %s", full)
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, ErrEmpty); err != ErrEmpty {
		t.Fatalf("single error must be returned as it is, got %v", err)
	}
	err := Append(ErrEmpty, Append(ErrInput, ErrState))
	m, ok := err.(*multiErr)
	if !ok {
		t.Fatalf("want multi error, got %T", err)
	}
	if len(m.Unpack()) != 3 {
		t.Fatalf("want flattened errors, got %d", len(m.Unpack()))
	}
	if code := abciCode(err); code != ErrEmpty.ABCICode() {
		t.Fatalf("want code of the first error, got %d", code)
	}
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Owner", ErrEmpty, "required"),
		Field("Amount", ErrAmount, "must be positive"),
	)
	if errs := FieldErrors(err, "Owner"); len(errs) != 1 || !ErrEmpty.Is(errs[0]) {
		t.Fatalf("unexpected owner errors: %v", errs)
	}
	if errs := FieldErrors(err, "Beneficiary"); len(errs) != 0 {
		t.Fatalf("unexpected beneficiary errors: %v", errs)
	}
}
