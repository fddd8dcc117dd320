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
			if got := Cause(tc.err); got != tc.root {
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
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
		"field error is its parent kind": {
			a:      ErrInput,
			b:      Field("Holders", ErrInput, "duplicate"),
			wantIs: true,
		},
		"appended errors match any member": {
			a:      ErrAmount,
			b:      Append(ErrInput, Wrap(ErrAmount, "zero")),
			wantIs: true,
		},
		"appended errors do not match a stranger": {
			a:      ErrTransfer,
			b:      Append(ErrInput, ErrAmount),
			wantIs: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v wanted:%v", got, tc.wantIs)
			}
		})
	}
}

func TestRegisterDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering the same code twice must panic")
		}
	}()
	Register(ErrNotFound.Code(), "again")
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil":             {err: nil, want: SuccessCode},
		"root":            {err: ErrTransfer, want: 24},
		"wrapped":         {err: Wrapf(ErrInactive, "collection %q", "c1"), want: 20},
		"stdlib":          {err: stdlib.New("boom"), want: internalCode},
		"group fail fast": {err: Append(ErrNoHolders, ErrInput), want: 21},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want %d code, got %d", tc.want, got)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(Wrap(ErrPanic, "secret path /etc/passwd")); err != ErrPanic {
		t.Fatalf("panic must be redacted, got %v", err)
	}
	if err := Redact(stdlib.New("db file corrupted")); strings.Contains(err.Error(), "corrupted") {
		t.Fatalf("internal error must be redacted, got %v", err)
	}
	domain := Wrap(ErrNotFound, "collection")
	if err := Redact(domain); err != domain {
		t.Fatalf("registered errors must not be redacted, got %v", err)
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("oops")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("CollectionID", ErrEmpty, "required"),
		Field("Holders.1", ErrDuplicate, "address %d", 1),
		nil,
	)
	if errs := FieldErrors(err, "Holders.1"); len(errs) != 1 || !ErrDuplicate.Is(errs[0]) {
		t.Fatalf("unexpected holder errors: %v", errs)
	}
	if errs := FieldErrors(err, "GrossAmount"); len(errs) != 0 {
		t.Fatalf("unexpected amount errors: %v", errs)
	}
	if Append(nil, nil) != nil {
		t.Fatal("appending only nil values must return nil")
	}
}

func TestStackTraceIsAttachedOnce(t *testing.T) {
	err := Wrap(Wrap(ErrState, "inner"), "outer")
	if stackTrace(err) == nil {
		t.Fatal("stack trace expected")
	}
	if got := fmt.Sprintf("%+v", err); !strings.Contains(got, "errors_test.go") {
		t.Fatalf("stack trace must point to the test file: %s", got)
	}
}
