package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/revshare/errors"
)

type tester struct {
	failed bool
}

func (t *tester) Helper()                       {}
func (t *tester) Fatal(...interface{})          { t.failed = true }
func (t *tester) Fatalf(string, ...interface{}) { t.failed = true }

func TestAssertions(t *testing.T) {
	cases := map[string]struct {
		fn       func(Tester)
		wantFail bool
	}{
		"nil":                {fn: func(t Tester) { Nil(t, nil) }},
		"nil error pointer":  {fn: func(t Tester) { var e *errors.Error; Nil(t, e) }},
		"not nil":            {fn: func(t Tester) { Nil(t, fmt.Errorf("x")) }, wantFail: true},
		"equal":              {fn: func(t Tester) { Equal(t, []int{1}, []int{1}) }},
		"not equal":          {fn: func(t Tester) { Equal(t, 1, int64(1)) }, wantFail: true},
		"panics":             {fn: func(t Tester) { Panics(t, func() { panic("x") }) }},
		"does not panic":     {fn: func(t Tester) { Panics(t, func() {}) }, wantFail: true},
		"error matches":      {fn: func(t Tester) { IsErr(t, errors.ErrInput, errors.Wrap(errors.ErrInput, "x")) }},
		"error mismatch":     {fn: func(t Tester) { IsErr(t, errors.ErrInput, errors.ErrEmpty) }, wantFail: true},
		"unexpected error":   {fn: func(t Tester) { IsErr(t, nil, errors.ErrEmpty) }, wantFail: true},
		"no error when none": {fn: func(t Tester) { IsErr(t, nil, nil) }},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var tt tester
			tc.fn(&tt)
			if tt.failed != tc.wantFail {
				t.Fatalf("want failure %v, got %v", tc.wantFail, tt.failed)
			}
		})
	}
}
