// Package testutil is a small assertion helper for tests.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type Option func(*I)

// I wraps a *testing.T. Failed assertions are reported with t.Errorf, or
// t.Fatalf when FailFast is set.
type I struct {
	t        *testing.T
	failfast bool
}

func New(t *testing.T, opts ...Option) *I {
	is := &I{t: t}
	for _, opt := range opts {
		opt(is)
	}
	return is
}

func Parallel(is *I) { is.t.Parallel() }

func FailFast(is *I) { is.failfast = true }

func (is *I) fail(format string, args ...interface{}) {
	is.t.Helper()
	if is.failfast {
		is.t.Fatalf(format, args...)
	} else {
		is.t.Errorf(format, args...)
	}
}

func (is *I) NoErr(err error) {
	is.t.Helper()
	if err != nil {
		is.fail("unexpected error: %v", err)
	}
}

func (is *I) Equal(want, got interface{}, opts ...cmp.Option) {
	is.t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		is.fail("mismatch (-want +got):\n%s", diff)
	}
}

func (is *I) True(cond bool) {
	is.t.Helper()
	if !cond {
		is.fail("expected true, got false")
	}
}
