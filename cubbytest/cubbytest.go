package cubbytest

import (
	"github.com/danpasecinic/cubby"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// New returns a registry that is closed when the test ends. A failed release
// fails the test.
func New(tb TB, opts ...cubby.Option) *cubby.Registry {
	tb.Helper()

	r := cubby.New(opts...)
	tb.Cleanup(
		func() {
			if err := r.Close(); err != nil {
				tb.Fatalf("failed to close registry: %v", err)
			}
		},
	)
	return r
}

// NewScope opens a scope over parent that is closed when the test ends.
// Cleanups run in reverse, so scopes close before their parents.
func NewScope(tb TB, parent cubby.Container, opts ...cubby.Option) *cubby.Scope {
	tb.Helper()

	s := cubby.NewScope(parent, opts...)
	tb.Cleanup(
		func() {
			if err := s.Close(); err != nil {
				tb.Fatalf("failed to close scope: %v", err)
			}
		},
	)
	return s
}

// Override opens a scope over parent in which T resolves to v. The parent is
// left untouched, which makes it the usual way to swap in a test double.
func Override[T any](tb TB, parent cubby.Container, v T) *cubby.Scope {
	tb.Helper()

	s := NewScope(tb, parent)
	cubby.Bind(s, v)
	return s
}

func MustGet[T any](tb TB, c cubby.Container) T {
	tb.Helper()

	v, err := cubby.Resolve[T](c)
	if err != nil {
		tb.Fatalf("failed to get %s: %v", cubby.TypeName[T](), err)
	}
	return v
}

func AssertHas[T any](tb TB, c cubby.Container) {
	tb.Helper()

	if !cubby.Has[T](c) {
		tb.Fatalf("expected container to have %s", cubby.TypeName[T]())
	}
}

func AssertNotHas[T any](tb TB, c cubby.Container) {
	tb.Helper()

	if cubby.Has[T](c) {
		tb.Fatalf("expected container to not have %s", cubby.TypeName[T]())
	}
}

func AssertValue[T comparable](tb TB, c cubby.Container, want T) {
	tb.Helper()

	got := MustGet[T](tb, c)
	if got != want {
		tb.Fatalf("expected %s to be %v, got %v", cubby.TypeName[T](), want, got)
	}
}

func AssertMode[T any](tb TB, c cubby.Inspector, want cubby.Mode) {
	tb.Helper()

	if got := cubby.ModeOf[T](c); got != want {
		tb.Fatalf("expected %s to be held as %s, got %s", cubby.TypeName[T](), want, got)
	}
}
