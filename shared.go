package cubby

import (
	"github.com/danpasecinic/cubby/internal/ownership"
)

// Shared is a reference-counted owner of a value. The creator holds the first
// share; every container it is installed into holds one more. The value is
// closed, if it implements io.Closer, when the last share is released.
type Shared[T any] struct {
	value T
	count *ownership.RefCount
}

func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{
		value: v,
		count: ownership.NewRefCount(
			func() error {
				return ownership.Close(v)
			},
		),
	}
}

func (s *Shared[T]) Value() T {
	return s.value
}

func (s *Shared[T]) Retain() *Shared[T] {
	s.count.Retain()
	return s
}

// Release gives up one share. Releasing more shares than were taken is a no-op.
func (s *Shared[T]) Release() error {
	return s.count.Release()
}

func (s *Shared[T]) Refs() int {
	return int(s.count.Refs())
}

func (s *Shared[T]) Alive() bool {
	return s.count.Refs() > 0
}
