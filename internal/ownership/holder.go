package ownership

import (
	"io"
	"reflect"
)

// Holder is a type-erased owning box. Release gives up the container's claim
// on the object; it is called at most once by the table that stores it.
type Holder interface {
	Handle() any
	Mode() Mode
	Release() error
}

type exclusive struct {
	handle   any
	value    any
	released bool
}

// NewExclusive takes sole ownership of handle. Releasing it closes handle when
// it implements io.Closer.
func NewExclusive(handle any) Holder {
	return &exclusive{handle: handle, value: handle}
}

// NewBox copies v into a freshly allocated *T owned exclusively by the holder.
// Releasing it closes the box, so a Close on either *T or T is honored.
func NewBox[T any](v T) (Holder, *T) {
	box := new(T)
	*box = v
	return &exclusive{handle: box, value: box}, box
}

func (h *exclusive) Handle() any {
	return h.handle
}

func (h *exclusive) Mode() Mode {
	return Exclusive
}

func (h *exclusive) Release() error {
	if h.released {
		return nil
	}
	h.released = true
	return Close(h.value)
}

type shared struct {
	handle   any
	count    *RefCount
	released bool
}

// NewShared joins the shared ownership tracked by count. The caller's own
// participation is untouched.
func NewShared(handle any, count *RefCount) Holder {
	count.Retain()
	return &shared{handle: handle, count: count}
}

func (h *shared) Handle() any {
	return h.handle
}

func (h *shared) Mode() Mode {
	return Shared
}

func (h *shared) Release() error {
	if h.released {
		return nil
	}
	h.released = true
	return h.count.Release()
}

func Close(v any) error {
	c, ok := v.(io.Closer)
	if !ok || isNil(v) {
		return nil
	}
	return c.Close()
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// SameObject reports whether a and b are the same reference-shaped handle.
// Plain values are copies and never count as the same object.
func SameObject(a, b any) bool {
	if a == nil || b == nil {
		return false
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}

	switch ta.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.UnsafePointer:
		return a == b
	default:
		return false
	}
}
