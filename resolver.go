package cubby

import (
	"github.com/danpasecinic/cubby/internal/typekey"
)

// Get returns the handle bound under T, searching outward through scopes.
// A miss is reported by the boolean, never as an error.
func Get[T any](c Container) (T, bool) {
	v, err := Resolve[T](c)
	return v, err == nil
}

// GetValue returns the value bound under T or T's zero value on a miss.
func GetValue[T any](c Container) T {
	v, _ := Resolve[T](c)
	return v
}

// GetRef returns the container-owned box created by InstallValue.
func GetRef[T any](c Container) (*T, bool) {
	handle, found := c.GetPtr(KeyOf[T]())
	if !found {
		return nil, false
	}
	box, ok := handle.(*T)
	if !ok || box == nil {
		return nil, false
	}
	return box, true
}

// Resolve is Get with a reason: ErrCodeNotFound on a miss, ErrCodeTypeMismatch
// when the raw handle stored under T's key is not a T.
func Resolve[T any](c Container) (T, error) {
	var zero T

	handle, found := c.GetPtr(KeyOf[T]())
	if !found {
		return zero, errNotFound(typekey.Name[T]())
	}
	return restore[T](handle)
}

func restore[T any](handle any) (T, error) {
	var zero T

	switch h := handle.(type) {
	case nil:
		return zero, nil
	case *T:
		if h != nil {
			return *h, nil
		}
	case T:
		return h, nil
	}
	return zero, errTypeMismatch(typekey.Name[T](), handle)
}

func MustGet[T any](c Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

func Has[T any](c Container) bool {
	_, found := c.GetPtr(KeyOf[T]())
	return found
}

// ModeOf reports how c itself holds T. Bindings inherited from a parent scope
// report ModeNone.
func ModeOf[T any](c Inspector) Mode {
	return c.Mode(KeyOf[T]())
}

type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func GetOptional[T any](c Container) Optional[T] {
	v, found := Get[T](c)
	if !found {
		return None[T]()
	}
	return Some(v)
}
