package cubby

import (
	"github.com/danpasecinic/cubby/internal/ownership"
)

// Bind registers v under T without taking ownership. The caller keeps
// responsibility for v's lifetime: if v is closed elsewhere while still bound,
// lookups return the closed object.
func Bind[T any](c Container, v T) {
	c.BindPtr(KeyOf[T](), v)
}

// Install transfers sole ownership of v to c. When the binding is overwritten
// or c is closed, v is closed if it implements io.Closer. The caller must not
// close v itself afterwards.
func Install[T any](c Container, v T) {
	c.InstallAny(KeyOf[T](), ownership.NewExclusive(v))
}

// InstallShared adds c as one more owner of s. The caller's share is
// unaffected and s stays usable after c is closed as long as other shares
// remain. A nil s binds a borrowed nil handle.
func InstallShared[T any](c Container, s *Shared[T]) {
	if s == nil {
		c.BindPtr(KeyOf[T](), nil)
		return
	}
	c.InstallAny(KeyOf[T](), ownership.NewShared(s.value, s.count))
}

// InstallValue copies v into a container-owned box and installs it
// exclusively under T. Get returns copies of the boxed value; GetRef returns
// the box itself.
func InstallValue[T any](c Container, v T) {
	holder, _ := ownership.NewBox(v)
	c.InstallAny(KeyOf[T](), holder)
}
