package cubby

import (
	"github.com/danpasecinic/cubby/internal/ownership"
	"github.com/danpasecinic/cubby/internal/typekey"
)

// Key identifies a lookup type. See KeyOf.
type Key = typekey.Key

// Holder is a type-erased owning box stored alongside a binding.
type Holder = ownership.Holder

// Mode is how a container holds a binding: borrowed, exclusive or shared.
type Mode = ownership.Mode

const (
	ModeNone      = ownership.None
	ModeBorrowed  = ownership.Borrowed
	ModeExclusive = ownership.Exclusive
	ModeShared    = ownership.Shared
)

// Container is the operation set shared by the root Registry and every Scope.
// The typed helpers (Bind, Install, Get, ...) are built on these three
// primitives only, so any implementation works with them.
type Container interface {
	// BindPtr stores a borrowed handle under key and drops any ownership the
	// container held for that key.
	BindPtr(key Key, handle any)
	// InstallAny binds holder.Handle() under key and takes holder's ownership.
	InstallAny(key Key, holder Holder)
	// GetPtr returns the handle visible under key.
	GetPtr(key Key) (any, bool)
}

// Inspector reports how a container holds the binding for key locally.
type Inspector interface {
	Mode(key Key) Mode
}

// KeyOf returns the lookup key for T. It panics with an ErrCodeKeyCollision
// error if another type in the process already claimed the same key.
func KeyOf[T any]() Key {
	key, err := typekey.Of[T]()
	if err != nil {
		panic(errKeyCollision(typekey.Name[T](), err))
	}
	return key
}

// TypeName returns the package-qualified description T's key is derived from.
func TypeName[T any]() string {
	return typekey.Name[T]()
}

func typeNameOf(key Key) string {
	if name, ok := typekey.NameOf(key); ok {
		return name
	}
	return "<unknown>"
}
