// Package cubby provides a type-indexed object registry with nested scopes.
//
// Components register implementations under an interface or value type and
// other components retrieve them by type alone. Neither side needs to know a
// concrete type name ahead of time, and there is no constructor wiring: a
// registry is a flat table from type to value.
//
// # Quick Start
//
//	r := cubby.New()
//	defer r.Close()
//
//	cubby.Install[Logger](r, NewConsoleLogger())
//
//	log := cubby.MustGet[Logger](r)
//	log.Printf("hello")
//
// # Ownership
//
// Each binding is held in one of three modes:
//
//	cubby.Bind[T](c, v)              // borrowed: the caller manages v's lifetime
//	cubby.Install[T](c, v)           // exclusive: c closes v when done with it
//	cubby.InstallShared[T](c, s)     // shared: c holds one share of s
//	cubby.InstallValue[T](c, v)      // exclusive copy of v in a fresh box
//
// "Closing" means calling Close on values that implement io.Closer. An
// exclusive binding is closed when it is overwritten or its container is
// closed. Rebinding the very same object with Bind hands ownership back to the
// caller without closing it.
//
// Shared values are reference counted:
//
//	db := cubby.NewShared[Database](openDB())
//	cubby.InstallShared(r, db)
//	r.Close()            // drops the registry's share
//	db.Value().Query()   // still usable: the creator's share remains
//	db.Release()         // last share: db is closed
//
// A later write for the same type always replaces the earlier one.
//
// # Retrieval
//
//	log, ok := cubby.Get[Logger](c)          // handle or absent
//	port := cubby.GetValue[int](c)            // value or zero
//	log, err := cubby.Resolve[Logger](c)      // absent as ErrCodeNotFound
//	log := cubby.MustGet[Logger](c)           // panics on a miss
//	cache := cubby.GetOptional[*Cache](c).OrElse(noCache)
//
// A missing binding is expected and is never reported as an error by Get,
// GetValue, Has or GetOptional.
//
// # Scopes
//
// A Scope overrides or extends its parent for a nested lifetime:
//
//	root := cubby.New()
//	cubby.InstallValue[float32](root, 1)
//
//	s1 := cubby.NewScope(root)
//	cubby.InstallValue[float32](s1, 2)
//
//	s2 := cubby.NewScope(s1)
//	cubby.GetValue[float32](s2)   // 2, found one level up
//
//	s1.Close()
//	cubby.GetValue[float32](root) // 1
//
// Writes always land in the scope itself. Reads check the scope first and then
// walk outward. A scope never changes its parent, and closing a scope never
// affects any binding outside it. Parents must outlive their scopes.
//
// Registry and Scope both implement Container, so code that consumes bindings
// does not need to know which one it has.
//
// # Type Keys
//
// Keys are the 32-bit FNV-1a hash of a canonical, package-qualified type
// description. The first type to use a key claims it for the life of the
// process. If a different type later hashes to the same key, KeyOf and every
// typed helper panic with an ErrCodeKeyCollision error. Bindings for two types
// are never silently aliased.
//
// # Observability
//
//	r := cubby.New(
//	    cubby.WithLogger(logger),
//	    cubby.WithName("app"),
//	    cubby.WithBindObserver(func(key cubby.Key, mode cubby.Mode) { ... }),
//	    cubby.WithLookupObserver(func(key cubby.Key, depth int, found bool) { ... }),
//	    cubby.WithReleaseObserver(func(key cubby.Key, mode cubby.Mode, err error) { ... }),
//	)
//
// Scopes inherit the logger and observers of their parent.
//
//	r.PrintBindings()    // binding table
//	scope.PrintChain()   // scope and all ancestors
//
// # Concurrency
//
// Containers are meant to be used from a single goroutine, or behind the
// caller's own synchronization. Shared reference counts are atomic and type
// keys may be derived from any goroutine.
package cubby
