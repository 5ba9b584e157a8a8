package cubby

type BindHook func(key Key, mode Mode)

// LookupHook observes lookups made through a container. depth is the number of
// scopes walked outward before the binding was found.
type LookupHook func(key Key, depth int, found bool)

type ReleaseHook func(key Key, mode Mode, err error)
