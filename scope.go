package cubby

// Scope is a container nested inside another. Writes land in the scope's own
// registry; reads fall back to the parent chain on a local miss.
//
// A Scope keeps a plain reference to its parent and does not extend its
// lifetime: the parent must stay open for as long as the scope is used.
type Scope struct {
	parent Container
	local  *Registry
	depth  int
}

type chainLookup interface {
	lookup(key Key) (any, int, bool)
}

type configSource interface {
	settings() *config
}

type depthAware interface {
	Depth() int
}

// NewScope opens a scope over parent. Logger and observers are inherited when
// parent is a Registry or Scope; opts override them. A nil parent yields a
// scope that resolves locally only.
func NewScope(parent Container, opts ...Option) *Scope {
	cfg := defaultConfig()
	if src, ok := parent.(configSource); ok {
		cfg = src.settings().inherit()
	}
	for _, opt := range opts {
		opt(cfg)
	}

	depth := 1
	if d, ok := parent.(depthAware); ok {
		depth = d.Depth() + 1
	}

	s := &Scope{
		parent: parent,
		local:  newRegistry(cfg),
		depth:  depth,
	}
	s.local.logger.Debug("scope opened", "depth", depth)
	return s
}

func (s *Scope) ID() string {
	return s.local.ID()
}

func (s *Scope) Name() string {
	return s.local.Name()
}

func (s *Scope) Parent() Container {
	return s.parent
}

func (s *Scope) Depth() int {
	return s.depth
}

// Local exposes the scope's own registry, without the parent fallback.
func (s *Scope) Local() *Registry {
	return s.local
}

func (s *Scope) BindPtr(key Key, handle any) {
	s.local.BindPtr(key, handle)
}

func (s *Scope) InstallAny(key Key, holder Holder) {
	s.local.InstallAny(key, holder)
}

func (s *Scope) GetPtr(key Key) (any, bool) {
	handle, depth, found := s.lookup(key)
	s.local.callLookupHooks(key, depth, found)
	return handle, found
}

func (s *Scope) lookup(key Key) (any, int, bool) {
	if handle, found := s.local.table.Get(key); found {
		return handle, 0, true
	}

	switch parent := s.parent.(type) {
	case nil:
		return nil, 0, false
	case chainLookup:
		handle, depth, found := parent.lookup(key)
		return handle, depth + 1, found
	default:
		handle, found := parent.GetPtr(key)
		return handle, 1, found
	}
}

// Mode reports the local ownership mode only; inherited bindings are ModeNone.
func (s *Scope) Mode(key Key) Mode {
	return s.local.Mode(key)
}

func (s *Scope) Has(key Key) bool {
	_, _, found := s.lookup(key)
	return found
}

func (s *Scope) Keys() []Key {
	return s.local.Keys()
}

func (s *Scope) Size() int {
	return s.local.Size()
}

// Close releases what the scope owns. The parent is never affected.
func (s *Scope) Close() error {
	return s.local.Close()
}

func (s *Scope) settings() *config {
	return s.local.config
}
