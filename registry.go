package cubby

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/danpasecinic/cubby/internal/store"
)

// Registry is the root container: a flat table of bindings with no parent.
// The zero value is not usable; call New.
type Registry struct {
	id     string
	table  *store.Table
	config *config
	logger *slog.Logger
}

func New(opts ...Option) *Registry {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return newRegistry(cfg)
}

func newRegistry(cfg *config) *Registry {
	id := uuid.NewString()

	logger := cfg.logger.With("container", id)
	if cfg.name != "" {
		logger = logger.With("name", cfg.name)
	}

	return &Registry{
		id:     id,
		table:  store.New(),
		config: cfg,
		logger: logger,
	}
}

func (r *Registry) ID() string {
	return r.id
}

func (r *Registry) Name() string {
	return r.config.name
}

func (r *Registry) BindPtr(key Key, handle any) {
	ev := r.table.Bind(key, handle)
	r.logger.Debug("binding stored", "key", key, "type", typeNameOf(key), "mode", ModeBorrowed)
	r.settle(ev)
	r.callBindHooks(key, ModeBorrowed)
}

func (r *Registry) InstallAny(key Key, holder Holder) {
	if holder == nil {
		r.BindPtr(key, nil)
		return
	}

	ev := r.table.Install(key, holder)
	r.logger.Debug("binding installed", "key", key, "type", typeNameOf(key), "mode", holder.Mode())
	r.settle(ev)
	r.callBindHooks(key, holder.Mode())
}

func (r *Registry) GetPtr(key Key) (any, bool) {
	handle, _, found := r.lookup(key)
	r.callLookupHooks(key, 0, found)
	return handle, found
}

func (r *Registry) lookup(key Key) (any, int, bool) {
	handle, found := r.table.Get(key)
	return handle, 0, found
}

func (r *Registry) Has(key Key) bool {
	return r.table.Has(key)
}

func (r *Registry) Mode(key Key) Mode {
	return r.table.Mode(key)
}

func (r *Registry) Keys() []Key {
	return r.table.Keys()
}

func (r *Registry) Size() int {
	return r.table.Size()
}

func (r *Registry) Depth() int {
	return 0
}

// Close releases everything the registry owns and leaves it empty. Exclusive
// objects implementing io.Closer are closed; shared participations are
// dropped. Borrowed handles are forgotten, never closed.
func (r *Registry) Close() error {
	var errs []error
	for _, ev := range r.table.Drain() {
		r.settle(&ev)
		if ev.Err != nil {
			errs = append(errs, ev.Err)
		}
	}

	r.logger.Debug("container closed", "failures", len(errs))

	if len(errs) > 0 {
		return errReleaseFailed(r.label(), errors.Join(errs...))
	}
	return nil
}

func (r *Registry) settle(ev *store.Eviction) {
	if ev == nil {
		return
	}

	if ev.Forfeited {
		r.logger.Debug("ownership forfeited", "key", ev.Key, "type", typeNameOf(ev.Key), "mode", ev.Mode)
		return
	}

	if ev.Err != nil {
		r.logger.Warn(
			"release failed", "key", ev.Key, "type", typeNameOf(ev.Key), "mode", ev.Mode, "error", ev.Err,
		)
	} else {
		r.logger.Debug("ownership released", "key", ev.Key, "type", typeNameOf(ev.Key), "mode", ev.Mode)
	}

	for _, hook := range r.config.onRelease {
		hook(ev.Key, ev.Mode, ev.Err)
	}
}

func (r *Registry) label() string {
	if r.config.name != "" {
		return r.config.name
	}
	return r.id
}

func (r *Registry) settings() *config {
	return r.config
}

func (r *Registry) callBindHooks(key Key, mode Mode) {
	for _, hook := range r.config.onBind {
		hook(key, mode)
	}
}

func (r *Registry) callLookupHooks(key Key, depth int, found bool) {
	for _, hook := range r.config.onLookup {
		hook(key, depth, found)
	}
}
