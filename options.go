package cubby

import "log/slog"

type Option func(*config)

type config struct {
	logger    *slog.Logger
	name      string
	onBind    []BindHook
	onLookup  []LookupHook
	onRelease []ReleaseHook
}

func defaultConfig() *config {
	return &config{
		logger: slog.Default(),
	}
}

// inherit copies the settings a scope takes over from its parent. Names are
// not inherited.
func (c *config) inherit() *config {
	return &config{
		logger:    c.logger,
		onBind:    append([]BindHook(nil), c.onBind...),
		onLookup:  append([]LookupHook(nil), c.onLookup...),
		onRelease: append([]ReleaseHook(nil), c.onRelease...),
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = name
	}
}

func WithBindObserver(hook BindHook) Option {
	return func(cfg *config) {
		cfg.onBind = append(cfg.onBind, hook)
	}
}

func WithLookupObserver(hook LookupHook) Option {
	return func(cfg *config) {
		cfg.onLookup = append(cfg.onLookup, hook)
	}
}

func WithReleaseObserver(hook ReleaseHook) Option {
	return func(cfg *config) {
		cfg.onRelease = append(cfg.onRelease, hook)
	}
}
