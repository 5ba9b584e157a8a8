// Package scopehttp gives every HTTP request its own cubby scope.
//
// The middleware opens a Scope over a parent container, binds the request
// into it, runs any setup functions and makes the scope available through the
// request context. The scope is closed once the handler returns, releasing
// whatever was installed for that request.
//
//	root := cubby.New()
//	cubby.Install[Store](root, openStore())
//
//	r := chi.NewRouter()
//	r.Use(scopehttp.Middleware(root))
//	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
//	    store, _ := scopehttp.Get[Store](r)
//	    ...
//	})
//
// Middleware stacked on a sub-router nests: when the request already carries
// a scope, the new scope is opened inside it instead of over the configured
// parent.
package scopehttp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danpasecinic/cubby"
)

type contextKey struct{}

type Option func(*options)

type options struct {
	setup     []func(r *http.Request, s *cubby.Scope)
	scopeOpts []cubby.Option
	logger    *slog.Logger
}

// WithSetup runs fn on every new request scope before the handler.
func WithSetup(fn func(r *http.Request, s *cubby.Scope)) Option {
	return func(o *options) {
		o.setup = append(o.setup, fn)
	}
}

func WithScopeOptions(opts ...cubby.Option) Option {
	return func(o *options) {
		o.scopeOpts = append(o.scopeOpts, opts...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func Middleware(parent cubby.Container, opts ...Option) func(http.Handler) http.Handler {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				outer := parent
				if c, ok := FromContext(r.Context()); ok {
					outer = c
				}

				s := cubby.NewScope(outer, o.scopeOpts...)
				defer func() {
					if err := s.Close(); err != nil {
						o.logger.Warn(
							"request scope release failed",
							"method", r.Method, "path", r.URL.Path, "error", err,
						)
					}
				}()

				req := r.WithContext(WithContainer(r.Context(), s))
				cubby.Bind(s, req)
				for _, fn := range o.setup {
					fn(req, s)
				}

				next.ServeHTTP(w, req)
			},
		)
	}
}

func WithContainer(ctx context.Context, c cubby.Container) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func FromContext(ctx context.Context) (cubby.Container, bool) {
	c, ok := ctx.Value(contextKey{}).(cubby.Container)
	return c, ok && c != nil
}

// Get looks T up in the request's scope chain.
func Get[T any](r *http.Request) (T, bool) {
	c, ok := FromContext(r.Context())
	if !ok {
		var zero T
		return zero, false
	}
	return cubby.Get[T](c)
}
