package benchmark

import (
	"io"
	"log/slog"

	"github.com/danpasecinic/cubby"
)

type Config struct {
	Host string
	Port int
}

type Logger struct {
	Level string
}

type Database struct {
	Config *Config
	Logger *Logger
}

type Cache struct {
	Logger *Logger
}

type Repository struct {
	DB    *Database
	Cache *Cache
}

type Service struct {
	Repo   *Repository
	Logger *Logger
}

// Resource is torn down by every framework: cubby calls Close, do calls
// Shutdown and fx runs an OnStop hook.
type Resource struct {
	ID     int
	closed bool
}

func (r *Resource) Close() error {
	r.closed = true
	return nil
}

func (r *Resource) Shutdown() error {
	return r.Close()
}

func quiet() cubby.Option {
	return cubby.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newChain() (*Config, *Logger, *Database, *Cache, *Repository, *Service) {
	cfg := &Config{Host: "localhost", Port: 8080}
	log := &Logger{Level: "info"}
	db := &Database{Config: cfg, Logger: log}
	cache := &Cache{Logger: log}
	repo := &Repository{DB: db, Cache: cache}
	svc := &Service{Repo: repo, Logger: log}
	return cfg, log, db, cache, repo, svc
}
