package cubby_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/danpasecinic/cubby"
)

type Logger interface {
	Log(msg string)
	Count() int
}

type consoleLogger struct {
	id     int
	lines  int
	closed int
}

func (l *consoleLogger) Log(string) {
	l.lines++
}

func (l *consoleLogger) Count() int {
	return l.lines
}

func (l *consoleLogger) Close() error {
	l.closed++
	return nil
}

type Config struct {
	Port int
	Host string
}

type Database struct {
	Name   string
	closed bool
}

func (d *Database) Close() error {
	if d.closed {
		return errors.New("already closed")
	}
	d.closed = true
	return nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	if r == nil {
		t.Fatal("New() returned nil")
	}
	if r.ID() == "" {
		t.Error("registry should have an ID")
	}
	if r.Size() != 0 {
		t.Errorf("expected empty registry, got %d bindings", r.Size())
	}
}

func TestNewWithLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	r := cubby.New(cubby.WithLogger(logger), cubby.WithName("app"))
	if r.Name() != "app" {
		t.Errorf("expected name app, got %q", r.Name())
	}
}

func TestBindAndGet(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	cfg := &Config{Port: 8080, Host: "localhost"}

	cubby.Bind(r, cfg)

	got, ok := cubby.Get[*Config](r)
	if !ok {
		t.Fatal("expected binding to be found")
	}
	if got != cfg {
		t.Error("expected the bound instance")
	}
	if cubby.ModeOf[*Config](r) != cubby.ModeBorrowed {
		t.Errorf("expected borrowed, got %s", cubby.ModeOf[*Config](r))
	}
}

func TestBindByValue(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	cubby.Bind(r, 10)
	cubby.Bind[float32](r, 1.2)

	if got := cubby.GetValue[int](r); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
	if got := cubby.GetValue[float32](r); got != 1.2 {
		t.Errorf("expected 1.2, got %v", got)
	}
}

func TestLastWriterWins(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	first := &Config{Port: 1}
	second := &Config{Port: 2}

	cubby.Bind(r, first)
	cubby.Bind(r, second)

	if got := cubby.MustGet[*Config](r); got != second {
		t.Errorf("expected second binding, got port %d", got.Port)
	}
	if r.Size() != 1 {
		t.Errorf("expected one binding, got %d", r.Size())
	}
}

func TestInstallExclusive_RebindReleases(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	owned := &consoleLogger{id: 1}
	borrowed := &consoleLogger{id: 2}

	cubby.Install[Logger](r, owned)
	if cubby.ModeOf[Logger](r) != cubby.ModeExclusive {
		t.Fatalf("expected exclusive ownership, got %s", cubby.ModeOf[Logger](r))
	}

	cubby.Bind[Logger](r, borrowed)

	if owned.closed != 1 {
		t.Errorf("displaced exclusive object should be released, closed=%d", owned.closed)
	}
	if got := cubby.MustGet[Logger](r); got != borrowed {
		t.Error("expected the new borrowed reference")
	}
	if cubby.ModeOf[Logger](r) != cubby.ModeBorrowed {
		t.Errorf("expected borrowed, got %s", cubby.ModeOf[Logger](r))
	}

	_ = r.Close()
	if borrowed.closed != 0 {
		t.Error("borrowed reference must never be closed by the registry")
	}
}

func TestInstallExclusive_RebindSameObject(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	logger := &consoleLogger{id: 1}

	cubby.Install[Logger](r, logger)
	cubby.Bind[Logger](r, logger)

	if logger.closed != 0 {
		t.Error("rebinding the owned object should hand it back without closing")
	}
	if cubby.ModeOf[Logger](r) != cubby.ModeBorrowed {
		t.Errorf("expected borrowed, got %s", cubby.ModeOf[Logger](r))
	}

	_ = r.Close()
	if logger.closed != 0 {
		t.Error("registry no longer owns the object")
	}
}

func TestInstallExclusive_MethodCallThroughHandle(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	cubby.Install[Logger](r, &consoleLogger{id: 4})

	log := cubby.MustGet[Logger](r)
	log.Log("Hello Container!")
	log.Log("again")

	if got := cubby.MustGet[Logger](r).Count(); got != 2 {
		t.Errorf("expected 2 lines through the container handle, got %d", got)
	}
}

func TestInstallExclusive_CloseReleases(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	db := &Database{Name: "main"}

	cubby.Install(r, db)

	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !db.closed {
		t.Error("exclusively owned object should be closed with the registry")
	}
	if cubby.Has[*Database](r) {
		t.Error("closed registry should be empty")
	}
}

func TestInstallExclusive_OverwriteReleases(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	first := &Database{Name: "first"}
	second := &Database{Name: "second"}

	cubby.Install(r, first)
	cubby.Install(r, second)

	if !first.closed {
		t.Error("overwritten exclusive object should be closed")
	}
	if second.closed {
		t.Error("current object should stay open")
	}
}

func TestInstallShared_OutlivesContainer(t *testing.T) {
	t.Parallel()

	shared := cubby.NewShared[Logger](&consoleLogger{id: 2})
	r := cubby.New()

	cubby.InstallShared(r, shared)

	if shared.Refs() != 2 {
		t.Fatalf("expected 2 refs, got %d", shared.Refs())
	}
	if cubby.ModeOf[Logger](r) != cubby.ModeShared {
		t.Errorf("expected shared, got %s", cubby.ModeOf[Logger](r))
	}
	if cubby.MustGet[Logger](r) != shared.Value() {
		t.Error("expected the shared value")
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !shared.Alive() || shared.Refs() != 1 {
		t.Fatalf("external share should remain, refs=%d", shared.Refs())
	}

	shared.Value().Log("still usable")
	if shared.Value().Count() != 1 {
		t.Error("shared object should be usable after the registry is closed")
	}

	logger := shared.Value().(*consoleLogger)
	if logger.closed != 0 {
		t.Error("shared object must not be closed while shares remain")
	}

	_ = shared.Release()
	if logger.closed != 1 {
		t.Errorf("last release should close the object, closed=%d", logger.closed)
	}
}

func TestInstallShared_AcrossContainers(t *testing.T) {
	t.Parallel()

	db := &Database{Name: "pool"}
	shared := cubby.NewShared(db)

	r1 := cubby.New()
	r2 := cubby.New()
	cubby.InstallShared(r1, shared)
	cubby.InstallShared(r2, shared)
	_ = shared.Release()

	if shared.Refs() != 2 {
		t.Fatalf("expected 2 container shares, got %d", shared.Refs())
	}

	_ = r1.Close()
	if db.closed {
		t.Error("db must survive while r2 holds a share")
	}

	_ = r2.Close()
	if !db.closed {
		t.Error("db should be closed after the last share is released")
	}
}

func TestInstallShared_OverwriteDropsShare(t *testing.T) {
	t.Parallel()

	shared := cubby.NewShared(&Database{Name: "a"})
	r := cubby.New()

	cubby.InstallShared(r, shared)
	cubby.Bind(r, &Database{Name: "b"})

	if shared.Refs() != 1 {
		t.Errorf("rebinding should drop the registry's share, refs=%d", shared.Refs())
	}
}

func TestInstallValue(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	cfg := Config{Port: 9000}

	cubby.InstallValue(r, cfg)
	cfg.Port = 1

	if got := cubby.GetValue[Config](r); got.Port != 9000 {
		t.Errorf("installed value should be a copy, got port %d", got.Port)
	}
	if cubby.ModeOf[Config](r) != cubby.ModeExclusive {
		t.Errorf("expected exclusive, got %s", cubby.ModeOf[Config](r))
	}

	box, ok := cubby.GetRef[Config](r)
	if !ok {
		t.Fatal("expected a container-owned box")
	}
	box.Port = 9100

	if got := cubby.GetValue[Config](r); got.Port != 9100 {
		t.Errorf("mutation through the box should be visible, got port %d", got.Port)
	}
}

func TestGetRef_NotBoxed(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	cubby.Bind(r, 3)

	if _, ok := cubby.GetRef[int](r); ok {
		t.Error("plain bindings have no box")
	}
	if _, ok := cubby.GetRef[string](r); ok {
		t.Error("missing bindings have no box")
	}
}

func TestSoftMiss(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	s := cubby.NewScope(cubby.NewScope(r))

	for _, c := range []cubby.Container{r, s} {
		if _, ok := cubby.Get[*Database](c); ok {
			t.Error("Get should report absent")
		}
		if got := cubby.GetValue[Config](c); got != (Config{}) {
			t.Errorf("GetValue should return zero value, got %+v", got)
		}
		if got := cubby.GetValue[Logger](c); got != nil {
			t.Error("GetValue of an interface should return nil")
		}
		if cubby.Has[*Database](c) {
			t.Error("Has should report false")
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()

	r := cubby.New()

	_, err := cubby.Resolve[*Database](r)
	if err == nil {
		t.Fatal("expected error")
	}
	if !cubby.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestResolve_TypeMismatch(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	r.BindPtr(cubby.KeyOf[*Config](), "not a config")

	_, err := cubby.Resolve[*Config](r)
	if !cubby.IsTypeMismatch(err) {
		t.Errorf("expected type mismatch, got %v", err)
	}
	if _, ok := cubby.Get[*Config](r); ok {
		t.Error("Get must never hand out a mistyped handle")
	}
}

func TestMustGetPanics(t *testing.T) {
	t.Parallel()

	r := cubby.New()

	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic")
		}
		err, ok := rec.(error)
		if !ok || !cubby.IsNotFound(err) {
			t.Errorf("expected not found panic, got %v", rec)
		}
	}()

	_ = cubby.MustGet[*Database](r)
}

func TestGetOptional(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	fallback := &Config{Port: 1}

	opt := cubby.GetOptional[*Config](r)
	if opt.Present() {
		t.Error("expected empty optional")
	}
	if opt.OrElse(fallback) != fallback {
		t.Error("OrElse should return the fallback")
	}

	cfg := &Config{Port: 2}
	cubby.Bind(r, cfg)

	opt = cubby.GetOptional[*Config](r)
	if v, ok := opt.Get(); !ok || v != cfg {
		t.Error("expected present optional with bound value")
	}
	if opt.OrElseFunc(func() *Config { return fallback }) != cfg {
		t.Error("OrElseFunc should return the bound value")
	}
}

func TestBindNilInterface(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	cubby.Bind[Logger](r, nil)

	log, ok := cubby.Get[Logger](r)
	if !ok {
		t.Fatal("a nil binding is still a binding")
	}
	if log != nil {
		t.Error("expected nil handle")
	}
}

func TestKeyOf(t *testing.T) {
	t.Parallel()

	if cubby.KeyOf[Logger]() != cubby.KeyOf[Logger]() {
		t.Error("KeyOf should be deterministic")
	}
	if cubby.KeyOf[Logger]() == cubby.KeyOf[*consoleLogger]() {
		t.Error("interface and implementation must have distinct keys")
	}
	if cubby.TypeName[Logger]() != "github.com/danpasecinic/cubby_test.Logger" {
		t.Errorf("unexpected type name %q", cubby.TypeName[Logger]())
	}
}

func TestClose_ReleaseFailure(t *testing.T) {
	t.Parallel()

	r := cubby.New(cubby.WithName("jobs"))
	db := &Database{Name: "main", closed: true}

	cubby.Install(r, db)

	err := r.Close()
	if !cubby.IsReleaseFailed(err) {
		t.Fatalf("expected release failure, got %v", err)
	}

	var cerr *cubby.Error
	if !errors.As(err, &cerr) || cerr.Subject != "jobs" {
		t.Errorf("expected subject jobs, got %v", err)
	}
	if r.Size() != 0 {
		t.Error("registry should be empty even when a release fails")
	}
}

type pooledConn struct {
	closes *int
}

func (c *pooledConn) Close() error {
	*c.closes++
	return nil
}

func TestInstallValue_ClosesBox(t *testing.T) {
	t.Parallel()

	var closes int
	r := cubby.New()
	cubby.InstallValue(r, pooledConn{closes: &closes})

	if err := r.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closes != 1 {
		t.Errorf("expected the boxed value to be closed once, got %d", closes)
	}
}

func TestInstallValue_OverwriteClosesBox(t *testing.T) {
	t.Parallel()

	var first, second int
	r := cubby.New()
	cubby.InstallValue(r, pooledConn{closes: &first})
	cubby.InstallValue(r, pooledConn{closes: &second})

	if first != 1 {
		t.Errorf("overwritten box should be closed, got %d", first)
	}
	if second != 0 {
		t.Errorf("current box should stay open, got %d", second)
	}
	_ = r.Close()
}

func TestInstallShared_Nil(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	cubby.InstallShared[*Database](r, nil)

	db, ok := cubby.Get[*Database](r)
	if !ok || db != nil {
		t.Errorf("expected a nil binding, got %v, %v", db, ok)
	}
	if mode := cubby.ModeOf[*Database](r); mode != cubby.ModeBorrowed {
		t.Errorf("expected borrowed, got %s", mode)
	}
}

func bindLocalSettingsA(c cubby.Container) {
	type settings struct{ Verbose bool }
	cubby.Bind(c, settings{Verbose: true})
}

func bindLocalSettingsB(c cubby.Container) {
	type settings struct{ Verbose bool }
	cubby.Bind(c, settings{Verbose: false})
}

func TestBind_LocalTypesSameNameCollide(t *testing.T) {
	t.Parallel()

	r := cubby.New()
	bindLocalSettingsA(r)

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !cubby.IsKeyCollision(err) {
			t.Errorf("expected a key collision panic, got %v", rec)
		}
		if r.Size() != 1 {
			t.Errorf("the first binding must survive, size=%d", r.Size())
		}
	}()

	bindLocalSettingsB(r)
	t.Error("binding a distinct type under a claimed key should panic")
}
