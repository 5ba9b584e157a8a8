package typekey

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Key is the 32-bit FNV-1a hash of a canonical type description.
type Key uint32

func (k Key) String() string {
	return fmt.Sprintf("%08x", uint32(k))
}

type entry struct {
	key  Key
	name string
	err  error
}

var cache sync.Map

var claims = newTable()

func Of[T any]() (Key, error) {
	e := lookup(typeOf[T]())
	return e.key, e.err
}

func Name[T any]() string {
	return lookup(typeOf[T]()).name
}

func OfType(t reflect.Type) (Key, error) {
	e := lookup(t)
	return e.key, e.err
}

// NameOf returns the canonical description that claimed k, if any type has.
func NameOf(k Key) (string, bool) {
	return claims.name(k)
}

func Hash(s string) Key {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return Key(h.Sum32())
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func lookup(t reflect.Type) *entry {
	if cached, ok := cache.Load(t); ok {
		return cached.(*entry)
	}

	name := Canonical(t)
	e := &entry{key: Hash(name), name: name}
	e.err = claims.claim(e.key, t, name)

	actual, _ := cache.LoadOrStore(t, e)
	return actual.(*entry)
}

// Canonical renders t with full package paths so that distinct types never
// share a description.
func Canonical(t reflect.Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeType(b *strings.Builder, t reflect.Type) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}

	if t.Name() != "" {
		if t.PkgPath() != "" {
			b.WriteString(t.PkgPath())
			b.WriteByte('.')
		}
		b.WriteString(t.Name())
		return
	}

	switch t.Kind() {
	case reflect.Ptr:
		b.WriteByte('*')
		writeType(b, t.Elem())
	case reflect.Slice:
		b.WriteString("[]")
		writeType(b, t.Elem())
	case reflect.Array:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.Len()))
		b.WriteByte(']')
		writeType(b, t.Elem())
	case reflect.Map:
		b.WriteString("map[")
		writeType(b, t.Key())
		b.WriteByte(']')
		writeType(b, t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			b.WriteString("<-chan ")
		case reflect.SendDir:
			b.WriteString("chan<- ")
		default:
			b.WriteString("chan ")
		}
		writeType(b, t.Elem())
	case reflect.Func:
		b.WriteString("func")
		writeSignature(b, t)
	case reflect.Struct:
		writeStruct(b, t)
	case reflect.Interface:
		writeInterface(b, t)
	default:
		b.WriteString(t.String())
	}
}

func writeSignature(b *strings.Builder, t reflect.Type) {
	b.WriteByte('(')
	for i := 0; i < t.NumIn(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if t.IsVariadic() && i == t.NumIn()-1 {
			b.WriteString("...")
			writeType(b, t.In(i).Elem())
			continue
		}
		writeType(b, t.In(i))
	}
	b.WriteByte(')')

	switch t.NumOut() {
	case 0:
	case 1:
		b.WriteByte(' ')
		writeType(b, t.Out(0))
	default:
		b.WriteString(" (")
		for i := 0; i < t.NumOut(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, t.Out(i))
		}
		b.WriteByte(')')
	}
}

func writeStruct(b *strings.Builder, t reflect.Type) {
	b.WriteString("struct {")
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte(' ')
		if f.PkgPath != "" {
			b.WriteString(f.PkgPath)
			b.WriteByte('.')
		}
		if !f.Anonymous {
			b.WriteString(f.Name)
			b.WriteByte(' ')
		}
		writeType(b, f.Type)
		if f.Tag != "" {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(string(f.Tag)))
		}
	}
	b.WriteString(" }")
}

func writeInterface(b *strings.Builder, t reflect.Type) {
	if t.NumMethod() == 0 {
		b.WriteString("interface {}")
		return
	}

	b.WriteString("interface {")
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte(' ')
		if m.PkgPath != "" {
			b.WriteString(m.PkgPath)
			b.WriteByte('.')
		}
		b.WriteString(m.Name)
		writeSignature(b, m.Type)
	}
	b.WriteString(" }")
}
