package cubby

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type BindingInfo struct {
	Key  Key
	Type string
	Mode Mode
}

func (r *Registry) Bindings() []BindingInfo {
	entries := r.table.Entries()
	infos := make([]BindingInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(
			infos, BindingInfo{
				Key:  e.Key,
				Type: typeNameOf(e.Key),
				Mode: e.Mode,
			},
		)
	}
	return infos
}

func (s *Scope) Bindings() []BindingInfo {
	return s.local.Bindings()
}

func (r *Registry) PrintBindings() {
	r.FprintBindings(os.Stdout)
}

func (r *Registry) FprintBindings(w io.Writer) {
	infos := r.Bindings()

	if len(infos) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%s %s %s (%s)\n", modeSymbol(info.Mode), info.Key, info.Type, info.Mode)
	}
}

func (r *Registry) SprintBindings() string {
	var sb strings.Builder
	r.FprintBindings(&sb)
	return sb.String()
}

func (s *Scope) FprintBindings(w io.Writer) {
	s.local.FprintBindings(w)
}

func (s *Scope) SprintBindings() string {
	return s.local.SprintBindings()
}

// FprintChain writes the scope's bindings followed by those of every
// ancestor, innermost first.
func (s *Scope) FprintChain(w io.Writer) {
	var current Container = s
	for current != nil {
		switch c := current.(type) {
		case *Scope:
			_, _ = fmt.Fprintf(w, "scope depth=%d %s\n", c.depth, c.local.label())
			writeIndented(w, c.local.SprintBindings())
			current = c.parent
		case *Registry:
			_, _ = fmt.Fprintf(w, "root %s\n", c.label())
			writeIndented(w, c.SprintBindings())
			current = nil
		default:
			_, _ = fmt.Fprintf(w, "external %T\n", c)
			current = nil
		}
	}
}

func (s *Scope) PrintChain() {
	s.FprintChain(os.Stdout)
}

func (s *Scope) SprintChain() string {
	var sb strings.Builder
	s.FprintChain(&sb)
	return sb.String()
}

func writeIndented(w io.Writer, block string) {
	for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "  %s\n", line)
	}
}

func modeSymbol(m Mode) string {
	switch m {
	case ModeExclusive:
		return "●"
	case ModeShared:
		return "◐"
	default:
		return "○"
	}
}
