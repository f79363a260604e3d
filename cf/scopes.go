package cf

import (
	"fmt"
	"sort"
	"strings"
)

// Binding ties a source name to its current value. Real bindings own
// their region from declaration until an explicit free, a destroying
// operator, or scope exit. Assigned stays false from declaration
// until the first assignment; using an unassigned variable is a
// compile error.
type Binding struct {
	Name     string
	Val      Value
	Assigned bool
	DeclLine int
	scope    *Scope
}

// Scope holds the variables declared directly in one block. Scopes
// nest on a stack, innermost last. IsLoop marks while/whilevar body
// scopes, which constrain what free may target. IsFunction marks an
// inlined callee body.
type Scope struct {
	Map        map[string]*Binding
	order      []string
	Name       string
	IsLoop     bool
	IsFunction bool
}

func NewScope(name string) *Scope {
	return &Scope{
		Map:  make(map[string]*Binding),
		Name: name,
	}
}

// Bind declares name in s, replacing any same-name binding from an
// outer scope for the rest of s's lifetime.
func (s *Scope) Bind(name string, val Value, line int) *Binding {
	b := &Binding{
		Name:     name,
		Val:      val,
		DeclLine: line,
		scope:    s,
	}
	if _, already := s.Map[name]; !already {
		s.order = append(s.order, name)
	}
	s.Map[name] = b
	return b
}

// Unbind removes name from s. The caller decides what happens to the
// storage.
func (s *Scope) Unbind(name string) {
	delete(s.Map, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Show renders the scope's live bindings for the repl .tape command.
func (s *Scope) Show() string {
	label := "scope " + s.Name
	if s.IsLoop {
		label += " (loop)"
	}
	names := make([]string, len(s.order))
	copy(names, s.order)
	sort.Strings(names)
	lines := []string{label + ":"}
	for _, n := range names {
		b := s.Map[n]
		state := ""
		if !b.Assigned {
			state = " (unassigned)"
		}
		lines = append(lines, fmt.Sprintf("  %s = %s%s", n, b.Val.ValueString(), state))
	}
	return strings.Join(lines, "\n")
}

// pushScope enters a new innermost scope.
func (c *Compiler) pushScope(name string) *Scope {
	s := NewScope(name)
	c.scopes = append(c.scopes, s)
	return s
}

// popScope exits the innermost scope, freeing the storage of every
// real variable it still owns. keep, when non-nil, names a region
// that must survive the exit (a return value being handed to the
// caller).
func (c *Compiler) popScope(keep *RealValue) {
	n := len(c.scopes)
	s := c.scopes[n-1]
	c.scopes = c.scopes[:n-1]
	for _, name := range s.order {
		b := s.Map[name]
		rv, isReal := b.Val.(*RealValue)
		if !isReal || rv.Borrowed {
			continue
		}
		if keep != nil && rv.Region == keep.Region {
			continue
		}
		c.tape.Free(rv.Region)
	}
}

// lookup finds the innermost binding of name, or nil.
func (c *Compiler) lookup(name string) *Binding {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if b, ok := c.scopes[i].Map[name]; ok {
			return b
		}
	}
	return nil
}

// curScope is the innermost scope.
func (c *Compiler) curScope() *Scope {
	return c.scopes[len(c.scopes)-1]
}

// freeLegal reports whether the binding may be freed here: illegal
// when a loop scope sits strictly inside the binding's own scope,
// because the loop body is emitted once but runs many times, and the
// tape layout at the back edge must match the layout at loop entry.
// Freeing a loop-local is fine; its lifetime is one iteration.
func (c *Compiler) freeLegal(b *Binding) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		s := c.scopes[i]
		if s == b.scope {
			return true
		}
		if s.IsLoop {
			return false
		}
	}
	return true
}
