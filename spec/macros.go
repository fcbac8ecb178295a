package spec

import "sort"

// Macros maps macro names to their raw, unexpanded definitions.
// References inside a definition are expanded at the point of use.
type Macros struct {
	defs map[string]string
}

// NewMacros returns an empty macro table.
func NewMacros() *Macros {
	return &Macros{defs: make(map[string]string)}
}

// Define stores def under name, replacing any previous definition.
func (m *Macros) Define(name, def string) {
	m.defs[name] = def
}

// Lookup returns the definition of name.
func (m *Macros) Lookup(name string) (string, bool) {
	def, ok := m.defs[name]
	return def, ok
}

// Len returns the number of macros.
func (m *Macros) Len() int {
	return len(m.defs)
}

// Names returns the macro names in sorted order.
func (m *Macros) Names() []string {
	names := make([]string, 0, len(m.defs))
	for name := range m.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
