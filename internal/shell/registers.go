package shell

import "sort"

// DefaultRegister is the unnamed yank register.
const DefaultRegister = '"'

// Registers is the shell-owned named clipboard set (spec §4.12).
type Registers struct {
	values map[rune]string
}

// NewRegisters returns an empty register set.
func NewRegisters() *Registers {
	return &Registers{values: make(map[rune]string)}
}

// Get returns the named register's content ("" when unset).
func (r *Registers) Get(name rune) string { return r.values[name] }

// Set stores text in the named register. Writes to a named register also
// refresh the unnamed one, so a plain paste always sees the latest yank.
func (r *Registers) Set(name rune, text string) {
	r.values[name] = text
	if name != DefaultRegister {
		r.values[DefaultRegister] = text
	}
}

// Names returns the populated register names in sorted order.
func (r *Registers) Names() []rune {
	names := make([]rune, 0, len(r.values))
	for n := range r.values {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
