package parser

import (
	"strings"

	"github.com/chip8ir/chip8ir/diag"
)

// SymbolKind distinguishes a label (assigned its address) from an EQU
// constant (assigned an evaluated expression's value).
type SymbolKind int

const (
	SymbolLabel SymbolKind = iota
	SymbolEqu
)

// Symbol is one resolved name: a label's address or an EQU's value. Name
// keeps the spelling the symbol was defined with, while the table keys it
// upper-cased (see Define); the toolchain treats identifiers as
// case-insensitive end to end, per the case-insensitive comparison policy
// this pipeline adopts for both labels and EQU names.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Value uint16
}

// SymbolTable stores the labels and EQU constants defined during pass 1 and
// answers lookups during pass 2. It holds no knowledge of how values are
// computed — that's the two-pass resolver's job — only of name to value
// bindings and the positions where each name was referenced, the latter
// kept so a caller can build a cross-reference listing without a second
// parse.
type SymbolTable struct {
	symbols    map[string]*Symbol
	references map[string][]diag.Position
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols:    make(map[string]*Symbol),
		references: make(map[string][]diag.Position),
	}
}

func normalize(name string) string {
	return strings.ToUpper(name)
}

// Define binds name to value as kind. Defining a name that already exists
// — whether as a label or an EQU — is a duplicate-symbol error regardless
// of which kind either definition is; labels and EQUs share one namespace.
func (t *SymbolTable) Define(name string, kind SymbolKind, value uint16) *diag.Diagnostic {
	key := normalize(name)
	if existing, ok := t.symbols[key]; ok {
		d := diag.New(diag.Position{}, diag.KindDuplicateSymbol,
			"symbol \""+existing.Name+"\" already defined")
		return &d
	}
	t.symbols[key] = &Symbol{Name: name, Kind: kind, Value: value}
	return nil
}

// Lookup returns the symbol bound to name, if any.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.symbols[normalize(name)]
	return s, ok
}

// Reference records that name was used at pos, for later cross-reference
// queries. It does not require name to be defined yet: pass 2 may resolve
// forward references, so a reference can be recorded before its symbol
// exists.
func (t *SymbolTable) Reference(name string, pos diag.Position) {
	key := normalize(name)
	t.references[key] = append(t.references[key], pos)
}

// References returns every recorded use position of name, in the order
// they were seen.
func (t *SymbolTable) References(name string) []diag.Position {
	return t.references[normalize(name)]
}

// Names returns every defined symbol name, unordered.
func (t *SymbolTable) Names() []string {
	out := make([]string, 0, len(t.symbols))
	for _, s := range t.symbols {
		out = append(out, s.Name)
	}
	return out
}

func (t *SymbolTable) Len() int {
	return len(t.symbols)
}
