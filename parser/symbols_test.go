package parser_test

import (
	"testing"

	"github.com/chip8ir/chip8ir/diag"
	"github.com/chip8ir/chip8ir/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineAndLookup(t *testing.T) {
	st := parser.NewSymbolTable()
	require.Nil(t, st.Define("start", parser.SymbolLabel, 0x200))

	sym, ok := st.Lookup("start")
	require.True(t, ok)
	assert.Equal(t, uint16(0x200), sym.Value)
	assert.Equal(t, parser.SymbolLabel, sym.Kind)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	st := parser.NewSymbolTable()
	require.Nil(t, st.Define("Start", parser.SymbolLabel, 0x202))

	sym, ok := st.Lookup("START")
	require.True(t, ok)
	assert.Equal(t, "Start", sym.Name)

	sym2, ok := st.Lookup("start")
	require.True(t, ok)
	assert.Same(t, sym, sym2)
}

func TestDuplicateDefinitionIsError(t *testing.T) {
	st := parser.NewSymbolTable()
	require.Nil(t, st.Define("X", parser.SymbolEqu, 1))

	d := st.Define("x", parser.SymbolLabel, 2)
	require.NotNil(t, d)
	assert.Equal(t, diag.KindDuplicateSymbol, d.Kind)
}

func TestReferencesAccumulateInOrder(t *testing.T) {
	st := parser.NewSymbolTable()
	require.Nil(t, st.Define("loop", parser.SymbolLabel, 0x200))

	st.Reference("loop", diag.Position{Line: 3, Column: 5})
	st.Reference("LOOP", diag.Position{Line: 7, Column: 1})

	refs := st.References("loop")
	require.Len(t, refs, 2)
	assert.Equal(t, 3, refs[0].Line)
	assert.Equal(t, 7, refs[1].Line)
}
