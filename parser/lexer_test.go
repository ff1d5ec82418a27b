package parser_test

import (
	"testing"

	"github.com/chip8ir/chip8ir/diag"
	"github.com/chip8ir/chip8ir/parser"
	"github.com/stretchr/testify/assert"
)

func tokenKinds(toks []parser.Token) []parser.TokenKind {
	kinds := make([]parser.TokenKind, len(toks))
	for i, t := range toks {
		kinds[i] = t.Kind
	}
	return kinds
}

func TestLexerBasicInstruction(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer("LD V0, 10", 1)
	toks := lx.Tokenize(&errs)

	assert.False(t, errs.HasErrors())
	assert.Equal(t, []parser.TokenKind{
		parser.TokenIdentifier, parser.TokenIdentifier, parser.TokenComma, parser.TokenNumber, parser.TokenEOF,
	}, tokenKinds(toks))
	assert.Equal(t, "LD", toks[0].Lexeme)
	assert.Equal(t, "V0", toks[1].Lexeme)
	assert.Equal(t, uint32(10), toks[3].Value)
}

func TestLexerLabelStripsColon(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer("start:", 1)
	toks := lx.Tokenize(&errs)

	assert.Equal(t, []parser.TokenKind{parser.TokenLabel, parser.TokenEOF}, tokenKinds(toks))
	assert.Equal(t, "start", toks[0].Lexeme)
}

func TestLexerHexAndDecimalNumbers(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer("0x1F 31", 1)
	toks := lx.Tokenize(&errs)

	assert.Equal(t, uint32(0x1F), toks[0].Value)
	assert.Equal(t, uint32(31), toks[1].Value)
}

func TestLexerDirectiveUppercased(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer(".db 1", 1)
	toks := lx.Tokenize(&errs)

	assert.Equal(t, parser.TokenDirective, toks[0].Kind)
	assert.Equal(t, ".DB", toks[0].Lexeme)
}

func TestLexerEquKeyword(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer("X_POS EQU 0x10", 1)
	toks := lx.Tokenize(&errs)

	assert.Equal(t, []parser.TokenKind{
		parser.TokenIdentifier, parser.TokenAssignment, parser.TokenNumber, parser.TokenEOF,
	}, tokenKinds(toks))
}

func TestLexerIndirectIOperand(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer("LD [I], V0", 1)
	toks := lx.Tokenize(&errs)

	assert.False(t, errs.HasErrors())
	assert.Equal(t, "[I]", toks[1].Lexeme)
}

func TestLexerOperators(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer("10+5*2-(3/1)", 1)
	toks := lx.Tokenize(&errs)

	assert.Equal(t, []parser.TokenKind{
		parser.TokenNumber, parser.TokenPlus, parser.TokenNumber, parser.TokenStar, parser.TokenNumber,
		parser.TokenMinus, parser.TokenLParen, parser.TokenNumber, parser.TokenSlash, parser.TokenNumber,
		parser.TokenRParen, parser.TokenEOF,
	}, tokenKinds(toks))
}

func TestLexerInvalidByteReportsDiagnosticAndContinues(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer("LD V0, @10", 1)
	toks := lx.Tokenize(&errs)

	assert.True(t, errs.HasErrors())
	// scanning continues past the invalid byte and still finds the number
	assert.Equal(t, parser.TokenNumber, toks[len(toks)-2].Kind)
}

func TestLexerCommentsAndWhitespaceAreFiltered(t *testing.T) {
	var errs diag.List
	lx := parser.NewLexer("   LD V0, 1   ; trailing comment", 1)
	toks := lx.Tokenize(&errs)

	assert.Equal(t, []parser.TokenKind{
		parser.TokenIdentifier, parser.TokenIdentifier, parser.TokenComma, parser.TokenNumber, parser.TokenEOF,
	}, tokenKinds(toks))
}
