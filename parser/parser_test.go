package parser_test

import (
	"testing"

	"github.com/chip8ir/chip8ir/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseText(t *testing.T, src string) parser.ASTProgram {
	t.Helper()
	lines := parser.LoadSource(src)
	program, errs := parser.Parse(lines, "test.asm")
	require.False(t, errs.HasErrors(), "unexpected errors: %v", errs.Errors())
	return program
}

func TestFourLinerShapeMatchesLabelThenThreeInstructions(t *testing.T) {
	program := parseText(t, "start:\n    LD V0, 10\n    ADD V0, 5\n    JP start\n")
	require.Len(t, program, 4)

	require.NotNil(t, program[0].Label)
	assert.Equal(t, "start", program[0].Label.Name)
	assert.Equal(t, parser.BodyNone, program[0].Body)

	require.Equal(t, parser.BodyInstruction, program[1].Body)
	assert.Equal(t, "LD", program[1].Instruction.Mnemonic)
	require.Len(t, program[1].Instruction.Operands, 2)
	assert.Equal(t, "V0", program[1].Instruction.Operands[0].Identifier)
	assert.Equal(t, uint32(10), program[1].Instruction.Operands[1].Number)

	require.Equal(t, parser.BodyInstruction, program[2].Body)
	assert.Equal(t, "ADD", program[2].Instruction.Mnemonic)

	require.Equal(t, parser.BodyInstruction, program[3].Body)
	assert.Equal(t, "JP", program[3].Instruction.Mnemonic)
	require.Len(t, program[3].Instruction.Operands, 1)
	assert.Equal(t, "START", program[3].Instruction.Operands[0].Identifier)
}

func TestDirectiveWithOperands(t *testing.T) {
	program := parseText(t, ".DW 0x10, 0x20, 0x30\n")
	require.Len(t, program, 1)

	require.Equal(t, parser.BodyDirective, program[0].Body)
	assert.Equal(t, ".DW", program[0].Directive.Name)
	require.Len(t, program[0].Directive.Args, 3)
	assert.Equal(t, uint32(0x10), program[0].Directive.Args[0].Number)
	assert.Equal(t, uint32(0x20), program[0].Directive.Args[1].Number)
	assert.Equal(t, uint32(0x30), program[0].Directive.Args[2].Number)
}

func TestVariableDefinitionEqu(t *testing.T) {
	program := parseText(t, "X_POS EQU 0x10\nY_POS EQU 0x20\n")
	require.Len(t, program, 2)

	require.Equal(t, parser.BodyEqu, program[0].Body)
	assert.Equal(t, "X_POS", program[0].Equ.Name)
	assert.Equal(t, uint32(0x10), program[0].Equ.Value.Number)

	require.Equal(t, parser.BodyEqu, program[1].Body)
	assert.Equal(t, "Y_POS", program[1].Equ.Name)
	assert.Equal(t, uint32(0x20), program[1].Equ.Value.Number)
}

func TestCommentsAndWhitespaceVanishBeforeParsing(t *testing.T) {
	program := parseText(t, "start:          ; label comment\n    LD V0, 0x10   ; instruction comment\n    ; full line comment\n    JP start\n")
	require.Len(t, program, 3)

	require.NotNil(t, program[0].Label)
	assert.Equal(t, "start", program[0].Label.Name)

	require.Equal(t, parser.BodyInstruction, program[1].Body)
	assert.Equal(t, "LD", program[1].Instruction.Mnemonic)

	require.Equal(t, parser.BodyInstruction, program[2].Body)
	assert.Equal(t, "JP", program[2].Instruction.Mnemonic)
}

func TestExpressionOperandPrecedence(t *testing.T) {
	program := parseText(t, "LD V0, 10+5*2\n")
	require.Len(t, program, 1)

	operand := program[0].Instruction.Operands[1]
	require.Equal(t, parser.ExprBinary, operand.Kind)
	assert.Equal(t, parser.OpAdd, operand.Op)
	assert.Equal(t, uint32(10), operand.LHS.Number)

	require.Equal(t, parser.ExprBinary, operand.RHS.Kind)
	assert.Equal(t, parser.OpMul, operand.RHS.Op)
	assert.Equal(t, uint32(5), operand.RHS.LHS.Number)
	assert.Equal(t, uint32(2), operand.RHS.RHS.Number)
}

func TestParenthesesOverridePrecedenceWithoutASTNode(t *testing.T) {
	program := parseText(t, "LD V0, (10+5)*2\n")
	operand := program[0].Instruction.Operands[1]

	require.Equal(t, parser.ExprBinary, operand.Kind)
	assert.Equal(t, parser.OpMul, operand.Op)
	require.Equal(t, parser.ExprBinary, operand.LHS.Kind)
	assert.Equal(t, parser.OpAdd, operand.LHS.Op)
}

func TestLabelAloneOnLine(t *testing.T) {
	program := parseText(t, "done:\n")
	require.Len(t, program, 1)
	require.NotNil(t, program[0].Label)
	assert.Equal(t, parser.BodyNone, program[0].Body)
}

func TestUnbalancedParenthesisReportsError(t *testing.T) {
	lines := parser.LoadSource("LD V0, (1+2\n")
	_, errs := parser.Parse(lines, "test.asm")
	assert.True(t, errs.HasErrors())
}

func TestTrailingGarbageReportsError(t *testing.T) {
	lines := parser.LoadSource("CLS 5 6\n")
	_, errs := parser.Parse(lines, "test.asm")
	assert.True(t, errs.HasErrors())
}

func TestMissingOperandAfterOperatorReportsError(t *testing.T) {
	lines := parser.LoadSource("LD V0, 1+\n")
	_, errs := parser.Parse(lines, "test.asm")
	assert.True(t, errs.HasErrors())
}

func TestParseErrorCarriesFilename(t *testing.T) {
	lines := parser.LoadSource("CLS 5 6\n")
	_, errs := parser.Parse(lines, "game.asm")
	require.True(t, errs.HasErrors())
	assert.Equal(t, "game.asm", errs.Errors()[0].Pos.Filename)
}

func TestLexErrorCarriesFilename(t *testing.T) {
	lines := parser.LoadSource("LD V0, #\n")
	_, errs := parser.Parse(lines, "game.asm")
	require.True(t, errs.HasErrors())
	assert.Equal(t, "game.asm", errs.Errors()[0].Pos.Filename)
}
