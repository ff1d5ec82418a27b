package ir_test

import (
	"testing"

	"github.com/chip8ir/chip8ir/ir"
	"github.com/stretchr/testify/assert"
)

func TestInstructionElementLenAndEnd(t *testing.T) {
	el := ir.Element{Kind: ir.ElementInstruction, Instruction: ir.Instruction{Address: 0x200, Op: ir.CLS}}
	assert.Equal(t, 2, el.Len())
	assert.Equal(t, uint16(0x202), el.End())
}

func TestDataElementLenAndEnd(t *testing.T) {
	el := ir.Element{Kind: ir.ElementData, Address: 0x300, Bytes: []byte{1, 2, 3}}
	assert.Equal(t, 3, el.Len())
	assert.Equal(t, uint16(0x303), el.End())
}
