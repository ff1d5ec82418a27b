// Package encoder serialises a resolved ir.Program into the flat,
// big-endian CHIP-8 binary image a real interpreter would load at its
// origin. Every instruction's operand bits are packed on top of its
// Opcode's fixed base pattern; packing positions (x at bits 11:8, y at
// 7:4, kk at 7:0, nnn at 11:0, n at 3:0) are fixed by the CHIP-8 ISA, not
// a design choice of this pipeline.
package encoder

import (
	"fmt"

	"github.com/chip8ir/chip8ir/diag"
	"github.com/chip8ir/chip8ir/ir"
)

// Encode serialises prog into a byte slice long enough to span from
// prog.Origin to the highest address any element reaches. Gaps between
// elements (addresses in source order must be non-decreasing, per the
// IR's no-overlap invariant) are zero-filled.
func Encode(prog *ir.Program) ([]byte, error) {
	if len(prog.Elements) == 0 {
		return nil, nil
	}

	var lastEnd uint16
	var prevEnd uint16
	for i, el := range prog.Elements {
		start := elementStart(el)
		if i > 0 && start < prevEnd {
			return nil, diag.New(diag.Position{}, diag.KindSyntax,
				fmt.Sprintf("element at 0x%03X overlaps previous element ending at 0x%03X", start, prevEnd))
		}
		prevEnd = el.End()
		if el.End() > lastEnd {
			lastEnd = el.End()
		}
	}

	out := make([]byte, int(lastEnd)-int(prog.Origin))

	for _, el := range prog.Elements {
		switch el.Kind {
		case ir.ElementData:
			copy(out[el.Address-prog.Origin:], el.Bytes)
		case ir.ElementInstruction:
			word, err := encodeInstruction(el.Instruction)
			if err != nil {
				return nil, err
			}
			offset := el.Instruction.Address - prog.Origin
			out[offset] = byte(word >> 8)
			out[offset+1] = byte(word)
		}
	}

	return out, nil
}

func elementStart(el ir.Element) uint16 {
	if el.Kind == ir.ElementData {
		return el.Address
	}
	return el.Instruction.Address
}

// encodeInstruction packs one instruction's operands onto its opcode's
// base pattern. The switch is keyed on ir.Opcode.Shape rather than on each
// of the 35 opcodes individually, since every opcode sharing a shape packs
// its operands identically.
func encodeInstruction(inst ir.Instruction) (uint16, error) {
	base := inst.Op.Base()
	ops := inst.Operands

	switch inst.Op.Shape() {
	case ir.ShapeNone:
		return base, nil

	case ir.ShapeAddr:
		return base | (ops[0].Value & 0x0FFF), nil

	case ir.ShapeReg:
		return base | (ops[0].Value&0xF)<<8, nil

	case ir.ShapeRegCount:
		return base | (ops[0].Value&0xF)<<8, nil

	case ir.ShapeRegImm:
		return base | (ops[0].Value&0xF)<<8 | (ops[1].Value & 0xFF), nil

	case ir.ShapeRegReg:
		return base | (ops[0].Value&0xF)<<8 | (ops[1].Value&0xF)<<4, nil

	case ir.ShapeRegRegNibble:
		return base | (ops[0].Value&0xF)<<8 | (ops[1].Value&0xF)<<4 | (ops[2].Value & 0xF), nil

	default:
		return 0, diag.New(diag.Position{}, diag.KindInvalidOperand, "unencodable instruction shape")
	}
}
