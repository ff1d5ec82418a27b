package assemble

import (
	"fmt"

	"github.com/chip8ir/chip8ir/diag"
	"github.com/chip8ir/chip8ir/ir"
	"github.com/chip8ir/chip8ir/parser"
)

// operandTag classifies one raw AST operand expression before any symbol
// evaluation happens, so mnemonic dispatch can branch on keyword operands
// (registers, DT, ST, K, F, B, [I]) that are never looked up in the symbol
// table. Anything that isn't one of those keywords is an "expr" operand,
// evaluated normally against the symbol table.
type operandTag int

const (
	tagExpr operandTag = iota
	tagReg
	tagI
	tagDT
	tagST
	tagK
	tagF
	tagB
	tagIndirect
)

func classify(e parser.ASTExpression) (operandTag, uint16) {
	if e.Kind != parser.ExprIdentifier {
		return tagExpr, 0
	}
	switch e.Identifier {
	case "I":
		return tagI, 0
	case "DT":
		return tagDT, 0
	case "ST":
		return tagST, 0
	case "K":
		return tagK, 0
	case "F":
		return tagF, 0
	case "B":
		return tagB, 0
	case "[I]":
		return tagIndirect, 0
	}
	if reg, ok := registerValue(e.Identifier); ok {
		return tagReg, reg
	}
	return tagExpr, 0
}

func registerValue(name string) (uint16, bool) {
	if len(name) != 2 || name[0] != 'V' {
		return 0, false
	}
	c := name[1]
	switch {
	case c >= '0' && c <= '9':
		return uint16(c - '0'), true
	case c >= 'A' && c <= 'F':
		return uint16(c-'A') + 10, true
	default:
		return 0, false
	}
}

// resolveInstruction classifies elem's mnemonic + operand shapes into a
// concrete ir.Instruction. This is the assembler half of the opcode table:
// the disassembler's ir.Decode goes word -> Opcode, this goes
// mnemonic+operands -> Opcode, and both must agree with ir.Opcode.Shape.
func (r *resolver) resolveInstruction(elem parser.ASTElement, addr uint16) (ir.Instruction, *diag.Diagnostic) {
	inst := elem.Instruction
	tags := make([]operandTag, len(inst.Operands))
	regs := make([]uint16, len(inst.Operands))
	for i, op := range inst.Operands {
		tags[i], regs[i] = classify(op)
	}

	badShape := func() (ir.Instruction, *diag.Diagnostic) {
		d := diag.New(r.pos(elem.Line, inst.Column), diag.KindInvalidOperand,
			fmt.Sprintf("invalid operand combination for %s", inst.Mnemonic))
		return ir.Instruction{}, &d
	}

	evalOperand := func(i int) (uint32, *diag.Diagnostic) {
		return r.eval(inst.Operands[i])
	}

	build := func(op ir.Opcode, operands ...ir.Operand) (ir.Instruction, *diag.Diagnostic) {
		return ir.Instruction{Address: addr, Op: op, Operands: operands}, nil
	}

	switch inst.Mnemonic {
	case "CLS":
		if len(inst.Operands) != 0 {
			return badShape()
		}
		return build(ir.CLS)

	case "RET":
		if len(inst.Operands) != 0 {
			return badShape()
		}
		return build(ir.RET)

	case "SYS":
		if len(inst.Operands) != 1 {
			return badShape()
		}
		addrVal, d := evalOperand(0)
		if d != nil {
			return ir.Instruction{}, d
		}
		if addrVal > 0x1FF {
			d := diag.New(r.pos(elem.Line, inst.Column), diag.KindOperandRange, "SYS address must be <= 0x1FF")
			return ir.Instruction{}, &d
		}
		return build(ir.SYS, ir.Address(uint16(addrVal)))

	case "JP":
		switch len(inst.Operands) {
		case 1:
			addrVal, d := evalAddr12(r, inst.Operands[0])
			if d != nil {
				return ir.Instruction{}, d
			}
			return build(ir.JP, ir.Address(addrVal))
		case 2:
			if tags[0] != tagReg || regs[0] != 0 {
				return badShape()
			}
			addrVal, d := evalAddr12(r, inst.Operands[1])
			if d != nil {
				return ir.Instruction{}, d
			}
			return build(ir.JPV0, ir.Address(addrVal))
		default:
			return badShape()
		}

	case "CALL":
		if len(inst.Operands) != 1 {
			return badShape()
		}
		addrVal, d := evalAddr12(r, inst.Operands[0])
		if d != nil {
			return ir.Instruction{}, d
		}
		return build(ir.CALL, ir.Address(addrVal))

	case "SE":
		if len(inst.Operands) != 2 || tags[0] != tagReg {
			return badShape()
		}
		if tags[1] == tagReg {
			return build(ir.SEReg, ir.Register(regs[0]), ir.Register(regs[1]))
		}
		byteVal, d := evalByte(r, inst.Operands[1])
		if d != nil {
			return ir.Instruction{}, d
		}
		return build(ir.SEImm, ir.Register(regs[0]), ir.Byte(byteVal))

	case "SNE":
		if len(inst.Operands) != 2 || tags[0] != tagReg {
			return badShape()
		}
		if tags[1] == tagReg {
			return build(ir.SNEReg, ir.Register(regs[0]), ir.Register(regs[1]))
		}
		byteVal, d := evalByte(r, inst.Operands[1])
		if d != nil {
			return ir.Instruction{}, d
		}
		return build(ir.SNEImm, ir.Register(regs[0]), ir.Byte(byteVal))

	case "ADD":
		if len(inst.Operands) != 2 {
			return badShape()
		}
		if tags[0] == tagI {
			if tags[1] != tagReg {
				return badShape()
			}
			return build(ir.ADDI, ir.Register(regs[1]))
		}
		if tags[0] != tagReg {
			return badShape()
		}
		if tags[1] == tagReg {
			return build(ir.ADDReg, ir.Register(regs[0]), ir.Register(regs[1]))
		}
		byteVal, d := evalByte(r, inst.Operands[1])
		if d != nil {
			return ir.Instruction{}, d
		}
		return build(ir.ADDImm, ir.Register(regs[0]), ir.Byte(byteVal))

	case "OR", "AND", "XOR", "SUB", "SHR", "SUBN", "SHL":
		if len(inst.Operands) != 2 || tags[0] != tagReg || tags[1] != tagReg {
			return badShape()
		}
		op := map[string]ir.Opcode{
			"OR": ir.OR, "AND": ir.AND, "XOR": ir.XOR, "SUB": ir.SUB,
			"SHR": ir.SHR, "SUBN": ir.SUBN, "SHL": ir.SHL,
		}[inst.Mnemonic]
		return build(op, ir.Register(regs[0]), ir.Register(regs[1]))

	case "RND":
		if len(inst.Operands) != 2 || tags[0] != tagReg {
			return badShape()
		}
		byteVal, d := evalByte(r, inst.Operands[1])
		if d != nil {
			return ir.Instruction{}, d
		}
		return build(ir.RND, ir.Register(regs[0]), ir.Byte(byteVal))

	case "DRW":
		if len(inst.Operands) != 3 || tags[0] != tagReg || tags[1] != tagReg {
			return badShape()
		}
		nibbleVal, d := evalNibble(r, inst.Operands[2])
		if d != nil {
			return ir.Instruction{}, d
		}
		return build(ir.DRW, ir.Register(regs[0]), ir.Register(regs[1]), ir.Nibble(nibbleVal))

	case "SKP":
		if len(inst.Operands) != 1 || tags[0] != tagReg {
			return badShape()
		}
		return build(ir.SKP, ir.Register(regs[0]))

	case "SKNP":
		if len(inst.Operands) != 1 || tags[0] != tagReg {
			return badShape()
		}
		return build(ir.SKNP, ir.Register(regs[0]))

	case "LD":
		if len(inst.Operands) != 2 {
			return badShape()
		}
		switch {
		case tags[0] == tagReg && tags[1] == tagReg:
			return build(ir.LDReg, ir.Register(regs[0]), ir.Register(regs[1]))
		case tags[0] == tagReg && tags[1] == tagDT:
			return build(ir.STDT, ir.Register(regs[0]))
		case tags[0] == tagReg && tags[1] == tagK:
			return build(ir.STKEY, ir.Register(regs[0]))
		case tags[0] == tagReg && tags[1] == tagIndirect:
			return build(ir.LDRegs, ir.Register(regs[0]))
		case tags[0] == tagReg:
			byteVal, d := evalByte(r, inst.Operands[1])
			if d != nil {
				return ir.Instruction{}, d
			}
			return build(ir.LDImm, ir.Register(regs[0]), ir.Byte(byteVal))
		case tags[0] == tagI:
			if tags[1] != tagExpr {
				return badShape()
			}
			addrVal, d := evalAddr12(r, inst.Operands[1])
			if d != nil {
				return ir.Instruction{}, d
			}
			return build(ir.LDI, ir.Address(addrVal))
		case tags[0] == tagDT && tags[1] == tagReg:
			return build(ir.LDDT, ir.Register(regs[1]))
		case tags[0] == tagST && tags[1] == tagReg:
			return build(ir.LDST, ir.Register(regs[1]))
		case tags[0] == tagF && tags[1] == tagReg:
			return build(ir.LDSprite, ir.Register(regs[1]))
		case tags[0] == tagB && tags[1] == tagReg:
			return build(ir.BCD, ir.Register(regs[1]))
		case tags[0] == tagIndirect && tags[1] == tagReg:
			return build(ir.STRegs, ir.Register(regs[1]))
		default:
			return badShape()
		}

	default:
		d := diag.New(r.pos(elem.Line, inst.Column), diag.KindInvalidMnemonic, "unknown mnemonic "+inst.Mnemonic)
		return ir.Instruction{}, &d
	}
}

func evalAddr12(r *resolver, e parser.ASTExpression) (uint16, *diag.Diagnostic) {
	v, d := r.eval(e)
	if d != nil {
		return 0, d
	}
	if v > 0xFFF {
		dd := diag.New(r.pos(0, e.Column), diag.KindOperandRange, fmt.Sprintf("address 0x%X does not fit in 12 bits", v))
		return 0, &dd
	}
	return uint16(v), nil
}

func evalByte(r *resolver, e parser.ASTExpression) (uint16, *diag.Diagnostic) {
	v, d := r.eval(e)
	if d != nil {
		return 0, d
	}
	if v > 0xFF {
		dd := diag.New(r.pos(0, e.Column), diag.KindOperandRange, fmt.Sprintf("value 0x%X does not fit in a byte", v))
		return 0, &dd
	}
	return uint16(v), nil
}

func evalNibble(r *resolver, e parser.ASTExpression) (uint16, *diag.Diagnostic) {
	v, d := r.eval(e)
	if d != nil {
		return 0, d
	}
	if v > 0xF {
		dd := diag.New(r.pos(0, e.Column), diag.KindOperandRange, fmt.Sprintf("nibble 0x%X does not fit in 4 bits", v))
		return 0, &dd
	}
	return uint16(v), nil
}
