// Package printer renders a resolved ir.Program back into assembly text,
// either as clean source (for round-tripping) or as an address/byte
// annotated listing, in the two styles the teacher's own formatter
// distinguishes by a Style knob rather than two separate code paths.
package printer

import (
	"fmt"
	"strings"

	"github.com/chip8ir/chip8ir/ir"
)

// Style selects which of the two listing modes Print renders.
type Style int

const (
	// StyleClean prints only mnemonic, operands, and labels: no address
	// column, suitable for feeding back through the assembler.
	StyleClean Style = iota
	// StyleListing prefixes every line with its address and raw bytes.
	StyleListing
)

// Options controls the printer's column layout.
type Options struct {
	Style          Style
	MnemonicColumn int // left-justified width of the mnemonic field
}

// DefaultOptions returns the formatting rules fixed by the listing format:
// a 4-column left-justified mnemonic field, clean style.
func DefaultOptions() Options {
	return Options{Style: StyleClean, MnemonicColumn: 4}
}

// printer carries the address-to-label index built once per Print call, so
// a JP/CALL/LD I operand can print the destination's synthetic or
// user-written label instead of a raw address.
type printer struct {
	opts   Options
	labels map[uint16]string
}

// Print renders every element of prog in source order.
func Print(prog *ir.Program, opts Options) string {
	p := &printer{opts: opts, labels: buildLabelIndex(prog)}

	var b strings.Builder
	for _, el := range prog.Elements {
		p.writeElement(&b, el)
	}
	return b.String()
}

func buildLabelIndex(prog *ir.Program) map[uint16]string {
	labels := make(map[uint16]string)
	for _, el := range prog.Elements {
		switch el.Kind {
		case ir.ElementInstruction:
			if el.Instruction.Label != "" {
				labels[el.Instruction.Address] = el.Instruction.Label
			}
		case ir.ElementData:
			if el.Label != "" {
				labels[el.Address] = el.Label
			}
		}
	}
	return labels
}

func (p *printer) writeElement(b *strings.Builder, el ir.Element) {
	label, body := p.elementParts(el)

	if label != "" {
		fmt.Fprintf(b, "%s:\n", label)
	}

	if p.opts.Style == StyleListing {
		addr := elementAddr(el)
		fmt.Fprintf(b, "0x%03X: %s %s\n", addr, rawBytesHex(el), body)
		return
	}

	b.WriteString(body)
	b.WriteString("\n")
}

func (p *printer) elementParts(el ir.Element) (label, body string) {
	switch el.Kind {
	case ir.ElementInstruction:
		return el.Instruction.Label, p.formatInstruction(el.Instruction)
	default:
		return el.Label, formatData(el.Bytes)
	}
}

func elementAddr(el ir.Element) uint16 {
	if el.Kind == ir.ElementInstruction {
		return el.Instruction.Address
	}
	return el.Address
}

// rawBytesHex renders the raw two-byte pair of an instruction element, or
// every byte of a data element, as a space-separated hex column. The IR
// does not carry an instruction's original encoded bytes, so the listing
// column re-derives them via the same base+shape packing the encoder uses.
func rawBytesHex(el ir.Element) string {
	if el.Kind == ir.ElementData {
		parts := make([]string, len(el.Bytes))
		for i, by := range el.Bytes {
			parts[i] = fmt.Sprintf("%02X", by)
		}
		return strings.Join(parts, " ")
	}
	word, err := encodeForDisplay(el.Instruction)
	if err != nil {
		return "?? ??"
	}
	return fmt.Sprintf("%02X %02X", byte(word>>8), byte(word))
}

func encodeForDisplay(inst ir.Instruction) (uint16, error) {
	base := inst.Op.Base()
	ops := inst.Operands
	switch inst.Op.Shape() {
	case ir.ShapeNone:
		return base, nil
	case ir.ShapeAddr:
		return base | (ops[0].Value & 0x0FFF), nil
	case ir.ShapeReg, ir.ShapeRegCount:
		return base | (ops[0].Value&0xF)<<8, nil
	case ir.ShapeRegImm:
		return base | (ops[0].Value&0xF)<<8 | (ops[1].Value & 0xFF), nil
	case ir.ShapeRegReg:
		return base | (ops[0].Value&0xF)<<8 | (ops[1].Value&0xF)<<4, nil
	case ir.ShapeRegRegNibble:
		return base | (ops[0].Value&0xF)<<8 | (ops[1].Value&0xF)<<4 | (ops[2].Value & 0xF), nil
	default:
		return 0, fmt.Errorf("unencodable shape")
	}
}

func formatData(bytes []byte) string {
	parts := make([]string, len(bytes))
	for i, b := range bytes {
		parts[i] = formatByte(b)
	}
	return padMnemonic(".DB", 4) + strings.Join(parts, ", ")
}

// formatInstruction renders one instruction's mnemonic and operands. The
// Fx-family opcodes (DT/ST/K/F/B/[I]) have their non-register operand fixed
// by the opcode itself rather than carried as an ir.Operand, so they are
// templated directly; everything else follows its OperandShape.
func (p *printer) formatInstruction(inst ir.Instruction) string {
	mnemonic := padMnemonic(inst.Op.Mnemonic(), p.opts.MnemonicColumn)
	ops := inst.Operands

	switch inst.Op {
	case ir.LDDT:
		return mnemonic + "DT, " + formatReg(ops[0])
	case ir.LDST:
		return mnemonic + "ST, " + formatReg(ops[0])
	case ir.STKEY:
		return mnemonic + formatReg(ops[0]) + ", K"
	case ir.STDT:
		return mnemonic + formatReg(ops[0]) + ", DT"
	case ir.LDSprite:
		return mnemonic + "F, " + formatReg(ops[0])
	case ir.BCD:
		return mnemonic + "B, " + formatReg(ops[0])
	case ir.STRegs:
		return mnemonic + "[I], " + formatReg(ops[0])
	case ir.LDRegs:
		return mnemonic + formatReg(ops[0]) + ", [I]"
	case ir.ADDI:
		return mnemonic + "I, " + formatReg(ops[0])
	case ir.LDI:
		return mnemonic + "I, " + p.formatAddrOperand(ops[0])
	case ir.JPV0:
		return mnemonic + "V0, " + p.formatAddrOperand(ops[0])
	}

	switch inst.Op.Shape() {
	case ir.ShapeNone:
		return strings.TrimRight(mnemonic, " ")
	case ir.ShapeAddr:
		return mnemonic + p.formatAddrOperand(ops[0])
	case ir.ShapeReg, ir.ShapeRegCount:
		return mnemonic + formatReg(ops[0])
	case ir.ShapeRegImm:
		return mnemonic + formatReg(ops[0]) + ", " + formatByte(byte(ops[1].Value))
	case ir.ShapeRegReg:
		return mnemonic + formatReg(ops[0]) + ", " + formatReg(ops[1])
	case ir.ShapeRegRegNibble:
		return mnemonic + formatReg(ops[0]) + ", " + formatReg(ops[1]) + ", " + formatNibble(ops[2])
	default:
		return strings.TrimRight(mnemonic, " ")
	}
}

// formatAddrOperand prints an address operand as its target's synthetic or
// source label when one is known, falling back to a raw hex address.
func (p *printer) formatAddrOperand(op ir.Operand) string {
	if label, ok := p.labels[op.Value]; ok {
		return label
	}
	return formatAddr(op.Value)
}

func formatReg(op ir.Operand) string {
	return fmt.Sprintf("V%X", op.Value&0xF)
}

func formatByte(b byte) string {
	return fmt.Sprintf("0x%02X", b)
}

func formatNibble(op ir.Operand) string {
	return fmt.Sprintf("0x%X", op.Value&0xF)
}

func formatAddr(addr uint16) string {
	return fmt.Sprintf("0x%03X", addr&0x0FFF)
}

func padMnemonic(name string, width int) string {
	if len(name) >= width {
		return name + " "
	}
	return name + strings.Repeat(" ", width-len(name))
}
