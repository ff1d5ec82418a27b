package ir

import "github.com/chip8ir/chip8ir/parser"

// OperandKind tags which variant an Operand value holds.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandAddress
	OperandByte
	OperandNibble
)

// Operand is a resolved, encode-ready operand: by the time an Instruction
// reaches the encoder, every label and expression has already been
// evaluated down to one of these concrete forms.
type Operand struct {
	Kind  OperandKind
	Value uint16 // register index (0-15), 12-bit address, 8-bit byte, or 4-bit nibble
}

func Register(n uint16) Operand { return Operand{Kind: OperandRegister, Value: n} }
func Address(addr uint16) Operand { return Operand{Kind: OperandAddress, Value: addr} }
func Byte(b uint16) Operand     { return Operand{Kind: OperandByte, Value: b} }
func Nibble(n uint16) Operand   { return Operand{Kind: OperandNibble, Value: n} }

// Instruction is one resolved CHIP-8 instruction: an opcode plus however
// many operands its shape calls for, placed at a fixed address.
type Instruction struct {
	Address  uint16
	Op       Opcode
	Operands []Operand
	Label    string // the label attached to this address, if any
	Comment  string
}

// ElementKind distinguishes a run of decoded code from a run of data inside
// an IRProgram. The assembler only ever produces Instruction elements (plus
// raw data from .DB/.DW directives); the disassembler produces both,
// since unreached bytes are reclassified as data.
type ElementKind int

const (
	ElementInstruction ElementKind = iota
	ElementData
)

// Element is one entry of an IRProgram: either a decoded Instruction or a
// contiguous run of raw bytes that the pipeline could not, or was not
// asked to, treat as code.
type Element struct {
	Kind        ElementKind
	Instruction Instruction
	Address     uint16 // Data only
	Bytes       []byte // Data only
	Label       string // Data only; Instruction carries its own
}

// Program is the fully resolved intermediate representation shared by both
// directions of the pipeline: the assembler builds one from source before
// handing it to the encoder, and the disassembler builds one from a binary
// image before handing it to the printer. Symbols is the label/EQU table
// the assembler resolved against (nil for a disassembler-built Program,
// which has no source-level symbols to report), kept so a caller can query
// cross-references via parser.SymbolTable.References without re-parsing.
type Program struct {
	Origin   uint16
	Elements []Element
	Symbols  *parser.SymbolTable
}

// Len returns the total byte span an element occupies.
func (e Element) Len() int {
	if e.Kind == ElementData {
		return len(e.Bytes)
	}
	return 2
}

// End returns the address one past the element's last byte.
func (e Element) End() uint16 {
	switch e.Kind {
	case ElementData:
		return e.Address + uint16(len(e.Bytes))
	default:
		return e.Instruction.Address + 2
	}
}
