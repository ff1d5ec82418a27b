// Package assemble lowers a parsed AST into a resolved ir.Program: pass 1
// assigns every label and EQU its value by walking the AST once computing
// sizes, pass 2 walks it again evaluating every operand expression against
// the now-complete symbol table and classifying each instruction's operand
// shape into a concrete ir.Opcode + ir.Operand set.
package assemble

import (
	"fmt"

	"github.com/chip8ir/chip8ir/diag"
	"github.com/chip8ir/chip8ir/ir"
	"github.com/chip8ir/chip8ir/parser"
)

const defaultOrigin = 0x200

// Assemble runs the full text -> IR half of the pipeline: load, lex, parse,
// then the two-pass resolver below. It stops at the first stage that
// reports an error, per the "lex/parse collect, everything after fails
// fast" policy.
func Assemble(source, filename string) (*ir.Program, diag.List) {
	lines := parser.LoadSource(source)
	program, errs := parser.Parse(lines, filename)
	if errs.HasErrors() {
		return nil, errs
	}

	resolver := newResolver(filename)
	prog, rerrs := resolver.Run(program)
	errs2 := diag.List{}
	for _, d := range errs.All() {
		errs2.Add(d)
	}
	for _, d := range rerrs.All() {
		errs2.Add(d)
	}
	return prog, errs2
}

type resolver struct {
	filename  string
	symbols   *parser.SymbolTable
	errs      diag.List
	addresses []uint16
}

func newResolver(filename string) *resolver {
	return &resolver{filename: filename, symbols: parser.NewSymbolTable()}
}

func (r *resolver) pos(line, col int) diag.Position {
	return diag.Position{Filename: r.filename, Line: line, Column: col}
}

// Run performs both passes and returns the resolved ir.Program. The symbol
// table built along the way is attached as Program.Symbols, so a caller can
// query a cross-reference (parser.SymbolTable.References) over the actual
// assembled program rather than a table it built itself.
func (r *resolver) Run(program parser.ASTProgram) (*ir.Program, diag.List) {
	if !r.pass1(program) {
		return nil, r.errs
	}
	if r.errs.HasErrors() {
		return nil, r.errs
	}

	elements, ok := r.pass2(program)
	if !ok {
		return nil, r.errs
	}

	return &ir.Program{Origin: r.addresses[0], Elements: elements, Symbols: r.symbols}, r.errs
}

// pass1 walks the AST once, sizing every element and binding every label
// and EQU to its value. EQU and .ORG expressions may not reference a
// symbol defined later in the file; labels defined elsewhere may.
func (r *resolver) pass1(program parser.ASTProgram) bool {
	pc := uint16(defaultOrigin)
	r.addresses = make([]uint16, len(program))

	for i, elem := range program {
		r.addresses[i] = pc

		if elem.Label != nil {
			if d := r.symbols.Define(elem.Label.Name, parser.SymbolLabel, pc); d != nil {
				d.Pos = r.pos(elem.Line, elem.Label.Column)
				r.errs.Add(*d)
				return false
			}
		}

		switch elem.Body {
		case parser.BodyEqu:
			value, d := r.evalNoForward(elem.Equ.Value)
			if d != nil {
				r.errs.Add(*d)
				return false
			}
			if d := r.symbols.Define(elem.Equ.Name, parser.SymbolEqu, uint16(value)); d != nil {
				d.Pos = r.pos(elem.Line, elem.Equ.Column)
				r.errs.Add(*d)
				return false
			}
		case parser.BodyDirective:
			switch elem.Directive.Name {
			case ".ORG":
				if len(elem.Directive.Args) != 1 {
					r.errs.Add(diag.New(r.pos(elem.Line, elem.Directive.Column), diag.KindInvalidDirective,
						".ORG takes exactly one operand"))
					return false
				}
				value, d := r.evalNoForward(elem.Directive.Args[0])
				if d != nil {
					r.errs.Add(*d)
					return false
				}
				pc = uint16(value)
				r.addresses[i] = pc
			case ".DB":
				pc += uint16(len(elem.Directive.Args))
			case ".DW":
				pc += uint16(2 * len(elem.Directive.Args))
			default:
				r.errs.Add(diag.New(r.pos(elem.Line, elem.Directive.Column), diag.KindInvalidDirective,
					"unknown directive "+elem.Directive.Name))
				return false
			}
		case parser.BodyInstruction:
			pc += 2
		}
	}

	return true
}

// pass2 walks the AST again using the addresses pass1 computed, evaluating
// every operand expression against the now-fully-populated symbol table
// and lowering each instruction into a concrete ir.Instruction.
func (r *resolver) pass2(program parser.ASTProgram) ([]ir.Element, bool) {
	var elements []ir.Element

	for i, elem := range program {
		addr := r.addresses[i]

		switch elem.Body {
		case parser.BodyInstruction:
			inst, d := r.resolveInstruction(elem, addr)
			if d != nil {
				r.errs.Add(*d)
				return nil, false
			}
			if elem.Label != nil {
				inst.Label = elem.Label.Name
			}
			elements = append(elements, ir.Element{Kind: ir.ElementInstruction, Instruction: inst})
		case parser.BodyDirective:
			switch elem.Directive.Name {
			case ".DB":
				bytes, d := r.resolveByteRun(elem.Directive.Args, addr)
				if d != nil {
					r.errs.Add(*d)
					return nil, false
				}
				el := ir.Element{Kind: ir.ElementData, Address: addr, Bytes: bytes}
				if elem.Label != nil {
					el.Label = elem.Label.Name
				}
				elements = append(elements, el)
			case ".DW":
				bytes, d := r.resolveWordRun(elem.Directive.Args, addr)
				if d != nil {
					r.errs.Add(*d)
					return nil, false
				}
				el := ir.Element{Kind: ir.ElementData, Address: addr, Bytes: bytes}
				if elem.Label != nil {
					el.Label = elem.Label.Name
				}
				elements = append(elements, el)
			case ".ORG":
				// sizing only; contributes no bytes
			}
		}
	}

	return elements, true
}

func (r *resolver) resolveByteRun(args []parser.ASTExpression, addr uint16) ([]byte, *diag.Diagnostic) {
	out := make([]byte, 0, len(args))
	for _, a := range args {
		v, d := r.eval(a)
		if d != nil {
			return nil, d
		}
		if v > 0xFF {
			dd := diag.New(r.pos(0, a.Column), diag.KindOperandRange, fmt.Sprintf(".DB value 0x%X does not fit in a byte", v))
			return nil, &dd
		}
		out = append(out, byte(v))
	}
	_ = addr
	return out, nil
}

func (r *resolver) resolveWordRun(args []parser.ASTExpression, addr uint16) ([]byte, *diag.Diagnostic) {
	out := make([]byte, 0, 2*len(args))
	for _, a := range args {
		v, d := r.eval(a)
		if d != nil {
			return nil, d
		}
		if v > 0xFFFF {
			dd := diag.New(r.pos(0, a.Column), diag.KindOperandRange, fmt.Sprintf(".DW value 0x%X does not fit in a word", v))
			return nil, &dd
		}
		out = append(out, byte(v>>8), byte(v))
	}
	_ = addr
	return out, nil
}

// eval evaluates an expression fully against the resolved symbol table;
// forward references to labels are allowed here (pass 2 only).
func (r *resolver) eval(e parser.ASTExpression) (uint32, *diag.Diagnostic) {
	switch e.Kind {
	case parser.ExprNumber:
		return e.Number, nil
	case parser.ExprIdentifier:
		sym, ok := r.symbols.Lookup(e.Identifier)
		if !ok {
			d := diag.New(r.pos(0, e.Column), diag.KindUndefinedSymbol, "undefined symbol \""+e.Identifier+"\"")
			return 0, &d
		}
		r.symbols.Reference(e.Identifier, r.pos(0, e.Column))
		return uint32(sym.Value), nil
	case parser.ExprBinary:
		lhs, d := r.eval(*e.LHS)
		if d != nil {
			return 0, d
		}
		rhs, d := r.eval(*e.RHS)
		if d != nil {
			return 0, d
		}
		switch e.Op {
		case parser.OpAdd:
			return lhs + rhs, nil
		case parser.OpSub:
			return lhs - rhs, nil
		case parser.OpMul:
			return lhs * rhs, nil
		case parser.OpDiv:
			if rhs == 0 {
				d := diag.New(r.pos(0, e.Column), diag.KindOperandRange, "division by zero")
				return 0, &d
			}
			return lhs / rhs, nil
		}
	}
	d := diag.New(r.pos(0, e.Column), diag.KindSyntax, "malformed expression")
	return 0, &d
}

// evalNoForward evaluates an expression allowing only constants and
// symbols already defined, for EQU and .ORG (spec forbids forward
// references there).
func (r *resolver) evalNoForward(e parser.ASTExpression) (uint32, *diag.Diagnostic) {
	return r.eval(e)
}
