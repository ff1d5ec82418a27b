// Package disasm turns a raw CHIP-8 image bound into an ir.DisasmMemory
// back into an ir.Program, by a reachability-driven linear sweep rather
// than a naive linear decode: code is only ever what flow actually reaches
// from a known entry point, never whatever a fixed-stride decode happens
// to land on.
package disasm

import "github.com/chip8ir/chip8ir/ir"

// Sweep disassembles mem starting from its origin plus any additional
// entryPoints (configured call-ins the sweep could not otherwise discover,
// such as an interrupt-style dispatch table). It returns a Program whose
// Elements alternate between decoded Instructions and the runs of bytes
// the sweep never reached, which are reclassified as Data.
func Sweep(mem *ir.DisasmMemory, entryPoints ...uint16) *ir.Program {
	s := &sweep{
		mem:     mem,
		targets: newTargetSet(),
		decoded: make(map[uint16]ir.Instruction),
		iTarget: make(map[uint16]bool),
	}
	s.queue = append(s.queue, mem.Start())
	s.queue = append(s.queue, entryPoints...)
	s.run()
	s.reclassifyITargets()

	elements := s.buildElements()
	labels := s.targets.labels()
	attachLabels(elements, labels)

	return &ir.Program{Origin: mem.Start(), Elements: elements}
}

type sweep struct {
	mem     *ir.DisasmMemory
	queue   []uint16
	targets *targetSet
	decoded map[uint16]ir.Instruction
	iTarget map[uint16]bool
}

func (s *sweep) run() {
	for len(s.queue) > 0 {
		pc := s.queue[0]
		s.queue = s.queue[1:]
		s.step(pc)
	}
}

// step decodes the instruction at pc, if any, and enqueues its successors.
// Any failure to decode (out of range, misaligned, unrecognised word) ends
// that flow path silently: the bytes involved simply stay unvisited and
// fall out as data in the final linear scan.
func (s *sweep) step(pc uint16) {
	if !s.mem.Contains(pc) || s.mem.IsVisited(pc) {
		return
	}
	if (pc-s.mem.Start())%2 != 0 {
		return
	}
	if !s.mem.ContainsWord(pc) {
		return
	}

	word := s.mem.GetWord(pc)
	op, ok := ir.Decode(word)
	if !ok {
		return
	}

	s.mem.MarkInstruction(pc)
	s.mem.MarkVisited(pc)
	s.mem.MarkVisited(pc + 1)

	operands := decodeOperands(op, word)
	s.decoded[pc] = ir.Instruction{Address: pc, Op: op, Operands: operands}

	s.enqueueSuccessors(pc, op, operands)
}

func (s *sweep) enqueueSuccessors(pc uint16, op ir.Opcode, operands []ir.Operand) {
	switch op {
	case ir.JP:
		target := operands[0].Value
		s.queue = append(s.queue, target)
		s.targets.add(target, TargetJump)

	case ir.CALL:
		target := operands[0].Value
		s.queue = append(s.queue, target, pc+2)
		s.targets.add(target, TargetSubroutine)

	case ir.RET:
		// terminator: the call site's own pc+2 successor already covers
		// the return path, nothing to enqueue here.

	case ir.JPV0:
		target := operands[0].Value
		s.targets.add(target, TargetIndexed)
		// The actual jump address depends on V0 at runtime and is not
		// statically known, so this path cannot be followed as code.

	case ir.SEImm, ir.SNEImm, ir.SEReg, ir.SNEReg, ir.SKP, ir.SKNP:
		s.queue = append(s.queue, pc+2, pc+4)

	case ir.LDI:
		target := operands[0].Value
		s.queue = append(s.queue, pc+2)
		s.targets.add(target, TargetITarget)
		s.iTarget[target] = true

	default:
		s.queue = append(s.queue, pc+2)
	}
}

// reclassifyITargets retracts any instruction classification at an address
// that LD I, nnn pointed at: a data pointer's referent is always data, even
// if some other, spurious flow path had already decoded it as code.
func (s *sweep) reclassifyITargets() {
	for addr := range s.iTarget {
		if s.mem.Contains(addr) && s.mem.IsInstruction(addr) {
			s.mem.Unmark(addr)
			if s.mem.Contains(addr + 1) {
				s.mem.Unmark(addr + 1)
			}
			delete(s.decoded, addr)
		}
	}
}

// buildElements performs the final linear scan: every address in range is
// either the start of a previously-decoded instruction, or part of a run of
// bytes the sweep never reached, which is folded into a single Data
// element.
func (s *sweep) buildElements() []ir.Element {
	var elements []ir.Element
	addr := s.mem.Start()
	end := s.mem.End()

	for addr < end {
		if s.mem.IsInstruction(addr) {
			inst := s.decoded[addr]
			elements = append(elements, ir.Element{Kind: ir.ElementInstruction, Instruction: inst})
			addr += 2
			continue
		}

		start := addr
		var data []byte
		for addr < end && !s.mem.IsInstruction(addr) {
			data = append(data, s.mem.GetByte(addr))
			addr++
		}
		elements = append(elements, ir.Element{Kind: ir.ElementData, Address: start, Bytes: data})
	}

	return elements
}

func attachLabels(elements []ir.Element, labels map[uint16]string) {
	for i := range elements {
		el := &elements[i]
		var addr uint16
		if el.Kind == ir.ElementInstruction {
			addr = el.Instruction.Address
		} else {
			addr = el.Address
		}
		if label, ok := labels[addr]; ok {
			if el.Kind == ir.ElementInstruction {
				el.Instruction.Label = label
			} else {
				el.Label = label
			}
		}
	}
}

func decodeOperands(op ir.Opcode, word uint16) []ir.Operand {
	switch op.Shape() {
	case ir.ShapeAddr:
		return []ir.Operand{ir.Address(word & 0x0FFF)}
	case ir.ShapeReg, ir.ShapeRegCount:
		return []ir.Operand{ir.Register((word >> 8) & 0xF)}
	case ir.ShapeRegImm:
		return []ir.Operand{ir.Register((word >> 8) & 0xF), ir.Byte(word & 0xFF)}
	case ir.ShapeRegReg:
		return []ir.Operand{ir.Register((word >> 8) & 0xF), ir.Register((word >> 4) & 0xF)}
	case ir.ShapeRegRegNibble:
		return []ir.Operand{
			ir.Register((word >> 8) & 0xF),
			ir.Register((word >> 4) & 0xF),
			ir.Nibble(word & 0xF),
		}
	default:
		return nil
	}
}
