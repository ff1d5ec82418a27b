package ir

// DisasmMemory is the disassembler's view of a binary image: the raw bytes
// plus a parallel bitmap of which addresses have been classified as the
// start of an instruction. It intentionally does not enforce CHIP-8's
// 2-byte instruction alignment itself — MarkInstruction records exactly
// the address it's given, aligned or not. Alignment is the sweep
// algorithm's responsibility (see disasm.Sweep), not this type's.
type DisasmMemory struct {
	origin  uint16
	bytes   []byte
	visited []bool
	instr   []bool
}

// NewDisasmMemory binds image at the given origin address. An unbound
// DisasmMemory (the zero value) reports Start() == End() == 0.
func NewDisasmMemory(origin uint16, image []byte) *DisasmMemory {
	return &DisasmMemory{
		origin:  origin,
		bytes:   image,
		visited: make([]bool, len(image)),
		instr:   make([]bool, len(image)),
	}
}

func (m *DisasmMemory) Start() uint16 {
	return m.origin
}

func (m *DisasmMemory) End() uint16 {
	return m.origin + uint16(len(m.bytes))
}

// Contains reports whether addr falls within [Start, End).
func (m *DisasmMemory) Contains(addr uint16) bool {
	return addr >= m.Start() && addr < m.End()
}

// ContainsWord reports whether both bytes of a word at addr lie within the
// bound image; a word at the last byte of the image does not fit.
func (m *DisasmMemory) ContainsWord(addr uint16) bool {
	return m.Contains(addr) && m.Contains(addr+1)
}

func (m *DisasmMemory) GetByte(addr uint16) byte {
	return m.bytes[addr-m.origin]
}

// GetWord reads the big-endian 16-bit word starting at addr. Like real
// CHIP-8 memory, this works at any address, not just an even one: a word
// read at an odd address overlaps two instruction slots.
func (m *DisasmMemory) GetWord(addr uint16) uint16 {
	hi := uint16(m.GetByte(addr))
	lo := uint16(m.GetByte(addr + 1))
	return hi<<8 | lo
}

func (m *DisasmMemory) MarkInstruction(addr uint16) {
	m.instr[addr-m.origin] = true
}

func (m *DisasmMemory) IsInstruction(addr uint16) bool {
	if !m.Contains(addr) {
		return false
	}
	return m.instr[addr-m.origin]
}

func (m *DisasmMemory) MarkVisited(addr uint16) {
	m.visited[addr-m.origin] = true
}

func (m *DisasmMemory) IsVisited(addr uint16) bool {
	if !m.Contains(addr) {
		return false
	}
	return m.visited[addr-m.origin]
}

// Unmark clears both the visited and instruction bits at addr. The sweep
// uses this to retract a code classification reached via a spurious flow
// path once a later pass establishes that addr is actually a data pointer
// target (an I_TARGET always wins over a coincidentally-reached code path).
func (m *DisasmMemory) Unmark(addr uint16) {
	if !m.Contains(addr) {
		return
	}
	m.visited[addr-m.origin] = false
	m.instr[addr-m.origin] = false
}

// Len returns the number of bytes bound into this memory.
func (m *DisasmMemory) Len() int {
	return len(m.bytes)
}
