// Package binload is the disassembler-side counterpart to parser's source
// loader: it reads a raw CHIP-8 binary image and binds it into an
// ir.DisasmMemory at a given origin, ready for the disassembler's
// reachability sweep. CHIP-8 images have no header, so this is a thin
// wrapper rather than a format parser.
package binload

import (
	"fmt"
	"os"

	"github.com/chip8ir/chip8ir/diag"
	"github.com/chip8ir/chip8ir/ir"
)

// MaxImageLength is the largest image that fits between origin 0x200 and
// the top of CHIP-8's 4 KiB address space.
const MaxImageLength = 0xFFF - 0x200 + 1

// Load binds image at origin into a DisasmMemory. An image longer than
// fits in CHIP-8's address space starting at origin is rejected rather
// than silently truncated.
func Load(origin uint16, image []byte) (*ir.DisasmMemory, error) {
	if int(origin)+len(image) > 0x1000 {
		return nil, diag.New(diag.Position{}, diag.KindIO,
			fmt.Sprintf("image of %d bytes does not fit in memory from origin 0x%03X", len(image), origin))
	}
	return ir.NewDisasmMemory(origin, image), nil
}

// LoadFile reads filePath whole and binds it at origin.
func LoadFile(origin uint16, filePath string) (*ir.DisasmMemory, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, diag.New(diag.Position{Filename: filePath}, diag.KindIO, err.Error())
	}
	return Load(origin, data)
}
