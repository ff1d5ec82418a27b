package binload_test

import (
	"testing"

	"github.com/chip8ir/chip8ir/binload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBindsImageAtOrigin(t *testing.T) {
	mem, err := binload.Load(0x200, []byte{0x00, 0xE0})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x200), mem.Start())
	assert.Equal(t, uint16(0x202), mem.End())
}

func TestLoadRejectsImageThatOverflowsMemory(t *testing.T) {
	_, err := binload.Load(0x200, make([]byte, binload.MaxImageLength+1))
	assert.Error(t, err)
}

func TestLoadAcceptsImageExactlyFillingMemory(t *testing.T) {
	mem, err := binload.Load(0x200, make([]byte, binload.MaxImageLength))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1000), mem.End())
}
