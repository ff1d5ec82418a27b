package parser_test

import (
	"testing"

	"github.com/chip8ir/chip8ir/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSourceStripsCommentsAndBlankLines(t *testing.T) {
	lines := parser.LoadSource("start:\n\n    LD V0, 1  ; comment\n; full line comment\nJP start\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "start:", lines[0].Text)
	assert.Equal(t, 1, lines[0].Line)
	assert.Equal(t, "    LD V0, 1  ", lines[1].Text)
	assert.Equal(t, 3, lines[1].Line)
	assert.Equal(t, "JP start", lines[2].Text)
	assert.Equal(t, 5, lines[2].Line)
}

func TestLoadSourceStripsTrailingCR(t *testing.T) {
	lines := parser.LoadSource("CLS\r\nRET\r\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "CLS", lines[0].Text)
	assert.Equal(t, "RET", lines[1].Text)
}

func TestLoadSourceDropsCommentOnlyLines(t *testing.T) {
	lines := parser.LoadSource("; only a comment\n   ; also only a comment\n")
	assert.Len(t, lines, 0)
}
