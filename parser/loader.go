package parser

import (
	"bufio"
	"os"
	"strings"

	"github.com/chip8ir/chip8ir/diag"
)

// SourceLine is one non-empty, comment-stripped input line ready for the
// lexer, paired with its 1-based line number in the original file.
type SourceLine struct {
	Text string
	Line int
}

// LoadSource splits text into lines, strips a trailing CR left over from
// CRLF input and anything from the first ';' onward, and keeps only the
// lines that still have content. Blank, whitespace-only, CR-only, and
// comment-only lines are dropped entirely rather than passed through as
// empty tokens.
func LoadSource(text string) []SourceLine {
	var out []SourceLine
	lineNo := 0
	for _, raw := range strings.Split(text, "\n") {
		lineNo++
		line := strings.TrimSuffix(raw, "\r")
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, SourceLine{Text: line, Line: lineNo})
	}
	return out
}

// LoadSourceFile reads filePath and applies LoadSource to its contents. IO
// failures are reported as a diag.Diagnostic of KindIO rather than a bare
// Go error, so callers can fold it into a diag.List alongside lex/parse
// diagnostics.
func LoadSourceFile(filePath string) ([]SourceLine, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, diag.New(diag.Position{Filename: filePath}, diag.KindIO, err.Error())
	}
	defer f.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, diag.New(diag.Position{Filename: filePath}, diag.KindIO, err.Error())
	}
	return LoadSource(sb.String()), nil
}
