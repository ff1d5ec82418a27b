// Package diag carries diagnostics produced across the pipeline: lexing,
// parsing, symbol resolution, encoding, and disassembly all report through
// the same Diagnostic shape so callers don't need a stage-specific error
// type for each.
package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Severity distinguishes a fatal problem from an advisory one. Only Error
// severity stops the pipeline; Warning is collected and surfaced alongside
// a successful result.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Kind categorizes a diagnostic's origin so callers can filter or count by
// class without string-matching Message.
type Kind int

const (
	KindSyntax Kind = iota
	KindUndefinedSymbol
	KindDuplicateSymbol
	KindInvalidDirective
	KindInvalidMnemonic
	KindInvalidOperand
	KindOperandRange
	KindUnalignedAddress
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindUndefinedSymbol:
		return "undefined-symbol"
	case KindDuplicateSymbol:
		return "duplicate-symbol"
	case KindInvalidDirective:
		return "invalid-directive"
	case KindInvalidMnemonic:
		return "invalid-mnemonic"
	case KindInvalidOperand:
		return "invalid-operand"
	case KindOperandRange:
		return "operand-range"
	case KindUnalignedAddress:
		return "unaligned-address"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Position locates a diagnostic within a source file.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Diagnostic is a single reported problem or warning.
type Diagnostic struct {
	Severity Severity
	Pos      Position
	Kind     Kind
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// Error satisfies the error interface so a single Diagnostic can be
// returned, wrapped, or compared like any other Go error.
func (d Diagnostic) Error() string {
	return d.String()
}

func New(pos Position, kind Kind, message string) Diagnostic {
	return Diagnostic{Severity: Error, Pos: pos, Kind: kind, Message: message}
}

func Newf(pos Position, kind Kind, format string, args ...interface{}) Diagnostic {
	return New(pos, kind, fmt.Sprintf(format, args...))
}

func NewWarning(pos Position, kind Kind, message string) Diagnostic {
	return Diagnostic{Severity: Warning, Pos: pos, Kind: kind, Message: message}
}

// List collects diagnostics produced during a single pipeline stage. Stages
// that can report several independent problems (the lexer, the parser)
// accumulate into a List rather than failing on the first one; stages that
// depend on a fully resolved prior stage (the encoder, the two-pass
// resolver) fail on the first Error they hit.
type List struct {
	items []Diagnostic
}

func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

func (l *List) Addf(pos Position, kind Kind, format string, args ...interface{}) {
	l.Add(Newf(pos, kind, format, args...))
}

func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (l *List) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range l.items {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

func (l *List) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range l.items {
		if d.Severity == Warning {
			out = append(out, d)
		}
	}
	return out
}

func (l *List) All() []Diagnostic {
	return l.items
}

func (l *List) Len() int {
	return len(l.items)
}

// Error renders every collected diagnostic, one per line. It implements the
// error interface so a *List can be returned directly from a stage that
// failed.
func (l *List) Error() string {
	var sb strings.Builder
	for _, d := range l.items {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Wrap attaches stage context to an error coming out of a pipeline boundary
// (e.g. the parser handing a failure to the two-pass resolver) while
// keeping the original diagnostic retrievable with errors.Cause.
func Wrap(err error, stage string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "%s", stage)
}
