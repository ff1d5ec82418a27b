package parser

import (
	"github.com/chip8ir/chip8ir/diag"
)

// Parser is a recursive-descent parser over one tokenized source line at a
// time. Each non-empty source line (the loader has already dropped blank
// and comment-only ones) produces exactly zero or one ASTElement: a bare
// label line and a label-plus-body line both produce one element, the
// difference being only whether Body is BodyNone.
type Parser struct {
	tokens   []Token
	pos      int
	line     int
	filename string
	errs     *diag.List
}

// Parse tokenizes and parses every source line, returning the resulting
// ASTProgram plus every diagnostic collected along the way. Parsing does
// not stop at the first error: each line is synchronized independently
// (a malformed line contributes no ASTElement but does not prevent later
// lines from parsing), matching the lex/parse stage's "collect as many
// diagnostics as possible" policy.
func Parse(lines []SourceLine, filename string) (ASTProgram, diag.List) {
	var errs diag.List
	var program ASTProgram

	for _, sl := range lines {
		lexer := NewLexer(sl.Text, sl.Line)
		lexer.SetFilename(filename)
		toks := lexer.Tokenize(&errs)
		for i := range toks {
			toks[i].Line = sl.Line
		}

		p := &Parser{tokens: toks, line: sl.Line, filename: filename, errs: &errs}
		elem, ok := p.parseLine()
		if ok {
			program = append(program, elem)
		}
	}

	return program, errs
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF, Line: p.line}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) pos2diag() diag.Position {
	return diag.Position{Filename: p.filename, Line: p.current().Line, Column: p.current().Column}
}

func (p *Parser) fail(kind diag.Kind, message string) {
	p.errs.Add(diag.New(p.pos2diag(), kind, message))
}

// parseLine implements `line := [LABEL] [body]`. A line that fails partway
// through reports a diagnostic and yields no element, but does not touch
// any other line's parse.
func (p *Parser) parseLine() (ASTElement, bool) {
	elem := ASTElement{Line: p.line}
	failed := false

	if p.current().Kind == TokenLabel {
		tok := p.advance()
		elem.Label = &ASTLabel{Name: tok.Lexeme, Column: tok.Column}
	}

	if p.current().Kind == TokenEOF {
		if elem.Label == nil {
			return elem, false
		}
		return elem, true
	}

	switch p.current().Kind {
	case TokenDirective:
		dir, ok := p.parseDirective()
		if !ok {
			failed = true
			break
		}
		elem.Body = BodyDirective
		elem.Directive = dir
	case TokenIdentifier:
		// Either "NAME ASSIGNMENT expr" (an EQU) or an instruction mnemonic.
		if p.peekAssignment() {
			eq, ok := p.parseEqu()
			if !ok {
				failed = true
				break
			}
			elem.Body = BodyEqu
			elem.Equ = eq
		} else {
			inst, ok := p.parseInstruction()
			if !ok {
				failed = true
				break
			}
			elem.Body = BodyInstruction
			elem.Instruction = inst
		}
	default:
		p.fail(diag.KindSyntax, "unexpected token "+p.current().Kind.String())
		failed = true
	}

	if failed {
		return ASTElement{}, false
	}

	if p.current().Kind != TokenEOF {
		p.fail(diag.KindSyntax, "trailing garbage after statement")
		return ASTElement{}, false
	}

	return elem, true
}

// peekAssignment reports whether the token after the current IDENTIFIER is
// an ASSIGNMENT, which disambiguates an EQU line from an instruction whose
// mnemonic happens to be a plain identifier.
func (p *Parser) peekAssignment() bool {
	if p.pos+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.pos+1].Kind == TokenAssignment
}

func (p *Parser) parseEqu() (ASTEqu, bool) {
	name := p.advance() // IDENTIFIER
	p.advance()          // ASSIGNMENT
	value, ok := p.parseExpression()
	if !ok {
		return ASTEqu{}, false
	}
	return ASTEqu{Name: name.Lexeme, Column: name.Column, Value: value}, true
}

func (p *Parser) parseInstruction() (ASTInstruction, bool) {
	mnemonic := p.advance()
	inst := ASTInstruction{Mnemonic: mnemonic.Lexeme, Column: mnemonic.Column}

	if p.current().Kind == TokenEOF {
		return inst, true
	}

	operands, ok := p.parseOperandList()
	if !ok {
		return ASTInstruction{}, false
	}
	inst.Operands = operands
	return inst, true
}

func (p *Parser) parseDirective() (ASTDirective, bool) {
	name := p.advance()
	dir := ASTDirective{Name: name.Lexeme, Column: name.Column}

	if p.current().Kind == TokenEOF {
		return dir, true
	}

	args, ok := p.parseOperandList()
	if !ok {
		return ASTDirective{}, false
	}
	dir.Args = args
	return dir, true
}

func (p *Parser) parseOperandList() ([]ASTExpression, bool) {
	var ops []ASTExpression
	for {
		expr, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		ops = append(ops, expr)

		if p.current().Kind != TokenComma {
			break
		}
		p.advance()
	}
	return ops, true
}

// expression := additive
func (p *Parser) parseExpression() (ASTExpression, bool) {
	return p.parseAdditive()
}

// additive := multiplicative { (PLUS|MINUS) multiplicative }
func (p *Parser) parseAdditive() (ASTExpression, bool) {
	lhs, ok := p.parseMultiplicative()
	if !ok {
		return ASTExpression{}, false
	}

	for p.current().Kind == TokenPlus || p.current().Kind == TokenMinus {
		opTok := p.advance()
		op := OpAdd
		if opTok.Kind == TokenMinus {
			op = OpSub
		}
		rhs, ok := p.parseMultiplicative()
		if !ok {
			return ASTExpression{}, false
		}
		lhs = BinaryExpr(op, lhs, rhs, opTok.Column)
	}
	return lhs, true
}

// multiplicative := primary { (STAR|SLASH) primary }
func (p *Parser) parseMultiplicative() (ASTExpression, bool) {
	lhs, ok := p.parsePrimary()
	if !ok {
		return ASTExpression{}, false
	}

	for p.current().Kind == TokenStar || p.current().Kind == TokenSlash {
		opTok := p.advance()
		op := OpMul
		if opTok.Kind == TokenSlash {
			op = OpDiv
		}
		rhs, ok := p.parsePrimary()
		if !ok {
			return ASTExpression{}, false
		}
		lhs = BinaryExpr(op, lhs, rhs, opTok.Column)
	}
	return lhs, true
}

// primary := NUMBER | IDENTIFIER | LPAREN expression RPAREN
func (p *Parser) parsePrimary() (ASTExpression, bool) {
	tok := p.current()
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		return NumberExpr(tok.Value, tok.Column), true
	case TokenIdentifier:
		p.advance()
		return IdentifierExpr(tok.Lexeme, tok.Column), true
	case TokenLParen:
		p.advance()
		expr, ok := p.parseExpression()
		if !ok {
			return ASTExpression{}, false
		}
		if p.current().Kind != TokenRParen {
			p.fail(diag.KindSyntax, "unbalanced parenthesis")
			return ASTExpression{}, false
		}
		p.advance()
		return expr, true
	default:
		p.fail(diag.KindSyntax, "expected an operand")
		return ASTExpression{}, false
	}
}
