package parser

import (
	"slices"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/source"
	"playscript/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree   *ast.Tree
	Errors uint
}

// Parser holds the state for one file. The whole token stream is read up front
// so declarations can be told apart from expressions with two tokens of lookahead.
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	tree     *ast.Tree
	opts     Options
	lastSpan source.Span
	// className is the enclosing class while parsing members; constructors are recognised by it.
	className string
}

// ParseFile lexes and parses one file. Lexical and syntax diagnostics go to opts.Reporter.
func ParseFile(file *source.File, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	all := lx.All()
	toks := all[:0]
	for _, tok := range all {
		// already reported by the lexer
		if tok.Kind != token.Invalid {
			toks = append(toks, tok)
		}
	}
	p := Parser{
		file:     file,
		toks:     toks,
		tree:     ast.NewTree(file.ID, uint(len(toks))),
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.parseProgram()
	return Result{Tree: p.tree, Errors: p.opts.CurrentErrors}
}

func (p *Parser) parseProgram() {
	start := p.peek().Span
	var stmts []ast.NodeID
	for !p.at(token.EOF) {
		before := p.pos
		if id := p.parseBlockStatement(); id.IsValid() {
			stmts = append(stmts, id)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.tree.NewProgram(start.Cover(p.lastSpan), stmts)
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// diagnosticSpan points at the current token, or just past the last consumed
// one when the current token is EOF.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || p.opts.Enough() {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

// syncStmt skips to the end of the broken statement: past the next ';', or up to
// a '}' or a token that starts a declaration.
func (p *Parser) syncStmt() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace, token.KwClass, token.KwIf, token.KwWhile, token.KwFor, token.KwReturn, token.KwBreak:
			return
		}
		p.advance()
	}
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
