package parser

import (
	"slices"

	"mvvmgen/internal/csharp/lexer"
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

type Options struct {
	// MaxErrors stops reporting after this many errors; 0 means no limit.
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit was reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser holds the per-file parse state.
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	opts     Options
	lastSpan source.Span
	// typeNames tracks enclosing type names for constructor detection.
	typeNames []string
}

// ParseFile lexes and parses one file. Syntax errors are reported and never
// abort the parse; the returned tree holds everything that was recognized.
func ParseFile(file *source.File, opts Options) *syntax.CompilationUnit {
	p := &Parser{
		file: file,
		toks: lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter}),
		opts: opts,
	}
	return p.parseCompilationUnit()
}

// Errors returns how many errors the parser reported.
func (p *Parser) Errors() uint { return p.opts.CurrentErrors }

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

// peekN looks n tokens ahead; past the end it returns EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atAny(kinds ...token.Kind) bool { return slices.Contains(kinds, p.peek().Kind) }

// atWord reports a contextual keyword at the current position.
func (p *Parser) atWord(word string) bool { return p.peek().Is(word) }

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
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

func (p *Parser) text(start, end uint32) string {
	return p.file.Slice(start, end)
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return source.Span{File: p.file.ID, Start: start.Start, End: p.lastSpan.End}
}

func (p *Parser) parseCompilationUnit() *syntax.CompilationUnit {
	cu := &syntax.CompilationUnit{File: p.file.ID}
	start := p.peek().Span
	for p.at(token.KwExtern) && p.peekN(1).Is("alias") {
		p.skipPast(token.Semicolon)
	}
	cu.Usings = p.parseUsings()
	cu.Attributes = p.parseGlobalAttributes()
	cu.Members = p.parseNamespaceMembers(token.EOF, &cu.Usings)
	cu.Span = source.Span{File: p.file.ID, Start: start.Start, End: uint32(len(p.file.Content))}
	return cu
}
