package parser

import (
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

// diagSpan returns the best span for a diagnostic at the current position:
// at EOF it points just past the last consumed token.
func (p *Parser) diagSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes k or reports code at the current position.
func (p *Parser) expect(k token.Kind, code diag.Code, args ...string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, args...)
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func (p *Parser) expectIdent() (token.Token, bool) {
	if p.at(token.Ident) {
		return p.advance(), true
	}
	p.err(diag.HostIdentifierExpected)
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func (p *Parser) err(code diag.Code, args ...string) {
	p.report(code, p.diagSpan(), args...)
}

func (p *Parser) report(code diag.Code, sp source.Span, args ...string) {
	if p.opts.Reporter == nil {
		return
	}
	d := diag.New(code, sp, args...)
	if d.Severity == diag.SevError {
		p.opts.CurrentErrors++
	}
	if !p.opts.Enough() {
		p.opts.Reporter.Report(d)
	}
}

// skipBalanced consumes one token; when it opens a bracket it consumes
// through the matching closer.
func (p *Parser) skipBalanced() {
	open := p.peek().Kind
	var closeKind token.Kind
	switch open {
	case token.LParen:
		closeKind = token.RParen
	case token.LBracket:
		closeKind = token.RBracket
	case token.LBrace:
		closeKind = token.RBrace
	default:
		p.advance()
		return
	}
	p.advance()
	for !p.at(token.EOF) && !p.at(closeKind) {
		if p.atAny(token.RParen, token.RBracket, token.RBrace) {
			// Mismatched closer: leave it for the enclosing level.
			return
		}
		p.skipBalanced()
	}
	p.eat(closeKind)
}

// skipUntil consumes balanced groups until one of kinds is current at depth 0.
func (p *Parser) skipUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.atAny(kinds...) {
		if p.atAny(token.RParen, token.RBracket, token.RBrace) {
			return
		}
		p.skipBalanced()
	}
}

// skipPast consumes through the next k at depth 0.
func (p *Parser) skipPast(k token.Kind) {
	p.skipUntil(k)
	p.eat(k)
}

// resyncMember recovers inside a type body: it skips to the end of the broken
// member (';' or a balanced block) or to the closing brace of the type.
func (p *Parser) resyncMember() {
	for !p.at(token.EOF) && !p.at(token.RBrace) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.LBrace:
			p.skipBalanced()
			return
		case token.LBracket:
			return
		}
		if p.peek().Kind.IsModifier() {
			return
		}
		p.skipBalanced()
	}
}
