package parser

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
)

// parseAttributeList parses `[target: Attr(args), Other]`.
func (p *Parser) parseAttributeList() *syntax.AttributeList {
	open := p.advance() // '['
	list := &syntax.AttributeList{FullStart: open.LeadingStart()}
	next := p.peekN(1)
	if next.Kind == token.Colon {
		target := p.peek()
		switch {
		case target.Kind == token.Ident:
			list.Target = target.Value
		case target.Kind == token.KwReturn || target.Kind == token.KwEvent:
			list.Target = target.Kind.String()
		}
		if list.Target != "" {
			list.TargetSpan = target.Span
			p.advance()
			p.advance()
		}
	}
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		attr := p.parseAttribute()
		if attr == nil {
			p.skipUntil(token.Comma, token.RBracket)
		} else {
			list.Attributes = append(list.Attributes, attr)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, diag.HostTokenExpected, "]")
	list.Span = p.spanFrom(open.Span)
	return list
}

func (p *Parser) parseAttribute() *syntax.Attribute {
	if !p.at(token.Ident) {
		p.err(diag.HostIdentifierExpected)
		return nil
	}
	start := p.peek().Span
	attr := &syntax.Attribute{Name: p.parseType()}
	if p.at(token.LParen) {
		open := p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			attr.Args = append(attr.Args, p.parseAttributeArg())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, diag.HostCloseParenExpected)
		attr.ArgsSpan = p.spanFrom(open.Span)
	}
	attr.Span = p.spanFrom(start)
	return attr
}

func (p *Parser) parseAttributeArg() *syntax.AttributeArg {
	start := p.peek().Span
	arg := &syntax.AttributeArg{}
	if p.at(token.Ident) {
		switch p.peekN(1).Kind {
		case token.Assign:
			arg.NameEquals = p.advance().Value
			p.advance()
		case token.Colon:
			arg.NameColon = p.advance().Value
			p.advance()
		}
	}
	arg.Value, _ = p.parseExprUntil(token.Comma, token.RParen)
	arg.Span = p.spanFrom(start)
	return arg
}
