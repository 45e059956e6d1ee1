package parser

import (
	"strings"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/source"
)

// parseExprUntil parses an expression ending before one of stops at depth 0.
// Constant forms are structured; anything else becomes an OpaqueExpr. The
// boolean result is false when the expression had to be kept opaque.
func (p *Parser) parseExprUntil(stops ...token.Kind) (syntax.Expr, bool) {
	save := p.pos
	start := p.peek().Span
	if e, ok := p.tryConstExpr(); ok && (p.atAny(stops...) || p.at(token.EOF)) {
		return e, true
	}
	p.pos = save
	p.skipUntil(stops...)
	if p.pos == save {
		return &syntax.OpaqueExpr{ExprBase: syntax.ExprBase{Span: source.Span{File: p.file.ID, Start: start.Start, End: start.Start}}}, false
	}
	end := p.toks[p.pos-1].Span.End
	sp := source.Span{File: p.file.ID, Start: start.Start, End: end}
	return &syntax.OpaqueExpr{ExprBase: syntax.ExprBase{Span: sp}, Text: p.text(sp.Start, sp.End)}, false
}

func (p *Parser) tryConstExpr() (syntax.Expr, bool) {
	left, ok := p.tryUnary()
	if !ok {
		return nil, false
	}
	for p.atAny(token.Pipe, token.Amp, token.Plus, token.Minus, token.Caret, token.Star, token.Shl) {
		op := p.advance().Text
		right, ok := p.tryUnary()
		if !ok {
			return nil, false
		}
		sp := left.ExprSpan().Cover(right.ExprSpan())
		left = &syntax.BinaryExpr{ExprBase: syntax.ExprBase{Span: sp}, Op: op, Left: left, Right: right}
	}
	return left, true
}

func (p *Parser) tryUnary() (syntax.Expr, bool) {
	if p.atAny(token.Minus, token.Tilde, token.Plus) {
		op := p.advance()
		operand, ok := p.tryUnary()
		if !ok {
			return nil, false
		}
		return &syntax.UnaryExpr{ExprBase: syntax.ExprBase{Span: op.Span.Cover(operand.ExprSpan())}, Op: op.Text, Operand: operand}, true
	}
	return p.tryPrimary()
}

func (p *Parser) tryPrimary() (syntax.Expr, bool) {
	tok := p.peek()
	base := syntax.ExprBase{Span: tok.Span}
	switch tok.Kind {
	case token.StringLit:
		p.advance()
		return &syntax.LiteralExpr{ExprBase: base, Kind: syntax.LitString, Value: tok.Value, Text: tok.Text}, true
	case token.CharLit:
		p.advance()
		return &syntax.LiteralExpr{ExprBase: base, Kind: syntax.LitChar, Value: tok.Value, Text: tok.Text}, true
	case token.IntLit:
		p.advance()
		return &syntax.LiteralExpr{ExprBase: base, Kind: syntax.LitInt, Value: tok.Text, Text: tok.Text}, true
	case token.RealLit:
		p.advance()
		return &syntax.LiteralExpr{ExprBase: base, Kind: syntax.LitReal, Value: tok.Text, Text: tok.Text}, true
	case token.KwTrue:
		p.advance()
		return &syntax.LiteralExpr{ExprBase: base, Kind: syntax.LitTrue, Value: "true", Text: tok.Text}, true
	case token.KwFalse:
		p.advance()
		return &syntax.LiteralExpr{ExprBase: base, Kind: syntax.LitFalse, Value: "false", Text: tok.Text}, true
	case token.KwNull:
		p.advance()
		return &syntax.LiteralExpr{ExprBase: base, Kind: syntax.LitNull, Value: "null", Text: tok.Text}, true
	case token.KwDefault:
		p.advance()
		if p.at(token.LParen) {
			return nil, false
		}
		return &syntax.LiteralExpr{ExprBase: base, Kind: syntax.LitDefault, Value: "default", Text: tok.Text}, true
	case token.KwTypeof:
		p.advance()
		if !p.eat(token.LParen) {
			return nil, false
		}
		typ := p.parseType()
		if !p.eat(token.RParen) {
			return nil, false
		}
		return &syntax.TypeofExpr{ExprBase: syntax.ExprBase{Span: p.spanFrom(tok.Span)}, Type: typ}, true
	case token.LParen:
		p.advance()
		inner, ok := p.tryConstExpr()
		if !ok || !p.eat(token.RParen) {
			return nil, false
		}
		return inner, true
	case token.KwNew:
		return p.tryArrayCreation()
	case token.LBracket:
		p.advance()
		elems, ok := p.tryElements(token.RBracket)
		if !ok {
			return nil, false
		}
		return &syntax.ArrayExpr{ExprBase: syntax.ExprBase{Span: p.spanFrom(tok.Span)}, Elements: elems}, true
	case token.Ident:
		if tok.Is("nameof") && p.peekN(1).Kind == token.LParen {
			return p.tryNameof()
		}
		return p.tryName()
	}
	if tok.Kind.IsPredefinedType() && p.peekN(1).Kind == token.Dot {
		// int.MaxValue and friends.
		return p.tryName()
	}
	return nil, false
}

func (p *Parser) tryName() (syntax.Expr, bool) {
	start := p.peek().Span
	var parts []string
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.Ident:
			parts = append(parts, tok.Value)
		case tok.Kind.IsPredefinedType() && len(parts) == 0:
			parts = append(parts, tok.Text)
		default:
			return nil, false
		}
		p.advance()
		if p.at(token.LParen) || p.at(token.Lt) {
			// Invocations and generic names are not constant.
			return nil, false
		}
		if !p.eat(token.Dot) {
			break
		}
	}
	return &syntax.NameExpr{ExprBase: syntax.ExprBase{Span: p.spanFrom(start)}, Parts: parts}, true
}

func (p *Parser) tryNameof() (syntax.Expr, bool) {
	start := p.advance().Span // nameof
	p.advance()               // (
	var parts []string
	for {
		tok := p.peek()
		if tok.Kind != token.Ident && tok.Kind != token.KwThis && !tok.Kind.IsPredefinedType() {
			return nil, false
		}
		name := tok.Value
		if name == "" {
			name = tok.Text
		}
		parts = append(parts, name)
		p.advance()
		if p.at(token.Lt) {
			p.skipBalancedAngles()
		}
		if !p.eat(token.Dot) {
			break
		}
	}
	if !p.eat(token.RParen) {
		return nil, false
	}
	return &syntax.NameofExpr{
		ExprBase: syntax.ExprBase{Span: p.spanFrom(start)},
		Target:   strings.Join(parts, "."),
		Name:     parts[len(parts)-1],
	}, true
}

func (p *Parser) tryArrayCreation() (syntax.Expr, bool) {
	start := p.advance().Span // new
	var elemType *syntax.TypeRef
	if p.at(token.LBracket) {
		p.advance()
		if !p.eat(token.RBracket) {
			return nil, false
		}
	} else {
		if !p.at(token.Ident) && !p.peek().Kind.IsPredefinedType() {
			return nil, false
		}
		elemType = p.parseType()
		if len(elemType.ArrayRank) == 0 {
			return nil, false
		}
		elemType.ArrayRank = elemType.ArrayRank[:len(elemType.ArrayRank)-1]
	}
	if !p.eat(token.LBrace) {
		return nil, false
	}
	elems, ok := p.tryElements(token.RBrace)
	if !ok {
		return nil, false
	}
	return &syntax.ArrayExpr{ExprBase: syntax.ExprBase{Span: p.spanFrom(start)}, ElemType: elemType, Elements: elems}, true
}

// tryElements parses comma-separated constants through the closing token.
func (p *Parser) tryElements(closeKind token.Kind) ([]syntax.Expr, bool) {
	var elems []syntax.Expr
	for !p.at(closeKind) {
		e, ok := p.tryConstExpr()
		if !ok {
			return nil, false
		}
		elems = append(elems, e)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.eat(closeKind) {
		return nil, false
	}
	return elems, true
}
