package parser

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

// startsType reports whether the current token can begin a type.
func (p *Parser) startsType() bool {
	tok := p.peek()
	return tok.Kind == token.Ident || tok.Kind.IsPredefinedType() || tok.Kind == token.LParen
}

// parseType parses a type reference: predefined alias, qualified generic name
// or tuple, followed by '?', '*' and array rank suffixes.
func (p *Parser) parseType() *syntax.TypeRef {
	start := p.peek().Span
	ref := &syntax.TypeRef{}
	switch {
	case p.peek().Kind.IsPredefinedType():
		ref.Keyword = p.advance().Kind
	case p.at(token.LParen):
		p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			elem := p.parseType()
			ref.Tuple = append(ref.Tuple, elem)
			if p.at(token.Ident) {
				p.advance() // element name
			}
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, diag.HostCloseParenExpected)
	case p.at(token.Ident):
		if p.peek().Is("global") && p.peekN(1).Kind == token.ColonColon {
			ref.Global = true
			p.advance()
			p.advance()
		}
		for {
			if !p.at(token.Ident) {
				p.err(diag.HostIdentifierExpected)
				break
			}
			ref.Segments = append(ref.Segments, p.parseNameSegment())
			// `alias::Name` is treated like a dotted name.
			if (p.at(token.Dot) || p.at(token.ColonColon)) && p.peekN(1).Kind == token.Ident {
				p.advance()
				continue
			}
			break
		}
	default:
		p.err(diag.HostIdentifierExpected)
		return &syntax.TypeRef{Span: p.diagSpan()}
	}

	for {
		switch {
		case p.at(token.Question):
			p.advance()
			ref.Nullable = true
			continue
		case p.at(token.Star):
			p.advance()
			ref.Pointer++
			continue
		case p.at(token.LBracket) && (p.peekN(1).Kind == token.RBracket || p.peekN(1).Kind == token.Comma):
			p.advance()
			rank := 1
			for p.eat(token.Comma) {
				rank++
			}
			p.expect(token.RBracket, diag.HostTokenExpected, "]")
			ref.ArrayRank = append(ref.ArrayRank, rank)
			continue
		}
		break
	}
	ref.Span = source.Span{File: p.file.ID, Start: start.Start, End: p.lastSpan.End}
	ref.Text = p.text(ref.Span.Start, ref.Span.End)
	return ref
}

func (p *Parser) parseNameSegment() syntax.NameSegment {
	tok := p.advance()
	seg := syntax.NameSegment{Name: tok.Value, Span: tok.Span}
	if p.at(token.Lt) && p.looksLikeTypeArgs() {
		p.advance()
		for !p.at(token.Gt) && !p.at(token.EOF) {
			if p.at(token.Comma) {
				// Unbound generic: typeof(Dictionary<,>).
				p.advance()
				seg.TypeArgs = append(seg.TypeArgs, &syntax.TypeRef{})
				continue
			}
			seg.TypeArgs = append(seg.TypeArgs, p.parseType())
			if !p.eat(token.Comma) {
				break
			}
		}
		if len(seg.TypeArgs) == 0 {
			seg.TypeArgs = append(seg.TypeArgs, &syntax.TypeRef{})
		}
		p.expect(token.Gt, diag.HostTokenExpected, ">")
		seg.Span = p.spanFrom(tok.Span)
	}
	return seg
}

// looksLikeTypeArgs scans ahead from '<' for a matching '>' made only of
// type-like tokens.
func (p *Parser) looksLikeTypeArgs() bool {
	depth := 0
	for i := 0; ; i++ {
		switch p.peekN(i).Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				return true
			}
		case token.Ident, token.Comma, token.Dot, token.Question, token.LBracket, token.RBracket,
			token.LParen, token.RParen, token.Star, token.ColonColon:
		default:
			if !p.peekN(i).Kind.IsPredefinedType() {
				return false
			}
		}
		if p.peekN(i).Kind == token.EOF {
			return false
		}
	}
}

func (p *Parser) parseTypeParams() []syntax.Ident {
	if !p.at(token.Lt) {
		return nil
	}
	p.advance()
	var out []syntax.Ident
	for !p.at(token.Gt) && !p.at(token.EOF) {
		for p.at(token.LBracket) {
			p.parseAttributeList()
		}
		if p.at(token.KwIn) || p.at(token.KwOut) {
			p.advance()
		}
		name, ok := p.expectIdent()
		if !ok {
			break
		}
		out = append(out, ident(name))
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.Gt, diag.HostTokenExpected, ">")
	return out
}

func (p *Parser) parseParamList() []*syntax.Parameter {
	return p.parseDelimitedParams(token.LParen, token.RParen)
}

func (p *Parser) parseDelimitedParams(open, closeKind token.Kind) []*syntax.Parameter {
	if _, ok := p.expect(open, diag.HostTokenExpected, open.String()); !ok {
		return nil
	}
	var out []*syntax.Parameter
	for !p.at(closeKind) && !p.at(token.EOF) {
		param := p.parseParameter(closeKind)
		if param == nil {
			p.skipUntil(token.Comma, closeKind)
		} else {
			out = append(out, param)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if closeKind == token.RParen {
		p.expect(closeKind, diag.HostCloseParenExpected)
	} else {
		p.expect(closeKind, diag.HostTokenExpected, closeKind.String())
	}
	return out
}

func (p *Parser) parseParameter(closeKind token.Kind) *syntax.Parameter {
	start := p.peek().Span
	param := &syntax.Parameter{}
	for p.at(token.LBracket) {
		param.Attributes = append(param.Attributes, p.parseAttributeList())
	}
mods:
	for {
		switch {
		case p.eat(token.KwRef):
			param.Modifiers |= syntax.ParamRef
		case p.eat(token.KwOut):
			param.Modifiers |= syntax.ParamOut
		case p.eat(token.KwIn):
			param.Modifiers |= syntax.ParamIn
		case p.eat(token.KwParams):
			param.Modifiers |= syntax.ParamParams
		case p.eat(token.KwThis):
			param.Modifiers |= syntax.ParamThis
		case p.eat(token.KwReadonly):
			param.Modifiers |= syntax.ParamReadonly
		case p.atWord("scoped") && p.continuesDeclaration(1):
			p.advance()
			param.Modifiers |= syntax.ParamScoped
		default:
			break mods
		}
	}
	if !p.startsType() {
		p.err(diag.HostIdentifierExpected)
		return nil
	}
	param.Type = p.parseType()
	name, ok := p.expectIdent()
	if !ok {
		return nil
	}
	param.Name = ident(name)
	if p.eat(token.Assign) {
		param.Default, _ = p.parseExprUntil(token.Comma, closeKind)
	}
	param.Span = p.spanFrom(start)
	return param
}
