package parser

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
)

func (p *Parser) parseTypeDecl(h memberHead) syntax.Decl {
	td := &syntax.TypeDecl{Attributes: h.attributes, Modifiers: h.modifiers}
	switch {
	case p.eat(token.KwClass):
		td.Kind = syntax.KindClass
	case p.eat(token.KwStruct):
		td.Kind = syntax.KindStruct
	case p.eat(token.KwInterface):
		td.Kind = syntax.KindInterface
	case p.eat(token.KwEnum):
		td.Kind = syntax.KindEnum
	case p.eat(token.KwDelegate):
		return p.parseDelegate(h, td)
	default: // record
		p.advance()
		td.Kind = syntax.KindRecordClass
		if p.eat(token.KwStruct) {
			td.Kind = syntax.KindRecordStruct
		} else {
			p.eat(token.KwClass)
		}
	}

	name, ok := p.expectIdent()
	if !ok {
		p.resyncMember()
		return nil
	}
	td.Name = ident(name)
	td.TypeParams = p.parseTypeParams()
	if p.at(token.LParen) {
		td.PrimaryParams = p.parseParamList()
	}
	if p.eat(token.Colon) {
		for {
			if !p.startsType() {
				p.err(diag.HostIdentifierExpected)
				break
			}
			td.Bases = append(td.Bases, p.parseType())
			if p.at(token.LParen) {
				// Primary constructor base arguments.
				p.skipBalanced()
			}
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.skipConstraints()

	if td.Kind == syntax.KindRecordClass || td.Kind == syntax.KindRecordStruct || td.Kind == syntax.KindClass || td.Kind == syntax.KindStruct {
		if semi := p.peek(); semi.Kind == token.Semicolon {
			p.advance()
			td.DeclBase = h.base(p)
			return td
		}
	}

	open, ok := p.expect(token.LBrace, diag.HostOpenBraceExpected)
	if !ok {
		p.resyncMember()
		td.DeclBase = h.base(p)
		return td
	}
	td.OpenBrace = open.Span
	if td.Kind == syntax.KindEnum {
		td.EnumMembers = p.parseEnumMembers()
	} else {
		p.typeNames = append(p.typeNames, td.Name.Name)
		td.Members = p.parseTypeMembers()
		p.typeNames = p.typeNames[:len(p.typeNames)-1]
	}
	closeTok, _ := p.expect(token.RBrace, diag.HostCloseBraceExpected)
	td.CloseBrace = closeTok.Span
	p.eat(token.Semicolon)
	td.DeclBase = h.base(p)
	return td
}

func (p *Parser) parseTypeMembers() []syntax.Decl {
	var out []syntax.Decl
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.pos
		if d := p.parseMember(); d != nil {
			out = append(out, d)
		}
		if p.pos == before {
			p.report(diag.HostInvalidMemberToken, p.peek().Span, p.peek().Text)
			p.advance()
		}
	}
	return out
}

func (p *Parser) parseEnumMembers() []*syntax.EnumMember {
	var out []*syntax.EnumMember
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		m := &syntax.EnumMember{}
		for p.at(token.LBracket) {
			m.Attributes = append(m.Attributes, p.parseAttributeList())
		}
		name, ok := p.expectIdent()
		if !ok {
			p.skipUntil(token.Comma, token.RBrace)
			p.eat(token.Comma)
			continue
		}
		m.Name = ident(name)
		if p.eat(token.Assign) {
			m.Value, _ = p.parseExprUntil(token.Comma, token.RBrace)
		}
		out = append(out, m)
		if !p.eat(token.Comma) {
			break
		}
	}
	return out
}

func (p *Parser) parseDelegate(h memberHead, td *syntax.TypeDecl) syntax.Decl {
	td.Kind = syntax.KindDelegate
	td.ReturnType = p.parseType()
	name, ok := p.expectIdent()
	if !ok {
		p.resyncMember()
		return nil
	}
	td.Name = ident(name)
	td.TypeParams = p.parseTypeParams()
	td.Params = p.parseParamList()
	p.skipConstraints()
	p.expect(token.Semicolon, diag.HostSemicolonExpected)
	td.DeclBase = h.base(p)
	return td
}
