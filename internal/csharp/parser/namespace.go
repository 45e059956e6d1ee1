package parser

import (
	"strings"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
)

// parseUsings parses consecutive using directives.
func (p *Parser) parseUsings() []*syntax.UsingDirective {
	var out []*syntax.UsingDirective
	for {
		global := p.atWord("global") && p.peekN(1).Kind == token.KwUsing
		if !p.at(token.KwUsing) && !global {
			return out
		}
		start := p.peek().Span
		u := &syntax.UsingDirective{Global: global}
		if global {
			p.advance()
		}
		p.advance() // using
		if p.eat(token.KwStatic) {
			u.Static = true
		}
		if p.at(token.Ident) && p.peekN(1).Kind == token.Assign {
			u.Alias = p.advance().Value
			p.advance()
		}
		u.Name = p.parseType()
		p.expect(token.Semicolon, diag.HostSemicolonExpected)
		u.Span = p.spanFrom(start)
		out = append(out, u)
	}
}

// parseGlobalAttributes parses [assembly: ...] and [module: ...] lists.
func (p *Parser) parseGlobalAttributes() []*syntax.AttributeList {
	var out []*syntax.AttributeList
	for p.at(token.LBracket) {
		next := p.peekN(1)
		if !(next.Is("assembly") || next.Is("module")) || p.peekN(2).Kind != token.Colon {
			break
		}
		out = append(out, p.parseAttributeList())
	}
	return out
}

// parseNamespaceMembers parses namespace and type declarations until end.
// usings collects directives of a file-scoped namespace.
func (p *Parser) parseNamespaceMembers(end token.Kind, usings *[]*syntax.UsingDirective) []syntax.Decl {
	var out []syntax.Decl
	for !p.at(end) && !p.at(token.EOF) {
		before := p.pos
		if p.at(token.KwUsing) || (p.atWord("global") && p.peekN(1).Kind == token.KwUsing) {
			// Usings after members are invalid C#; keep them anyway.
			*usings = append(*usings, p.parseUsings()...)
			continue
		}
		if p.at(token.KwNamespace) {
			if ns := p.parseNamespace(); ns != nil {
				out = append(out, ns)
			}
			continue
		}
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

func (p *Parser) parseNamespace() *syntax.NamespaceDecl {
	first := p.peek()
	p.advance() // namespace
	ns := &syntax.NamespaceDecl{}
	ns.FullStart = first.LeadingStart()
	ns.Leading = first.Leading
	nameStart := p.peek().Span
	var parts []string
	for {
		id, ok := p.expectIdent()
		if !ok {
			break
		}
		parts = append(parts, id.Value)
		if !p.eat(token.Dot) {
			break
		}
	}
	ns.Name = strings.Join(parts, ".")
	ns.NameSpan = p.spanFrom(nameStart)

	if p.eat(token.Semicolon) {
		ns.FileScoped = true
		ns.Usings = p.parseUsings()
		ns.Members = p.parseNamespaceMembers(token.EOF, &ns.Usings)
		ns.Span = p.spanFrom(first.Span)
		return ns
	}
	if _, ok := p.expect(token.LBrace, diag.HostOpenBraceExpected); !ok {
		ns.Span = p.spanFrom(first.Span)
		return ns
	}
	ns.Usings = p.parseUsings()
	ns.Members = p.parseNamespaceMembers(token.RBrace, &ns.Usings)
	p.expect(token.RBrace, diag.HostCloseBraceExpected)
	p.eat(token.Semicolon)
	ns.Span = p.spanFrom(first.Span)
	return ns
}
