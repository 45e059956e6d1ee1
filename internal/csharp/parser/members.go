package parser

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

// contextualModifiers are identifiers that act as modifiers when followed by
// more declaration tokens.
var contextualModifiers = map[string]syntax.Modifiers{
	"partial":  syntax.ModPartial,
	"async":    syntax.ModAsync,
	"required": syntax.ModRequired,
	"file":     syntax.ModFile,
}

var keywordModifiers = map[token.Kind]syntax.Modifiers{
	token.KwPublic:    syntax.ModPublic,
	token.KwPrivate:   syntax.ModPrivate,
	token.KwProtected: syntax.ModProtected,
	token.KwInternal:  syntax.ModInternal,
	token.KwStatic:    syntax.ModStatic,
	token.KwReadonly:  syntax.ModReadonly,
	token.KwConst:     syntax.ModConst,
	token.KwAbstract:  syntax.ModAbstract,
	token.KwSealed:    syntax.ModSealed,
	token.KwVirtual:   syntax.ModVirtual,
	token.KwOverride:  syntax.ModOverride,
	token.KwNew:       syntax.ModNew,
	token.KwExtern:    syntax.ModExtern,
	token.KwUnsafe:    syntax.ModUnsafe,
	token.KwVolatile:  syntax.ModVolatile,
	token.KwFixed:     syntax.ModFixed,
	token.KwRef:       syntax.ModRef,
}

type memberHead struct {
	first      token.Token
	attributes []*syntax.AttributeList
	modifiers  syntax.Modifiers
}

func (h *memberHead) base(p *Parser) syntax.DeclBase {
	return syntax.DeclBase{
		Span:      p.spanFrom(h.first.Span),
		FullStart: h.first.LeadingStart(),
		Leading:   h.first.Leading,
	}
}

func (p *Parser) parseModifiers() syntax.Modifiers {
	var mods syntax.Modifiers
	for {
		tok := p.peek()
		var m syntax.Modifiers
		if km, ok := keywordModifiers[tok.Kind]; ok {
			// `new` starting an expression never reaches member position.
			m = km
		} else if cm, ok := contextualModifiers[tok.Value]; ok && tok.Kind == token.Ident && tok.Text[0] != '@' && p.continuesDeclaration(1) {
			m = cm
		} else {
			return mods
		}
		if mods.Has(m) {
			p.report(diag.HostDuplicateModifier, tok.Span, tok.Text)
		}
		mods |= m
		p.advance()
	}
}

// continuesDeclaration reports whether the token n ahead can follow a
// contextual modifier (a keyword or an identifier).
func (p *Parser) continuesDeclaration(n int) bool {
	next := p.peekN(n)
	return next.Kind == token.Ident || next.Kind.IsKeyword()
}

// parseMember parses one namespace member or type member.
func (p *Parser) parseMember() syntax.Decl {
	h := memberHead{first: p.peek()}
	for p.at(token.LBracket) {
		h.attributes = append(h.attributes, p.parseAttributeList())
	}
	h.modifiers = p.parseModifiers()

	tok := p.peek()
	switch {
	case tok.Kind == token.KwClass, tok.Kind == token.KwStruct, tok.Kind == token.KwInterface,
		tok.Kind == token.KwEnum, tok.Kind == token.KwDelegate:
		return p.parseTypeDecl(h)
	case tok.Is("record") && (p.peekN(1).Kind == token.Ident || p.peekN(1).Kind == token.KwClass || p.peekN(1).Kind == token.KwStruct):
		return p.parseTypeDecl(h)
	case tok.Kind == token.KwEvent:
		return p.parseEvent(h)
	case tok.Kind == token.Tilde:
		// Finalizer.
		p.advance()
		name, _ := p.expectIdent()
		m := &syntax.MethodDecl{Attributes: h.attributes, Modifiers: h.modifiers, Name: ident(name)}
		p.parseParamList()
		m.HasBody, m.Refs = p.parseBody()
		m.DeclBase = h.base(p)
		return m
	case tok.Kind == token.KwImplicit || tok.Kind == token.KwExplicit:
		p.skipOperator()
		return nil
	case tok.Kind == token.Ident && p.peekN(1).Kind == token.LParen && p.isConstructorName(tok.Value):
		return p.parseConstructor(h)
	case tok.Kind == token.Semicolon:
		p.advance()
		return nil
	case tok.Kind == token.RBrace || tok.Kind == token.EOF:
		if len(h.attributes) > 0 || h.modifiers != 0 {
			p.err(diag.HostIdentifierExpected)
		}
		return nil
	}

	if !p.startsType() {
		p.report(diag.HostInvalidMemberToken, tok.Span, tok.Text)
		p.resyncMember()
		return nil
	}
	typ := p.parseType()

	if p.at(token.KwOperator) {
		p.skipOperator()
		return nil
	}
	if p.at(token.KwThis) {
		return p.parseIndexer(h, typ, nil)
	}

	var explicit *syntax.TypeRef
	if p.at(token.Ident) && p.peekN(1).Kind == token.Dot || p.at(token.Ident) && p.peekN(1).Kind == token.Lt && p.looksLikeExplicitInterface() {
		explicit = p.parseExplicitInterface()
		if p.at(token.KwThis) {
			return p.parseIndexer(h, typ, explicit)
		}
	}

	name, ok := p.expectIdent()
	if !ok {
		p.resyncMember()
		return nil
	}
	switch p.peek().Kind {
	case token.LParen, token.Lt:
		return p.parseMethod(h, typ, name, explicit)
	case token.LBrace, token.FatArrow:
		return p.parseProperty(h, typ, name, explicit)
	case token.Assign, token.Comma, token.Semicolon, token.LBracket:
		return p.parseField(h, typ, name)
	}
	p.err(diag.HostSemicolonExpected)
	p.resyncMember()
	return nil
}

func ident(tok token.Token) syntax.Ident {
	return syntax.Ident{Name: tok.Value, Span: tok.Span}
}

func (p *Parser) isConstructorName(name string) bool {
	return len(p.typeNames) > 0 && p.typeNames[len(p.typeNames)-1] == name
}

// looksLikeExplicitInterface reports `IFoo<T>.Member` at the current identifier.
func (p *Parser) looksLikeExplicitInterface() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.advance()
	p.skipBalancedAngles()
	return p.at(token.Dot)
}

func (p *Parser) skipBalancedAngles() {
	if !p.at(token.Lt) {
		return
	}
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case token.Semicolon, token.LBrace, token.RBrace:
			return
		}
		p.advance()
	}
}

// parseExplicitInterface parses `IFoo.IBar<T>.` and returns the interface type;
// the member name remains current.
func (p *Parser) parseExplicitInterface() *syntax.TypeRef {
	start := p.peek().Span
	ref := &syntax.TypeRef{}
	for p.at(token.Ident) {
		// Stop when this identifier is the member name.
		next := p.peekN(1).Kind
		if next != token.Dot && next != token.Lt {
			break
		}
		if next == token.Lt && !p.looksLikeExplicitInterface() {
			break
		}
		seg := p.parseNameSegment()
		ref.Segments = append(ref.Segments, seg)
		if !p.eat(token.Dot) {
			break
		}
	}
	ref.Span = source.Span{File: p.file.ID, Start: start.Start, End: p.lastSpan.End}
	ref.Text = p.text(ref.Span.Start, ref.Span.End)
	return ref
}

func (p *Parser) skipOperator() {
	for !p.at(token.EOF) && !p.at(token.LParen) {
		p.advance()
	}
	p.parseParamList()
	p.parseBody()
}

func (p *Parser) parseEvent(h memberHead) syntax.Decl {
	p.advance() // event
	ev := &syntax.EventDecl{Attributes: h.attributes, Modifiers: h.modifiers, Type: p.parseType()}
	for {
		name, ok := p.expectIdent()
		if !ok {
			break
		}
		ev.Names = append(ev.Names, ident(name))
		if p.at(token.Assign) {
			p.advance()
			p.skipUntil(token.Comma, token.Semicolon)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if p.at(token.LBrace) {
		p.skipBalanced()
	} else {
		p.expect(token.Semicolon, diag.HostSemicolonExpected)
	}
	ev.DeclBase = h.base(p)
	return ev
}

func (p *Parser) parseConstructor(h memberHead) syntax.Decl {
	name := p.advance()
	m := &syntax.MethodDecl{
		Attributes:    h.attributes,
		Modifiers:     h.modifiers,
		Name:          ident(name),
		IsConstructor: true,
		Params:        p.parseParamList(),
	}
	var initRefs []syntax.IdentRef
	if p.eat(token.Colon) {
		// : base(...) or : this(...)
		start := p.pos
		p.skipUntil(token.LBrace, token.FatArrow, token.Semicolon)
		initRefs = collectRefs(p.toks[start:p.pos])
	}
	m.HasBody, m.Refs = p.parseBody()
	m.Refs = append(initRefs, m.Refs...)
	m.DeclBase = h.base(p)
	return m
}

func (p *Parser) parseMethod(h memberHead, ret *syntax.TypeRef, name token.Token, explicit *syntax.TypeRef) syntax.Decl {
	m := &syntax.MethodDecl{
		Attributes:        h.attributes,
		Modifiers:         h.modifiers,
		ReturnType:        ret,
		Name:              ident(name),
		ExplicitInterface: explicit,
	}
	m.TypeParams = p.parseTypeParams()
	m.Params = p.parseParamList()
	p.skipConstraints()
	m.HasBody, m.Refs = p.parseBody()
	m.DeclBase = h.base(p)
	return m
}

// parseBody parses `;`, `{ ... }` or `=> expr;`, returning whether a body was
// present and the identifier references inside it.
func (p *Parser) parseBody() (bool, []syntax.IdentRef) {
	switch p.peek().Kind {
	case token.Semicolon:
		p.advance()
		return false, nil
	case token.LBrace:
		start := p.pos
		p.skipBalanced()
		return true, collectRefs(p.toks[start:p.pos])
	case token.FatArrow:
		p.advance()
		start := p.pos
		p.skipUntil(token.Semicolon)
		refs := collectRefs(p.toks[start:p.pos])
		p.expect(token.Semicolon, diag.HostSemicolonExpected)
		return true, refs
	}
	p.err(diag.HostSemicolonExpected)
	p.resyncMember()
	return false, nil
}

func (p *Parser) skipConstraints() {
	for p.atWord("where") {
		p.skipUntil(token.LBrace, token.Semicolon, token.FatArrow)
	}
}

func (p *Parser) parseProperty(h memberHead, typ *syntax.TypeRef, name token.Token, explicit *syntax.TypeRef) syntax.Decl {
	prop := &syntax.PropertyDecl{
		Attributes:        h.attributes,
		Modifiers:         h.modifiers,
		Type:              typ,
		Name:              ident(name),
		ExplicitInterface: explicit,
	}
	p.parsePropertyBody(prop)
	prop.DeclBase = h.base(p)
	return prop
}

func (p *Parser) parseIndexer(h memberHead, typ, explicit *syntax.TypeRef) syntax.Decl {
	this := p.advance()
	prop := &syntax.PropertyDecl{
		Attributes:        h.attributes,
		Modifiers:         h.modifiers,
		Type:              typ,
		Name:              syntax.Ident{Name: "this[]", Span: this.Span},
		ExplicitInterface: explicit,
		IsIndexer:         true,
	}
	prop.Params = p.parseDelimitedParams(token.LBracket, token.RBracket)
	p.parsePropertyBody(prop)
	prop.DeclBase = h.base(p)
	return prop
}

func (p *Parser) parsePropertyBody(prop *syntax.PropertyDecl) {
	if p.eat(token.FatArrow) {
		prop.ExpressionBody = true
		start := p.pos
		p.skipUntil(token.Semicolon)
		prop.Refs = collectRefs(p.toks[start:p.pos])
		p.expect(token.Semicolon, diag.HostSemicolonExpected)
		return
	}
	if _, ok := p.expect(token.LBrace, diag.HostOpenBraceExpected); !ok {
		p.resyncMember()
		return
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		acc, refs, ok := p.parseAccessor()
		if !ok {
			p.skipUntil(token.RBrace)
			break
		}
		prop.Accessors = append(prop.Accessors, acc)
		prop.Refs = append(prop.Refs, refs...)
	}
	p.expect(token.RBrace, diag.HostCloseBraceExpected)
	if p.eat(token.Assign) {
		prop.Initializer, _ = p.parseExprUntil(token.Semicolon)
		prop.Refs = append(prop.Refs, refsOfExpr(p, prop.Initializer)...)
		p.expect(token.Semicolon, diag.HostSemicolonExpected)
	}
}

var accessorKinds = map[string]syntax.AccessorKind{
	"get":    syntax.AccessorGet,
	"set":    syntax.AccessorSet,
	"init":   syntax.AccessorInit,
	"add":    syntax.AccessorAdd,
	"remove": syntax.AccessorRemove,
}

func (p *Parser) parseAccessor() (*syntax.Accessor, []syntax.IdentRef, bool) {
	start := p.peek().Span
	acc := &syntax.Accessor{}
	for p.at(token.LBracket) {
		acc.Attributes = append(acc.Attributes, p.parseAttributeList())
	}
	acc.Modifiers = p.parseModifiers()
	tok := p.peek()
	kind, ok := accessorKinds[tok.Value]
	if tok.Kind != token.Ident || !ok {
		p.report(diag.HostTokenExpected, tok.Span, "get")
		return nil, nil, false
	}
	p.advance()
	acc.Kind = kind
	var refs []syntax.IdentRef
	acc.HasBody, refs = p.parseBody()
	acc.Span = p.spanFrom(start)
	return acc, refs, true
}

func (p *Parser) parseField(h memberHead, typ *syntax.TypeRef, first token.Token) syntax.Decl {
	f := &syntax.FieldDecl{Attributes: h.attributes, Modifiers: h.modifiers, Type: typ}
	name := first
	for {
		d := &syntax.VariableDeclarator{Name: ident(name)}
		if p.at(token.LBracket) {
			// Fixed-size buffer: `fixed int buf[16];`
			p.skipBalanced()
		}
		if p.eat(token.Assign) {
			d.Initializer, _ = p.parseExprUntil(token.Comma, token.Semicolon)
			f.Refs = append(f.Refs, refsOfExpr(p, d.Initializer)...)
		}
		d.Span = p.spanFrom(name.Span)
		f.Declarators = append(f.Declarators, d)
		if !p.eat(token.Comma) {
			break
		}
		next, ok := p.expectIdent()
		if !ok {
			break
		}
		name = next
	}
	semi, _ := p.expect(token.Semicolon, diag.HostSemicolonExpected)
	f.Semicolon = semi.Span
	f.DeclBase = h.base(p)
	return f
}
