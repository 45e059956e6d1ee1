package lexer

import (
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
)

// scanString handles regular, verbatim (@""), interpolated ($"", $@"", @$"")
// and raw ("""...""") string literals. Interpolated and raw forms are opaque:
// the token text is kept, the value is not decoded.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	interpolated, verbatim := false, false
	for {
		switch {
		case lx.cursor.Peek() == '$':
			interpolated = true
			lx.cursor.Bump()
			for lx.cursor.Peek() == '$' {
				lx.cursor.Bump()
			}
			continue
		case lx.cursor.Peek() == '@':
			verbatim = true
			lx.cursor.Bump()
			continue
		}
		break
	}

	if lx.cursor.Peek() == '"' && lx.cursor.PeekAt(1) == '"' && lx.cursor.PeekAt(2) == '"' {
		return lx.scanRawString(start)
	}
	lx.cursor.Bump() // opening quote

	depth := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case interpolated && b == '{':
			if lx.cursor.PeekAt(1) == '{' && depth == 0 {
				lx.cursor.Bump()
			} else {
				depth++
			}
		case interpolated && b == '}' && depth > 0:
			depth--
		case depth > 0 && (b == '"' || b == '\''):
			if b == '"' {
				lx.scanString()
			} else {
				lx.scanChar()
			}
			continue
		case b == '"':
			lx.cursor.Bump()
			if verbatim && lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			kind := token.StringLit
			if interpolated {
				kind = token.InterpolatedStringLit
			}
			tok := lx.make(kind, start)
			if kind == token.StringLit {
				tok.Value = decodeString(tok.Text, verbatim)
			}
			return tok
		case b == '\\' && !verbatim:
			lx.cursor.Bump()
		case b == '\n' && !verbatim && depth == 0:
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.HostNewlineInConstant, sp)
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.HostNewlineInConstant, sp)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanRawString(start Mark) token.Token {
	quotes := 0
	for lx.cursor.Peek() == '"' {
		lx.cursor.Bump()
		quotes++
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() != '"' {
			lx.cursor.Bump()
			continue
		}
		run := 0
		for lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			run++
		}
		if run >= quotes {
			return lx.make(token.InterpolatedStringLit, start)
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.HostNewlineInConstant, sp)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\\':
			lx.cursor.Bump()
		case '\'':
			lx.cursor.Bump()
			tok := lx.make(token.CharLit, start)
			tok.Value = decodeString(tok.Text, false)
			return tok
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.HostNewlineInConstant, sp)
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.HostNewlineInConstant, sp)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
