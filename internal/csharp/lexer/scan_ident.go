package lexer

import (
	"golang.org/x/text/unicode/norm"

	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
)

// scanIdentOrKeyword scans an identifier, an '@'-verbatim identifier or a
// reserved keyword. Identifier values are NFC-normalized so that canonically
// equivalent spellings compare equal.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	verbatim := lx.cursor.Eat('@')

	r, sz := lx.peekRune()
	if sz == 0 || !(r < utf8RuneSelf && isIdentStartByte(byte(r)) || r >= utf8RuneSelf && isIdentStartRune(r)) {
		if !verbatim {
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.HostUnexpectedCharacter, sp, lx.text(sp))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	lx.bumpRune()
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) || lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
	}

	tok := lx.make(token.Ident, start)
	name := tok.Text
	if verbatim {
		name = name[1:]
	} else if k, ok := token.LookupKeyword(name); ok {
		tok.Kind = k
		return tok
	}
	tok.Value = norm.NFC.String(name)
	return tok
}
