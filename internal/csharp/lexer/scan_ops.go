package lexer

import (
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
)

// scanOperatorOrPunct scans punctuation greedily. '>' always stands alone so
// nested generic argument lists close one bracket at a time.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('<', '<', '='), lx.try3('?', '?', '='):
		return lx.make(token.CompoundAssign, start)
	case lx.try2('=', '='):
		return lx.make(token.EqEq, start)
	case lx.try2('=', '>'):
		return lx.make(token.FatArrow, start)
	case lx.try2('!', '='):
		return lx.make(token.BangEq, start)
	case lx.try2('<', '='):
		return lx.make(token.LtEq, start)
	case lx.try2('<', '<'):
		return lx.make(token.Shl, start)
	case lx.try2('&', '&'):
		return lx.make(token.AndAnd, start)
	case lx.try2('|', '|'):
		return lx.make(token.OrOr, start)
	case lx.try2('+', '+'):
		return lx.make(token.PlusPlus, start)
	case lx.try2('-', '-'):
		return lx.make(token.MinusMinus, start)
	case lx.try2('-', '>'):
		return lx.make(token.Arrow, start)
	case lx.try2('?', '?'):
		return lx.make(token.QuestionQuestion, start)
	case lx.try2('?', '.'):
		return lx.make(token.QuestionDot, start)
	case lx.try2(':', ':'):
		return lx.make(token.ColonColon, start)
	case lx.try2('.', '.'):
		return lx.make(token.DotDot, start)
	}
	for _, op := range []byte("+-*/%&|^") {
		if lx.try2(op, '=') {
			return lx.make(token.CompoundAssign, start)
		}
	}

	b := lx.cursor.Bump()
	if kind, ok := singleByteKinds[b]; ok {
		return lx.make(kind, start)
	}
	if b >= utf8RuneSelf {
		lx.cursor.Reset(start)
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.HostUnexpectedCharacter, sp, lx.text(sp))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

var singleByteKinds = map[byte]token.Kind{
	'{': token.LBrace, '}': token.RBrace, '(': token.LParen, ')': token.RParen,
	'[': token.LBracket, ']': token.RBracket, ';': token.Semicolon, ',': token.Comma,
	'.': token.Dot, ':': token.Colon, '?': token.Question, '=': token.Assign,
	'<': token.Lt, '>': token.Gt, '!': token.Bang, '+': token.Plus, '-': token.Minus,
	'*': token.Star, '/': token.Slash, '%': token.Percent, '&': token.Amp,
	'|': token.Pipe, '^': token.Caret, '~': token.Tilde, '#': token.Hash,
}
