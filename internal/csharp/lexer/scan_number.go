package lexer

import "mvvmgen/internal/csharp/token"

// scanNumber scans integer and real literals: decimal, 0x hex and 0b binary
// forms, '_' separators, fraction, exponent and type suffixes.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.try2('0', 'x') || lx.try2('0', 'X') {
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		lx.scanIntSuffix()
		return lx.make(kind, start)
	}
	if lx.try2('0', 'b') || lx.try2('0', 'B') {
		for b := lx.cursor.Peek(); b == '0' || b == '1' || b == '_'; b = lx.cursor.Peek() {
			lx.cursor.Bump()
		}
		lx.scanIntSuffix()
		return lx.make(kind, start)
	}

	lx.scanDigits()
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.RealLit
		lx.cursor.Bump()
		lx.scanDigits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
			kind = token.RealLit
			lx.cursor.Bump()
			if next == '+' || next == '-' {
				lx.cursor.Bump()
			}
			lx.scanDigits()
		}
	}
	switch lx.cursor.Peek() {
	case 'f', 'F', 'd', 'D', 'm', 'M':
		kind = token.RealLit
		lx.cursor.Bump()
	default:
		if kind == token.IntLit {
			lx.scanIntSuffix()
		}
	}
	return lx.make(kind, start)
}

func (lx *Lexer) scanDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanIntSuffix() {
	for range 2 {
		switch lx.cursor.Peek() {
		case 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}
