package lexer

import (
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
)

// collectLeadingTrivia gathers trivia preceding the next significant token.
//   - runs of ' ', '\t', '\f', '\v' become one TriviaSpace
//   - runs of '\n' become one TriviaNewline
//   - '//' to end of line is TriviaLineComment, '///' is TriviaDocComment
//   - '/* */' is TriviaBlockComment (C# block comments do not nest)
//   - '#' first on a line starts a TriviaDirective running to end of line
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case isSpace(b):
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		case b == '#' && lx.cursor.AtLineStart():
			lx.skipToLineEnd()
			lx.pushTrivia(token.TriviaDirective, start)
			continue
		case b == '/' && lx.scanCommentIntoHold():
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

func (lx *Lexer) skipToLineEnd() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	switch lx.cursor.PeekAt(1) {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		kind := token.TriviaLineComment
		if lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocComment
		}
		lx.skipToLineEnd()
		lx.pushTrivia(kind, start)
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.HostUnterminatedComment, lx.cursor.SpanFrom(start))
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true
	}
	return false
}
