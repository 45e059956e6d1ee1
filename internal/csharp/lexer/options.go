package lexer

import (
	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

type Options struct {
	// Reporter receives lexical errors; nil drops them while lexing continues.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, args ...string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.New(code, sp, args...))
	}
}
