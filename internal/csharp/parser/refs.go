package parser

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
)

// collectRefs records every identifier in toks with how it was written.
// Identifiers directly after '.' are member accesses; `this.X` is flagged
// separately so that it can resolve to a member of the enclosing type.
func collectRefs(toks []token.Token) []syntax.IdentRef {
	var refs []syntax.IdentRef
	nameofDepth := 0 // paren depth where the current nameof argument started
	depth := 0
	for i, tok := range toks {
		switch tok.Kind {
		case token.LParen:
			depth++
			continue
		case token.RParen:
			if nameofDepth == depth {
				nameofDepth = 0
			}
			depth--
			continue
		case token.Ident:
		default:
			continue
		}
		if tok.Is("nameof") && i+1 < len(toks) && toks[i+1].Kind == token.LParen {
			if nameofDepth == 0 {
				nameofDepth = depth + 1
			}
			continue
		}
		var flags syntax.RefFlags
		if nameofDepth != 0 {
			flags |= syntax.RefInNameof
		}
		if i > 0 && (toks[i-1].Kind == token.Dot || toks[i-1].Kind == token.QuestionDot) {
			if i > 1 && toks[i-2].Kind == token.KwThis && toks[i-1].Kind == token.Dot {
				flags |= syntax.RefThisQualified
			} else {
				flags |= syntax.RefMemberAccess
			}
		}
		if i+1 < len(toks) {
			switch toks[i+1].Kind {
			case token.LParen:
				flags |= syntax.RefInvocation
			case token.Assign, token.CompoundAssign, token.PlusPlus, token.MinusMinus:
				flags |= syntax.RefAssignTarget
			}
		}
		refs = append(refs, syntax.IdentRef{Name: tok.Value, Span: tok.Span, Flags: flags})
	}
	return refs
}

// refsOfExpr collects references from the tokens just parsed for e.
func refsOfExpr(p *Parser, e syntax.Expr) []syntax.IdentRef {
	if e == nil {
		return nil
	}
	sp := e.ExprSpan()
	end := p.pos
	start := end
	for start > 0 && p.toks[start-1].Span.Start >= sp.Start {
		start--
	}
	return collectRefs(p.toks[start:end])
}
