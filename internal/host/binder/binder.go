package binder

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"mvvmgen/internal/csharp/parser"
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/host"
	"mvvmgen/internal/source"
)

// Options configure a binding run.
type Options struct {
	LangVersion host.LanguageVersion
	// References selects stub sets; the system set is always loaded.
	References []string
	// Reporter receives host diagnostics (unresolved type names). May be nil.
	Reporter diag.Reporter
}

// scope is the lookup context of a declaration.
type scope struct {
	ns string
	// usings holds the using directives in effect, innermost first.
	usings     [][]*syntax.UsingDirective
	outer      host.SymbolID
	fromSource bool
}

type binder struct {
	c        *Compilation
	rep      diag.Reporter
	global   []*syntax.UsingDirective
	inner    map[*syntax.TypeDecl]*scope
	reported map[source.Span]bool
	stubs    map[*syntax.CompilationUnit]bool

	// parent is the lookup scope of each member and parameter symbol.
	parent      map[host.SymbolID]*scope
	primary     map[host.SymbolID]primaryParam
	paramSyntax map[host.SymbolID]*syntax.Parameter
}

// Compile parses the given files and binds them.
func Compile(ctx context.Context, fs *source.FileSet, files []source.FileID, opts Options) (*Compilation, error) {
	units := make([]*syntax.CompilationUnit, 0, len(files))
	for _, id := range files {
		f := fs.Get(id)
		if f == nil {
			return nil, fmt.Errorf("unknown file id %d", id)
		}
		units = append(units, parser.ParseFile(f, parser.Options{Reporter: opts.Reporter}))
	}
	return Bind(ctx, fs, units, opts)
}

// Bind builds a compilation from already parsed units.
func Bind(ctx context.Context, fs *source.FileSet, units []*syntax.CompilationUnit, opts Options) (*Compilation, error) {
	stubUnits, err := loadStubs(fs, opts.References)
	if err != nil {
		return nil, err
	}
	lang := opts.LangVersion
	if lang == "" {
		lang = host.LangDefault
	}
	c := &Compilation{
		files:      fs,
		lang:       lang,
		syms:       make([]host.Symbol, 1), // index 0 is NoSymbol
		metaNames:  make([]string, 1),
		byMetadata: make(map[string]host.SymbolID),
		namespaces: map[string]bool{"": true},
		attrs:      make(map[host.SymbolID][]host.AttributeData),
		refs:       make(map[host.SymbolID][]host.Reference),
		units:      units,
	}
	b := &binder{
		c:           c,
		rep:         opts.Reporter,
		inner:       make(map[*syntax.TypeDecl]*scope),
		reported:    make(map[source.Span]bool),
		stubs:       make(map[*syntax.CompilationUnit]bool),
		parent:      make(map[host.SymbolID]*scope),
		primary:     make(map[host.SymbolID]primaryParam),
		paramSyntax: make(map[host.SymbolID]*syntax.Parameter),
	}

	all := make([]*syntax.CompilationUnit, 0, len(stubUnits)+len(units))
	all = append(all, stubUnits...)
	all = append(all, units...)
	for _, u := range stubUnits {
		b.stubs[u] = true
	}
	for _, u := range units {
		for _, us := range u.Usings {
			if us.Global {
				b.global = append(b.global, us)
			}
		}
	}

	phases := []func([]*syntax.CompilationUnit){
		b.declareTypes,
		b.bindHeaders,
		b.declareMembers,
		b.bindMemberTypes,
		b.bindAttributes,
		b.indexReferences,
	}
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		phase(all)
	}
	c.finish()
	return c, nil
}

// newSymbol appends s to the arena and returns its id.
func (b *binder) newSymbol(s host.Symbol) host.SymbolID {
	n, err := safecast.Conv[uint32](len(b.c.syms))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	id := host.SymbolID(n)
	s.ID = id
	b.c.syms = append(b.c.syms, s)
	b.c.metaNames = append(b.c.metaNames, "")
	return id
}

func (b *binder) sym(id host.SymbolID) *host.Symbol { return &b.c.syms[id] }

// report emits a host diagnostic once per span, only for user sources.
func (b *binder) report(sc *scope, code diag.Code, sp source.Span, args ...string) {
	if b.rep == nil || sc == nil || !sc.fromSource || b.reported[sp] {
		return
	}
	b.reported[sp] = true
	b.rep.Report(diag.New(code, sp, args...))
}

func accessibilityOf(m syntax.Modifiers, def host.Accessibility) host.Accessibility {
	switch {
	case m.Has(syntax.ModProtected) && m.Has(syntax.ModInternal):
		return host.AccessProtectedInternal
	case m.Has(syntax.ModPrivate) && m.Has(syntax.ModProtected):
		return host.AccessPrivateProtected
	case m.Has(syntax.ModPublic):
		return host.AccessPublic
	case m.Has(syntax.ModProtected):
		return host.AccessProtected
	case m.Has(syntax.ModInternal), m.Has(syntax.ModFile):
		return host.AccessInternal
	case m.Has(syntax.ModPrivate):
		return host.AccessPrivate
	}
	return def
}
