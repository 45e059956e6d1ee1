package fuzztests

import (
	"context"
	"testing"
	"time"

	"mvvmgen/internal/csharp/lexer"
	"mvvmgen/internal/csharp/parser"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/host/binder"
	"mvvmgen/internal/source"
	"mvvmgen/internal/testkit"
)

// parseTimeout bounds one parse; longer means error recovery looped.
const parseTimeout = 5 * time.Second

func FuzzLexerTokens(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cs", clamp(input)))
		var rep diag.SliceReporter
		lx := lexer.New(file, lexer.Options{Reporter: &rep})
		var last uint32
		for {
			tok := lx.Next()
			if tok.Span.Start < last {
				t.Fatalf("token %v moves backwards from %d", tok.Span, last)
			}
			last = tok.Span.Start
			if tok.Kind == token.EOF {
				break
			}
		}
	})
}

func FuzzParserSpans(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cs", clamp(input)))

		done := make(chan error, 1)
		go func() {
			var rep diag.SliceReporter
			unit := parser.ParseFile(file, parser.Options{Reporter: &rep, MaxErrors: 128})
			done <- testkit.CheckSpanInvariants(unit, file)
		}()
		select {
		case err := <-done:
			if err != nil {
				t.Fatal(err)
			}
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang on %d bytes: %q", len(input), truncate(input, 200))
		}
	})
}

// FuzzCompile binds arbitrary input against the toolkit stubs.
func FuzzCompile(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSetWithBase("/src")
		id := fs.AddVirtual("/src/fuzz.cs", clamp(input))
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()
		if _, err := binder.Compile(ctx, fs, []source.FileID{id}, binder.Options{
			References: binder.DefaultReferences(),
		}); err != nil && ctx.Err() == nil {
			t.Fatalf("compile failed: %v", err)
		}
	})
}

func truncate(input []byte, n int) []byte {
	if len(input) <= n {
		return input
	}
	return append(input[:n:n], "..."...)
}

func TestSeedsKeepLeadingBOM(t *testing.T) {
	for _, s := range seeds {
		if len(s) >= 3 && s[:3] == "\xEF\xBB\xBF" {
			return
		}
	}
	t.Fatal("no seed starts with a byte order mark")
}
