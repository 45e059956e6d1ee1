package parser_test

import (
	"testing"

	"mvvmgen/internal/csharp/parser"
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

func parse(t *testing.T, src string) (*syntax.CompilationUnit, []diag.Diagnostic, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	var rep diag.SliceReporter
	cu := parser.ParseFile(fs.Get(id), parser.Options{Reporter: &rep})
	return cu, rep.Items, fs
}

func mustParse(t *testing.T, src string) (*syntax.CompilationUnit, *source.FileSet) {
	t.Helper()
	cu, diags, fs := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(diags, fs, false))
	}
	return cu, fs
}

func firstType(t *testing.T, decls []syntax.Decl) *syntax.TypeDecl {
	t.Helper()
	for _, d := range decls {
		switch n := d.(type) {
		case *syntax.TypeDecl:
			return n
		case *syntax.NamespaceDecl:
			if td := firstType(t, n.Members); td != nil {
				return td
			}
		}
	}
	t.Fatal("no type declaration found")
	return nil
}

const viewModel = `using CommunityToolkit.Mvvm.ComponentModel;
using CommunityToolkit.Mvvm.Input;
global using System.Threading.Tasks;

namespace MyApp.ViewModels;

/// <summary>Main view model.</summary>
public partial class MainViewModel : ObservableObject, IRecipient<LoggedIn>
{
    // The user name.
    [ObservableProperty]
    [NotifyPropertyChangedFor(nameof(Greeting))]
    [property: JsonPropertyName("name")]
    private string? _name, _alias = "anon";

    public string Greeting => $"Hello {Name}";

    public required int Count { get; init; }

    public partial string Title { get; set; }

    [RelayCommand(CanExecute = nameof(CanSave), AllowConcurrentExecutions = true)]
    private async Task SaveAsync(string value, CancellationToken token)
    {
        if (_name is null) return;
        this._alias = value;
        Console.WriteLine(nameof(_name));
    }

    private bool CanSave() => _name != null;

    public MainViewModel(int seed) : base() { Count = seed; }

    public int this[int index] => index;

    public event EventHandler? Changed;

    void IRecipient<LoggedIn>.Receive(LoggedIn message) { }
}
`

func TestParseViewModel(t *testing.T) {
	cu, _ := mustParse(t, viewModel)
	if len(cu.Usings) != 3 || !cu.Usings[2].Global || cu.Usings[0].Name.QualifiedName() != "CommunityToolkit.Mvvm.ComponentModel" {
		t.Fatalf("usings: %+v", cu.Usings)
	}
	ns, ok := cu.Members[0].(*syntax.NamespaceDecl)
	if !ok || !ns.FileScoped || ns.Name != "MyApp.ViewModels" {
		t.Fatalf("namespace: %+v", cu.Members[0])
	}
	td := firstType(t, cu.Members)
	if td.Name.Name != "MainViewModel" || td.Kind != syntax.KindClass || !td.Modifiers.Has(syntax.ModPartial) {
		t.Fatalf("type: %+v", td)
	}
	if len(td.Bases) != 2 || td.Bases[1].Segments[0].Name != "IRecipient" || len(td.Bases[1].Segments[0].TypeArgs) != 1 {
		t.Fatalf("bases: %+v", td.Bases)
	}
	hasDoc := false
	for _, tr := range td.Leading {
		hasDoc = hasDoc || tr.Kind == token.TriviaDocComment
	}
	if !hasDoc {
		t.Fatalf("type leading trivia: %+v", td.Leading)
	}

	field := td.Members[0].(*syntax.FieldDecl)
	if len(field.Attributes) != 3 || field.Attributes[2].Target != "property" {
		t.Fatalf("field attributes: %+v", field.Attributes)
	}
	if len(field.Declarators) != 2 || field.Declarators[1].Name.Name != "_alias" {
		t.Fatalf("declarators: %+v", field.Declarators)
	}
	if !field.Type.Nullable || field.Type.Keyword != token.KwString {
		t.Fatalf("field type: %+v", field.Type)
	}
	nameofArg, ok := field.Attributes[1].Attributes[0].Args[0].Value.(*syntax.NameofExpr)
	if !ok || nameofArg.Name != "Greeting" {
		t.Fatalf("nameof arg: %+v", field.Attributes[1].Attributes[0].Args[0].Value)
	}

	greeting := td.Members[1].(*syntax.PropertyDecl)
	if !greeting.ExpressionBody {
		t.Fatal("Greeting is expression bodied")
	}

	count := td.Members[2].(*syntax.PropertyDecl)
	if !count.Modifiers.Has(syntax.ModRequired) || count.Accessor(syntax.AccessorInit) == nil {
		t.Fatalf("Count: %+v", count)
	}

	title := td.Members[3].(*syntax.PropertyDecl)
	if !title.Modifiers.Has(syntax.ModPartial) || title.Accessor(syntax.AccessorGet).HasBody {
		t.Fatalf("Title: %+v", title)
	}

	save := td.Members[4].(*syntax.MethodDecl)
	if save.Name.Name != "SaveAsync" || !save.Modifiers.Has(syntax.ModAsync) || len(save.Params) != 2 {
		t.Fatalf("SaveAsync: %+v", save)
	}
	args := save.Attributes[0].Attributes[0].Args
	if args[0].NameEquals != "CanExecute" || args[1].NameEquals != "AllowConcurrentExecutions" {
		t.Fatalf("named args: %+v %+v", args[0], args[1])
	}
	var sawNameof, sawThis, sawPlain bool
	for _, r := range save.Refs {
		if r.Name != "_name" && r.Name != "_alias" {
			continue
		}
		switch {
		case r.Flags&syntax.RefInNameof != 0:
			sawNameof = true
		case r.Flags&syntax.RefThisQualified != 0:
			sawThis = r.Flags&syntax.RefAssignTarget != 0
		default:
			sawPlain = true
		}
	}
	if !sawNameof || !sawThis || !sawPlain {
		t.Fatalf("refs: %+v", save.Refs)
	}

	ctor := td.Members[6].(*syntax.MethodDecl)
	if !ctor.IsConstructor || ctor.ReturnType != nil {
		t.Fatalf("ctor: %+v", ctor)
	}
	indexer := td.Members[7].(*syntax.PropertyDecl)
	if !indexer.IsIndexer || len(indexer.Params) != 1 {
		t.Fatalf("indexer: %+v", indexer)
	}
	if _, ok := td.Members[8].(*syntax.EventDecl); !ok {
		t.Fatalf("event: %T", td.Members[8])
	}
	explicit := td.Members[9].(*syntax.MethodDecl)
	if explicit.ExplicitInterface == nil || explicit.Name.Name != "Receive" {
		t.Fatalf("explicit impl: %+v", explicit)
	}
}

func TestParseParameterModifiers(t *testing.T) {
	cu, _ := mustParse(t, `class C {
    void A(ref int a, out int b, in Span<int> c, params string[] d, scoped ReadOnlySpan<char> e, int f = 3) { }
    unsafe void B(int* p) { }
}`)
	td := firstType(t, cu.Members)
	a := td.Members[0].(*syntax.MethodDecl)
	want := []syntax.ParamModifiers{syntax.ParamRef, syntax.ParamOut, syntax.ParamIn, syntax.ParamParams, syntax.ParamScoped, 0}
	for i, p := range a.Params {
		if p.Modifiers != want[i] {
			t.Fatalf("param %d (%s): modifiers %b, want %b", i, p.Name.Name, p.Modifiers, want[i])
		}
	}
	if lit, ok := a.Params[5].Default.(*syntax.LiteralExpr); !ok || lit.Value != "3" {
		t.Fatalf("default: %+v", a.Params[5].Default)
	}
	b := td.Members[1].(*syntax.MethodDecl)
	if b.Params[0].Type.Pointer != 1 {
		t.Fatalf("pointer param: %+v", b.Params[0].Type)
	}
}

func TestParseAttributeExpressions(t *testing.T) {
	cu, _ := mustParse(t, `[A(AsyncRelayCommandOptions.AllowConcurrentExecutions | AsyncRelayCommandOptions.FlowExceptionsToTaskScheduler, -1, typeof(List<int>), new[] { "a", "b" }, X = Compute(3))]
class C { }`)
	td := firstType(t, cu.Members)
	args := td.Attributes[0].Attributes[0].Args
	if bin, ok := args[0].Value.(*syntax.BinaryExpr); !ok || bin.Op != "|" {
		t.Fatalf("flags: %T", args[0].Value)
	}
	if un, ok := args[1].Value.(*syntax.UnaryExpr); !ok || un.Op != "-" {
		t.Fatalf("unary: %T", args[1].Value)
	}
	if ty, ok := args[2].Value.(*syntax.TypeofExpr); !ok || ty.Type.Text != "List<int>" {
		t.Fatalf("typeof: %+v", args[2].Value)
	}
	if arr, ok := args[3].Value.(*syntax.ArrayExpr); !ok || len(arr.Elements) != 2 {
		t.Fatalf("array: %+v", args[3].Value)
	}
	if op, ok := args[4].Value.(*syntax.OpaqueExpr); !ok || op.Text != "Compute(3)" || args[4].NameEquals != "X" {
		t.Fatalf("opaque: %+v", args[4].Value)
	}
}

func TestParseTypeKinds(t *testing.T) {
	cu, _ := mustParse(t, `namespace N {
    public record Person(string Name);
    public readonly record struct Point(int X, int Y);
    ref struct Buffer { }
    interface IThing { void Do(); }
    [Flags] enum Options { None = 0, A = 1, B = A << 1 }
    public delegate void Handler(object sender);
    public static partial class Outer<T> where T : class { private partial class Inner { } }
}`)
	ns := cu.Members[0].(*syntax.NamespaceDecl)
	kinds := []syntax.TypeKind{syntax.KindRecordClass, syntax.KindRecordStruct, syntax.KindStruct,
		syntax.KindInterface, syntax.KindEnum, syntax.KindDelegate, syntax.KindClass}
	if len(ns.Members) != len(kinds) {
		t.Fatalf("members: %d", len(ns.Members))
	}
	for i, k := range kinds {
		td := ns.Members[i].(*syntax.TypeDecl)
		if td.Kind != k {
			t.Fatalf("member %d (%s): kind %v, want %v", i, td.Name.Name, td.Kind, k)
		}
	}
	if buf := ns.Members[2].(*syntax.TypeDecl); !buf.Modifiers.Has(syntax.ModRef) {
		t.Fatal("ref struct modifier lost")
	}
	enum := ns.Members[4].(*syntax.TypeDecl)
	if len(enum.EnumMembers) != 3 {
		t.Fatalf("enum members: %+v", enum.EnumMembers)
	}
	outer := ns.Members[6].(*syntax.TypeDecl)
	if len(outer.TypeParams) != 1 || len(outer.Members) != 1 {
		t.Fatalf("outer: %+v", outer)
	}
}

func TestParseErrorsRecover(t *testing.T) {
	cu, diags, _ := parse(t, `class C {
    int x
    public void M() { }
    private string ;
    int y;
}`)
	if len(diags) == 0 {
		t.Fatal("expected syntax errors")
	}
	for _, d := range diags {
		if !d.Code.IsHost() {
			t.Fatalf("syntax errors must use host codes, got %s", d.ID())
		}
	}
	td := firstType(t, cu.Members)
	var names []string
	for _, m := range td.Members {
		switch n := m.(type) {
		case *syntax.MethodDecl:
			names = append(names, n.Name.Name)
		case *syntax.FieldDecl:
			names = append(names, n.Declarators[0].Name.Name)
		}
	}
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["M"] || !found["y"] {
		t.Fatalf("recovery lost members: %v", names)
	}
}

func TestDeclarationFullStartCoversComments(t *testing.T) {
	src := "class C {\n    // keep me\n    [ObservableProperty]\n    private int _x;\n}"
	cu, fs := mustParse(t, src)
	field := firstType(t, cu.Members).Members[0].(*syntax.FieldDecl)
	file := fs.Get(cu.File)
	if got := file.Slice(field.FullStart, field.Span.Start); got != "\n    // keep me\n    " {
		t.Fatalf("leading text %q", got)
	}
	if got := file.Slice(field.Span.Start, field.Span.End); got != "[ObservableProperty]\n    private int _x;" {
		t.Fatalf("declaration text %q", got)
	}
}
