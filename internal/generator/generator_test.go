package generator_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/emit"
	"mvvmgen/internal/generator"
	"mvvmgen/internal/host"
	"mvvmgen/internal/host/binder"
	"mvvmgen/internal/incremental"
	"mvvmgen/internal/model"
	"mvvmgen/internal/source"
)

var testEmit = emit.Options{Tool: "mvvmgen", Version: "0.0.0-test"}

func compile(t *testing.T, lang host.LanguageVersion, sources ...string) host.Compilation {
	t.Helper()
	fs := source.NewFileSetWithBase("/src")
	ids := make([]source.FileID, 0, len(sources))
	for i, src := range sources {
		ids = append(ids, fs.AddVirtual(fmt.Sprintf("/src/f%d.cs", i), []byte(src)))
	}
	c, err := binder.Compile(context.Background(), fs, ids, binder.Options{
		LangVersion: lang,
		References:  binder.DefaultReferences(),
	})
	require.NoError(t, err)
	return c
}

func runWith(t *testing.T, opts generator.Options, lang host.LanguageVersion, sources ...string) *generator.Result {
	t.Helper()
	if opts.Emit == (emit.Options{}) {
		opts.Emit = testEmit
	}
	res, err := generator.Run(context.Background(), compile(t, lang, sources...), opts)
	require.NoError(t, err)
	return res
}

func run(t *testing.T, sources ...string) *generator.Result {
	t.Helper()
	return runWith(t, generator.Options{}, host.LangDefault, sources...)
}

func ids(res *generator.Result) []string {
	out := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		out = append(out, d.ID())
	}
	return out
}

func commandFor(t *testing.T, res *generator.Result, method string) model.CommandModel {
	t.Helper()
	for _, m := range res.Commands {
		if m.MethodName == method {
			return m
		}
	}
	require.Failf(t, "missing command", "no command generated for %s", method)
	return model.CommandModel{}
}

func propertyFor(t *testing.T, res *generator.Result, name string) model.PropertyModel {
	t.Helper()
	for _, m := range res.Properties {
		if m.Names.Member == name {
			return m
		}
	}
	require.Failf(t, "missing property", "no property generated for %s", name)
	return model.PropertyModel{}
}

func sourceFor(t *testing.T, res *generator.Result, hint string) string {
	t.Helper()
	for _, s := range res.Sources {
		if s.HintName == hint {
			return s.Text
		}
	}
	require.Failf(t, "missing source", "no source %s among %d", hint, len(res.Sources))
	return ""
}

const header = `using System;
using System.Threading;
using System.Threading.Tasks;
using CommunityToolkit.Mvvm.ComponentModel;
using CommunityToolkit.Mvvm.Input;
using CommunityToolkit.Mvvm.Messaging;

namespace App;
`

const (
	input = "global::CommunityToolkit.Mvvm.Input."
	task  = "global::System.Threading.Tasks.Task"
	token = "global::System.Threading.CancellationToken"
)

func TestCommandShapes(t *testing.T) {
	res := run(t, header+`
public partial class Shapes : ObservableObject
{
    [RelayCommand] private void Save() { }
    [RelayCommand] private void Open(string path) { }
    [RelayCommand] private Task LoadAsync() { return null; }
    [RelayCommand] private Task FindAsync(int id) { return null; }
    [RelayCommand] private Task SyncAsync(CancellationToken token) { return null; }
    [RelayCommand] private Task SendAsync(string text, CancellationToken token) { return null; }
    [RelayCommand] private int Count() { return 0; }
    [RelayCommand] private void Move(int x, int y) { }
}
`)
	assert.Equal(t, []string{"MVVMTK0007", "MVVMTK0007"}, ids(res))
	require.Len(t, res.Commands, 6)

	cases := []struct {
		method, member, field, iface, delegate string
		async, cancel                          bool
	}{
		{"Save", "SaveCommand", "_saveCommand", input + "IRelayCommand", "global::System.Action", false, false},
		{"Open", "OpenCommand", "_openCommand", input + "IRelayCommand<string>", "global::System.Action<string>", false, false},
		{"LoadAsync", "LoadCommand", "_loadCommand", input + "IAsyncRelayCommand", "global::System.Func<" + task + ">", true, false},
		{"FindAsync", "FindCommand", "_findCommand", input + "IAsyncRelayCommand<int>", "global::System.Func<int, " + task + ">", true, false},
		{"SyncAsync", "SyncCommand", "_syncCommand", input + "IAsyncRelayCommand", "global::System.Func<" + token + ", " + task + ">", true, true},
		{"SendAsync", "SendCommand", "_sendCommand", input + "IAsyncRelayCommand<string>", "global::System.Func<string, " + token + ", " + task + ">", true, true},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			m := commandFor(t, res, tc.method)
			assert.Equal(t, tc.member, m.Names.Member)
			assert.Equal(t, tc.field, m.Names.Field)
			assert.Equal(t, tc.iface, m.InterfaceType)
			assert.Equal(t, tc.delegate, m.DelegateType)
			assert.Equal(t, tc.async, m.IsAsync)
			assert.Equal(t, tc.cancel, m.SupportsCancellation)
		})
	}

	for _, d := range res.Diagnostics {
		assert.Contains(t, []string{"Count", "Move"}, d.Args[1])
	}
}

func TestAsyncVoidCommandWarns(t *testing.T) {
	res := run(t, header+`
public partial class Vm : ObservableObject
{
    [RelayCommand] private async void Fire() { }
}
`)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "MVVMTK0039", res.Diagnostics[0].ID())
	assert.Equal(t, diag.SevWarning, res.Diagnostics[0].Severity)
	m := commandFor(t, res, "Fire")
	assert.False(t, m.IsAsync)
}

func TestOptionConflictsEachReported(t *testing.T) {
	res := run(t, header+`
public partial class Vm : ObservableObject
{
    [RelayCommand(AllowConcurrentExecutions = true, FlowExceptionsToTaskScheduler = true, IncludeCancelCommand = true)]
    private void Go() { }

    [RelayCommand(IncludeCancelCommand = true)]
    private Task RunAsync() { return null; }
}
`)
	assert.Equal(t, []string{"MVVMTK0012", "MVVMTK0025", "MVVMTK0031", "MVVMTK0025"}, ids(res))
	assert.Empty(t, res.Commands)
}

func TestAsyncOptionsAndCancelCommand(t *testing.T) {
	res := run(t, header+`
public partial class Vm : ObservableObject
{
    [RelayCommand(AllowConcurrentExecutions = true, IncludeCancelCommand = true)]
    private Task DownloadAsync(CancellationToken token) { return null; }

    [RelayCommand(FlowExceptionsToTaskScheduler = true)]
    private Task UploadAsync() { return null; }
}
`)
	require.Empty(t, res.Diagnostics)

	download := commandFor(t, res, "DownloadAsync")
	assert.Equal(t, model.OptionsAllowConcurrentExecutions, download.Options)
	assert.True(t, download.IncludeCancelCommand)
	assert.Equal(t, "DownloadCancelCommand", download.CancelNames.Member)
	assert.Equal(t, "_downloadCancelCommand", download.CancelNames.Field)

	upload := commandFor(t, res, "UploadAsync")
	assert.Equal(t, model.OptionsFlowExceptionsToTaskScheduler, upload.Options)

	text := sourceFor(t, res, "App.Vm.DownloadAsync.g.cs")
	assert.Contains(t, text, "global::CommunityToolkit.Mvvm.Input.IAsyncRelayCommandExtensions.CreateCancelCommand(DownloadCommand)")
	assert.Contains(t, text, "global::CommunityToolkit.Mvvm.Input.AsyncRelayCommandOptions.AllowConcurrentExecutions)")
}

func TestDuplicateCommandBlamesDerivedSite(t *testing.T) {
	res := run(t, header+`
public partial class Base : ObservableObject
{
    [RelayCommand] private void Refresh() { }
}

public partial class Derived : Base
{
    [RelayCommand] private void Refresh() { }
    [RelayCommand] private void Load() { }
    [RelayCommand] private void Load(int page) { }
}
`)
	assert.Equal(t, []string{"MVVMTK0023", "MVVMTK0023", "MVVMTK0023"}, ids(res))
	for _, d := range res.Diagnostics {
		assert.Equal(t, "App.Derived", d.Args[0])
	}
	require.Len(t, res.Commands, 1)
	assert.Equal(t, "App.Base", res.Commands[0].Hierarchy.MetadataName)
}

func TestCanExecuteBinding(t *testing.T) {
	res := run(t, header+`
public partial class Vm : ObservableObject
{
    [RelayCommand(CanExecute = nameof(CanA))] private void A() { }
    private bool CanA() { return true; }

    [RelayCommand(CanExecute = nameof(CanB))] private void B(string s) { }
    private bool CanB() { return true; }

    [RelayCommand(CanExecute = nameof(CanC))] private void C(string s) { }
    private bool CanC(string s) { return true; }

    [RelayCommand(CanExecute = nameof(IsReady))] private void D() { }
    [RelayCommand(CanExecute = nameof(IsReady))] private void E(int n) { }
    private bool IsReady { get { return true; } }

    [RelayCommand(CanExecute = "Missing")] private void F() { }

    [RelayCommand(CanExecute = "Twice")] private void G() { }
    private bool Twice() { return true; }
    private bool Twice(int x) { return true; }

    [RelayCommand(CanExecute = nameof(NotBool))] private void H() { }
    private int NotBool() { return 0; }

    [ObservableProperty] private bool _canRun;
    [RelayCommand(CanExecute = "CanRun")] private void I() { }

    [ObservableProperty] private string? _label;
    [RelayCommand(CanExecute = "Label")] private void J() { }
}
`)
	assert.ElementsMatch(t, []string{"MVVMTK0009", "MVVMTK0010", "MVVMTK0011", "MVVMTK0009"}, ids(res))
	require.Len(t, res.Commands, 10)

	want := map[string]model.CanExecute{
		"A": {Member: "CanA", Kind: model.CanExecuteMethodGroup},
		"B": {Member: "CanB", Kind: model.CanExecuteInvocationWithDiscard},
		"C": {Member: "CanC", Kind: model.CanExecuteMethodGroup},
		"D": {Member: "IsReady", Kind: model.CanExecutePropertyAccess},
		"E": {Member: "IsReady", Kind: model.CanExecutePropertyAccessWithDiscard},
		"F": {},
		"G": {},
		"H": {},
		"I": {Member: "CanRun", Kind: model.CanExecutePropertyAccess},
		"J": {},
	}
	for method, ce := range want {
		assert.Equal(t, ce, commandFor(t, res, method).CanExecute, method)
	}

	assert.Contains(t, sourceFor(t, res, "App.Vm.B.g.cs"), "new global::System.Action<string>(B), _ => CanB())")
	assert.Contains(t, sourceFor(t, res, "App.Vm.D.g.cs"), "new global::System.Action(D), () => IsReady)")
}

func TestCommandAttributeForwarding(t *testing.T) {
	res := run(t, header+`
public partial class Vm : ObservableObject
{
    [RelayCommand]
    [field: Obsolete("old")]
    [property: Missing]
    private void Ping() { }
}
`)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, "MVVMTK0036", d.ID())
	assert.Equal(t, "Missing", d.Args[2])

	m := commandFor(t, res, "Ping")
	require.Len(t, m.FieldAttributes, 1)
	assert.Equal(t, `global::System.ObsoleteAttribute("old")`, m.FieldAttributes[0].String())
	assert.Empty(t, m.PropertyAttributes)
}

func TestObservableField(t *testing.T) {
	res := run(t, header+`
public partial class Person : ObservableObject
{
    [ObservableProperty]
    [NotifyPropertyChangedFor(nameof(FullName))]
    [NotifyCanExecuteChangedFor("SaveCommand")]
    private string? _firstName;

    [ObservableProperty]
    private int m_age;

    public string FullName { get { return ""; } }

    [RelayCommand] private void Save() { }
}
`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Properties, 2)

	first := propertyFor(t, res, "FirstName")
	assert.Equal(t, "_firstName", first.Names.Field)
	assert.Equal(t, "string?", first.Type)
	assert.Equal(t, []string{"FullName"}, first.DependentProperties)
	assert.Equal(t, []string{"SaveCommand"}, first.DependentCommands)
	assert.True(t, first.SupportsChanging)
	assert.Equal(t, "m_age", propertyFor(t, res, "Age").Names.Field)

	text := sourceFor(t, res, "App.Person.g.cs")
	for _, want := range []string{
		"public string? FirstName",
		"get => _firstName;",
		"if (!global::System.Collections.Generic.EqualityComparer<string?>.Default.Equals(_firstName, value))",
		`OnPropertyChanging("FirstName");`,
		`OnPropertyChanged("FullName");`,
		"SaveCommand.NotifyCanExecuteChanged();",
		"partial void OnFirstNameChanged(string? oldValue, string? newValue);",
		"public int Age",
		"partial void OnAgeChanging(int value);",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "Broadcast(")
	assert.NotContains(t, text, "ValidateProperty(")
}

func TestPropertyRuleFailures(t *testing.T) {
	res := run(t, header+`
public partial class Plain
{
    [ObservableProperty] private int _count;
}

public partial class Vm : ObservableObject
{
    [ObservableProperty] private int Total;
    [ObservableProperty] private static int _shared;
    [ObservableProperty] private readonly int _fixed;

    [ObservableProperty]
    [NotifyPropertyChangedFor("Nope")]
    [NotifyCanExecuteChangedFor("NopeCommand")]
    [NotifyPropertyChangedRecipients]
    [NotifyDataErrorInfo]
    private string? _title;
}
`)
	assert.ElementsMatch(t, []string{
		"MVVMTK0019", "MVVMTK0014", "MVVMTK0044", "MVVMTK0044",
		"MVVMTK0015", "MVVMTK0016", "MVVMTK0020", "MVVMTK0021",
	}, ids(res))
	require.Len(t, res.Properties, 1)
	title := res.Properties[0]
	assert.Equal(t, "Title", title.Names.Member)
	assert.Empty(t, title.DependentProperties)
	assert.Empty(t, title.DependentCommands)
	assert.False(t, title.NotifyRecipients)
	assert.False(t, title.NotifyDataErrorInfo)

	reasons := map[string]string{}
	for _, d := range res.Diagnostics {
		if d.Code == diag.InvalidObservablePropertyDeclaration {
			reasons[d.Args[1]] = d.Args[2]
		}
	}
	assert.Equal(t, map[string]string{
		"_shared": "static fields are not supported",
		"_fixed":  "readonly fields are not supported",
	}, reasons)
}

func TestRecipientsAndValidation(t *testing.T) {
	res := run(t, header+`
public partial class Chat : ObservableRecipient
{
    [ObservableProperty]
    [NotifyPropertyChangedRecipients]
    private string? _text;
}

[NotifyDataErrorInfo]
public partial class Form : ObservableValidator
{
    [ObservableProperty] private string? _email;
}
`)
	require.Empty(t, res.Diagnostics)
	assert.True(t, propertyFor(t, res, "Text").NotifyRecipients)
	assert.True(t, propertyFor(t, res, "Email").NotifyDataErrorInfo)
	assert.Contains(t, sourceFor(t, res, "App.Chat.g.cs"), `Broadcast(__oldValue, value, "Text");`)
	assert.Contains(t, sourceFor(t, res, "App.Form.g.cs"), `ValidateProperty(value, "Email");`)
}

const partialProps = header + `
public partial class Doc : ObservableObject
{
    [ObservableProperty] public partial string? Title { get; set; }
    [ObservableProperty] public partial int Pages { get; private set; }
}
`

func TestPartialPropertiesNeedPreview(t *testing.T) {
	res := run(t, partialProps)
	require.Len(t, res.Diagnostics, 1, "reported once per compilation")
	assert.Equal(t, "MVVMTK0041", res.Diagnostics[0].ID())
	assert.Empty(t, res.Properties)
}

func TestPartialProperties(t *testing.T) {
	res := runWith(t, generator.Options{}, host.LangPreview, partialProps+`
public partial class Loose : ObservableObject
{
    [ObservableProperty] public string Name { get; set; }
}
`)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, "MVVMTK0044", d.ID())
	assert.Equal(t, "the property must be partial", d.Args[2])

	require.Len(t, res.Properties, 2)
	title := propertyFor(t, res, "Title")
	assert.Equal(t, model.OriginPartialProperty, title.Origin)
	assert.Equal(t, "field", title.Names.Field)

	text := sourceFor(t, res, "App.Doc.g.cs")
	for _, want := range []string{
		"public partial string? Title",
		"get => field;",
		"field = value;",
		"public partial int Pages",
		"private set",
	} {
		assert.Contains(t, text, want)
	}
}

func TestRecipientRegistration(t *testing.T) {
	res := run(t, header+`
public class PingMessage { }
public class PongMessage { }

public class Listener : IRecipient<PingMessage>, IRecipient<PongMessage>
{
    public void Receive(PingMessage message) { }
    public void Receive(PongMessage message) { }
}

public abstract class Skipped : IRecipient<PingMessage>
{
    public void Receive(PingMessage message) { }
}
`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Recipients, 1)
	r := res.Recipients[0]
	assert.Equal(t, "global::App.Listener", r.TypeName)
	assert.ElementsMatch(t, []string{"global::App.PingMessage", "global::App.PongMessage"}, r.Messages)

	text := sourceFor(t, res, "App.Listener.Recipients.g.cs")
	assert.Contains(t, text, "public static void RegisterAll(global::CommunityToolkit.Mvvm.Messaging.IMessenger messenger, global::App.Listener recipient)")
	assert.Contains(t, text, "global::CommunityToolkit.Mvvm.Messaging.IMessengerExtensions.Register<global::App.PingMessage>(messenger, recipient);")
}

const determinismA = header + `
public partial class Vm : ObservableObject
{
    [ObservableProperty] private string? _name;
    [RelayCommand(CanExecute = nameof(CanSave))] private Task SaveAsync() { return null; }
    private bool CanSave() { return true; }
}
`

const determinismB = header + `
// Same declarations, different trivia.
public partial class Vm : ObservableObject
{

    [ObservableProperty]
    private string? _name;   // the name

    /// <summary>Saves.</summary>
    [RelayCommand(CanExecute = nameof(CanSave))]
    private Task SaveAsync()
    {
        return null;
    }

    private bool CanSave() { return true; }
}
`

func TestWhitespaceDoesNotChangeOutput(t *testing.T) {
	a := run(t, determinismA)
	b := run(t, determinismB)
	require.Empty(t, a.Diagnostics)
	assert.Equal(t, a.Commands, b.Commands)
	assert.Equal(t, a.Properties, b.Properties)
	assert.Equal(t, a.Sources, b.Sources)

	for _, pair := range [][2]any{{a.Commands, b.Commands}, {a.Properties, b.Properties}} {
		ea, err := incremental.Encode(pair[0])
		require.NoError(t, err)
		eb, err := incremental.Encode(pair[1])
		require.NoError(t, err)
		assert.Equal(t, ea, eb)
	}
}

func TestSourcesSortedByHint(t *testing.T) {
	res := run(t, determinismA)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "App.Vm.SaveAsync.g.cs", res.Sources[0].HintName)
	assert.Equal(t, "App.Vm.g.cs", res.Sources[1].HintName)
}

func TestMemoizedRun(t *testing.T) {
	store, err := incremental.New(128, nil)
	require.NoError(t, err)
	opts := generator.Options{Cache: store, Jobs: 2}

	first := runWith(t, opts, host.LangDefault, determinismA)
	assert.Zero(t, first.CacheHits)

	second := runWith(t, opts, host.LangDefault, determinismA)
	assert.Equal(t, second.Candidates+len(second.Sources), second.CacheHits)
	assert.Equal(t, first.Sources, second.Sources)
}

func TestProgressReportsEverySite(t *testing.T) {
	var calls atomic.Int32
	opts := generator.Options{Progress: func(done, total int) {
		calls.Add(1)
		assert.LessOrEqual(t, done, total)
	}}
	res := runWith(t, opts, host.LangDefault, determinismA)
	assert.Equal(t, int32(res.Candidates), calls.Load())
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := generator.Run(ctx, compile(t, host.LangDefault, determinismA), generator.Options{Emit: testEmit})
	require.ErrorIs(t, err, context.Canceled)
}
