package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

var seeds = []string{
	"",
	"namespace App;\npublic partial class Vm : ObservableObject { }\n",
	`using CommunityToolkit.Mvvm.ComponentModel;
namespace App;
public partial class Vm : ObservableObject
{
    [ObservableProperty]
    [NotifyPropertyChangedFor(nameof(FullName))]
    private string? _firstName = "a";

    [RelayCommand(CanExecute = nameof(CanSave), AllowConcurrentExecutions = true)]
    private async Task SaveAsync(CancellationToken token) { await Task.Delay(1, token); }

    private bool CanSave() => _firstName is not null;
}
`,
	"[assembly: System.Obsolete]\nnamespace A.B { record R(int X); enum E { A = -1, B } }",
	"class C { int this[int i] { get => i; } event System.Action? E; }",
	"class C<T> where T : class { public required partial int P { get; set; } }",
	"/* unterminated",
	"class C { string s = \"unterminated\n }",
	"class { [ } ] ; @class @\"verbatim\"\"\" 0x1F_u 1e10f 'c' '\\u0041' $\"{x}\"",
	"\uFEFFclass Ünïcödé { int café; }",
	"class C { void M() { { { { } } } }",
}

func addSeeds(f *testing.F) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
