package generator

import (
	"context"
	"testing"

	"mvvmgen/internal/model"
)

func TestMatchShape(t *testing.T) {
	str := ParamFacts{Type: "string", Eligible: true}
	tok := ParamFacts{Type: "global::System.Threading.CancellationToken", Eligible: true, CancellationToken: true}
	byRef := ParamFacts{Type: "int", Eligible: false}

	cases := []struct {
		name   string
		ret    ReturnKind
		params []ParamFacts
		want   shape
	}{
		{"void()", ReturnVoid, nil, shapeVoid},
		{"void(T)", ReturnVoid, []ParamFacts{str}, shapeVoidT},
		{"void(token) binds T", ReturnVoid, []ParamFacts{tok}, shapeVoidT},
		{"Task()", ReturnTask, nil, shapeTask},
		{"Task(T)", ReturnTask, []ParamFacts{str}, shapeTaskT},
		{"Task(token) is not Task(T)", ReturnTask, []ParamFacts{tok}, shapeTaskToken},
		{"Task(T, token)", ReturnTask, []ParamFacts{str, tok}, shapeTaskTToken},
		{"Task(token, token)", ReturnTask, []ParamFacts{tok, tok}, shapeNone},
		{"ref parameter", ReturnVoid, []ParamFacts{byRef}, shapeNone},
		{"two values", ReturnVoid, []ParamFacts{str, str}, shapeNone},
		{"Task(T, T)", ReturnTask, []ParamFacts{str, str}, shapeNone},
		{"other return", ReturnOther, nil, shapeNone},
	}
	for _, tc := range cases {
		if got := matchShape(tc.ret, tc.params); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBindPredicate(t *testing.T) {
	cases := []struct {
		name   string
		member PredicateMember
		hasArg bool
		arg    string
		want   model.CanExecuteKind
		ok     bool
	}{
		{"method no arg", PredicateMember{Kind: MemberMethod, ReturnsBool: true}, false, "", model.CanExecuteMethodGroup, true},
		{"method discards arg", PredicateMember{Kind: MemberMethod, ReturnsBool: true}, true, "int", model.CanExecuteInvocationWithDiscard, true},
		{"method takes arg", PredicateMember{Kind: MemberMethod, ReturnsBool: true, Params: []string{"int"}}, true, "int", model.CanExecuteMethodGroup, true},
		{"method arg mismatch", PredicateMember{Kind: MemberMethod, ReturnsBool: true, Params: []string{"string"}}, true, "int", model.CanExecuteNone, false},
		{"method needs arg", PredicateMember{Kind: MemberMethod, ReturnsBool: true, Params: []string{"int"}}, false, "", model.CanExecuteNone, false},
		{"ineligible param", PredicateMember{Kind: MemberMethod, ReturnsBool: true, Params: []string{""}}, true, "", model.CanExecuteNone, false},
		{"property", PredicateMember{Kind: MemberProperty, ReturnsBool: true}, false, "", model.CanExecutePropertyAccess, true},
		{"property discards arg", PredicateMember{Kind: MemberProperty, ReturnsBool: true}, true, "int", model.CanExecutePropertyAccessWithDiscard, true},
		{"indexer", PredicateMember{Kind: MemberProperty, ReturnsBool: true, IsIndexer: true}, false, "", model.CanExecuteNone, false},
		{"not bool", PredicateMember{Kind: MemberMethod}, false, "", model.CanExecuteNone, false},
		{"field", PredicateMember{Kind: MemberOther, ReturnsBool: true}, false, "", model.CanExecuteNone, false},
	}
	for _, tc := range cases {
		got, ok := bindPredicate(tc.member, tc.hasArg, tc.arg)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRuleBatchesStopOnFatal(t *testing.T) {
	type state struct{ ran []string }
	mark := func(name string, fatal bool) rule[state] {
		return func(s *state) bool {
			s.ran = append(s.ran, name)
			return fatal
		}
	}
	s := &state{}
	ok, err := runBatches(context.Background(), s, [][]rule[state]{
		{mark("a", false)},
		{mark("b", true), mark("c", true)},
		{mark("d", false)},
	})
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if got := len(s.ran); got != 3 || s.ran[2] != "c" {
		t.Fatalf("every rule of the fatal batch runs, later batches do not: %v", s.ran)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runBatches(ctx, &state{}, [][]rule[state]{{mark("a", false)}}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestValidateCommandWithoutFailuresBuildsModel(t *testing.T) {
	res, err := ValidateCommand(context.Background(), CommandFacts{
		Site:   Site{TypeName: "App.Vm", Member: "OnRefresh"},
		Return: ReturnVoid,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Command == nil || len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Command.Names.Member != "RefreshCommand" || res.Command.Options != model.OptionsNone {
		t.Fatalf("unexpected model %+v", res.Command)
	}
}
