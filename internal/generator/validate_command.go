package generator

import (
	"context"
	"fmt"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/model"
	"mvvmgen/internal/naming"
)

// shape is one of the closed list of supported command method signatures.
type shape uint8

const (
	shapeNone shape = iota
	shapeVoid
	shapeVoidT
	shapeTask
	shapeTaskT
	shapeTaskToken
	shapeTaskTToken
)

func (s shape) String() string {
	switch s {
	case shapeVoid:
		return "void()"
	case shapeVoidT:
		return "void(T)"
	case shapeTask:
		return "Task()"
	case shapeTaskT:
		return "Task(T)"
	case shapeTaskToken:
		return "Task(CancellationToken)"
	case shapeTaskTToken:
		return "Task(T, CancellationToken)"
	}
	return "unsupported"
}

func (s shape) async() bool       { return s >= shapeTask }
func (s shape) cancellable() bool { return s == shapeTaskToken || s == shapeTaskTToken }
func (s shape) hasArgument() bool { return s == shapeVoidT || s == shapeTaskT || s == shapeTaskTToken }

// shapeTable is matched top to bottom; the first match wins. A T slot never
// binds an ineligible parameter, and in task shapes never a token.
var shapeTable = []struct {
	shape  shape
	ret    ReturnKind
	params func(ps []ParamFacts) bool
}{
	{shapeVoid, ReturnVoid, func(ps []ParamFacts) bool { return len(ps) == 0 }},
	{shapeVoidT, ReturnVoid, func(ps []ParamFacts) bool { return len(ps) == 1 && ps[0].Eligible }},
	{shapeTask, ReturnTask, func(ps []ParamFacts) bool { return len(ps) == 0 }},
	{shapeTaskT, ReturnTask, func(ps []ParamFacts) bool { return len(ps) == 1 && valueSlot(ps[0]) }},
	{shapeTaskToken, ReturnTask, func(ps []ParamFacts) bool { return len(ps) == 1 && ps[0].CancellationToken }},
	{shapeTaskTToken, ReturnTask, func(ps []ParamFacts) bool {
		return len(ps) == 2 && valueSlot(ps[0]) && ps[1].CancellationToken
	}},
}

func valueSlot(p ParamFacts) bool { return p.Eligible && !p.CancellationToken }

// matchShape maps a return kind and parameter list to a shape.
func matchShape(ret ReturnKind, ps []ParamFacts) shape {
	for _, row := range shapeTable {
		if row.ret == ret && row.params(ps) {
			return row.shape
		}
	}
	return shapeNone
}

type commandState struct {
	report
	f          *CommandFacts
	shape      shape
	argument   string
	canExecute model.CanExecute
	fieldAttrs []model.AttributeInfo
	propAttrs  []model.AttributeInfo
}

var commandBatches = [][]rule[commandState]{
	{checkUniqueness},
	{checkSignature},
	{checkOptions},
	{checkPredicate, checkCommandForwarding},
}

// ValidateCommand runs the command rules over facts and builds the model
// when no fatal rule fails.
func ValidateCommand(ctx context.Context, f CommandFacts) (SiteResult, error) {
	s := &commandState{f: &f}
	ok, err := runBatches(ctx, s, commandBatches)
	if err != nil {
		return SiteResult{}, err
	}
	if !ok {
		return SiteResult{Diagnostics: s.diags}, nil
	}
	m, err := s.model()
	if err != nil {
		return SiteResult{}, fmt.Errorf("command %s.%s: %w", f.Site.TypeName, f.Site.Member, err)
	}
	return SiteResult{Command: &m, Diagnostics: s.diags}, nil
}

func checkUniqueness(s *commandState) bool {
	if !s.f.Duplicate {
		return false
	}
	s.add(diag.New(diag.MultipleRelayCommandMethodOverloads, s.f.Site.Span, s.f.Site.TypeName, s.f.Site.Member))
	return true
}

func checkSignature(s *commandState) bool {
	s.shape = matchShape(s.f.Return, s.f.Params)
	if s.shape == shapeNone {
		s.add(diag.New(diag.InvalidRelayCommandMethodSignature, s.f.Site.Span, s.f.Site.TypeName, s.f.Site.Member))
		return true
	}
	if s.shape.hasArgument() {
		s.argument = s.f.Params[0].Type
	}
	if s.f.IsAsync && s.f.Return == ReturnVoid {
		s.add(diag.New(diag.AsyncVoidReturningRelayCommandMethod, s.f.Site.Span, s.f.Site.TypeName, s.f.Site.Member))
	}
	return false
}

func checkOptions(s *commandState) bool {
	fatal := false
	site := s.f.Site
	if s.f.AllowConcurrent && !s.shape.async() {
		s.add(diag.New(diag.InvalidConcurrentExecutionsOption, site.Span, site.TypeName, site.Member))
		fatal = true
	}
	if s.f.FlowExceptions && !s.shape.async() {
		s.add(diag.New(diag.InvalidFlowExceptionsToTaskSchedulerOption, site.Span, site.TypeName, site.Member))
		fatal = true
	}
	if s.f.IncludeCancel && !s.shape.cancellable() {
		s.add(diag.New(diag.InvalidIncludeCancelCommandOption, site.Span, site.TypeName, site.Member))
		fatal = true
	}
	return fatal
}

// checkPredicate binds CanExecute. Failures drop the predicate and never
// stop the site.
func checkPredicate(s *commandState) bool {
	name := s.f.CanExecute
	if name == "" {
		return false
	}
	span, typeName := s.f.CanExecuteSpan, s.f.Site.TypeName
	switch {
	case len(s.f.Predicates) > 1:
		s.add(diag.New(diag.MultipleCanExecuteMemberNameMatches, span, name, typeName))
	case len(s.f.Predicates) == 1:
		kind, ok := bindPredicate(s.f.Predicates[0], s.shape.hasArgument(), s.argument)
		if !ok {
			s.add(diag.New(diag.InvalidCanExecuteMember, span, name, typeName))
			return false
		}
		s.canExecute = model.CanExecute{Member: name, Kind: kind}
	case s.f.Companion && s.f.CompanionBool:
		kind := model.CanExecutePropertyAccess
		if s.shape.hasArgument() {
			kind = model.CanExecutePropertyAccessWithDiscard
		}
		s.canExecute = model.CanExecute{Member: name, Kind: kind}
	default:
		s.add(diag.New(diag.InvalidCanExecuteMemberName, span, name, typeName))
	}
	return false
}

// bindPredicate decides how a single CanExecute member is invoked.
func bindPredicate(p PredicateMember, hasArgument bool, argument string) (model.CanExecuteKind, bool) {
	if !p.ReturnsBool {
		return model.CanExecuteNone, false
	}
	switch p.Kind {
	case MemberProperty:
		if p.IsIndexer {
			return model.CanExecuteNone, false
		}
		if hasArgument {
			return model.CanExecutePropertyAccessWithDiscard, true
		}
		return model.CanExecutePropertyAccess, true
	case MemberMethod:
		switch {
		case len(p.Params) == 0 && hasArgument:
			return model.CanExecuteInvocationWithDiscard, true
		case len(p.Params) == 0:
			return model.CanExecuteMethodGroup, true
		case len(p.Params) == 1 && hasArgument && p.Params[0] != "" && p.Params[0] == argument:
			return model.CanExecuteMethodGroup, true
		}
	}
	return model.CanExecuteNone, false
}

func checkCommandForwarding(s *commandState) bool {
	for _, fa := range s.f.Forwarded {
		if !fa.Valid {
			s.add(diag.New(diag.InvalidForwardedAttributeOnRelayCommandMethod, fa.Span, s.f.Site.TypeName, s.f.Site.Member, fa.Written))
			continue
		}
		if fa.Target == "field" {
			s.fieldAttrs = append(s.fieldAttrs, fa.Info)
		} else {
			s.propAttrs = append(s.propAttrs, fa.Info)
		}
	}
	return false
}

const (
	actionType = "global::System.Action"
	funcType   = "global::System.Func"
	taskName   = "global::System.Threading.Tasks.Task"
	tokenName  = "global::System.Threading.CancellationToken"
)

func (s *commandState) model() (model.CommandModel, error) {
	f := s.f
	taskReturning := f.Return == ReturnTask
	names, err := naming.Command(f.Site.Member, taskReturning, f.Style)
	if err != nil {
		return model.CommandModel{}, err
	}
	m := model.CommandModel{
		Hierarchy:            f.Hierarchy,
		MethodName:           f.Site.Member,
		Names:                names,
		TypeArgument:         s.argument,
		IsAsync:              s.shape.async(),
		SupportsCancellation: s.shape.cancellable(),
		CanExecute:           s.canExecute,
		FieldAttributes:      s.fieldAttrs,
		PropertyAttributes:   s.propAttrs,
	}
	generic := ""
	if s.argument != "" {
		generic = "<" + s.argument + ">"
	}
	if m.IsAsync {
		m.InterfaceType = inputNamespace + "IAsyncRelayCommand" + generic
		m.ClassType = inputNamespace + "AsyncRelayCommand" + generic
		m.Options = model.EncodeOptions(f.AllowConcurrent, f.FlowExceptions)
	} else {
		m.InterfaceType = inputNamespace + "IRelayCommand" + generic
		m.ClassType = inputNamespace + "RelayCommand" + generic
	}
	switch s.shape {
	case shapeVoid:
		m.DelegateType = actionType
	case shapeVoidT:
		m.DelegateType = actionType + generic
	case shapeTask:
		m.DelegateType = funcType + "<" + taskName + ">"
	case shapeTaskT:
		m.DelegateType = funcType + "<" + s.argument + ", " + taskName + ">"
	case shapeTaskToken:
		m.DelegateType = funcType + "<" + tokenName + ", " + taskName + ">"
	case shapeTaskTToken:
		m.DelegateType = funcType + "<" + s.argument + ", " + tokenName + ", " + taskName + ">"
	}
	if f.IncludeCancel {
		m.IncludeCancelCommand = true
		m.CancelNames, err = naming.CancelCommand(f.Site.Member, taskReturning, f.Style)
		if err != nil {
			return model.CommandModel{}, err
		}
	}
	return m, nil
}
