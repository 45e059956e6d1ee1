package emit

import (
	"strings"

	"mvvmgen/internal/model"
)

const (
	optionsEnum     = "global::CommunityToolkit.Mvvm.Input.AsyncRelayCommandOptions"
	commandIface    = "global::System.Windows.Input.ICommand"
	cancelExtension = "global::CommunityToolkit.Mvvm.Input.IAsyncRelayCommandExtensions.CreateCancelCommand"
)

// Command renders the command property, its backing field and the optional
// cancel companion for one [RelayCommand] method.
func Command(m model.CommandModel, opts Options) Source {
	e := newEmitter(opts)
	n := e.openHierarchy(m.Hierarchy)

	e.line("/// <summary>The backing field for <see cref=\"%s\"/>.</summary>", m.Names.Member)
	e.generatedCode()
	e.attributes(m.FieldAttributes)
	e.line("private %s? %s;", m.ClassType, m.Names.Field)
	e.line("")
	e.line("/// <summary>Gets an <see cref=\"%s\"/> instance wrapping <see cref=\"%s\"/>.</summary>",
		m.InterfaceType, m.MethodName)
	e.generatedCode()
	e.excludeFromCoverage()
	e.attributes(m.PropertyAttributes)
	e.line("public %s %s => %s ??= new %s(%s);", m.InterfaceType, m.Names.Member, m.Names.Field, m.ClassType,
		strings.Join(constructorArgs(m), ", "))

	if m.IncludeCancelCommand {
		e.line("")
		e.line("/// <summary>The backing field for <see cref=\"%s\"/>.</summary>", m.CancelNames.Member)
		e.generatedCode()
		e.line("private %s? %s;", commandIface, m.CancelNames.Field)
		e.line("")
		e.line("/// <summary>Gets an <see cref=\"%s\"/> instance that can be used to cancel <see cref=\"%s\"/>.</summary>",
			commandIface, m.Names.Member)
		e.generatedCode()
		e.excludeFromCoverage()
		e.line("public %s %s => %s ??= %s(%s);", commandIface, m.CancelNames.Member, m.CancelNames.Field,
			cancelExtension, m.Names.Member)
	}

	e.closeBlocks(n)
	return Source{HintName: CommandHint(m), Text: e.text()}
}

func constructorArgs(m model.CommandModel) []string {
	args := []string{"new " + m.DelegateType + "(" + m.MethodName + ")"}
	if p := predicate(m.CanExecute); p != "" {
		args = append(args, p)
	}
	if o := optionsExpr(m.Options); o != "" {
		args = append(args, o)
	}
	return args
}

func predicate(c model.CanExecute) string {
	switch c.Kind {
	case model.CanExecuteMethodGroup:
		return c.Member
	case model.CanExecuteInvocationWithDiscard:
		return "_ => " + c.Member + "()"
	case model.CanExecutePropertyAccess:
		return "() => " + c.Member
	case model.CanExecutePropertyAccessWithDiscard:
		return "_ => " + c.Member
	}
	return ""
}

func optionsExpr(o model.AsyncOptions) string {
	var parts []string
	if o&model.OptionsAllowConcurrentExecutions != 0 {
		parts = append(parts, optionsEnum+".AllowConcurrentExecutions")
	}
	if o&model.OptionsFlowExceptionsToTaskScheduler != 0 {
		parts = append(parts, optionsEnum+".FlowExceptionsToTaskScheduler")
	}
	return strings.Join(parts, " | ")
}
