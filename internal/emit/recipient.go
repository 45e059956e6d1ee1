package emit

import "mvvmgen/internal/model"

const (
	internalsNamespace = "CommunityToolkit.Mvvm.Messaging.__Internals"
	messengerIface     = "global::CommunityToolkit.Mvvm.Messaging.IMessenger"
	registerMethod     = "global::CommunityToolkit.Mvvm.Messaging.IMessengerExtensions.Register"
)

// Recipient renders a RegisterAll overload that subscribes a recipient to
// each message type it implements IRecipient<T> for.
func Recipient(m model.RecipientModel, opts Options) Source {
	e := newEmitter(opts)
	e.line("namespace %s", internalsNamespace)
	e.open()
	e.line("/// <summary>Messenger registration helpers.</summary>")
	e.generatedCode()
	e.excludeFromCoverage()
	e.line("[global::System.ComponentModel.EditorBrowsable(global::System.ComponentModel.EditorBrowsableState.Never)]")
	e.line("[global::System.Obsolete(\"This type is not intended to be used directly by user code\")]")
	e.line("internal static partial class __IMessengerExtensions")
	e.open()
	e.line("/// <summary>Registers <paramref name=\"recipient\"/> for every message type of <see cref=\"%s\"/>.</summary>", m.TypeName)
	e.line("/// <param name=\"messenger\">The messenger to register with.</param>")
	e.line("/// <param name=\"recipient\">The recipient to register.</param>")
	e.generatedCode()
	e.line("public static void RegisterAll(%s messenger, %s recipient)", messengerIface, m.TypeName)
	e.open()
	for _, msg := range m.Messages {
		e.line("%s<%s>(messenger, recipient);", registerMethod, msg)
	}
	e.close()
	e.close()
	e.close()
	return Source{HintName: RecipientHint(m.Hierarchy), Text: e.text()}
}
