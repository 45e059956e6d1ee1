package syntax

import "strings"

// Modifiers is a set of declaration modifiers.
type Modifiers uint32

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModProtected
	ModInternal
	ModFile
	ModStatic
	ModReadonly
	ModConst
	ModAbstract
	ModSealed
	ModVirtual
	ModOverride
	ModNew
	ModExtern
	ModUnsafe
	ModVolatile
	ModPartial
	ModAsync
	ModRequired
	ModRef
	ModFixed
)

var modifierOrder = []struct {
	mod  Modifiers
	text string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModInternal, "internal"},
	{ModPrivate, "private"},
	{ModFile, "file"},
	{ModNew, "new"},
	{ModStatic, "static"},
	{ModAbstract, "abstract"},
	{ModSealed, "sealed"},
	{ModVirtual, "virtual"},
	{ModOverride, "override"},
	{ModExtern, "extern"},
	{ModUnsafe, "unsafe"},
	{ModConst, "const"},
	{ModReadonly, "readonly"},
	{ModVolatile, "volatile"},
	{ModFixed, "fixed"},
	{ModRequired, "required"},
	{ModAsync, "async"},
	{ModRef, "ref"},
	{ModPartial, "partial"},
}

// ModifierFromText maps a modifier spelling to its flag.
func ModifierFromText(s string) (Modifiers, bool) {
	for _, m := range modifierOrder {
		if m.text == s {
			return m.mod, true
		}
	}
	return 0, false
}

func (m Modifiers) Has(f Modifiers) bool { return m&f != 0 }

// Accessibility returns only the accessibility flags of m.
func (m Modifiers) Accessibility() Modifiers {
	return m & (ModPublic | ModPrivate | ModProtected | ModInternal | ModFile)
}

// String renders modifiers in canonical C# order.
func (m Modifiers) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.text)
		}
	}
	return strings.Join(parts, " ")
}
