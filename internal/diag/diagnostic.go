package diag

import "mvvmgen/internal/source"

// Note is a secondary location attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Property is a key/value pair consumed by code fixers.
type Property struct {
	Key   string
	Value string
}

// Diagnostic is one reported problem. It is a plain value: it compares, hashes
// and encodes without reference to the compilation that produced it.
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Args       []string
	Primary    source.Span
	Notes      []Note
	Properties []Property
}

// New builds a diagnostic for code using the registered severity and message
// format.
func New(code Code, primary source.Span, args ...string) Diagnostic {
	d := Diagnostic{Code: code, Primary: primary, Args: args}
	if desc, ok := Lookup(code); ok {
		d.Severity = desc.Severity
		d.Message = desc.Message(args...)
	}
	return d
}

// WithNote returns a copy of d with an extra note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Span: sp, Msg: msg})
	return d
}

// WithProperty returns a copy of d with an extra fixer property.
func (d Diagnostic) WithProperty(key, value string) Diagnostic {
	d.Properties = append(d.Properties[:len(d.Properties):len(d.Properties)], Property{Key: key, Value: value})
	return d
}

// Property returns the value stored under key.
func (d *Diagnostic) Property(key string) (string, bool) {
	for _, p := range d.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ID returns the external identifier of the diagnostic code.
func (d *Diagnostic) ID() string { return d.Code.ID() }

// Descriptor returns the registry entry of the diagnostic code.
func (d *Diagnostic) Descriptor() Descriptor {
	desc, _ := Lookup(d.Code)
	return desc
}
