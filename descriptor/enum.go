package descriptor

// Enum is an enum declaration, possibly nested inside a message. Value
// numbers need not be contiguous or ordered, but must be unique within the
// enum unless the allow_alias option is set.
type Enum struct {
	Name    string
	Values  []*EnumValue
	Options Options

	fullName string
}

// EnumValue is a single `NAME = number` enum entry.
type EnumValue struct {
	Name   string
	Number int
}

// FullName returns the fully qualified name assigned during indexing.
func (e *Enum) FullName() string { return e.fullName }

// Kind returns KindEnum.
func (e *Enum) Kind() Kind { return KindEnum }

// Value returns the value with the given name, or nil.
func (e *Enum) Value(name string) *EnumValue {
	for _, v := range e.Values {
		if v.Name == name {
			return v
		}
	}
	return nil
}

var _ TypeDescriptor = (*Enum)(nil)
