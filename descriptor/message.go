package descriptor

import "fmt"

// Cardinality is how many values a field can carry.
type Cardinality uint8

// Field cardinalities. Required is the zero value; a field declared without
// a label parses as Required.
const (
	Required Cardinality = iota
	Optional
	Repeated
)

func (c Cardinality) String() string {
	switch c {
	case Optional:
		return "optional"
	case Repeated:
		return "repeated"
	default:
		return "required"
	}
}

// Message is a message declaration, possibly nested inside another message.
// A message owns its fields and nested declarations exclusively; only the
// resolved references held by fields elsewhere point into it.
type Message struct {
	Name string

	Fields   []*Field
	Messages []*Message
	Enums    []*Enum
	Options  Options

	fullName string
}

// FullName returns the fully qualified name assigned during indexing, e.g.
// "examples.Person". It is empty before the declaring file was indexed.
func (m *Message) FullName() string { return m.fullName }

// Kind returns KindMessage.
func (m *Message) Kind() Kind { return KindMessage }

// NestedMessage returns the directly nested message with the given name, or nil.
func (m *Message) NestedMessage(name string) *Message {
	for _, nested := range m.Messages {
		if nested.Name == name {
			return nested
		}
	}
	return nil
}

// NestedEnum returns the directly nested enum with the given name, or nil.
func (m *Message) NestedEnum(name string) *Enum {
	for _, nested := range m.Enums {
		if nested.Name == name {
			return nested
		}
	}
	return nil
}

// Field returns the field with the given name, or nil.
func (m *Message) Field(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// AddField appends a synthetic field with a native scalar type to the end of
// the field list, bypassing the parser and the resolver. It is meant for
// post-parse schema customization right before rendering.
func (m *Message) AddField(scalarType, name string, number int) (*Field, error) {
	ref, ok := ScalarRef(scalarType)
	if !ok {
		return nil, fmt.Errorf("can't add field %q to %s: %q is not a scalar type", name, m.Name, scalarType)
	}
	f := &Field{
		Name:   name,
		Number: number,
		Type:   ref,
	}
	m.Fields = append(m.Fields, f)
	return f, nil
}

// RemoveFieldByName deletes the first field with the given name, keeping the
// order of the remaining fields. Removing an absent field is a no-op; the
// return value reports whether a field was removed.
func (m *Message) RemoveFieldByName(name string) bool {
	for i, f := range m.Fields {
		if f.Name == name {
			m.Fields = append(m.Fields[:i], m.Fields[i+1:]...)
			return true
		}
	}
	return false
}

var _ TypeDescriptor = (*Message)(nil)

// Field is a single field declaration inside a message or an extend block.
type Field struct {
	Name        string
	Number      int
	Cardinality Cardinality
	Type        TypeRef
	Options     Options
}
