// Package descriptor contains the in-memory model of parsed schema files:
// files, messages, enums, fields, services and methods, together with the
// registry that indexes them by fully qualified name and binds type
// references across files.
//
// Descriptor trees are produced by the syntax package with only syntactic
// information filled in. The loader attaches imported files, the [Registry]
// assigns qualified names and resolves type references, and the extension
// merger splices extend blocks into their targets. After that the tree is
// effectively read only, except for the explicitly supported field mutations
// on [Message].
package descriptor

// Kind discriminates the descriptor types a field or method reference can
// bind to.
type Kind uint8

// Kinds of type descriptors.
const (
	KindMessage Kind = iota + 1
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// TypeDescriptor is a resolved schema type, either a *Message or an *Enum.
// References held through this interface are shared and non-owning; the
// descriptor stays owned by the file tree it was declared in.
type TypeDescriptor interface {
	// FullName returns the fully qualified dotted name, e.g.
	// "examples.Person.PhoneType". It is assigned when the declaring file
	// is indexed by a Registry.
	FullName() string
	// Kind reports whether the descriptor is a message or an enum.
	Kind() Kind

	templateObject(tc *templateCtx) (map[string]interface{}, error)
}

// scalarTypes are the native field types that resolve without a descriptor.
var scalarTypes = map[string]struct{}{
	"double":   {},
	"float":    {},
	"int32":    {},
	"int64":    {},
	"uint32":   {},
	"uint64":   {},
	"sint32":   {},
	"sint64":   {},
	"fixed32":  {},
	"fixed64":  {},
	"sfixed32": {},
	"sfixed64": {},
	"bool":     {},
	"string":   {},
	"bytes":    {},
}

// IsScalarType reports whether name is a native scalar type name.
func IsScalarType(name string) bool {
	_, ok := scalarTypes[name]
	return ok
}

// TypeRef is the type of a field or of a method input/output. It starts out
// as the raw dotted name written in the schema source and, unless it names a
// scalar type, is bound to a concrete [TypeDescriptor] during resolution.
type TypeRef struct {
	raw    string
	target TypeDescriptor
}

// NewTypeRef returns an unresolved reference for the given raw type text.
func NewTypeRef(raw string) TypeRef {
	return TypeRef{raw: raw}
}

// ScalarRef returns a reference to the given native scalar type. It returns
// false if name does not name a scalar type.
func ScalarRef(name string) (TypeRef, bool) {
	if !IsScalarType(name) {
		return TypeRef{}, false
	}
	return TypeRef{raw: name}, true
}

// Raw returns the type name as written in the schema source.
func (r TypeRef) Raw() string { return r.raw }

// IsScalar reports whether the reference names a native scalar type.
func (r TypeRef) IsScalar() bool { return IsScalarType(r.raw) }

// Resolved reports whether the reference has been bound to a descriptor.
// Scalar references never bind and always report true.
func (r TypeRef) Resolved() bool { return r.IsScalar() || r.target != nil }

// Descriptor returns the bound type descriptor, or nil for scalar or still
// unresolved references.
func (r TypeRef) Descriptor() TypeDescriptor { return r.target }

// bind attaches the resolved descriptor. The reference does not take
// ownership of the target.
func (r *TypeRef) bind(target TypeDescriptor) { r.target = target }
