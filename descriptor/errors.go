package descriptor

import "fmt"

// DuplicateDefinitionError is returned by [Registry.Index] when a type's
// fully qualified name is already taken by another descriptor in the same
// file set.
type DuplicateDefinitionError struct {
	FullName string
	File     string
	Previous string
}

func (e DuplicateDefinitionError) Error() string {
	if e.Previous != "" && e.Previous != e.File {
		return fmt.Sprintf("duplicate definition of %q in %s, first defined in %s",
			e.FullName, e.File, e.Previous)
	}
	return fmt.Sprintf("duplicate definition of %q in %s", e.FullName, e.File)
}

// UnresolvedTypeError is returned by [Registry.Resolve] when a field or
// method references a name that matches no message or enum visible from the
// reference site.
type UnresolvedTypeError struct {
	// Raw is the type text as written in the schema source.
	Raw string
	// Referrer describes the element holding the reference, for example
	// `field "phones"` or `input of method "Search"`.
	Referrer string
	// Owner is the fully qualified name of the message or service the
	// referrer belongs to.
	Owner string
	// File is the logical name of the file declaring the owner.
	File string
}

func (e UnresolvedTypeError) Error() string {
	return fmt.Sprintf("can't resolve type %q for %s of %q (%s)",
		e.Raw, e.Referrer, e.Owner, e.File)
}
