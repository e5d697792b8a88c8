package descriptor

import (
	"fmt"
	"strings"
)

// Resolve binds every non-scalar field type and every method input/output
// type in the indexed files to its target descriptor. All files of the
// session must be indexed before the first Resolve call; that is what makes
// forward references and mutually recursive messages work, since every name
// is already in the symbol table when any reference is looked at.
//
// Resolution mutates the trees in place. The attached references are shared
// and non-owning. Already bound references are left alone, so Resolve can be
// called again after more files were indexed.
func (r *Registry) Resolve() error {
	for _, f := range r.files {
		if err := r.resolveFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) resolveFile(f *File) error {
	for _, m := range f.Messages {
		if err := r.resolveMessage(f, m); err != nil {
			return err
		}
	}
	for _, s := range f.Services {
		for _, m := range s.Methods {
			if err := r.resolveMethodRef(f, s, m, &m.Input, "input"); err != nil {
				return err
			}
			if err := r.resolveMethodRef(f, s, m, &m.Output, "output"); err != nil {
				return err
			}
		}
	}
	// Fields declared in extend blocks resolve in the scope of the file
	// declaring the extension, before any merging happens.
	for _, ext := range f.Extends {
		for _, fld := range ext.Fields {
			if fld.Type.IsScalar() || fld.Type.Resolved() {
				continue
			}
			err := r.resolveRef(f, nil, &fld.Type,
				fmt.Sprintf("field %q", fld.Name), "extend "+ext.Target)
			if err != nil {
				return err
			}
		}
	}
	r.logger.WithField("file", f.Name).Debug("Resolved type references")
	return nil
}

func (r *Registry) resolveMessage(f *File, m *Message) error {
	for _, fld := range m.Fields {
		if fld.Type.IsScalar() || fld.Type.Resolved() {
			continue
		}
		err := r.resolveRef(f, m, &fld.Type, fmt.Sprintf("field %q", fld.Name), m.fullName)
		if err != nil {
			return err
		}
	}
	for _, nested := range m.Messages {
		if err := r.resolveMessage(f, nested); err != nil {
			return err
		}
	}
	return nil
}

// resolveMethodRef resolves a method input or output type. Unlike fields,
// methods have no scalar shortcut: the raw name has to resolve to a message
// or enum, so "rpc Get (int32) returns (Reply)" fails here instead of
// reaching serialization half resolved.
func (r *Registry) resolveMethodRef(f *File, s *Service, m *Method, ref *TypeRef, direction string) error {
	if ref.Descriptor() != nil {
		return nil
	}
	return r.resolveRef(f, nil, ref,
		fmt.Sprintf("%s of method %q", direction, m.Name), s.fullName)
}

func (r *Registry) resolveRef(f *File, enclosing *Message, ref *TypeRef, referrer, owner string) error {
	raw := ref.Raw()

	// A leading dot makes the reference absolute: the rest is a fully
	// qualified name, looked up verbatim with no scope search.
	if strings.HasPrefix(raw, ".") {
		if td, found := r.Lookup(strings.TrimPrefix(raw, ".")); found {
			ref.bind(td)
			return nil
		}
		return UnresolvedTypeError{Raw: raw, Referrer: referrer, Owner: owner, File: f.Name}
	}

	// Local lexical scope: a type nested directly in the enclosing message
	// shadows anything the package chain could reach under the same name.
	if enclosing != nil {
		if nested := enclosing.NestedMessage(raw); nested != nil {
			ref.bind(nested)
			return nil
		}
		if nested := enclosing.NestedEnum(raw); nested != nil {
			ref.bind(nested)
			return nil
		}
	}

	// Scope chain: the full package first, then progressively stripped
	// prefixes down to the empty scope. The first match wins, so the
	// innermost enclosing scope shadows outer ones.
	for scope := f.Package; ; scope = parentScope(scope) {
		if td, found := r.Lookup(qualify(scope, raw)); found {
			ref.bind(td)
			return nil
		}
		if scope == "" {
			break
		}
	}

	return UnresolvedTypeError{Raw: raw, Referrer: referrer, Owner: owner, File: f.Name}
}

// parentScope strips the trailing component of a dotted package prefix,
// returning "" for a single-component prefix.
func parentScope(scope string) string {
	i := strings.LastIndex(scope, ".")
	if i < 0 {
		return ""
	}
	return scope[:i]
}
