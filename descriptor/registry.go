package descriptor

import (
	"github.com/sirupsen/logrus"
)

// Registry is the per-session symbol table. It indexes every message and
// enum of a set of files by fully qualified name and then binds the type
// references between them. A Registry is owned by exactly one compilation
// session; it is not safe for concurrent use.
type Registry struct {
	logger logrus.FieldLogger

	types   map[string]registryEntry
	files   []*File
	indexed map[*File]struct{}
}

type registryEntry struct {
	td   TypeDescriptor
	file *File
}

// NewRegistry returns an empty registry logging through the given logger.
func NewRegistry(logger logrus.FieldLogger) *Registry {
	return &Registry{
		logger:  logger,
		types:   make(map[string]registryEntry),
		indexed: make(map[*File]struct{}),
	}
}

// Index walks the file's message and enum trees depth-first, assigns every
// node its fully qualified name and inserts it into the symbol table.
// Services and their methods get qualified names too, but are not entered in
// the table since fields cannot reference them. Indexing the same file again
// is a no-op, which is what keeps import cycles from indexing a file twice.
func (r *Registry) Index(f *File) error {
	if _, done := r.indexed[f]; done {
		return nil
	}
	r.indexed[f] = struct{}{}
	r.files = append(r.files, f)

	for _, m := range f.Messages {
		if err := r.indexMessage(f, m, f.Package); err != nil {
			return err
		}
	}
	for _, e := range f.Enums {
		if err := r.indexEnum(f, e, f.Package); err != nil {
			return err
		}
	}
	for _, s := range f.Services {
		s.fullName = qualify(f.Package, s.Name)
		for _, m := range s.Methods {
			m.fullName = s.fullName + "." + m.Name
		}
	}

	r.logger.WithFields(logrus.Fields{
		"file":  f.Name,
		"types": len(r.types),
	}).Debug("Indexed schema file")
	return nil
}

func (r *Registry) indexMessage(f *File, m *Message, prefix string) error {
	m.fullName = qualify(prefix, m.Name)
	if err := r.register(f, m); err != nil {
		return err
	}
	for _, nested := range m.Messages {
		if err := r.indexMessage(f, nested, m.fullName); err != nil {
			return err
		}
	}
	for _, e := range m.Enums {
		if err := r.indexEnum(f, e, m.fullName); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) indexEnum(f *File, e *Enum, prefix string) error {
	e.fullName = qualify(prefix, e.Name)
	return r.register(f, e)
}

func (r *Registry) register(f *File, td TypeDescriptor) error {
	name := td.FullName()
	if prev, taken := r.types[name]; taken {
		return DuplicateDefinitionError{
			FullName: name,
			File:     f.Name,
			Previous: prev.file.Name,
		}
	}
	r.types[name] = registryEntry{td: td, file: f}
	return nil
}

// Lookup returns the descriptor indexed under the given fully qualified
// name.
func (r *Registry) Lookup(fullName string) (TypeDescriptor, bool) {
	e, found := r.types[fullName]
	return e.td, found
}

// qualify joins a dotted prefix and a name, skipping empty components.
func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
