package descriptor

// File is the descriptor of a single parsed schema file.
//
// The parser fills in everything except Path and the File references on
// imports, which are attached by the loader once the imported files have been
// located and parsed themselves.
type File struct {
	// Name is the logical name the file was addressed by, e.g.
	// "person.proto". Import statements refer to files by this name.
	Name string
	// Path is where the file was found on the search path.
	Path string
	// Package is the dotted package name, possibly empty.
	Package string

	Options  Options
	Imports  []*Import
	Messages []*Message
	Enums    []*Enum
	Services []*Service
	Extends  []*Extend
}

// Import is a single import statement. File is nil until the loader has
// loaded the imported file; the reference is shared, since several files may
// import the same file.
type Import struct {
	Name string
	File *File
}

// Message returns the top level message with the given name, or nil.
func (f *File) Message(name string) *Message {
	for _, m := range f.Messages {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Enum returns the top level enum with the given name, or nil.
func (f *File) Enum(name string) *Enum {
	for _, e := range f.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Service returns the service with the given name, or nil.
func (f *File) Service(name string) *Service {
	for _, s := range f.Services {
		if s.Name == name {
			return s
		}
	}
	return nil
}
