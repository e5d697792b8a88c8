// Package loader locates schema files on a set of search roots and parses
// them together with everything they import, exactly once each.
package loader

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"go.protok.dev/protok/descriptor"
	"go.protok.dev/protok/lib/fsext"
	"go.protok.dev/protok/syntax"
)

// Loader loads schema files by logical name, resolving each name against an
// ordered list of search root directories, first existing file wins. Every
// file is parsed at most once per Loader; a repeated load returns the cached
// descriptor, which is also what keeps import cycles from recursing forever.
type Loader struct {
	logger logrus.FieldLogger
	fs     fsext.Fs
	roots  []string

	byName map[string]*descriptor.File
	byPath map[string]*descriptor.File
	files  []*descriptor.File
}

// New returns a Loader reading from fs. With no roots, files resolve
// against the current directory.
func New(logger logrus.FieldLogger, fs fsext.Fs, roots ...string) *Loader {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	return &Loader{
		logger: logger,
		fs:     fs,
		roots:  roots,
		byName: make(map[string]*descriptor.File),
		byPath: make(map[string]*descriptor.File),
	}
}

// Load locates, reads and parses the named file and, depth first, every file
// it imports, attaching the loaded descriptors to the import statements.
// Logical names are slash separated and normalized before lookup, so
// "./a.proto" and "sub/../a.proto" are the same file as "a.proto".
func (l *Loader) Load(name string) (*descriptor.File, error) {
	name = path.Clean(name)
	if f, hit := l.byName[name]; hit {
		return f, nil
	}

	resolved, err := l.locate(name)
	if err != nil {
		return nil, err
	}
	if f, hit := l.byPath[resolved]; hit {
		// Another spelling of an already loaded file.
		l.byName[name] = f
		return f, nil
	}

	data, err := fsext.ReadFile(l.fs, resolved)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", resolved, err)
	}
	l.logger.WithFields(logrus.Fields{
		"file": name,
		"path": resolved,
	}).Debug("Loading schema file")

	f, err := syntax.Parse(name, data)
	if err != nil {
		return nil, err
	}
	f.Path = resolved

	// Register before recursing into imports: a cycle back to this file hits
	// the cache instead of parsing it again, and the importing file stays
	// ahead of its imports in discovery order.
	l.byName[name] = f
	l.byPath[resolved] = f
	l.files = append(l.files, f)

	for _, imp := range f.Imports {
		imported, err := l.Load(imp.Name)
		if err != nil {
			return nil, err
		}
		imp.File = imported
	}
	return f, nil
}

// locate resolves a logical name to a file path by trying each search root
// in order. Absolute names skip the roots; they can only come from the
// command line, import statements are always relative.
func (l *Loader) locate(name string) (string, error) {
	if name[0] == '/' || name[0] == '\\' || filepath.IsAbs(name) {
		exists, err := fsext.Exists(l.fs, name)
		if err != nil {
			return "", fmt.Errorf("could not stat %q: %w", name, err)
		}
		if exists {
			if isDir, err := fsext.IsDir(l.fs, name); err == nil && !isDir {
				return name, nil
			}
		}
		return "", UnresolvedImportError{Name: name, Attempted: []string{name}}
	}

	attempted := make([]string, 0, len(l.roots))
	for _, root := range l.roots {
		candidate := fsext.JoinFilePath(root, name)
		exists, err := fsext.Exists(l.fs, candidate)
		if err != nil {
			return "", fmt.Errorf("could not stat %q: %w", candidate, err)
		}
		if exists {
			if isDir, err := fsext.IsDir(l.fs, candidate); err == nil && !isDir {
				return candidate, nil
			}
		}
		attempted = append(attempted, candidate)
	}
	return "", UnresolvedImportError{Name: name, Attempted: attempted}
}

// Protos returns every loaded file in discovery order: the root file first,
// then its imports depth first.
func (l *Loader) Protos() []*descriptor.File {
	return l.files
}

// Proto returns a loaded file by its logical name or resolved path.
func (l *Loader) Proto(name string) (*descriptor.File, error) {
	if f, hit := l.byName[path.Clean(name)]; hit {
		return f, nil
	}
	if f, hit := l.byPath[name]; hit {
		return f, nil
	}
	return nil, fmt.Errorf("unknown schema file %q", name)
}
