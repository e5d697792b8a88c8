// Package render turns the serialized form of a schema file into output
// documents, through a built-in target or a user supplied template file.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"go.protok.dev/protok/lib/fsext"
)

//go:embed markdown.tmpl
var markdownTemplateContent string

// Built-in target names. Target names never contain path separators, which
// is how they are told apart from user template file paths.
const (
	MarkdownTarget = "markdown"
	JSONTarget     = "json"
)

// DefaultSuffix returns the output file suffix a target produces when the
// output job does not override it.
func DefaultSuffix(target string) string {
	if target == JSONTarget {
		return ".json"
	}
	return ".md"
}

// Manager holds the pre-parsed built-in templates and loads user templates
// from the filesystem on demand.
type Manager struct {
	markdown *template.Template
	fs       fsext.Fs
}

// NewManager initializes a Manager with the built-in templates parsed.
func NewManager(fs fsext.Fs) (*Manager, error) {
	markdownTmpl, err := template.New(MarkdownTarget).Parse(markdownTemplateContent)
	if err != nil {
		return nil, fmt.Errorf("could not parse markdown template: %w", err)
	}
	return &Manager{markdown: markdownTmpl, fs: fs}, nil
}

// Render executes the target against a serialized schema file. The json
// target marshals the object directly; everything else goes through a
// template. The input is the plain map form, so templates never reach back
// into descriptors.
func (m *Manager) Render(target string, data map[string]interface{}) ([]byte, error) {
	if target == JSONTarget {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("could not marshal schema object: %w", err)
		}
		return append(out, '\n'), nil
	}

	tmpl, err := m.lookup(target)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("could not execute template %q: %w", target, err)
	}
	return buf.Bytes(), nil
}

func (m *Manager) lookup(target string) (*template.Template, error) {
	if target == MarkdownTarget {
		return m.markdown, nil
	}

	if isFilePath(target) {
		content, err := fsext.ReadFile(m.fs, target)
		if err != nil {
			return nil, fmt.Errorf("could not read template file %q: %w", target, err)
		}
		tmpl, err := template.New(filepath.Base(target)).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("could not parse template file %q: %w", target, err)
		}
		return tmpl, nil
	}

	// A bare name that happens to exist as a file usually means the caller
	// forgot the ./ prefix.
	exists, err := fsext.Exists(m.fs, fsext.JoinFilePath(".", target))
	if err == nil && exists {
		return nil, fmt.Errorf("invalid template %q, did you mean ./%s?", target, target)
	}
	return nil, fmt.Errorf("invalid template %q", target)
}

// isFilePath checks if the given string looks like a file path by detecting
// path separators. Built-in target names don't contain any.
func isFilePath(path string) bool {
	return strings.Contains(path, fsext.FilePathSeparator) || strings.ContainsRune(path, '/')
}
