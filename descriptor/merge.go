package descriptor

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// MergeExtensions splices the fields of every extend block in the indexed
// files into the message each block targets, after any fields the target
// already has and in declaration order. Extensions whose target is not part
// of the loaded file set are dropped without an error; a schema may extend
// types it never imports.
//
// Merged extend blocks are consumed, so calling MergeExtensions again is a
// no-op until new files are indexed.
func (r *Registry) MergeExtensions() {
	for _, f := range r.files {
		for _, ext := range f.Extends {
			target := r.extendTarget(f, ext)
			if target == nil {
				r.logger.WithFields(logrus.Fields{
					"target": ext.Target,
					"file":   f.Name,
				}).Debug("Dropping extension of unknown type")
				continue
			}
			target.Fields = append(target.Fields, ext.Fields...)
			r.logger.WithFields(logrus.Fields{
				"target": target.fullName,
				"fields": len(ext.Fields),
				"file":   f.Name,
			}).Debug("Merged extension")
		}
		f.Extends = nil
	}
}

// extendTarget looks up the message an extend block targets: relative to the
// declaring file's package first, then, for dotted names, as an absolute
// qualified name. Unknown targets and targets that are not messages yield
// nil.
func (r *Registry) extendTarget(f *File, ext *Extend) *Message {
	if strings.HasPrefix(ext.Target, ".") {
		return r.messageByName(strings.TrimPrefix(ext.Target, "."))
	}
	if m := r.messageByName(qualify(f.Package, ext.Target)); m != nil {
		return m
	}
	if strings.Contains(ext.Target, ".") {
		return r.messageByName(ext.Target)
	}
	return nil
}

func (r *Registry) messageByName(fullName string) *Message {
	td, found := r.Lookup(fullName)
	if !found {
		return nil
	}
	m, isMessage := td.(*Message)
	if !isMessage {
		return nil
	}
	return m
}
