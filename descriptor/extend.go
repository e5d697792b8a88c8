package descriptor

// Extend is an `extend Target { ... }` block at file scope. It carries extra
// fields for a message that may be declared in another file. Extend blocks
// are not standalone entities after resolution: the extension merger splices
// their fields into the target message and discards the block. A block whose
// target is not among the loaded files is dropped silently, since schemas may
// extend types outside the currently loaded set.
type Extend struct {
	// Target is the name of the message being extended, as written in the
	// source: either a plain name resolved against the declaring file's
	// package, or a dotted qualified name.
	Target string
	Fields []*Field
}
