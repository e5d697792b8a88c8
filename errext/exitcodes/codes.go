// Package exitcodes contains the constants representing possible protok exit error codes.
package exitcodes

// ExitCode is just a type representing a process exit code for protok
type ExitCode uint8

// list of exit codes used by protok
const (
	// GenericError is the exit code for errors without a more specific class.
	GenericError ExitCode = 1
	// InvalidConfig is returned for malformed configuration files, flags or
	// environment variables.
	InvalidConfig ExitCode = 104
	// SyntaxError is returned when a schema file cannot be parsed.
	SyntaxError ExitCode = 105
	// UnresolvedImport is returned when an imported schema file cannot be
	// found on any of the search paths.
	UnresolvedImport ExitCode = 106
	// UnresolvedType is returned when a field or method references a type
	// that cannot be bound to any known message or enum.
	UnresolvedType ExitCode = 107
	// OutputError is returned when rendered output cannot be written.
	OutputError ExitCode = 108
	// GoPanic is used when protok panicked; this is always a protok bug.
	GoPanic ExitCode = 109
	// DuplicateDefinition is returned when two types in the loaded file set
	// share a fully qualified name.
	DuplicateDefinition ExitCode = 110
)
