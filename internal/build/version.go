// Package build houses the version of the protok binary.
package build

// Version contains the current semantic version of protok.
const Version = "0.4.0"
