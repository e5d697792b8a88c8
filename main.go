// Package main contains the main function for the protok binary.
package main

import (
	"go.protok.dev/protok/internal/cmd"
)

func main() {
	cmd.Execute()
}
