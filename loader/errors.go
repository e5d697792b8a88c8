package loader

import (
	"fmt"
	"strings"
)

// UnresolvedImportError is returned when a schema file exists on none of the
// search roots. Attempted lists every path that was tried, in search root
// order.
type UnresolvedImportError struct {
	Name      string
	Attempted []string
}

func (e UnresolvedImportError) Error() string {
	return fmt.Sprintf("can't find %q on any search path, tried: %s",
		e.Name, strings.Join(e.Attempted, ", "))
}
