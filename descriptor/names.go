package descriptor

import (
	"strings"

	"github.com/serenize/snaker"
)

// CamelName derives the lower camel case form of a declared name, e.g.
// "LaceShoe" and "lace_shoe" both become "laceShoe". Derived names are
// computed from the declared name on demand and never stored.
func CamelName(name string) string {
	return snaker.SnakeToCamelLower(snaker.CamelToSnake(name))
}

// UpperUnderscoreName derives the upper snake case form of a declared name,
// e.g. "LaceShoe" becomes "LACE_SHOE".
func UpperUnderscoreName(name string) string {
	return strings.ToUpper(snaker.CamelToSnake(name))
}
