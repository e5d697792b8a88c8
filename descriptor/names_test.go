package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.protok.dev/protok/descriptor"
)

func TestDerivedNames(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		camel      string
		upperSnake string
	}{
		{"Person", "person", "PERSON"},
		{"AddressBook", "addressBook", "ADDRESS_BOOK"},
		{"PhoneNumber", "phoneNumber", "PHONE_NUMBER"},
		{"phone_number", "phoneNumber", "PHONE_NUMBER"},
		{"LaceShoe", "laceShoe", "LACE_SHOE"},
		{"name", "name", "NAME"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.camel, descriptor.CamelName(tc.name))
			assert.Equal(t, tc.upperSnake, descriptor.UpperUnderscoreName(tc.name))
		})
	}
}
