package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.protok.dev/protok/descriptor"
	"go.protok.dev/protok/syntax"
)

const addressBookSrc = `
// An address book schema.
syntax = "proto2";

package examples;

import "common.proto";

option java_package = "com.example.tutorial";
option optimize_for = SPEED;

/* Person holds one contact. */
message Person {
    required string name = 1;
    required int32 id = 2;
    optional string email = 3;

    enum PhoneType {
        MOBILE = 0;
        HOME = 1;
        WORK = 2;
    }

    message PhoneNumber {
        required string number = 1;
        optional PhoneType type = 2 [default = HOME];
    }

    repeated PhoneNumber phones = 4;
}

message AddressBook {
    repeated Person people = 1;
}

service ContactService {
    rpc Lookup (Person) returns (AddressBook);
    rpc Export (AddressBook) returns (AddressBook) {
        option deadline = 30.5;
    }
}

extend Person {
    optional string nickname = 100;
}
`

func TestParseAddressBook(t *testing.T) {
	t.Parallel()

	f, err := syntax.Parse("addressbook.proto", []byte(addressBookSrc))
	require.NoError(t, err)

	assert.Equal(t, "addressbook.proto", f.Name)
	assert.Equal(t, "examples", f.Package)
	require.Len(t, f.Imports, 1)
	assert.Equal(t, "common.proto", f.Imports[0].Name)
	assert.Nil(t, f.Imports[0].File)

	syntaxLevel, _ := f.Options.GetString("syntax")
	assert.Equal(t, "proto2", syntaxLevel)
	javaPackage, _ := f.Options.GetString("java_package")
	assert.Equal(t, "com.example.tutorial", javaPackage)
	optimizeFor, _ := f.Options.GetString("optimize_for")
	assert.Equal(t, "SPEED", optimizeFor)

	person := f.Message("Person")
	require.NotNil(t, person)
	require.Len(t, person.Fields, 4)

	name := person.Fields[0]
	assert.Equal(t, "name", name.Name)
	assert.Equal(t, 1, name.Number)
	assert.Equal(t, descriptor.Required, name.Cardinality)
	assert.Equal(t, "string", name.Type.Raw())
	assert.True(t, name.Type.IsScalar())

	email := person.Fields[2]
	assert.Equal(t, descriptor.Optional, email.Cardinality)

	phones := person.Fields[3]
	assert.Equal(t, descriptor.Repeated, phones.Cardinality)
	assert.Equal(t, "PhoneNumber", phones.Type.Raw())
	assert.False(t, phones.Type.IsScalar())
	assert.False(t, phones.Type.Resolved())

	phoneType := person.NestedEnum("PhoneType")
	require.NotNil(t, phoneType)
	require.Len(t, phoneType.Values, 3)
	assert.Equal(t, "MOBILE", phoneType.Values[0].Name)
	assert.Equal(t, 0, phoneType.Values[0].Number)
	assert.Equal(t, 2, phoneType.Values[2].Number)

	phoneNumber := person.NestedMessage("PhoneNumber")
	require.NotNil(t, phoneNumber)
	typeField := phoneNumber.Field("type")
	require.NotNil(t, typeField)
	def, ok := typeField.Options.GetString("default")
	require.True(t, ok)
	assert.Equal(t, "HOME", def)

	svc := f.Service("ContactService")
	require.NotNil(t, svc)
	require.Len(t, svc.Methods, 2)
	lookup := svc.Methods[0]
	assert.Equal(t, "Lookup", lookup.Name)
	assert.Equal(t, "Person", lookup.Input.Raw())
	assert.Equal(t, "AddressBook", lookup.Output.Raw())
	export := svc.Methods[1]
	assert.Equal(t, 30.5, export.Options["deadline"])

	require.Len(t, f.Extends, 1)
	ext := f.Extends[0]
	assert.Equal(t, "Person", ext.Target)
	require.Len(t, ext.Fields, 1)
	assert.Equal(t, "nickname", ext.Fields[0].Name)
	assert.Equal(t, 100, ext.Fields[0].Number)
	assert.Equal(t, descriptor.Optional, ext.Fields[0].Cardinality)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		src     string
		wantMsg string
	}{
		"missing field number": {
			src:     "message A { string name; }",
			wantMsg: `missing number for field "name"`,
		},
		"zero field number": {
			src:     "message A { int32 x = 0; }",
			wantMsg: `invalid number "0" for field "x"`,
		},
		"negative field number": {
			src:     "message A { int32 x = -1; }",
			wantMsg: `invalid number "-1" for field "x"`,
		},
		"float field number": {
			src:     "message A { int32 x = 1.5; }",
			wantMsg: `invalid number "1.5" for field "x"`,
		},
		"unmatched message brace": {
			src:     "message A { string name = 1;",
			wantMsg: `unexpected end of file in message "A", missing "}"`,
		},
		"duplicate sibling messages": {
			src:     "message A {} message A {}",
			wantMsg: `duplicate type name "A"`,
		},
		"duplicate nested type names": {
			src:     "message A { message B {} enum B { X = 0; } }",
			wantMsg: `duplicate type name "B"`,
		},
		"duplicate enum value name": {
			src:     "enum E { A = 1; A = 2; }",
			wantMsg: `duplicate enum value name "A"`,
		},
		"enum alias without allow_alias": {
			src:     "enum E { A = 1; B = 1; }",
			wantMsg: `enum value "B" reuses number 1 of "A" without allow_alias`,
		},
		"missing enum value number": {
			src:     "enum E { A; }",
			wantMsg: `missing number for enum value "A"`,
		},
		"duplicate package": {
			src:     "package a; package b;",
			wantMsg: "duplicate package declaration",
		},
		"import modifier": {
			src:     `import public "x.proto";`,
			wantMsg: `expected string literal, got identifier "public"`,
		},
		"extend inside message": {
			src:     "message A { extend B { } }",
			wantMsg: "extend blocks are only allowed at file scope",
		},
		"rpc without returns": {
			src:     "service S { rpc F (A) (B); }",
			wantMsg: `expected "returns", got "("`,
		},
		"option without value": {
			src:     "option a = ;",
			wantMsg: `expected option value, got ";"`,
		},
		"stray top level identifier": {
			src:     "frobnicate;",
			wantMsg: `unexpected identifier "frobnicate" at file scope`,
		},
		"oneof is not supported": {
			src:     "message A { oneof kind { int32 a = 1; } }",
			wantMsg: `missing number for field "kind"`,
		},
		"map fields are not supported": {
			src:     "message A { map<string, int32> kv = 1; }",
			wantMsg: "unexpected character '<'",
		},
		"reserved is not supported": {
			src:     "message A { reserved 2; }",
			wantMsg: `expected identifier, got number "2"`,
		},
		"unterminated block comment": {
			src:     "package a; /* open",
			wantMsg: "unterminated block comment",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := syntax.Parse("bad.proto", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)

			var perr syntax.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "bad.proto", perr.File)
			assert.NotZero(t, perr.Line)
			assert.NotZero(t, perr.Col)
		})
	}
}

func TestParseErrorFormat(t *testing.T) {
	t.Parallel()

	_, err := syntax.Parse("bad.proto", []byte("option = 1;"))
	require.Error(t, err)
	assert.EqualError(t, err, `bad.proto:1:8: expected identifier, got "="`)
}

func TestParseEnumAllowAlias(t *testing.T) {
	t.Parallel()

	f, err := syntax.Parse("alias.proto", []byte(`
enum Status {
    option allow_alias = true;
    STARTED = 1;
    RUNNING = 1;
    DONE = 2;
}
`))
	require.NoError(t, err)
	e := f.Enum("Status")
	require.NotNil(t, e)
	require.Len(t, e.Values, 3)
	assert.Equal(t, e.Values[0].Number, e.Values[1].Number)
}

func TestParseNegativeEnumNumbers(t *testing.T) {
	t.Parallel()

	f, err := syntax.Parse("neg.proto", []byte(`
enum Delta {
    MINUS_TWO = -2;
    MINUS_ONE = -1;
    ZERO = 0;
}
`))
	require.NoError(t, err)
	e := f.Enum("Delta")
	require.NotNil(t, e)
	assert.Equal(t, -2, e.Values[0].Number)
	assert.Equal(t, -1, e.Values[1].Number)
	assert.Equal(t, 0, e.Values[2].Number)
}

func TestParseFieldOptionForms(t *testing.T) {
	t.Parallel()

	f, err := syntax.Parse("opts.proto", []byte(`
message M {
    repeated int32 a = 1 [packed = true, deprecated = false];
    optional int64 b = 2 [default: 42];
    optional string c = 3 [default = "x,y"];
}
`))
	require.NoError(t, err)
	m := f.Message("M")
	require.NotNil(t, m)

	a := m.Field("a")
	assert.Equal(t, true, a.Options["packed"])
	assert.Equal(t, false, a.Options["deprecated"])

	b := m.Field("b")
	assert.Equal(t, int64(42), b.Options["default"])

	c := m.Field("c")
	assert.Equal(t, "x,y", c.Options["default"])
}

func TestParseQualifiedTypeNames(t *testing.T) {
	t.Parallel()

	f, err := syntax.Parse("refs.proto", []byte(`
package crm;
message Lead {
    optional examples.Person contact = 1;
    optional .examples.Person.PhoneType kind = 2;
}
`))
	require.NoError(t, err)
	lead := f.Message("Lead")
	assert.Equal(t, "examples.Person", lead.Field("contact").Type.Raw())
	assert.Equal(t, ".examples.Person.PhoneType", lead.Field("kind").Type.Raw())
}

func TestParseStraySemicolons(t *testing.T) {
	t.Parallel()

	f, err := syntax.Parse("semis.proto", []byte(`
;
message A {};
enum E { X = 0; };
service S {;};
`))
	require.NoError(t, err)
	assert.NotNil(t, f.Message("A"))
	assert.NotNil(t, f.Enum("E"))
	assert.NotNil(t, f.Service("S"))
}

func TestParseEmptySource(t *testing.T) {
	t.Parallel()

	f, err := syntax.Parse("empty.proto", []byte("  \n// just a comment\n"))
	require.NoError(t, err)
	assert.Empty(t, f.Package)
	assert.Empty(t, f.Messages)
	assert.Empty(t, f.Enums)
}
