package descriptor_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.protok.dev/protok/descriptor"
	"go.protok.dev/protok/internal/lib/testutils"
)

func TestMergeExtensions(t *testing.T) {
	t.Parallel()

	f := addressBookFile()
	ext := &descriptor.File{
		Name:    "person_ext.proto",
		Package: "examples",
		Imports: []*descriptor.Import{{Name: "addressbook.proto", File: f}},
		Extends: []*descriptor.Extend{
			{
				Target: "Person",
				Fields: []*descriptor.Field{
					{Name: "nickname", Number: 20, Type: descriptor.NewTypeRef("string")},
				},
			},
			{
				Target: "Person",
				Fields: []*descriptor.Field{
					{Name: "homepage", Number: 21, Cardinality: descriptor.Optional, Type: descriptor.NewTypeRef("string")},
				},
			},
		},
	}

	r := descriptor.NewRegistry(testutils.NewLogger(t))
	require.NoError(t, r.Index(f))
	require.NoError(t, r.Index(ext))
	require.NoError(t, r.Resolve())

	person := f.Message("Person")
	require.Len(t, person.Fields, 4)

	r.MergeExtensions()

	require.Len(t, person.Fields, 6)
	// Extension fields land after the existing ones, in declaration order.
	assert.Equal(t, "phones", person.Fields[3].Name)
	assert.Equal(t, "nickname", person.Fields[4].Name)
	assert.Equal(t, "homepage", person.Fields[5].Name)
	assert.Empty(t, ext.Extends)
}

func TestMergeExtensionsIdempotent(t *testing.T) {
	t.Parallel()

	f := addressBookFile()
	ext := &descriptor.File{
		Name:    "person_ext.proto",
		Package: "examples",
		Extends: []*descriptor.Extend{
			{
				Target: "Person",
				Fields: []*descriptor.Field{
					{Name: "nickname", Number: 20, Type: descriptor.NewTypeRef("string")},
				},
			},
		},
	}

	r := descriptor.NewRegistry(testutils.NewLogger(t))
	require.NoError(t, r.Index(f))
	require.NoError(t, r.Index(ext))
	require.NoError(t, r.Resolve())

	r.MergeExtensions()
	r.MergeExtensions()

	assert.Len(t, f.Message("Person").Fields, 5)
}

func TestMergeExtensionsDottedTarget(t *testing.T) {
	t.Parallel()

	f := addressBookFile()
	ext := &descriptor.File{
		Name:    "ext.proto",
		Package: "other",
		Extends: []*descriptor.Extend{
			{
				Target: "examples.Person",
				Fields: []*descriptor.Field{
					{Name: "score", Number: 30, Type: descriptor.NewTypeRef("int32")},
				},
			},
		},
	}

	r := descriptor.NewRegistry(testutils.NewLogger(t))
	require.NoError(t, r.Index(f))
	require.NoError(t, r.Index(ext))
	require.NoError(t, r.Resolve())
	r.MergeExtensions()

	person := f.Message("Person")
	require.Len(t, person.Fields, 5)
	assert.Equal(t, "score", person.Fields[4].Name)
}

func TestMergeExtensionsUnknownTargetIsDropped(t *testing.T) {
	t.Parallel()

	logger, hook := testutils.NewLoggerWithHook(t, logrus.DebugLevel)

	f := addressBookFile()
	ext := &descriptor.File{
		Name:    "ext.proto",
		Package: "examples",
		Extends: []*descriptor.Extend{
			{
				Target: "google.protobuf.FieldOptions",
				Fields: []*descriptor.Field{
					{Name: "custom", Number: 50000, Type: descriptor.NewTypeRef("string")},
				},
			},
		},
	}

	r := descriptor.NewRegistry(logger)
	require.NoError(t, r.Index(f))
	require.NoError(t, r.Index(ext))
	require.NoError(t, r.Resolve())
	r.MergeExtensions()

	assert.Empty(t, ext.Extends)
	assert.True(t, testutils.LogContains(hook.Drain(), logrus.DebugLevel, "Dropping extension"))
}

func TestMergeExtensionsEnumTargetIsDropped(t *testing.T) {
	t.Parallel()

	// Only messages can be extended; an extend block naming an enum is
	// treated like an unknown target.
	f := &descriptor.File{
		Name:    "colors.proto",
		Package: "paint",
		Enums: []*descriptor.Enum{
			{Name: "Color", Values: []*descriptor.EnumValue{{Name: "RED", Number: 0}}},
		},
		Extends: []*descriptor.Extend{
			{
				Target: "Color",
				Fields: []*descriptor.Field{
					{Name: "alpha", Number: 1, Type: descriptor.NewTypeRef("float")},
				},
			},
		},
	}

	r := descriptor.NewRegistry(testutils.NewLogger(t))
	require.NoError(t, r.Index(f))
	require.NoError(t, r.Resolve())
	r.MergeExtensions()

	assert.Empty(t, f.Extends)
	assert.Len(t, f.Enums[0].Values, 1)
}

func TestMergeExtensionsResolvedFieldsRender(t *testing.T) {
	t.Parallel()

	// An extension field with a message type has to be resolved in the
	// extending file's scope and survive into the target's template object.
	f := addressBookFile()
	ext := &descriptor.File{
		Name:    "ext.proto",
		Package: "examples",
		Extends: []*descriptor.Extend{
			{
				Target: "AddressBook",
				Fields: []*descriptor.Field{
					{Name: "owner", Number: 2, Type: descriptor.NewTypeRef("Person")},
				},
			},
		},
	}

	r := descriptor.NewRegistry(testutils.NewLogger(t))
	require.NoError(t, r.Index(f))
	require.NoError(t, r.Index(ext))
	require.NoError(t, r.Resolve())
	r.MergeExtensions()

	book := f.Message("AddressBook")
	owner := book.Field("owner")
	require.NotNil(t, owner)
	assert.Same(t, f.Message("Person"), owner.Type.Descriptor())

	obj, err := f.TemplateObject()
	require.NoError(t, err)
	bookObj := obj["messages"].([]map[string]interface{})[1]
	fields := bookObj["fields"].([]map[string]interface{})
	require.Len(t, fields, 2)
	assert.Equal(t, "owner", fields[1]["name"])
}
