package descriptor

import "fmt"

// templateCtx tracks the descriptors on the rendering call stack, so that
// mutually referencing messages serialize to a finite tree: a descriptor
// that is re-entered while one of its own fields is being rendered becomes a
// reference stub instead of recursing.
type templateCtx struct {
	ancestors []TypeDescriptor
}

func (tc *templateCtx) entered(td TypeDescriptor) bool {
	for _, a := range tc.ancestors {
		if a == td {
			return true
		}
	}
	return false
}

func (tc *templateCtx) push(td TypeDescriptor) { tc.ancestors = append(tc.ancestors, td) }

func (tc *templateCtx) pop() { tc.ancestors = tc.ancestors[:len(tc.ancestors)-1] }

// stub is the lightweight rendering used for a type already being rendered
// higher up the call stack.
func stub(td TypeDescriptor, name string) map[string]interface{} {
	return map[string]interface{}{
		"name":     name,
		"fullName": td.FullName(),
		"kind":     td.Kind().String(),
		"ref":      true,
	}
}

// TemplateObject serializes the file into a plain nested map/array structure
// for a rendering backend. Every non-scalar field and method type is inlined
// as the referenced descriptor's own template object, so backends never have
// to perform symbol lookups themselves. The file set must be resolved first;
// serializing an unresolved reference is an error, never a silent nil.
func (f *File) TemplateObject() (map[string]interface{}, error) {
	tc := &templateCtx{}

	messages := make([]map[string]interface{}, 0, len(f.Messages))
	for _, m := range f.Messages {
		obj, err := m.templateObject(tc)
		if err != nil {
			return nil, err
		}
		messages = append(messages, obj)
	}

	enums := make([]map[string]interface{}, 0, len(f.Enums))
	for _, e := range f.Enums {
		obj, err := e.templateObject(tc)
		if err != nil {
			return nil, err
		}
		enums = append(enums, obj)
	}

	services := make([]map[string]interface{}, 0, len(f.Services))
	for _, s := range f.Services {
		obj, err := s.templateObject(tc)
		if err != nil {
			return nil, err
		}
		services = append(services, obj)
	}

	imports := make([]string, 0, len(f.Imports))
	for _, imp := range f.Imports {
		imports = append(imports, imp.Name)
	}

	out := map[string]interface{}{
		"name":     f.Name,
		"path":     f.Path,
		"package":  f.Package,
		"imports":  imports,
		"messages": messages,
		"enums":    enums,
		"services": services,
	}
	if opts := f.Options.templateObject(); opts != nil {
		out["options"] = opts
	}
	return out, nil
}

// TemplateObject serializes a single message; see [File.TemplateObject].
func (m *Message) TemplateObject() (map[string]interface{}, error) {
	return m.templateObject(&templateCtx{})
}

func (m *Message) templateObject(tc *templateCtx) (map[string]interface{}, error) {
	if tc.entered(m) {
		return stub(m, m.Name), nil
	}
	tc.push(m)
	defer tc.pop()

	fields := make([]map[string]interface{}, 0, len(m.Fields))
	for _, f := range m.Fields {
		obj, err := f.templateObject(tc, m)
		if err != nil {
			return nil, err
		}
		fields = append(fields, obj)
	}

	nested := make([]map[string]interface{}, 0, len(m.Messages))
	for _, n := range m.Messages {
		obj, err := n.templateObject(tc)
		if err != nil {
			return nil, err
		}
		nested = append(nested, obj)
	}

	enums := make([]map[string]interface{}, 0, len(m.Enums))
	for _, e := range m.Enums {
		obj, err := e.templateObject(tc)
		if err != nil {
			return nil, err
		}
		enums = append(enums, obj)
	}

	out := map[string]interface{}{
		"kind":                "message",
		"name":                m.Name,
		"fullName":            m.fullName,
		"camelName":           CamelName(m.Name),
		"upperUnderscoreName": UpperUnderscoreName(m.Name),
		"fields":              fields,
		"messages":            nested,
		"enums":               enums,
	}
	if opts := m.Options.templateObject(); opts != nil {
		out["options"] = opts
	}
	return out, nil
}

func (f *Field) templateObject(tc *templateCtx, owner *Message) (map[string]interface{}, error) {
	out := map[string]interface{}{
		"name":                f.Name,
		"camelName":           CamelName(f.Name),
		"upperUnderscoreName": UpperUnderscoreName(f.Name),
		"number":              f.Number,
		"label":               f.Cardinality.String(),
		"repeated":            f.Cardinality == Repeated,
		"type":                f.Type.Raw(),
		"scalar":              f.Type.IsScalar(),
	}
	if !f.Type.IsScalar() {
		td := f.Type.Descriptor()
		if td == nil {
			return nil, fmt.Errorf("can't serialize field %q of message %q: type %q is unresolved",
				f.Name, owner.Name, f.Type.Raw())
		}
		obj, err := td.templateObject(tc)
		if err != nil {
			return nil, err
		}
		out["typeDescriptor"] = obj
	}
	if opts := f.Options.templateObject(); opts != nil {
		out["options"] = opts
	}
	return out, nil
}

func (e *Enum) templateObject(_ *templateCtx) (map[string]interface{}, error) {
	values := make([]map[string]interface{}, 0, len(e.Values))
	for _, v := range e.Values {
		values = append(values, map[string]interface{}{
			"name":   v.Name,
			"number": v.Number,
		})
	}
	out := map[string]interface{}{
		"kind":                "enum",
		"name":                e.Name,
		"fullName":            e.fullName,
		"camelName":           CamelName(e.Name),
		"upperUnderscoreName": UpperUnderscoreName(e.Name),
		"values":              values,
	}
	if opts := e.Options.templateObject(); opts != nil {
		out["options"] = opts
	}
	return out, nil
}

func (s *Service) templateObject(tc *templateCtx) (map[string]interface{}, error) {
	methods := make([]map[string]interface{}, 0, len(s.Methods))
	for _, m := range s.Methods {
		obj, err := m.templateObject(tc, s)
		if err != nil {
			return nil, err
		}
		methods = append(methods, obj)
	}
	out := map[string]interface{}{
		"name":                s.Name,
		"fullName":            s.fullName,
		"camelName":           CamelName(s.Name),
		"upperUnderscoreName": UpperUnderscoreName(s.Name),
		"methods":             methods,
	}
	if opts := s.Options.templateObject(); opts != nil {
		out["options"] = opts
	}
	return out, nil
}

func (m *Method) templateObject(tc *templateCtx, owner *Service) (map[string]interface{}, error) {
	inputObj, err := m.typeObject(tc, owner, m.Input, "input")
	if err != nil {
		return nil, err
	}
	outputObj, err := m.typeObject(tc, owner, m.Output, "output")
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{
		"name":                 m.Name,
		"fullName":             m.fullName,
		"camelName":            CamelName(m.Name),
		"upperUnderscoreName":  UpperUnderscoreName(m.Name),
		"inputType":            m.Input.Raw(),
		"outputType":           m.Output.Raw(),
		"inputTypeDescriptor":  inputObj,
		"outputTypeDescriptor": outputObj,
	}
	if opts := m.Options.templateObject(); opts != nil {
		out["options"] = opts
	}
	return out, nil
}

func (m *Method) typeObject(
	tc *templateCtx, owner *Service, ref TypeRef, direction string,
) (map[string]interface{}, error) {
	td := ref.Descriptor()
	if td == nil {
		return nil, fmt.Errorf("can't serialize method %q of service %q: %s type %q is unresolved",
			m.Name, owner.Name, direction, ref.Raw())
	}
	return td.templateObject(tc)
}
