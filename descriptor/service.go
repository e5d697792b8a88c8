package descriptor

// Service is a service declaration at file scope.
type Service struct {
	Name    string
	Methods []*Method
	Options Options

	fullName string
}

// FullName returns the fully qualified name assigned during indexing.
func (s *Service) FullName() string { return s.fullName }

// Method returns the method with the given name, or nil.
func (s *Service) Method(name string) *Method {
	for _, m := range s.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Method is a single rpc declaration. Input and Output always go through
// reference resolution; unlike fields there is no scalar shortcut, so a
// method referencing an unknown (or scalar) type fails resolution instead of
// reaching rendering half-bound.
type Method struct {
	Name    string
	Input   TypeRef
	Output  TypeRef
	Options Options

	fullName string
}

// FullName returns the fully qualified name assigned during indexing, e.g.
// "shoes.ShoeService.LaceShoe".
func (m *Method) FullName() string { return m.fullName }
