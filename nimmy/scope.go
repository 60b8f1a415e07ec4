package nimmy

// Variable is a single binding: name, value, and whether the binding was
// introduced with let (const) or var.
type Variable struct {
	Name    string
	Value   Object
	IsConst bool
}

// Scope is a lexically nested binding environment. Lookup and assignment walk
// the parent chain; define always installs in the receiver.
type Scope struct {
	vars   map[string]*Variable
	parent *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		vars:   make(map[string]*Variable),
		parent: parent,
	}
}

// Define installs a fresh binding in this scope, shadowing or overwriting any
// existing binding with the same name.
func (s *Scope) Define(name string, value Object, isConst bool) {
	s.vars[name] = &Variable{Name: name, Value: value, IsConst: isConst}
}

// Lookup walks the parent chain for the nearest binding.
func (s *Scope) Lookup(name string) (Object, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.vars[name]; ok {
			return v.Value, true
		}
	}
	return nil, false
}

// Resolve returns the nearest Variable record for name.
func (s *Scope) Resolve(name string) (*Variable, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if v, ok := scope.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign updates the nearest binding. It reports whether the name exists and
// whether the binding is const; the caller turns those into runtime errors
// with proper locations.
func (s *Scope) Assign(name string, value Object) (found, isConst bool) {
	v, ok := s.Resolve(name)
	if !ok {
		return false, false
	}
	if v.IsConst {
		return true, true
	}
	v.Value = value
	return true, false
}

// Names returns the names bound directly in this scope, for introspection.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	return names
}
