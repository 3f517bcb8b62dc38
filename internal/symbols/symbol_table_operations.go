package symbols

import (
	"strconv"

	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// Define registers a definition under its name and arity.
func (s *SymbolTable) Define(def *typesystem.Definition) error {
	key := def.Key()
	if _, exists := s.defs[key]; exists {
		return &DuplicateDefinitionError{Key: key}
	}
	s.defs[key] = def
	s.order = append(s.order, def)
	return nil
}

// Lookup finds a definition by name and number of type parameters,
// searching outer tables when not found locally.
func (s *SymbolTable) Lookup(name string, arity int) (*typesystem.Definition, bool) {
	key := name
	if arity > 0 {
		key += "`" + strconv.Itoa(arity)
	}
	for t := s; t != nil; t = t.outer {
		if def, ok := t.defs[key]; ok {
			return def, true
		}
	}
	return nil, false
}

// Resolve is Lookup returning a typed error.
func (s *SymbolTable) Resolve(name string, arity int) (*typesystem.Definition, error) {
	def, ok := s.Lookup(name, arity)
	if !ok {
		return nil, NewDefinitionNotFoundError(name, arity)
	}
	return def, nil
}

// Definitions returns the locally declared definitions in declaration order.
func (s *SymbolTable) Definitions() []*typesystem.Definition {
	out := make([]*typesystem.Definition, len(s.order))
	copy(out, s.order)
	return out
}

// Builtin returns a non-generic prelude type by name. It panics on an
// unknown name, so callers pass config constants.
func (s *SymbolTable) Builtin(name string) typesystem.Type {
	def, ok := s.Lookup(name, 0)
	if !ok {
		panic(NewDefinitionNotFoundError(name, 0))
	}
	return typesystem.TCon{Def: def}
}

// DelegateFor returns the Func or Action delegate matching a signature.
// Signatures with by-reference parts or too many parameters have none.
func (s *SymbolTable) DelegateFor(sig typesystem.TFunc) (typesystem.Type, bool) {
	if len(sig.Params) > config.MaxDelegateArity || sig.ReturnRefKind != typesystem.RefNone {
		return nil, false
	}
	args := make([]typesystem.TypeWithAnnotation, 0, len(sig.Params)+1)
	for _, p := range sig.Params {
		if p.RefKind != typesystem.RefNone {
			return nil, false
		}
		args = append(args, p.Type)
	}

	name := config.ActionTypeName
	if sig.Return.Type != nil && !typesystem.IsVoid(sig.Return.Type) {
		name = config.FuncTypeName
		args = append(args, sig.Return)
	}
	def, ok := s.Lookup(name, len(args))
	if !ok {
		return nil, false
	}
	t, err := def.Instantiate(args...)
	if err != nil {
		return nil, false
	}
	return t, true
}

// ExpressionTreeOf wraps a delegate type in the generic expression type.
func (s *SymbolTable) ExpressionTreeOf(delegate typesystem.Type) (typesystem.Type, bool) {
	def, ok := s.Lookup(config.ExpressionTypeName, 1)
	if !ok {
		return nil, false
	}
	return typesystem.TApp{Def: def, Args: []typesystem.TypeWithAnnotation{typesystem.NotNull(delegate)}}, true
}
