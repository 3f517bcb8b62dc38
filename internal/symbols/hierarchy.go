package symbols

import (
	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// maxHierarchyDepth bounds base-chain walks so a malformed cyclic
// declaration cannot hang inference.
const maxHierarchyDepth = 64

// BaseType returns the direct base class of t with type arguments
// substituted. For a type parameter this is its effective base class.
func (s *SymbolTable) BaseType(t typesystem.Type) typesystem.Type {
	switch typ := t.(type) {
	case typesystem.TCon, typesystem.TApp:
		def, args, _ := typesystem.Named(typ)
		if def.Base == nil {
			return nil
		}
		return def.Base.Apply(def.Subst(args))
	case typesystem.TVar:
		return s.effectiveBase(typ, 0)
	case typesystem.TArray:
		return s.Builtin(config.ObjectTypeName)
	case typesystem.TTuple, typesystem.TNullable:
		return s.Builtin(config.ValueTypeName)
	case typesystem.TFunctionType:
		return s.Builtin(config.DelegateTypeName)
	}
	return nil
}

func (s *SymbolTable) effectiveBase(tv typesystem.TVar, depth int) typesystem.Type {
	if depth < maxHierarchyDepth {
		for _, c := range tv.Constraints {
			switch ct := c.(type) {
			case typesystem.TVar:
				if b := s.effectiveBase(ct, depth+1); b != nil && !typesystem.IsObject(b) {
					return b
				}
			default:
				if c.Kind() == typesystem.KindClass {
					return c
				}
			}
		}
	}
	if tv.IsValue {
		return s.Builtin(config.ValueTypeName)
	}
	return s.Builtin(config.ObjectTypeName)
}

// BaseChain lists the base classes of t from nearest to the root.
func (s *SymbolTable) BaseChain(t typesystem.Type) []typesystem.Type {
	var chain []typesystem.Type
	for b := s.BaseType(t); b != nil && len(chain) < maxHierarchyDepth; b = s.BaseType(b) {
		chain = append(chain, b)
	}
	return chain
}

// AllInterfaces returns every interface t implements, directly or through
// its bases and other interfaces, without duplicates.
func (s *SymbolTable) AllInterfaces(t typesystem.Type) []typesystem.Type {
	key := typesystem.Key(t, typesystem.ConsiderEverything)
	s.mu.RLock()
	cached, ok := s.interfaces[key]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	acc := &interfaceSet{seen: make(map[string]bool)}
	s.collectInterfaces(t, acc, 0)

	s.mu.Lock()
	s.interfaces[key] = acc.list
	s.mu.Unlock()
	return acc.list
}

type interfaceSet struct {
	seen map[string]bool
	list []typesystem.Type
}

func (a *interfaceSet) add(t typesystem.Type) bool {
	key := typesystem.Key(t, typesystem.ConsiderEverything)
	if a.seen[key] {
		return false
	}
	a.seen[key] = true
	a.list = append(a.list, t)
	return true
}

func (s *SymbolTable) collectInterfaces(t typesystem.Type, acc *interfaceSet, depth int) {
	if t == nil || depth > maxHierarchyDepth {
		return
	}
	switch typ := t.(type) {
	case typesystem.TCon, typesystem.TApp:
		def, args, _ := typesystem.Named(typ)
		subst := def.Subst(args)
		for _, iface := range def.Interfaces {
			it := iface.Apply(subst)
			if acc.add(it) {
				s.collectInterfaces(it, acc, depth+1)
			}
		}
		if def.Base != nil {
			s.collectInterfaces(def.Base.Apply(subst), acc, depth+1)
		}
	case typesystem.TVar:
		s.collectInterfaces(s.effectiveBase(typ, 0), acc, depth+1)
		for _, c := range typ.Constraints {
			if typesystem.IsInterface(c) && acc.add(c) {
				s.collectInterfaces(c, acc, depth+1)
			} else if _, isVar := c.(typesystem.TVar); isVar {
				s.collectInterfaces(c, acc, depth+1)
			}
		}
	case typesystem.TArray:
		if !typ.IsSingleDimensional() {
			return
		}
		for _, def := range s.arrayInterfaces() {
			it := typesystem.TApp{Def: def, Args: []typesystem.TypeWithAnnotation{typ.Elem}}
			if acc.add(it) {
				s.collectInterfaces(it, acc, depth+1)
			}
		}
	}
}

func (s *SymbolTable) arrayInterfaces() []*typesystem.Definition {
	var defs []*typesystem.Definition
	for _, name := range []string{config.ListIfaceTypeName, config.ReadOnlyListName} {
		if def, ok := s.Lookup(name, 1); ok && def.ArrayInterface {
			defs = append(defs, def)
		}
	}
	return defs
}
