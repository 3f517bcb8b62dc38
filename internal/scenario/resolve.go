package scenario

import (
	"fmt"
	"strings"

	"github.com/funvibe/typeinfer/internal/ast"
	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/parser"
	"github.com/funvibe/typeinfer/internal/symbols"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// scope maps type parameter names to variables. Inner scopes shadow
// outer ones.
type scope struct {
	vars  map[string]typesystem.TVar
	outer *scope
}

func newScope(outer *scope) *scope {
	return &scope{vars: make(map[string]typesystem.TVar), outer: outer}
}

func (s *scope) lookup(name string) (typesystem.TVar, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if tv, ok := sc.vars[name]; ok {
			return tv, true
		}
	}
	return typesystem.TVar{}, false
}

// typeResolver turns a parsed type expression into a type. It visits the
// tree and leaves the result of each node in result.
type typeResolver struct {
	st         *symbols.SymbolTable
	scope      *scope
	allowHints bool
	hints      []typesystem.TVar

	result typesystem.TypeWithAnnotation
	err    error
}

func (r *typeResolver) resolve(n ast.Type) typesystem.TypeWithAnnotation {
	if r.err != nil {
		return typesystem.TypeWithAnnotation{}
	}
	n.Accept(r)
	if r.err != nil {
		return typesystem.TypeWithAnnotation{}
	}
	return r.result
}

func (r *typeResolver) fail(n ast.Type, format string, args ...any) {
	if r.err == nil {
		tok := n.GetToken()
		r.err = fmt.Errorf("%d:%d: %s", tok.Line, tok.Column, fmt.Sprintf(format, args...))
	}
}

func (r *typeResolver) VisitNamedType(n *ast.NamedType) {
	if len(n.Args) == 0 {
		if tv, ok := r.scope.lookup(n.Name); ok {
			r.result = typesystem.NotNull(tv)
			return
		}
	}
	def, err := r.st.Resolve(n.Name, len(n.Args))
	if err != nil {
		r.fail(n, "%v", err)
		return
	}
	args := make([]typesystem.TypeWithAnnotation, len(n.Args))
	for i, a := range n.Args {
		args[i] = r.resolve(a)
	}
	if r.err != nil {
		return
	}
	t, err := def.Instantiate(args...)
	if err != nil {
		r.fail(n, "%v", err)
		return
	}
	r.result = typesystem.NotNull(t)
}

func (r *typeResolver) VisitWildcardType(n *ast.WildcardType) {
	if !r.allowHints {
		r.fail(n, "%q is only allowed in explicit type arguments", config.WildcardName)
		return
	}
	hint := typesystem.NewHint()
	r.hints = append(r.hints, hint)
	r.result = typesystem.With(hint)
}

func (r *typeResolver) VisitArrayType(n *ast.ArrayType) {
	elem := r.resolve(n.Elem)
	r.result = typesystem.NotNull(typesystem.TArray{Elem: elem, Rank: n.Rank})
}

func (r *typeResolver) VisitNullableType(n *ast.NullableType) {
	elem := r.resolve(n.Elem)
	if r.err != nil {
		return
	}
	if _, ok := elem.Type.(typesystem.TNullable); ok {
		r.fail(n, "%s is already nullable", elem)
		return
	}
	if typesystem.IsValueType(elem.Type) {
		r.result = typesystem.NotNull(typesystem.TNullable{Elem: elem.Type})
		return
	}
	r.result = elem.AsAnnotated()
}

func (r *typeResolver) VisitTupleType(n *ast.TupleType) {
	elems := make([]typesystem.TypeWithAnnotation, len(n.Types))
	for i, el := range n.Types {
		elems[i] = r.resolve(el)
	}
	r.result = typesystem.NotNull(typesystem.TTuple{Elements: elems, Names: n.Names})
}

func (r *typeResolver) VisitPointerType(n *ast.PointerType) {
	elem := r.resolve(n.Elem)
	r.result = typesystem.NotNull(typesystem.TPointer{Elem: elem})
}

func (r *typeResolver) VisitFunctionType(n *ast.FunctionType) {
	if n.CallingConvention != "" && n.CallingConvention != config.UnmanagedCallingConv {
		r.fail(n, "unknown calling convention %q", n.CallingConvention)
		return
	}
	fn := typesystem.TFunc{CallingConvention: n.CallingConvention, ReturnRefKind: refKind(n.ReturnMode)}
	for _, p := range n.Parameters {
		fn.Params = append(fn.Params, typesystem.Param{Type: r.resolve(p.Type), RefKind: refKind(p.Mode)})
	}
	fn.Return = r.resolve(n.ReturnType)
	r.result = typesystem.NotNull(fn)
}

func refKind(mode string) typesystem.RefKind {
	switch mode {
	case "ref":
		return typesystem.RefRef
	case "out":
		return typesystem.RefOut
	case "in":
		return typesystem.RefIn
	}
	return typesystem.RefNone
}

// splitMode separates a leading ref, out or in keyword.
func splitMode(src string) (string, string) {
	src = strings.TrimSpace(src)
	if mode, rest, ok := strings.Cut(src, " "); ok {
		switch mode {
		case "ref", "out", "in":
			return mode, strings.TrimSpace(rest)
		}
	}
	return "", src
}

// resolveType parses and resolves one type expression.
func (r *typeResolver) resolveType(src string) (typesystem.TypeWithAnnotation, error) {
	node, err := parser.ParseType(src)
	if err != nil {
		return typesystem.TypeWithAnnotation{}, fmt.Errorf("%q: %w", src, err)
	}
	r.err = nil
	t := r.resolve(node)
	if r.err != nil {
		return typesystem.TypeWithAnnotation{}, fmt.Errorf("%q: %w", src, r.err)
	}
	return t, nil
}

// resolveParam resolves a parameter written with an optional passing mode.
func (r *typeResolver) resolveParam(src string) (typesystem.Param, error) {
	mode, rest := splitMode(src)
	t, err := r.resolveType(rest)
	if err != nil {
		return typesystem.Param{}, err
	}
	return typesystem.Param{Type: t, RefKind: refKind(mode)}, nil
}
