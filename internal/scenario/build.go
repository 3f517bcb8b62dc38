package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/typeinfer/internal/ast"
	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/inference"
	"github.com/funvibe/typeinfer/internal/parser"
	"github.com/funvibe/typeinfer/internal/symbols"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// Call is a call declaration turned into inference input.
type Call struct {
	Name        string
	TypeParams  []typesystem.TVar
	Params      []typesystem.Param
	TypeArgs    []typesystem.TypeWithAnnotation
	Args        []inference.Argument
	Vars        []typesystem.TVar
	Constraints []inference.Constraint
	Expect      *Expect
}

type builder struct {
	st *symbols.SymbolTable
}

// Declare adds the scenario's type declarations to st. Declarations may
// refer to each other in any order.
func Declare(st *symbols.SymbolTable, decls []TypeDecl) error {
	b := &builder{st: st}
	defs := make([]*typesystem.Definition, len(decls))
	for i, d := range decls {
		def, err := b.declare(d)
		if err != nil {
			return fmt.Errorf("type %s: %w", d.Name, err)
		}
		defs[i] = def
	}
	for i, d := range decls {
		if err := b.complete(defs[i], d); err != nil {
			return fmt.Errorf("type %s: %w", d.Name, err)
		}
	}
	return nil
}

func (b *builder) declare(d TypeDecl) (*typesystem.Definition, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	kind, ok := typesystem.ParseDefinitionKind(d.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", d.Kind)
	}
	def := &typesystem.Definition{Name: d.Name, Kind: kind, ArrayInterface: d.ArrayInterface}
	if d.Expression {
		def.Special = typesystem.SpecialExpression
	}
	for _, p := range d.Params {
		tp := typesystem.TypeParam{}
		name := strings.TrimSpace(p)
		if v, rest, ok := strings.Cut(name, " "); ok {
			switch v {
			case "in":
				tp.Variance = typesystem.In
			case "out":
				tp.Variance = typesystem.Out
			default:
				return nil, fmt.Errorf("unknown variance %q", v)
			}
			name = strings.TrimSpace(rest)
		}
		tp.Var = typesystem.NewTVar(name)
		def.Params = append(def.Params, tp)
	}
	if err := b.st.Define(def); err != nil {
		return nil, err
	}
	return def, nil
}

func (b *builder) complete(def *typesystem.Definition, d TypeDecl) error {
	sc := newScope(nil)
	for _, p := range def.Params {
		sc.vars[p.Var.Name] = p.Var
	}
	r := &typeResolver{st: b.st, scope: sc}

	if d.Base != "" {
		base, err := r.resolveType(d.Base)
		if err != nil {
			return fmt.Errorf("base: %w", err)
		}
		if base.Type.Kind() != typesystem.KindClass {
			return fmt.Errorf("base %s is not a class", base)
		}
		def.Base = base.Type
	} else {
		switch def.Kind {
		case typesystem.KindClass:
			def.Base = b.st.Builtin(config.ObjectTypeName)
		case typesystem.KindStruct:
			def.Base = b.st.Builtin(config.ValueTypeName)
		case typesystem.KindDelegate:
			def.Base = b.st.Builtin(config.DelegateTypeName)
		}
	}

	for _, src := range d.Interfaces {
		iface, err := r.resolveType(src)
		if err != nil {
			return fmt.Errorf("interface: %w", err)
		}
		if !typesystem.IsInterface(iface.Type) {
			return fmt.Errorf("%s is not an interface", iface)
		}
		def.Interfaces = append(def.Interfaces, iface.Type)
	}

	if def.Kind == typesystem.KindDelegate {
		if d.Invoke == "" {
			return fmt.Errorf("delegate needs an invoke signature")
		}
		sig, err := r.resolveType(d.Invoke)
		if err != nil {
			return fmt.Errorf("invoke: %w", err)
		}
		fn, ok := sig.Type.(typesystem.TFunc)
		if !ok {
			return fmt.Errorf("invoke %s is not a function type", sig)
		}
		def.Invoke = &fn
	} else if d.Invoke != "" {
		return fmt.Errorf("only delegates have an invoke signature")
	}
	return nil
}

// BuildCall resolves a call declaration against st.
func BuildCall(st *symbols.SymbolTable, d CallDecl) (*Call, error) {
	b := &builder{st: st}
	call, err := b.call(d)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", d.Name, err)
	}
	return call, nil
}

func (b *builder) call(d CallDecl) (*Call, error) {
	sc := newScope(nil)
	typeParams, err := b.typeParams(d.TypeParams, sc)
	if err != nil {
		return nil, err
	}
	r := &typeResolver{st: b.st, scope: sc}

	c := &Call{Name: d.Name, TypeParams: typeParams, Expect: d.Expect}
	for i, src := range d.Params {
		p, err := r.resolveParam(src)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		c.Params = append(c.Params, p)
	}

	hr := &typeResolver{st: b.st, scope: newScope(nil), allowHints: true}
	for i, src := range d.TypeArgs {
		t, err := hr.resolveType(src)
		if err != nil {
			return nil, fmt.Errorf("type argument %d: %w", i, err)
		}
		c.TypeArgs = append(c.TypeArgs, t)
	}
	if len(c.TypeArgs) > 0 && len(c.TypeArgs) != len(typeParams) {
		return nil, fmt.Errorf("%d type arguments for %d type parameters", len(c.TypeArgs), len(typeParams))
	}

	for i, a := range d.Args {
		arg, err := b.argument(a, sc)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		c.Args = append(c.Args, arg)
	}

	c.Vars = inference.MakeTypeVariables(typeParams, c.TypeArgs)
	c.Constraints = inference.MakeConstraints(c.Params, c.Args, typeParams, c.TypeArgs)
	return c, nil
}

// typeParams declares method type parameters in sc. Constraints may
// mention parameters declared before them.
func (b *builder) typeParams(decls []TypeParamDecl, sc *scope) ([]typesystem.TVar, error) {
	vars := make([]typesystem.TVar, len(decls))
	for i, d := range decls {
		if d.Name == "" {
			return nil, fmt.Errorf("type parameter %d has no name", i)
		}
		if _, dup := sc.vars[d.Name]; dup {
			return nil, fmt.Errorf("duplicate type parameter %s", d.Name)
		}
		vars[i] = typesystem.NewTVar(d.Name)
		sc.vars[d.Name] = vars[i]
	}
	r := &typeResolver{st: b.st, scope: sc}
	for i, d := range decls {
		tv := vars[i]
		tv.IsReference = d.Class
		tv.IsValue = d.Struct
		for _, src := range d.Constraints {
			t, err := r.resolveType(src)
			if err != nil {
				return nil, fmt.Errorf("constraint on %s: %w", d.Name, err)
			}
			tv.Constraints = append(tv.Constraints, t.Type)
		}
		vars[i] = tv
		sc.vars[d.Name] = tv
	}
	return vars, nil
}

func (b *builder) argument(a ArgDecl, sc *scope) (inference.Argument, error) {
	r := &typeResolver{st: b.st, scope: sc}
	switch {
	case a.Null:
		return inference.ExprArg{Type: typesystem.TypeWithAnnotation{Nullability: typesystem.Annotated}}, nil
	case a.Type != "":
		t, err := r.resolveType(a.Type)
		if err != nil {
			return nil, err
		}
		return inference.ExprArg{Type: t}, nil
	case a.Lambda != nil:
		return b.lambda(*a.Lambda, sc)
	case a.MethodGroup != nil:
		return b.methodGroup(*a.MethodGroup, sc)
	case a.Tuple != nil:
		return b.tuple(a.Tuple, sc)
	}
	return nil, fmt.Errorf("argument needs one of type, null_literal, lambda, method_group or tuple")
}

func (b *builder) tuple(elems []ArgDecl, sc *scope) (inference.Argument, error) {
	if len(elems) < 2 {
		return nil, fmt.Errorf("a tuple needs at least two elements")
	}
	t := inference.TupleArg{}
	natural := typesystem.TTuple{}
	complete := true
	for i, e := range elems {
		arg, err := b.argument(e, sc)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		t.Elements = append(t.Elements, arg)
		et := inference.DefaultExtensions.ArgumentType(arg)
		if !et.HasType() || typesystem.IsFunctionType(et.Type) {
			complete = false
		}
		natural.Elements = append(natural.Elements, et)
	}
	if complete {
		t.Type = natural
	}
	return t, nil
}

func (b *builder) lambda(d LambdaDecl, sc *scope) (inference.Argument, error) {
	r := &typeResolver{st: b.st, scope: sc}
	l := inference.LambdaArg{ParamCount: max(len(d.Params), len(d.Names))}
	if d.NoParamList {
		if len(d.Params) > 0 || len(d.Names) > 0 {
			return nil, fmt.Errorf("no_param_list excludes params and names")
		}
		l.ParamCount = -1
	}
	if len(d.Params) > 0 && len(d.Names) > 0 && len(d.Params) != len(d.Names) {
		return nil, fmt.Errorf("%d names for %d parameter types", len(d.Names), len(d.Params))
	}

	for i, src := range d.Params {
		t, err := r.resolveType(src)
		if err != nil {
			return nil, fmt.Errorf("lambda param %d: %w", i, err)
		}
		l.Params = append(l.Params, t)
	}

	if d.Returns != "" {
		t, err := r.resolveType(d.Returns)
		if err != nil {
			return nil, fmt.Errorf("lambda return: %w", err)
		}
		l.Return = &t
	}

	if d.Body != "" {
		names := d.Names
		if len(names) == 0 {
			for i := 0; i < max(l.ParamCount, 0); i++ {
				names = append(names, "p"+strconv.Itoa(i))
			}
		}
		node, err := parser.ParseType(d.Body)
		if err != nil {
			return nil, fmt.Errorf("lambda body %q: %w", d.Body, err)
		}
		body, err := b.body(node, names, r)
		if err != nil {
			return nil, fmt.Errorf("lambda body %q: %w", d.Body, err)
		}
		l.Body = body
	}

	if l.HasExplicitParams() {
		ret := typesystem.TypeWithAnnotation{}
		if l.Return != nil {
			ret = *l.Return
		} else if l.Body != nil {
			if t, fromFn := l.Body.InferReturnType(l.Params); !fromFn {
				ret = t
			}
		}
		if ret.HasType() {
			params := make([]typesystem.Param, len(l.Params))
			for i, p := range l.Params {
				params[i] = typesystem.Param{Type: p}
			}
			if delegate, ok := b.st.DelegateFor(typesystem.TFunc{Params: params, Return: ret}); ok {
				l.NaturalType = typesystem.TFunctionType{Delegate: delegate}
			}
		}
	}
	return l, nil
}

// body maps a body expression onto a lambda body. A parameter name may
// appear alone or as the single argument of a generic type.
func (b *builder) body(n ast.Type, names []string, r *typeResolver) (inference.LambdaBody, error) {
	if nt, ok := n.(*ast.NamedType); ok {
		if len(nt.Args) == 0 {
			for i, name := range names {
				if name == nt.Name {
					return inference.ParamBody{Index: i}, nil
				}
			}
		}
		if len(nt.Args) == 1 && mentionsName(nt.Args[0], names) {
			def, err := b.st.Resolve(nt.Name, 1)
			if err != nil {
				return nil, err
			}
			inner, err := b.body(nt.Args[0], names, r)
			if err != nil {
				return nil, err
			}
			return inference.WrapBody{Def: def, Inner: inner}, nil
		}
	}
	if mentionsName(n, names) {
		return nil, fmt.Errorf("a parameter may only appear alone or as the single type argument of a generic type")
	}
	r.err = nil
	t := r.resolve(n)
	if r.err != nil {
		return nil, r.err
	}
	return inference.ConstBody{Type: t}, nil
}

func mentionsName(n ast.Type, names []string) bool {
	switch t := n.(type) {
	case *ast.NamedType:
		if len(t.Args) == 0 {
			for _, name := range names {
				if name == t.Name {
					return true
				}
			}
		}
		for _, a := range t.Args {
			if mentionsName(a, names) {
				return true
			}
		}
	case *ast.ArrayType:
		return mentionsName(t.Elem, names)
	case *ast.NullableType:
		return mentionsName(t.Elem, names)
	case *ast.PointerType:
		return mentionsName(t.Elem, names)
	case *ast.TupleType:
		for _, el := range t.Types {
			if mentionsName(el, names) {
				return true
			}
		}
	case *ast.FunctionType:
		for _, p := range t.Parameters {
			if mentionsName(p.Type, names) {
				return true
			}
		}
		return mentionsName(t.ReturnType, names)
	}
	return false
}

func (b *builder) methodGroup(d MethodGroupDecl, sc *scope) (inference.Argument, error) {
	if len(d.Overloads) == 0 {
		return nil, fmt.Errorf("method group %s has no overloads", d.Name)
	}
	g := inference.MethodGroupArg{Name: d.Name, AddressOf: d.AddressOf}
	for i, o := range d.Overloads {
		m, err := b.method(d.Name, o, sc)
		if err != nil {
			return nil, fmt.Errorf("overload %d of %s: %w", i, d.Name, err)
		}
		g.Overloads = append(g.Overloads, m)
	}
	if len(g.Overloads) == 1 && len(g.Overloads[0].TypeParams) == 0 && !d.AddressOf {
		delegate, _ := b.st.DelegateFor(g.Overloads[0].Signature())
		g.NaturalType = typesystem.TFunctionType{Delegate: delegate}
	}
	return g, nil
}

func (b *builder) method(name string, d MethodDecl, outer *scope) (inference.Method, error) {
	sc := newScope(outer)
	typeParams, err := b.typeParams(d.TypeParams, sc)
	if err != nil {
		return inference.Method{}, err
	}
	r := &typeResolver{st: b.st, scope: sc}
	m := inference.Method{Name: name, TypeParams: typeParams, CallingConvention: d.CallingConvention}
	if d.CallingConvention != "" && d.CallingConvention != config.UnmanagedCallingConv {
		return inference.Method{}, fmt.Errorf("unknown calling convention %q", d.CallingConvention)
	}
	for i, src := range d.Params {
		p, err := r.resolveParam(src)
		if err != nil {
			return inference.Method{}, fmt.Errorf("param %d: %w", i, err)
		}
		m.Params = append(m.Params, p)
	}
	ret := d.Returns
	if ret == "" {
		ret = config.VoidTypeName
	}
	m.Return, err = r.resolveType(ret)
	if err != nil {
		return inference.Method{}, fmt.Errorf("return: %w", err)
	}
	return m, nil
}
