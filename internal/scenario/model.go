package scenario

// File is the YAML document of one scenario.
type File struct {
	Name  string     `yaml:"name"`
	Types []TypeDecl `yaml:"types,omitempty"`
	Calls []CallDecl `yaml:"calls"`
}

// TypeDecl declares a named type.
type TypeDecl struct {
	Name string `yaml:"name"`
	// Kind is class, struct, interface or delegate.
	Kind string `yaml:"kind"`
	// Params are type parameter names, optionally prefixed by in or out.
	Params     []string `yaml:"params,omitempty"`
	Base       string   `yaml:"base,omitempty"`
	Interfaces []string `yaml:"interfaces,omitempty"`
	// Invoke is the signature of a delegate, written as a function type.
	Invoke string `yaml:"invoke,omitempty"`
	// Expression marks an expression tree definition.
	Expression     bool `yaml:"expression,omitempty"`
	ArrayInterface bool `yaml:"array_interface,omitempty"`
}

// TypeParamDecl is a type parameter of a generic method.
type TypeParamDecl struct {
	Name        string   `yaml:"name"`
	Constraints []string `yaml:"constraints,omitempty"`
	Class       bool     `yaml:"class,omitempty"`
	Struct      bool     `yaml:"struct,omitempty"`
}

// CallDecl is one call of a generic method.
type CallDecl struct {
	Name       string          `yaml:"name"`
	TypeParams []TypeParamDecl `yaml:"type_params"`
	// Params are parameter types, optionally prefixed by ref, out or in.
	Params []string `yaml:"params"`
	// TypeArgs are explicit type arguments, which may contain "_".
	TypeArgs []string `yaml:"type_args,omitempty"`
	Args     []ArgDecl `yaml:"args"`
	Expect   *Expect   `yaml:"expect,omitempty"`
}

// ArgDecl is one argument. Exactly one field is set.
type ArgDecl struct {
	Type        string           `yaml:"type,omitempty"`
	// Null is the null literal. The key is null_literal because YAML
	// reads a bare null key as a null value.
	Null        bool             `yaml:"null_literal,omitempty"`
	Lambda      *LambdaDecl      `yaml:"lambda,omitempty"`
	MethodGroup *MethodGroupDecl `yaml:"method_group,omitempty"`
	Tuple       []ArgDecl        `yaml:"tuple,omitempty"`
}

// LambdaDecl describes an anonymous function.
//
// Names are the parameter names used by Body; when omitted they default
// to p0, p1 and so on. Params gives explicit parameter types. Body is a
// type expression in which a parameter name stands for that parameter's
// type, so "p0" returns the first parameter and "List<p0>" wraps it.
type LambdaDecl struct {
	Names       []string `yaml:"names,omitempty"`
	Params      []string `yaml:"params,omitempty"`
	Returns     string   `yaml:"returns,omitempty"`
	Body        string   `yaml:"body,omitempty"`
	NoParamList bool     `yaml:"no_param_list,omitempty"`
}

// MethodGroupDecl names a set of overloads.
type MethodGroupDecl struct {
	Name      string       `yaml:"name"`
	AddressOf bool         `yaml:"address_of,omitempty"`
	Overloads []MethodDecl `yaml:"overloads"`
}

// MethodDecl is one overload of a method group.
type MethodDecl struct {
	TypeParams        []TypeParamDecl `yaml:"type_params,omitempty"`
	Params            []string        `yaml:"params,omitempty"`
	Returns           string          `yaml:"returns,omitempty"`
	CallingConvention string          `yaml:"calling_convention,omitempty"`
}

// Expect is what a call should infer.
type Expect struct {
	Success *bool `yaml:"success,omitempty"`
	// Types maps type parameter names to the rendered inferred type.
	Types            map[string]string `yaml:"types,omitempty"`
	FromFunctionType *bool             `yaml:"from_function_type,omitempty"`
}
