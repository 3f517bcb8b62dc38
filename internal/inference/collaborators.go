package inference

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/funvibe/typeinfer/internal/typesystem"
)

// Hierarchy answers structural questions about declared types.
type Hierarchy interface {
	// BaseType is the direct base class, or the effective base class of a
	// type parameter. Nil at the root.
	BaseType(t typesystem.Type) typesystem.Type
	// AllInterfaces lists every interface t implements, without duplicates.
	AllInterfaces(t typesystem.Type) []typesystem.Type
	// ExpressionTreeOf wraps a delegate type in the expression tree type.
	ExpressionTreeOf(delegate typesystem.Type) (typesystem.Type, bool)
}

// Conversions is the conversion oracle inference consults while fixing.
type Conversions interface {
	Hierarchy
	IncludeNullability() bool
	ImplicitConversionExists(source, destination typesystem.Type) bool
}

// Extensions customises how argument types are read.
type Extensions interface {
	// ArgumentType is the type an argument contributes on its own.
	ArgumentType(arg Argument) typesystem.TypeWithAnnotation
	// MethodGroupResultType is the return type of the chosen overload.
	MethodGroupResultType(group MethodGroupArg, method Method) typesystem.TypeWithAnnotation
}

// OverloadResolver picks the overload of a method group that best matches
// a set of parameter types.
type OverloadResolver interface {
	ResolveMethodGroup(group MethodGroupArg, params []typesystem.Param, returnRefKind typesystem.RefKind, callingConvention string, isFunctionPointer bool) (Method, bool)
}

type defaultExtensions struct{}

// DefaultExtensions reads argument types directly from the argument.
var DefaultExtensions Extensions = defaultExtensions{}

func (defaultExtensions) ArgumentType(arg Argument) typesystem.TypeWithAnnotation {
	switch a := arg.(type) {
	case ExprArg:
		return a.Type
	case HintArg:
		return a.Type
	case LambdaArg:
		if a.NaturalType != nil {
			return typesystem.NotNull(a.NaturalType)
		}
	case MethodGroupArg:
		if a.NaturalType != nil {
			return typesystem.NotNull(a.NaturalType)
		}
	case TupleArg:
		if a.Type != nil {
			return typesystem.NotNull(a.Type)
		}
	}
	return typesystem.TypeWithAnnotation{}
}

func (defaultExtensions) MethodGroupResultType(_ MethodGroupArg, method Method) typesystem.TypeWithAnnotation {
	return method.Return
}

type options struct {
	ext      Extensions
	resolver OverloadResolver
	runID    uuid.UUID
	logger   *slog.Logger
}

// Option configures a single inference run.
type Option func(*options)

// WithExtensions replaces DefaultExtensions.
func WithExtensions(ext Extensions) Option {
	return func(o *options) { o.ext = ext }
}

// WithResolver replaces the built-in overload resolver.
func WithResolver(r OverloadResolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithRunID tags log records and the result with id.
func WithRunID(id uuid.UUID) Option {
	return func(o *options) { o.runID = id }
}

// WithLogger sends trace output of this run to l instead of the package
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
