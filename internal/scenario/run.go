package scenario

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funvibe/typeinfer/internal/inference"
	"github.com/funvibe/typeinfer/internal/symbols"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// Options control how a scenario is evaluated.
type Options struct {
	IncludeNullability bool
	// Logger receives inference traces; nil uses the inference package
	// logger.
	Logger *slog.Logger
}

// Outcome is the result of inferring one call.
type Outcome struct {
	Scenario string
	Call     *Call
	Result   inference.Result
	// TypeArgs holds one entry per type parameter of the callee.
	TypeArgs []typesystem.TypeWithAnnotation
	// Err is non-nil when inference failed.
	Err error
}

// Hints returns what was inferred for the "_" placeholders of the call.
func (o Outcome) Hints() []inference.InferredType {
	var out []inference.InferredType
	for _, it := range o.Result.InferredTypes {
		if it.Var.Hint {
			out = append(out, it)
		}
	}
	return out
}

// Run evaluates every call of f against a fresh symbol table. Declaration
// and build errors abort the whole scenario; inference failures do not.
func Run(f *File, opts Options) ([]Outcome, error) {
	st := symbols.NewSymbolTable()
	if err := Declare(st, f.Types); err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	conv := symbols.NewConversions(st, opts.IncludeNullability)

	outcomes := make([]Outcome, 0, len(f.Calls))
	for _, d := range f.Calls {
		call, err := BuildCall(st, d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		outcomes = append(outcomes, Evaluate(f.Name, call, conv, opts))
	}
	return outcomes, nil
}

// Evaluate runs inference for one built call.
func Evaluate(scenario string, call *Call, conv inference.Conversions, opts Options) Outcome {
	infOpts := []inference.Option{inference.WithRunID(uuid.New())}
	if opts.Logger != nil {
		infOpts = append(infOpts, inference.WithLogger(opts.Logger))
	}
	res := inference.Infer(call.Vars, call.Constraints, conv, nil, infOpts...)
	return Outcome{
		Scenario: scenario,
		Call:     call,
		Result:   res,
		TypeArgs: inference.InferredTypeArguments(call.TypeParams, res),
		Err:      res.Err(call.Name),
	}
}
