package inference

import (
	"errors"
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"

	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

// ErrCannotInfer is wrapped by every InferenceError.
var ErrCannotInfer = errors.New("type arguments cannot be inferred from the usage")

// InferenceError names the call and the variables left unresolved.
type InferenceError struct {
	Callee     string
	Unresolved []typesystem.TVar
}

func (e *InferenceError) Error() string {
	names := strings.Join(gfn.Map(e.Unresolved, typesystem.TVar.String), ", ")
	if names == "" {
		return fmt.Sprintf("%s: %v", e.Callee, ErrCannotInfer)
	}
	return fmt.Sprintf("%s: %v (unresolved: %s)", e.Callee, ErrCannotInfer, names)
}

func (e *InferenceError) Unwrap() error {
	return ErrCannotInfer
}

// debugAssert reports a broken internal invariant. It only panics in debug
// builds; otherwise the violation is logged and inference carries on.
func debugAssert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.DebugAssertions {
		panic("inference: " + msg)
	}
	logger.Warn("invariant violated", "detail", msg)
}
