package scenario

import (
	"fmt"
	"sort"
)

// Mismatch is one expectation a call did not meet.
type Mismatch struct {
	Call string
	What string
	Want string
	Got  string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", m.Call, m.What, m.Want, m.Got)
}

// Check compares an outcome against the expectations of its call.
// Calls without expectations always pass.
func Check(o Outcome) []Mismatch {
	exp := o.Call.Expect
	if exp == nil {
		return nil
	}
	var out []Mismatch
	add := func(what, want, got string) {
		out = append(out, Mismatch{Call: o.Call.Name, What: what, Want: want, Got: got})
	}

	if exp.Success != nil && *exp.Success != o.Result.Success {
		add("success", fmt.Sprint(*exp.Success), fmt.Sprint(o.Result.Success))
	}
	if exp.FromFunctionType != nil && *exp.FromFunctionType != o.Result.HasTypeVariableInferredFromFunctionType {
		add("from_function_type", fmt.Sprint(*exp.FromFunctionType), fmt.Sprint(o.Result.HasTypeVariableInferredFromFunctionType))
	}

	names := make([]string, 0, len(exp.Types))
	for name := range exp.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		want := exp.Types[name]
		idx := -1
		for i, tp := range o.Call.TypeParams {
			if tp.Name == name {
				idx = i
			}
		}
		if idx < 0 {
			add(name, want, "no such type parameter")
			continue
		}
		if got := o.TypeArgs[idx].String(); got != want {
			add(name, want, got)
		}
	}
	return out
}

// CheckAll checks every outcome.
func CheckAll(outcomes []Outcome) []Mismatch {
	var out []Mismatch
	for _, o := range outcomes {
		out = append(out, Check(o)...)
	}
	return out
}
