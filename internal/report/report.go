// Package report renders scenario outcomes for a terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/inference"
	"github.com/funvibe/typeinfer/internal/scenario"
)

// Reporter writes human-readable reports.
type Reporter struct {
	w    io.Writer
	ok   *color.Color
	fail *color.Color
	dim  *color.Color
	head *color.Color
}

// New returns a reporter writing to w. mode is one of the config colour
// modes; auto colours only when w is a terminal.
func New(w io.Writer, mode string) *Reporter {
	r := &Reporter{
		w:    w,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
		head: color.New(color.Bold),
	}
	enable := false
	switch mode {
	case config.ColorAlways:
		enable = true
	case config.ColorAuto, "":
		enable = isTerminal(w)
	}
	for _, c := range []*color.Color{r.ok, r.fail, r.dim, r.head} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Outcomes writes one block per call of a scenario.
func (r *Reporter) Outcomes(name string, outcomes []scenario.Outcome) {
	fmt.Fprintln(r.w, r.head.Sprint("== "+name))
	for _, o := range outcomes {
		r.outcome(o)
	}
}

func (r *Reporter) outcome(o scenario.Outcome) {
	status := r.ok.Sprint("ok  ")
	if !o.Result.Success {
		status = r.fail.Sprint("FAIL")
	}
	fmt.Fprintf(r.w, "%s %s\n", status, Signature(o.Call))

	for i, tp := range o.Call.TypeParams {
		fmt.Fprintf(r.w, "     %s = %s\n", tp.Name, o.TypeArgs[i])
	}
	for _, h := range o.Hints() {
		fmt.Fprintf(r.w, "     %s = %s\n", h.Var, h.Type)
	}
	if o.Result.HasTypeVariableInferredFromFunctionType {
		fmt.Fprintln(r.w, r.dim.Sprint("     (inferred from a function type)"))
	}
	if o.Err != nil {
		fmt.Fprintf(r.w, "     %s\n", r.fail.Sprint("error: "+o.Err.Error()))
	}
}

// Signature renders a call as Name<T, U>(args).
func Signature(c *scenario.Call) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	if len(c.TypeParams) > 0 {
		names := make([]string, len(c.TypeParams))
		for i, tp := range c.TypeParams {
			names[i] = tp.Name
		}
		sb.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	sb.WriteString("(" + strings.Join(args, ", ") + ")")
	return sb.String()
}

// Mismatches writes failed expectations. It returns the number written.
func (r *Reporter) Mismatches(ms []scenario.Mismatch) int {
	for _, m := range ms {
		fmt.Fprintf(r.w, "%s %s\n", r.fail.Sprint("MISMATCH"), m)
	}
	return len(ms)
}

// Summary writes the pass and fail counts.
func (r *Reporter) Summary(outcomes []scenario.Outcome) {
	passed := 0
	for _, o := range outcomes {
		if o.Result.Success {
			passed++
		}
	}
	line := fmt.Sprintf("%d inferred, %d failed", passed, len(outcomes)-passed)
	if passed == len(outcomes) {
		fmt.Fprintln(r.w, r.ok.Sprint(line))
		return
	}
	fmt.Fprintln(r.w, r.fail.Sprint(line))
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                6,
}

// Dump writes the raw results of every outcome.
func (r *Reporter) Dump(outcomes []scenario.Outcome) {
	for _, o := range outcomes {
		fmt.Fprintln(r.w, r.dim.Sprintf("-- %s run %s", o.Call.Name, o.Result.RunID))
		dumpConfig.Fdump(r.w, dumpView(o.Result))
	}
}

type dumpedType struct {
	Var  string
	Type string
	Kind string
}

type dumpedResult struct {
	Success          bool
	FromFunctionType bool
	Types            []dumpedType
}

// dumpView flattens a result so that spew does not walk definitions.
func dumpView(res inference.Result) dumpedResult {
	v := dumpedResult{Success: res.Success, FromFunctionType: res.HasTypeVariableInferredFromFunctionType}
	for _, it := range res.InferredTypes {
		d := dumpedType{Var: it.Var.String(), Type: it.Type.String()}
		if it.Type.HasType() {
			d.Kind = it.Type.Type.Kind().String()
		}
		v.Types = append(v.Types, d)
	}
	return v
}
