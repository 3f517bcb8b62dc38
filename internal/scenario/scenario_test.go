package scenario_test

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/funvibe/typeinfer/internal/config"
	"github.com/funvibe/typeinfer/internal/inference"
	"github.com/funvibe/typeinfer/internal/report"
	"github.com/funvibe/typeinfer/internal/scenario"
	"github.com/funvibe/typeinfer/internal/symbols"
	"github.com/funvibe/typeinfer/internal/typesystem"
)

var update = flag.Bool("update", false, "rewrite the report section of golden files")

func TestMain(m *testing.M) {
	config.IsTestMode = true
	config.DebugAssertions = true
	flag.Parse()
	os.Exit(m.Run())
}

// goldenOptions reads "key: value" lines from an archive comment. Lines
// without a known key are description.
func goldenOptions(t *testing.T, comment []byte) scenario.Options {
	t.Helper()
	opts := scenario.Options{IncludeNullability: true}
	for _, line := range strings.Split(string(comment), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "nullable" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		require.NoError(t, err, "nullable option")
		opts.IncludeNullability = b
	}
	return opts
}

func archiveFile(ar *txtar.Archive, name string) *txtar.File {
	for i := range ar.Files {
		if ar.Files[i].Name == name {
			return &ar.Files[i]
		}
	}
	return nil
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			src := archiveFile(ar, "scenario.yaml")
			require.NotNil(t, src, "archive has no scenario.yaml")
			f, err := scenario.Parse(src.Data, path)
			require.NoError(t, err)

			outcomes, err := scenario.Run(f, goldenOptions(t, ar.Comment))
			require.NoError(t, err)

			var buf bytes.Buffer
			r := report.New(&buf, config.ColorNever)
			r.Outcomes(f.Name, outcomes)
			r.Summary(outcomes)

			if *update {
				if want := archiveFile(ar, "report"); want != nil {
					want.Data = buf.Bytes()
				} else {
					ar.Files = append(ar.Files, txtar.File{Name: "report", Data: buf.Bytes()})
				}
				require.NoError(t, os.WriteFile(path, txtar.Format(ar), 0o644))
				return
			}

			want := archiveFile(ar, "report")
			require.NotNil(t, want, "archive has no report; run with -update")
			assert.Equal(t, string(want.Data), buf.String())
			assert.Empty(t, scenario.CheckAll(outcomes))
		})
	}
}

func TestParse(t *testing.T) {
	f, err := scenario.Parse([]byte(`
calls:
  - name: Id
    type_params: [{name: T}]
    params: [T]
    args: [{type: Int}]
`), "dir/identity.yaml")
	require.NoError(t, err)
	assert.Equal(t, "identity", f.Name)
	require.Len(t, f.Calls, 1)
	assert.Equal(t, "Int", f.Calls[0].Args[0].Type)
}

func TestParseNullLiteral(t *testing.T) {
	const call = `
calls:
  - name: OrNull
    type_params: [{name: T}]
    params: [T, T]
    args:
      - type: String
      - %s: true
`
	f, err := scenario.Parse([]byte(fmt.Sprintf(call, "null_literal")), "null.yaml")
	require.NoError(t, err)
	require.Len(t, f.Calls[0].Args, 2)
	assert.True(t, f.Calls[0].Args[1].Null)
	_, err = scenario.BuildCall(symbols.NewSymbolTable(), f.Calls[0])
	require.NoError(t, err)

	// A bare null key is a YAML null, not the string "null".
	f, err = scenario.Parse([]byte(fmt.Sprintf(call, "null")), "null.yaml")
	require.NoError(t, err)
	assert.False(t, f.Calls[0].Args[1].Null)
	_, err = scenario.BuildCall(symbols.NewSymbolTable(), f.Calls[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null_literal")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantIs  error
		wantMsg string
	}{
		{name: "empty", input: "", wantIs: scenario.ErrNoCalls},
		{name: "no calls", input: "name: x\n", wantIs: scenario.ErrNoCalls},
		{name: "unknown field", input: "calls: []\nfoo: 1\n", wantMsg: "field foo not found"},
		{name: "bad yaml", input: "calls: [\n", wantMsg: "parsing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tt.input), "x.yaml")
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := scenario.Load(filepath.Join(dir, "calls.json"))
	assert.ErrorIs(t, err, scenario.ErrBadExtension)

	path := filepath.Join(dir, "calls.yml")
	require.NoError(t, os.WriteFile(path, []byte("calls:\n  - name: M\n    type_params: []\n    params: []\n    args: []\n"), 0o644))
	f, err := scenario.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "calls", f.Name)

	_, err = scenario.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeclareErrors(t *testing.T) {
	tests := []struct {
		name    string
		decls   []scenario.TypeDecl
		wantMsg string
	}{
		{
			name:    "unknown kind",
			decls:   []scenario.TypeDecl{{Name: "A", Kind: "record"}},
			wantMsg: `unknown kind "record"`,
		},
		{
			name:    "unknown base",
			decls:   []scenario.TypeDecl{{Name: "A", Kind: "class", Base: "Missing"}},
			wantMsg: "type A",
		},
		{
			name:    "duplicate",
			decls:   []scenario.TypeDecl{{Name: "A", Kind: "class"}, {Name: "A", Kind: "class"}},
			wantMsg: "type A",
		},
		{
			name:    "missing name",
			decls:   []scenario.TypeDecl{{Kind: "class"}},
			wantMsg: "missing name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scenario.Declare(symbols.NewSymbolTable(), tt.decls)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDeclareForwardReference(t *testing.T) {
	st := symbols.NewSymbolTable()
	err := scenario.Declare(st, []scenario.TypeDecl{
		{Name: "Tiger", Kind: "class", Base: "Animal"},
		{Name: "Animal", Kind: "class"},
	})
	require.NoError(t, err)

	tiger, err := st.Resolve("Tiger", 0)
	require.NoError(t, err)
	assert.Equal(t, "Animal", tiger.Base.String())
}

func TestBuildCallErrors(t *testing.T) {
	tests := []struct {
		name    string
		call    scenario.CallDecl
		wantMsg string
	}{
		{
			name: "unknown type",
			call: scenario.CallDecl{
				Name: "M", TypeParams: []scenario.TypeParamDecl{{Name: "T"}},
				Params: []string{"T"}, Args: []scenario.ArgDecl{{Type: "Nope"}},
			},
			wantMsg: "Nope",
		},
		{
			name: "placeholder outside type arguments",
			call: scenario.CallDecl{
				Name: "M", TypeParams: []scenario.TypeParamDecl{{Name: "T"}},
				Params: []string{"IEnumerable<_>"}, Args: []scenario.ArgDecl{{Type: "Int"}},
			},
			wantMsg: "_",
		},
		{
			name: "type argument count",
			call: scenario.CallDecl{
				Name: "M", TypeParams: []scenario.TypeParamDecl{{Name: "T"}, {Name: "U"}},
				Params: []string{"T"}, TypeArgs: []string{"_"}, Args: []scenario.ArgDecl{{Type: "Int"}},
			},
			wantMsg: "type arguments",
		},
		{
			name: "parameter in a nested body position",
			call: scenario.CallDecl{
				Name: "M", TypeParams: []scenario.TypeParamDecl{{Name: "T"}},
				Params: []string{"Func<Int, T>"},
				Args:   []scenario.ArgDecl{{Lambda: &scenario.LambdaDecl{Names: []string{"x"}, Body: "Func<x, x>"}}},
			},
			wantMsg: "parameter may only appear alone",
		},
		{
			name: "malformed type",
			call: scenario.CallDecl{
				Name: "M", TypeParams: []scenario.TypeParamDecl{{Name: "T"}},
				Params: []string{"List<T"}, Args: []scenario.ArgDecl{{Type: "Int"}},
			},
			wantMsg: "P001",
		},
		{
			name: "unknown calling convention",
			call: scenario.CallDecl{
				Name: "M", TypeParams: []scenario.TypeParamDecl{{Name: "T"}},
				Params: []string{"T"},
				Args: []scenario.ArgDecl{{MethodGroup: &scenario.MethodGroupDecl{
					Name: "F", AddressOf: true,
					Overloads: []scenario.MethodDecl{{CallingConvention: "fastcall"}},
				}}},
			},
			wantMsg: `unknown calling convention "fastcall"`,
		},
		{
			name: "empty method group",
			call: scenario.CallDecl{
				Name: "M", TypeParams: []scenario.TypeParamDecl{{Name: "T"}},
				Params: []string{"T"},
				Args:   []scenario.ArgDecl{{MethodGroup: &scenario.MethodGroupDecl{Name: "F"}}},
			},
			wantMsg: "no overloads",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.BuildCall(symbols.NewSymbolTable(), tt.call)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestBuildCallArguments(t *testing.T) {
	st := symbols.NewSymbolTable()
	call, err := scenario.BuildCall(st, scenario.CallDecl{
		Name:       "M",
		TypeParams: []scenario.TypeParamDecl{{Name: "T"}, {Name: "U"}},
		Params:     []string{"ref T", "(T, U)", "Func<T, U>"},
		Args: []scenario.ArgDecl{
			{Type: "Int"},
			{Tuple: []scenario.ArgDecl{{Type: "Int"}, {Null: true}}},
			{Lambda: &scenario.LambdaDecl{Params: []string{"Int"}, Body: "p0"}},
		},
	})
	require.NoError(t, err)

	require.Len(t, call.Args, 3)
	assert.Equal(t, "Int", call.Args[0].String())
	assert.Equal(t, "(Int, null)", call.Args[1].String())
	assert.Equal(t, "(Int) => p0", call.Args[2].String())

	tuple, ok := call.Args[1].(inference.TupleArg)
	require.True(t, ok)
	assert.Nil(t, tuple.Type, "a tuple with a null element has no natural type")

	lambda, ok := call.Args[2].(inference.LambdaArg)
	require.True(t, ok)
	assert.Equal(t, "fn<Func<Int, Int>>", lambda.NaturalType.String())

	assert.Len(t, call.Constraints, 3)
	assert.Equal(t, typesystem.RefRef, call.Params[0].RefKind)
	assert.Equal(t, "T", call.Params[0].Type.String())
}

func TestRunWithExplicitTypeArguments(t *testing.T) {
	f := &scenario.File{
		Name: "explicit",
		Calls: []scenario.CallDecl{{
			Name:       "M",
			TypeParams: []scenario.TypeParamDecl{{Name: "T"}},
			Params:     []string{"T"},
			TypeArgs:   []string{"IEnumerable<_>"},
			Args:       []scenario.ArgDecl{{Type: "String[]"}},
		}},
	}
	outcomes, err := scenario.Run(f, scenario.Options{IncludeNullability: true})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	o := outcomes[0]
	require.NoError(t, o.Err)
	assert.Equal(t, "IEnumerable<String>", o.TypeArgs[0].String())
	hints := o.Hints()
	require.Len(t, hints, 1)
	assert.Equal(t, "String", hints[0].Type.String())
}

func TestRunFailureKeepsGoing(t *testing.T) {
	f := &scenario.File{
		Name: "mixed",
		Calls: []scenario.CallDecl{
			{Name: "Bad", TypeParams: []scenario.TypeParamDecl{{Name: "T"}}, Params: []string{"Int"}, Args: []scenario.ArgDecl{{Type: "Int"}}},
			{Name: "Good", TypeParams: []scenario.TypeParamDecl{{Name: "T"}}, Params: []string{"T"}, Args: []scenario.ArgDecl{{Type: "Int"}}},
		},
	}
	outcomes, err := scenario.Run(f, scenario.Options{})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	var inferr *inference.InferenceError
	require.True(t, errors.As(outcomes[0].Err, &inferr))
	assert.Equal(t, "Bad", inferr.Callee)
	assert.Equal(t, "?T", outcomes[0].TypeArgs[0].String())

	assert.NoError(t, outcomes[1].Err)
	assert.Equal(t, "Int", outcomes[1].TypeArgs[0].String())
}

func TestCheck(t *testing.T) {
	yes, no := true, false
	f := &scenario.File{
		Name: "check",
		Calls: []scenario.CallDecl{{
			Name:       "M",
			TypeParams: []scenario.TypeParamDecl{{Name: "T"}},
			Params:     []string{"T"},
			Args:       []scenario.ArgDecl{{Type: "Int"}},
			Expect: &scenario.Expect{
				Success:          &no,
				FromFunctionType: &yes,
				Types:            map[string]string{"T": "Long", "U": "Int"},
			},
		}},
	}
	outcomes, err := scenario.Run(f, scenario.Options{})
	require.NoError(t, err)

	got := scenario.Check(outcomes[0])
	want := []string{
		"M: success: want false, got true",
		"M: from_function_type: want true, got false",
		"M: T: want Long, got Int",
		"M: U: want Int, got no such type parameter",
	}
	require.Len(t, got, len(want))
	for i, m := range got {
		assert.Equal(t, want[i], m.String())
	}

	outcomes[0].Call.Expect = nil
	assert.Empty(t, scenario.Check(outcomes[0]))
}
