// Package generators builds random but well-formed type expressions and
// scenarios for fuzz targets.
package generators

import (
	"fmt"
	"math/rand"
	"strings"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// ByteSource uses a byte slice as a source of randomness. Once the data
// runs out every choice is 0, so generation always terminates.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 || s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

// Generator generates random type expressions.
type Generator struct {
	src   RandomSource
	depth int
	// names are the non-generic types an expression may mention.
	names []string
}

const (
	MaxDepth = 4
	MaxArity = 3
)

// Generic types known to every symbol table, with their arity.
var generics = []struct {
	name  string
	arity int
}{
	{"IEnumerable", 1},
	{"IList", 1},
	{"IComparable", 1},
	{"Func", 2},
	{"Action", 1},
}

var builtins = []string{"Object", "String", "Int", "Long", "Double", "Bool"}

func New(seed int64) *Generator {
	return &Generator{
		src:   &RandSource{rand.New(rand.NewSource(seed))},
		names: append([]string(nil), builtins...),
	}
}

func NewFromData(data []byte) *Generator {
	return &Generator{
		src:   &ByteSource{data: data},
		names: append([]string(nil), builtins...),
	}
}

// Intn exposes the random source's Intn method for embedded structs.
func (g *Generator) Intn(n int) int {
	return g.src.Intn(n)
}

// WithNames returns a generator sharing the random source whose
// expressions may also mention extra.
func (g *Generator) WithNames(extra ...string) *Generator {
	names := append(append([]string(nil), g.names...), extra...)
	return &Generator{src: g.src, names: names}
}

// GenerateType returns a type expression in the surface syntax.
func (g *Generator) GenerateType() string {
	return g.generateType(false)
}

// generateType avoids a trailing "?" when noNullable is set so that the
// result can itself be made nullable.
func (g *Generator) generateType(noNullable bool) string {
	if g.depth >= MaxDepth {
		return g.GenerateName()
	}
	g.depth++
	defer func() { g.depth-- }()

	switch g.src.Intn(9) {
	case 0, 1, 2:
		return g.GenerateName()
	case 3, 4:
		gen := generics[g.src.Intn(len(generics))]
		args := make([]string, gen.arity)
		for i := range args {
			args[i] = g.generateType(false)
		}
		return gen.name + "<" + strings.Join(args, ", ") + ">"
	case 5:
		return g.operand() + "[" + strings.Repeat(",", g.src.Intn(3)) + "]"
	case 6:
		if noNullable {
			return g.GenerateName()
		}
		return g.operand() + "?"
	case 7:
		return g.GenerateTuple()
	default:
		return "*" + g.generateType(false)
	}
}

// operand returns a type that can carry a "[]" or "?" suffix without
// parentheses changing its meaning.
func (g *Generator) operand() string {
	t := g.generateType(true)
	if strings.HasPrefix(t, "*") {
		return "(" + t + ")"
	}
	return t
}

// GenerateName returns one of the known non-generic names.
func (g *Generator) GenerateName() string {
	return g.names[g.src.Intn(len(g.names))]
}

// GenerateTuple returns a tuple of two or three elements, some of them
// named.
func (g *Generator) GenerateTuple() string {
	n := 2 + g.src.Intn(2)
	elems := make([]string, n)
	for i := range elems {
		elems[i] = g.generateType(false)
		if g.src.Intn(3) == 0 {
			elems[i] += fmt.Sprintf(" item%d", i)
		}
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

// GenerateFunctionPointer returns a function pointer type.
func (g *Generator) GenerateFunctionPointer() string {
	var sb strings.Builder
	sb.WriteString("func")
	if g.src.Intn(4) == 0 {
		sb.WriteString("[unmanaged]")
	}
	modes := []string{"", "ref ", "out ", "in "}
	params := make([]string, g.src.Intn(MaxArity+1))
	for i := range params {
		params[i] = modes[g.src.Intn(len(modes))] + g.generateType(false)
	}
	sb.WriteString("(" + strings.Join(params, ", ") + ") -> ")
	if g.src.Intn(4) == 0 {
		sb.WriteString("ref ")
	}
	sb.WriteString(g.generateType(false))
	return sb.String()
}
