package generators

import (
	"fmt"

	"github.com/funvibe/typeinfer/internal/scenario"
)

// ScenarioGenerator builds random scenarios over a small generated class
// hierarchy. Every scenario it returns declares and builds without error.
type ScenarioGenerator struct {
	*Generator
	classes []string
}

func NewScenarioGenerator(data []byte) *ScenarioGenerator {
	return &ScenarioGenerator{Generator: NewFromData(data)}
}

// GenerateScenario returns a scenario of one to three calls.
func (g *ScenarioGenerator) GenerateScenario() *scenario.File {
	f := &scenario.File{Name: "generated", Types: g.GenerateHierarchy()}
	n := 1 + g.src.Intn(3)
	for i := 0; i < n; i++ {
		f.Calls = append(f.Calls, g.GenerateCall(fmt.Sprintf("M%d", i)))
	}
	return f
}

// GenerateHierarchy declares up to four classes, each deriving from
// Object or from an earlier class.
func (g *ScenarioGenerator) GenerateHierarchy() []scenario.TypeDecl {
	n := g.src.Intn(5)
	decls := make([]scenario.TypeDecl, n)
	g.classes = g.classes[:0]
	for i := range decls {
		decls[i] = scenario.TypeDecl{Name: fmt.Sprintf("C%d", i), Kind: "class"}
		if i > 0 && g.src.Intn(3) != 0 {
			decls[i].Base = g.classes[g.src.Intn(len(g.classes))]
		}
		g.classes = append(g.classes, decls[i].Name)
	}
	return decls
}

// GenerateCall returns a call of a method with one or two type
// parameters and up to three parameters.
func (g *ScenarioGenerator) GenerateCall(name string) scenario.CallDecl {
	tps := []string{"T", "U"}[:1+g.src.Intn(2)]
	call := scenario.CallDecl{Name: name}
	for _, tp := range tps {
		call.TypeParams = append(call.TypeParams, scenario.TypeParamDecl{Name: tp})
	}

	params := g.WithNames(append(append([]string(nil), g.classes...), tps...)...)
	args := g.WithNames(g.classes...)

	n := 1 + g.src.Intn(3)
	for i := 0; i < n; i++ {
		param := params.GenerateType()
		if g.src.Intn(6) == 0 {
			param = "ref " + param
		}
		call.Params = append(call.Params, param)
		call.Args = append(call.Args, g.generateArg(args))
	}
	return call
}

func (g *ScenarioGenerator) generateArg(types *Generator) scenario.ArgDecl {
	switch g.src.Intn(8) {
	case 0:
		return scenario.ArgDecl{Null: true}
	case 1:
		lambda := &scenario.LambdaDecl{}
		for i := g.src.Intn(MaxArity); i > 0; i-- {
			lambda.Params = append(lambda.Params, types.GenerateName())
		}
		if len(lambda.Params) > 0 && g.src.Intn(2) == 0 {
			lambda.Body = "p0"
		} else {
			lambda.Returns = types.GenerateName()
		}
		return scenario.ArgDecl{Lambda: lambda}
	case 2:
		return scenario.ArgDecl{Tuple: []scenario.ArgDecl{
			{Type: types.GenerateName()},
			{Type: types.GenerateName()},
		}}
	default:
		return scenario.ArgDecl{Type: types.GenerateType()}
	}
}
