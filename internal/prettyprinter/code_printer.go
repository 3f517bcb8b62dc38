package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/typeinfer/internal/ast"
)

// --- Code Printer (output parses back to the same tree) ---

type CodePrinter struct {
	buf bytes.Buffer
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a type expression in canonical source form.
func Print(t ast.Type) string {
	p := NewCodePrinter()
	p.printType(t)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) printType(t ast.Type) {
	if t == nil {
		p.write("<???>")
		return
	}
	t.Accept(p)
}

// printOperand prints the operand of a [] or ? suffix. Prefix forms
// would otherwise swallow the suffix when parsed back.
func (p *CodePrinter) printOperand(t ast.Type) {
	switch t.(type) {
	case *ast.PointerType, *ast.FunctionType:
		p.write("(")
		p.printType(t)
		p.write(")")
	default:
		p.printType(t)
	}
}

func (p *CodePrinter) VisitNamedType(n *ast.NamedType) {
	p.write(n.Name)
	if len(n.Args) == 0 {
		return
	}
	p.write("<")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		p.printType(a)
	}
	p.write(">")
}

func (p *CodePrinter) VisitWildcardType(*ast.WildcardType) {
	p.write("_")
}

func (p *CodePrinter) VisitArrayType(n *ast.ArrayType) {
	p.printOperand(n.Elem)
	p.write("[" + strings.Repeat(",", max(n.Rank, 1)-1) + "]")
}

func (p *CodePrinter) VisitNullableType(n *ast.NullableType) {
	p.printOperand(n.Elem)
	p.write("?")
}

func (p *CodePrinter) VisitTupleType(n *ast.TupleType) {
	p.write("(")
	for i, el := range n.Types {
		if i > 0 {
			p.write(", ")
		}
		p.printType(el)
		if i < len(n.Names) && n.Names[i] != "" {
			p.write(" " + n.Names[i])
		}
	}
	p.write(")")
}

func (p *CodePrinter) VisitPointerType(n *ast.PointerType) {
	p.write("*")
	p.printType(n.Elem)
}

func (p *CodePrinter) VisitFunctionType(n *ast.FunctionType) {
	p.write("func")
	if n.CallingConvention != "" {
		p.write("[" + n.CallingConvention + "]")
	}
	p.write("(")
	for i, param := range n.Parameters {
		if i > 0 {
			p.write(", ")
		}
		if param.Mode != "" {
			p.write(param.Mode + " ")
		}
		p.printType(param.Type)
	}
	p.write(") -> ")
	if n.ReturnMode != "" {
		p.write(n.ReturnMode + " ")
	}
	p.printType(n.ReturnType)
}
