package main

import (
	"fmt"
	"strconv"
	"strings"
)

// builtinFuncs maps source-level builtin names to the free functions the
// C++ runtime provides. Names that collide with C++ keywords carry a
// trailing underscore on the runtime side.
var builtinFuncs = map[string]string{
	"print": "print",
	"len":   "len",
	"range": "range",
	"str":   "str",
	"int":   "int_",
	"float": "float_",
	"bool":  "bool_",
	"abs":   "abs",
	"min":   "min",
	"max":   "max",
	"sum":   "sum",
	"type":  "type",
	"input": "input",
	"set":   "set_",
}

// methodLowerings maps source-level method names to DynamicType member
// functions where the names differ. Methods not listed here either map
// through unchanged (append, remove, get, add) or are emitted verbatim
// against the runtime.
var methodLowerings = map[string]string{
	"discard": "remove",
}

// ExprGen generates C++ expression text from expression nodes. Every value
// is a DynamicType; operands are parenthesized so generated fragments
// compose without precedence surprises.
type ExprGen struct {
	scope *Scope
	data  *DataGen
}

func NewExprGen(scope *Scope) *ExprGen {
	g := &ExprGen{scope: scope}
	g.data = &DataGen{expr: g}
	return g
}

// Generate returns the C++ expression for a node.
func (g *ExprGen) Generate(node *ASTNode) (string, error) {
	if node == nil {
		return "", fmt.Errorf("missing expression")
	}
	switch node.Kind {
	case NodeInt:
		return "DynamicType(" + strconv.FormatInt(node.IntValue, 10) + ")", nil
	case NodeFloat:
		return "DynamicType(" + formatFloatLiteral(node.FloatValue) + ")", nil
	case NodeString:
		return "DynamicType(std::string(\"" + escapeCppString(node.Str) + "\"))", nil
	case NodeBool:
		if node.BoolValue {
			return "DynamicType(true)", nil
		}
		return "DynamicType(false)", nil
	case NodeNone:
		return "DynamicType()", nil
	case NodeIdent:
		if node.Str == "__name__" {
			return "DynamicType(std::string(\"__main__\"))", nil
		}
		return node.Str, nil
	case NodeUnary:
		return g.genUnary(node)
	case NodeBinary:
		return g.genBinary(node)
	case NodeCompare:
		return g.genCompare(node)
	case NodeCall:
		return g.genCall(node)
	case NodeList, NodeTuple:
		return g.data.genVector(node.Children)
	case NodeSet:
		return g.data.genSet(node.Children)
	case NodeDict:
		return g.data.genDict(node.Pairs)
	case NodeSubscript:
		return g.genSubscript(node)
	case NodeAttribute:
		value, err := g.Generate(node.Value)
		if err != nil {
			return "", err
		}
		return "(" + value + ")." + node.Str, nil
	default:
		return "", fmt.Errorf("line %d:%d: unsupported expression node %s", node.Line, node.Col, node.Kind)
	}
}

// formatFloatLiteral renders a float so C++ still sees a floating-point
// literal (2.0 must not collapse to 2).
func formatFloatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func escapeCppString(s string) string {
	var sb strings.Builder
	for _, c := range []byte(s) {
		switch c {
		case '\\':
			sb.WriteString("\\\\")
		case '"':
			sb.WriteString("\\\"")
		case '\n':
			sb.WriteString("\\n")
		case '\t':
			sb.WriteString("\\t")
		case '\r':
			sb.WriteString("\\r")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func (g *ExprGen) genUnary(node *ASTNode) (string, error) {
	operand, err := g.Generate(node.Operand)
	if err != nil {
		return "", err
	}
	switch node.Op {
	case "-":
		// The runtime has no unary minus; subtract from zero instead.
		return "(DynamicType(0) - (" + operand + "))", nil
	case "not":
		return "(!(" + operand + "))", nil
	default:
		return "", fmt.Errorf("line %d:%d: unsupported unary operator %q", node.Line, node.Col, node.Op)
	}
}

func (g *ExprGen) genBinary(node *ASTNode) (string, error) {
	left, err := g.Generate(node.Left)
	if err != nil {
		return "", err
	}
	right, err := g.Generate(node.Right)
	if err != nil {
		return "", err
	}
	switch node.Op {
	case "+", "-", "*", "/", "%":
		return "(" + left + ") " + node.Op + " (" + right + ")", nil
	case "**":
		return "DynamicType(pow((" + left + ").toFloat(), (" + right + ").toFloat()))", nil
	case "//":
		return "(" + left + ").floor_div(" + right + ")", nil
	case "and":
		return "DynamicType((" + left + ").toBool() && (" + right + ").toBool())", nil
	case "or":
		return "DynamicType((" + left + ").toBool() || (" + right + ").toBool())", nil
	default:
		return "", fmt.Errorf("line %d:%d: unsupported binary operator %q", node.Line, node.Col, node.Op)
	}
}

func (g *ExprGen) genCompare(node *ASTNode) (string, error) {
	left, err := g.Generate(node.Left)
	if err != nil {
		return "", err
	}
	right, err := g.Generate(node.Right)
	if err != nil {
		return "", err
	}
	if node.Op == "in" {
		// Membership tests the container, so the operands swap sides.
		return "DynamicType((" + right + ").contains(" + left + "))", nil
	}
	return "DynamicType((" + left + ") " + node.Op + " (" + right + "))", nil
}

func (g *ExprGen) genCall(node *ASTNode) (string, error) {
	if node.Callee == nil {
		return "", fmt.Errorf("line %d:%d: call without a target", node.Line, node.Col)
	}
	switch node.Callee.Kind {
	case NodeIdent:
		args, err := g.genArgs(node.Args)
		if err != nil {
			return "", err
		}
		name := node.Callee.Str
		if runtime, ok := builtinFuncs[name]; ok {
			return runtime + "(" + args + ")", nil
		}
		return "_fn_" + name + "(" + args + ")", nil
	case NodeAttribute:
		return g.genMethodCall(node)
	default:
		return "", fmt.Errorf("line %d:%d: call target is not supported", node.Line, node.Col)
	}
}

func (g *ExprGen) genArgs(args []*ASTNode) (string, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		code, err := g.Generate(arg)
		if err != nil {
			return "", err
		}
		parts = append(parts, code)
	}
	return strings.Join(parts, ", "), nil
}

// genMethodCall lowers `obj.name(args)` onto the DynamicType member
// functions. Unknown method names are emitted verbatim so runtime additions
// need no transpiler change.
func (g *ExprGen) genMethodCall(node *ASTNode) (string, error) {
	attr := node.Callee
	object, err := g.Generate(attr.Value)
	if err != nil {
		return "", err
	}

	name := attr.Str
	if name == "pop" {
		switch len(node.Args) {
		case 0:
			return "(" + object + ").removeAt(DynamicType(-1))", nil
		case 1:
			key, err := g.Generate(node.Args[0])
			if err != nil {
				return "", err
			}
			return "(" + object + ").removeKey(" + key + ")", nil
		default:
			return "", fmt.Errorf("line %d:%d: pop() takes at most 1 argument, got %d", node.Line, node.Col, len(node.Args))
		}
	}
	if (name == "sublist" || name == "slice") && len(node.Args) == 2 {
		name = "sublist"
	}
	if lowered, ok := methodLowerings[name]; ok {
		name = lowered
	}

	args, err := g.genArgs(node.Args)
	if err != nil {
		return "", err
	}
	return "(" + object + ")." + name + "(" + args + ")", nil
}

func (g *ExprGen) genSubscript(node *ASTNode) (string, error) {
	value, err := g.Generate(node.Value)
	if err != nil {
		return "", err
	}
	if node.Index != nil && node.Index.Kind == NodeSlice {
		return g.genSlice(value, node.Index)
	}
	index, err := g.Generate(node.Index)
	if err != nil {
		return "", err
	}
	return "(" + value + ")[" + index + "]", nil
}

// genSlice lowers `v[a:b:c]` onto sublist. Omitted bounds default to the
// start and length of the value; a full slice `[:]` is the value itself.
func (g *ExprGen) genSlice(value string, slice *ASTNode) (string, error) {
	if slice.Start == nil && slice.Stop == nil && slice.Step == nil {
		return value, nil
	}

	start := "DynamicType(0)"
	if slice.Start != nil {
		code, err := g.Generate(slice.Start)
		if err != nil {
			return "", err
		}
		start = code
	}
	stop := "len(" + value + ")"
	if slice.Stop != nil {
		code, err := g.Generate(slice.Stop)
		if err != nil {
			return "", err
		}
		stop = code
	}

	if slice.Step == nil || isIntLiteral(slice.Step, 1) {
		return "(" + value + ").sublist(" + start + ", " + stop + ")", nil
	}
	step, err := g.Generate(slice.Step)
	if err != nil {
		return "", err
	}
	return "(" + value + ").sublist(" + start + ", " + stop + ", " + step + ")", nil
}

func isIntLiteral(node *ASTNode, value int64) bool {
	return node != nil && node.Kind == NodeInt && node.IntValue == value
}
