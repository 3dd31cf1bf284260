package main

import (
	"fmt"
	"strings"
)

// FuncGen generates C++ function definitions. Every function takes and
// returns DynamicType; user functions get a _fn_ prefix so they can never
// collide with the runtime's free functions or C++ keywords.
type FuncGen struct {
	scope *Scope
	state *genState
}

func NewFuncGen(scope *Scope, state *genState) *FuncGen {
	return &FuncGen{scope: scope, state: state}
}

// Generate returns the full C++ definition for a function.
func (g *FuncGen) Generate(def *ASTNode) (string, error) {
	g.scope.EnterScope()
	defer g.scope.Pop()

	params := make([]string, 0, len(def.Children))
	seen := map[string]bool{}
	for _, param := range def.Children {
		if seen[param.Str] {
			return "", fmt.Errorf("line %d:%d: duplicate parameter %q in function %q",
				param.Line, param.Col, param.Str, def.Str)
		}
		seen[param.Str] = true
		g.scope.Declare(param.Str)
		params = append(params, "DynamicType "+param.Str)
	}

	flow := NewFlowGen(g.scope, g.state)
	if err := flow.GenBlock(def.Body); err != nil {
		return "", err
	}

	body := flow.Code()
	if !hasTopLevelReturn(def.Body) {
		body += "    return DynamicType();\n"
	}

	return "DynamicType _fn_" + def.Str + "(" + strings.Join(params, ", ") + ") {\n" +
		body + "}\n", nil
}

// hasTopLevelReturn reports whether a block ends up at a return statement
// on its own level. Returns nested in control flow do not count; the
// fallthrough path still needs the implicit None return.
func hasTopLevelReturn(block *ASTNode) bool {
	if block == nil {
		return false
	}
	for _, stmt := range block.Children {
		if stmt.Kind == NodeReturn {
			return true
		}
	}
	return false
}
