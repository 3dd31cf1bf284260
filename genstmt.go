package main

import "fmt"

// StmtGen generates single C++ statements (assignments, returns, bare
// expressions). It owns the declare-or-reassign decision: the first binding
// of a name visible from the current scope emits a DynamicType declaration,
// later bindings plain assignments. Control flow lives in FlowGen.
type StmtGen struct {
	scope *Scope
	expr  *ExprGen
}

func NewStmtGen(scope *Scope, expr *ExprGen) *StmtGen {
	return &StmtGen{scope: scope, expr: expr}
}

// GenAssign generates `=` and the augmented assignment forms.
func (g *StmtGen) GenAssign(node *ASTNode) (string, error) {
	rhs, err := g.expr.Generate(node.Value)
	if err != nil {
		return "", err
	}

	target := node.Target
	if target == nil {
		return "", fmt.Errorf("line %d:%d: assignment without a target", node.Line, node.Col)
	}
	switch target.Kind {
	case NodeIdent:
		return g.genNameAssign(node, target.Str, rhs)
	case NodeSubscript, NodeAttribute:
		lhs, err := g.expr.Generate(target)
		if err != nil {
			return "", err
		}
		return genAssignTo(node, lhs, rhs)
	case NodeTuple, NodeList:
		return "", fmt.Errorf("line %d:%d: unpacking assignment is not supported", node.Line, node.Col)
	default:
		return "", fmt.Errorf("line %d:%d: assignment to %s is not supported", node.Line, node.Col, target.Kind)
	}
}

func (g *StmtGen) genNameAssign(node *ASTNode, name, rhs string) (string, error) {
	if node.Op == "=" {
		if !g.scope.Exists(name) {
			g.scope.Declare(name)
			return "DynamicType " + name + " = " + rhs + ";", nil
		}
		return name + " = " + rhs + ";", nil
	}
	if !g.scope.Exists(name) {
		return "", fmt.Errorf("line %d:%d: variable %q used before declaration in augmented assignment",
			node.Line, node.Col, name)
	}
	return genAssignTo(node, name, rhs)
}

// genAssignTo desugars an (augmented) assignment onto an lvalue expression.
func genAssignTo(node *ASTNode, lhs, rhs string) (string, error) {
	switch node.Op {
	case "=":
		return lhs + " = " + rhs + ";", nil
	case "+=", "-=", "*=", "/=", "%=":
		baseOp := node.Op[:1]
		return lhs + " = (" + lhs + ") " + baseOp + " (" + rhs + ");", nil
	case "//=":
		return lhs + " = (" + lhs + ").floor_div(" + rhs + ");", nil
	case "**=":
		return lhs + " = (" + lhs + ").pow(" + rhs + ");", nil
	default:
		return "", fmt.Errorf("line %d:%d: assignment operator %q is not supported", node.Line, node.Col, node.Op)
	}
}

// GenReturn generates a return statement; a bare `return` yields the
// runtime's None value.
func (g *StmtGen) GenReturn(node *ASTNode) (string, error) {
	if node.Value == nil {
		return "return DynamicType();", nil
	}
	value, err := g.expr.Generate(node.Value)
	if err != nil {
		return "", err
	}
	return "return " + value + ";", nil
}

func (g *StmtGen) GenExprStmt(node *ASTNode) (string, error) {
	code, err := g.expr.Generate(node.Value)
	if err != nil {
		return "", err
	}
	return code + ";", nil
}
