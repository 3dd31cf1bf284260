package main

import "strings"

const cppPreamble = "#include \"builtins.hpp\"\nusing namespace std;\n\n"

// CodeGenerator orchestrates the sub-generators over a whole module:
// function definitions first (in source order), then the remaining
// top-level statements inside int main(). One Scope instance is shared by
// pointer with every sub-generator, so declarations made anywhere are
// visible everywhere.
type CodeGenerator struct {
	scope *Scope
	state *genState
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{scope: NewScope(), state: &genState{}}
}

// Generate produces the complete C++ translation unit for a module.
func (g *CodeGenerator) Generate(module *ASTNode) (string, error) {
	g.scope.Reset()
	*g.state = genState{}

	var funcs []*ASTNode
	var topLevel []*ASTNode
	for _, stmt := range module.Children {
		if stmt.Kind == NodeFuncDef {
			funcs = append(funcs, stmt)
			continue
		}
		if isMainGuard(stmt) {
			// `if __name__ == "__main__":` always holds in the generated
			// program; inline its body.
			topLevel = append(topLevel, stmt.Body.Children...)
			continue
		}
		topLevel = append(topLevel, stmt)
	}

	var out strings.Builder
	out.WriteString(cppPreamble)

	funcGen := NewFuncGen(g.scope, g.state)
	for _, def := range funcs {
		g.scope.Declare(def.Str)
		code, err := funcGen.Generate(def)
		if err != nil {
			return "", err
		}
		out.WriteString(code)
		out.WriteByte('\n')
	}

	g.scope.EnterScope()
	defer g.scope.Pop()

	flow := NewFlowGen(g.scope, g.state)
	if err := flow.GenBlock(&ASTNode{Kind: NodeBlock, Children: topLevel}); err != nil {
		return "", err
	}
	if hasFunction(funcs, "main") && !anyCallsFunction(topLevel, "main") {
		flow.emit("_fn_main();")
	}

	out.WriteString("int main() {\n")
	out.WriteString(flow.Code())
	out.WriteString("    return 0;\n}\n")
	return out.String(), nil
}

// isMainGuard recognizes a bare `if __name__ == "__main__":` statement.
func isMainGuard(stmt *ASTNode) bool {
	if stmt.Kind != NodeIf || len(stmt.Elifs) > 0 || stmt.Else != nil || stmt.Body == nil {
		return false
	}
	cond := stmt.Cond
	if cond == nil || cond.Kind != NodeCompare || cond.Op != "==" {
		return false
	}
	return isNameDunderMain(cond.Left, cond.Right) || isNameDunderMain(cond.Right, cond.Left)
}

func isNameDunderMain(name, value *ASTNode) bool {
	return name != nil && name.Kind == NodeIdent && name.Str == "__name__" &&
		value != nil && value.Kind == NodeString && value.Str == "__main__"
}

func hasFunction(funcs []*ASTNode, name string) bool {
	for _, def := range funcs {
		if def.Str == name {
			return true
		}
	}
	return false
}

func anyCallsFunction(stmts []*ASTNode, name string) bool {
	for _, stmt := range stmts {
		if callsFunction(stmt, name) {
			return true
		}
	}
	return false
}

// callsFunction walks a subtree looking for a call to the named function.
func callsFunction(node *ASTNode, name string) bool {
	if node == nil {
		return false
	}
	if node.Kind == NodeCall && node.Callee != nil &&
		node.Callee.Kind == NodeIdent && node.Callee.Str == name {
		return true
	}
	children := []*ASTNode{
		node.Left, node.Right, node.Operand, node.Callee,
		node.Target, node.Value, node.Index,
		node.Start, node.Stop, node.Step,
		node.Cond, node.Body, node.Else, node.Iter,
	}
	children = append(children, node.Args...)
	children = append(children, node.Children...)
	for _, pair := range node.Pairs {
		children = append(children, pair.Key, pair.Value)
	}
	for _, clause := range node.Elifs {
		children = append(children, clause.Cond, clause.Body)
	}
	for _, child := range children {
		if callsFunction(child, name) {
			return true
		}
	}
	return false
}

// Transpile runs the whole pipeline over source text and returns the C++
// translation unit.
func Transpile(source []byte) (string, error) {
	if len(source) == 0 || source[len(source)-1] != 0 {
		source = append(source, 0)
	}
	lexer := NewLexer(source)
	lexer.NextToken()
	module := ParseProgram(lexer)
	if err := lexer.Errors.Err(); err != nil {
		return "", err
	}
	return NewCodeGenerator().Generate(module)
}
