package main

import (
	"fmt"
	"strconv"
	"strings"
)

// genState carries the counters shared by every generator working on one
// program, so flag and temp names never collide across functions.
type genState struct {
	flagSeq int
	tempSeq int
}

func (s *genState) nextFlag(prefix string) string {
	s.flagSeq++
	return "_" + prefix + "_done_" + strconv.Itoa(s.flagSeq)
}

func (s *genState) nextIterTemp() string {
	s.tempSeq++
	return "_iter_" + strconv.Itoa(s.tempSeq)
}

// FlowGen generates statement sequences: control flow plus the simple
// statements it delegates to StmtGen. One FlowGen writes one brace region
// (a function body or the main section) into its buffer.
//
// Loop-else is lowered with a completion flag declared before the loop;
// break clears the innermost flag before breaking. Loops without an else
// push an empty sentinel so a break inside them never touches an outer
// loop's flag.
type FlowGen struct {
	scope *Scope
	state *genState
	expr  *ExprGen
	stmt  *StmtGen

	out       strings.Builder
	indent    int
	loopFlags []string
}

func NewFlowGen(scope *Scope, state *genState) *FlowGen {
	expr := NewExprGen(scope)
	return &FlowGen{
		scope:  scope,
		state:  state,
		expr:   expr,
		stmt:   NewStmtGen(scope, expr),
		indent: 1,
	}
}

// Code returns everything generated so far.
func (g *FlowGen) Code() string {
	return g.out.String()
}

func (g *FlowGen) emit(line string) {
	for i := 0; i < g.indent; i++ {
		g.out.WriteString("    ")
	}
	g.out.WriteString(line)
	g.out.WriteByte('\n')
}

// GenBlock generates every statement of a Block (or Module) node at the
// current indentation.
func (g *FlowGen) GenBlock(block *ASTNode) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Children {
		if err := g.GenStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *FlowGen) GenStatement(node *ASTNode) error {
	switch node.Kind {
	case NodeAssign:
		line, err := g.stmt.GenAssign(node)
		if err != nil {
			return err
		}
		g.emit(line)
		return nil
	case NodeReturn:
		line, err := g.stmt.GenReturn(node)
		if err != nil {
			return err
		}
		g.emit(line)
		return nil
	case NodeExprStmt:
		line, err := g.stmt.GenExprStmt(node)
		if err != nil {
			return err
		}
		g.emit(line)
		return nil
	case NodePass:
		g.emit(";")
		return nil
	case NodeImport:
		// Imports are accepted for source compatibility and generate nothing.
		return nil
	case NodeBreak:
		return g.genBreak(node)
	case NodeContinue:
		if len(g.loopFlags) == 0 {
			return fmt.Errorf("line %d:%d: 'continue' outside loop", node.Line, node.Col)
		}
		g.emit("continue;")
		return nil
	case NodeIf:
		return g.genIf(node)
	case NodeWhile:
		return g.genWhile(node)
	case NodeFor:
		return g.genFor(node)
	case NodeFuncDef:
		return fmt.Errorf("line %d:%d: nested function definitions are not supported", node.Line, node.Col)
	default:
		return fmt.Errorf("line %d:%d: unsupported statement node %s", node.Line, node.Col, node.Kind)
	}
}

// genCondition coerces a condition expression to a C++ bool.
func (g *FlowGen) genCondition(node *ASTNode) (string, error) {
	cond, err := g.expr.Generate(node)
	if err != nil {
		return "", err
	}
	return "((" + cond + ")).toBool()", nil
}

func (g *FlowGen) genBreak(node *ASTNode) error {
	if len(g.loopFlags) == 0 {
		return fmt.Errorf("line %d:%d: 'break' outside loop", node.Line, node.Col)
	}
	if flag := g.loopFlags[len(g.loopFlags)-1]; flag != "" {
		g.emit(flag + " = false;")
	}
	g.emit("break;")
	return nil
}

func (g *FlowGen) genIf(node *ASTNode) error {
	cond, err := g.genCondition(node.Cond)
	if err != nil {
		return err
	}
	g.emit("if (" + cond + ") {")
	g.indent++
	if err := g.GenBlock(node.Body); err != nil {
		return err
	}
	g.indent--

	for _, clause := range node.Elifs {
		cond, err := g.genCondition(clause.Cond)
		if err != nil {
			return err
		}
		g.emit("} else if (" + cond + ") {")
		g.indent++
		if err := g.GenBlock(clause.Body); err != nil {
			return err
		}
		g.indent--
	}
	if node.Else != nil {
		g.emit("} else {")
		g.indent++
		if err := g.GenBlock(node.Else); err != nil {
			return err
		}
		g.indent--
	}
	g.emit("}")
	return nil
}

// genLoopBody runs a loop body with the completion flag (or sentinel)
// pushed, restoring the stack afterwards.
func (g *FlowGen) genLoopBody(body *ASTNode, flag string) error {
	g.loopFlags = append(g.loopFlags, flag)
	g.indent++
	err := g.GenBlock(body)
	g.indent--
	g.loopFlags = g.loopFlags[:len(g.loopFlags)-1]
	return err
}

func (g *FlowGen) genElse(flag string, body *ASTNode) error {
	g.emit("if (" + flag + ") {")
	g.indent++
	if err := g.GenBlock(body); err != nil {
		return err
	}
	g.indent--
	g.emit("}")
	return nil
}

func (g *FlowGen) genWhile(node *ASTNode) error {
	cond, err := g.genCondition(node.Cond)
	if err != nil {
		return err
	}

	flag := ""
	if node.Else != nil {
		flag = g.state.nextFlag("while")
		g.emit("bool " + flag + " = true;")
	}
	g.emit("while (" + cond + ") {")
	if err := g.genLoopBody(node.Body, flag); err != nil {
		return err
	}
	g.emit("}")

	if node.Else != nil {
		return g.genElse(flag, node.Else)
	}
	return nil
}

func (g *FlowGen) genFor(node *ASTNode) error {
	if node.Target == nil || node.Target.Kind != NodeIdent {
		return fmt.Errorf("line %d:%d: loop unpacking is not supported", node.Line, node.Col)
	}
	varName := node.Target.Str
	g.scope.Declare(varName)

	flag := ""
	if node.Else != nil {
		flag = g.state.nextFlag("for")
		g.emit("bool " + flag + " = true;")
	}

	if isRangeCall(node.Iter) {
		if err := g.genRangeFor(varName, node.Iter, node.Body, flag); err != nil {
			return err
		}
	} else {
		if err := g.genIterableFor(varName, node.Iter, node.Body, flag); err != nil {
			return err
		}
	}

	if node.Else != nil {
		return g.genElse(flag, node.Else)
	}
	return nil
}

func isRangeCall(node *ASTNode) bool {
	return node != nil &&
		node.Kind == NodeCall &&
		node.Callee != nil &&
		node.Callee.Kind == NodeIdent &&
		node.Callee.Str == "range" &&
		len(node.Args) >= 1 && len(node.Args) <= 3
}

// genRangeFor lowers `for x in range(...)` to a native counting loop,
// skipping the intermediate list the general path would build.
func (g *FlowGen) genRangeFor(varName string, rangeCall, body *ASTNode, flag string) error {
	coerce := func(arg *ASTNode) (string, error) {
		code, err := g.expr.Generate(arg)
		if err != nil {
			return "", err
		}
		return "(" + code + ").toInt()", nil
	}

	start, step := "0", "1"
	var stop string
	var err error
	args := rangeCall.Args
	switch len(args) {
	case 1:
		stop, err = coerce(args[0])
	case 2:
		if start, err = coerce(args[0]); err == nil {
			stop, err = coerce(args[1])
		}
	case 3:
		if start, err = coerce(args[0]); err == nil {
			if stop, err = coerce(args[1]); err == nil {
				step, err = coerce(args[2])
			}
		}
	}
	if err != nil {
		return err
	}

	g.emit("for (int " + varName + " = " + start + "; " +
		varName + " < " + stop + "; " +
		varName + " += " + step + ") {")
	if err := g.genLoopBody(body, flag); err != nil {
		return err
	}
	g.emit("}")
	return nil
}

// genIterableFor binds the iterable's list to a temporary in an enclosing
// block before the range-for, so iterating over a temporary value cannot
// dangle.
func (g *FlowGen) genIterableFor(varName string, iter, body *ASTNode, flag string) error {
	iterable, err := g.expr.Generate(iter)
	if err != nil {
		return err
	}
	temp := g.state.nextIterTemp()

	g.emit("{")
	g.indent++
	g.emit("auto " + temp + " = (" + iterable + ").getList();")
	g.emit("for (auto " + varName + " : " + temp + ") {")
	if err := g.genLoopBody(body, flag); err != nil {
		return err
	}
	g.emit("}")
	g.indent--
	g.emit("}")
	return nil
}
