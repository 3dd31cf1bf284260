package main

import (
	"strconv"
	"strings"
)

// NodeKind represents different types of AST nodes
type NodeKind string

const (
	NodeModule NodeKind = "NodeModule"

	// Expressions
	NodeInt       NodeKind = "NodeInt"
	NodeFloat     NodeKind = "NodeFloat"
	NodeString    NodeKind = "NodeString"
	NodeBool      NodeKind = "NodeBool"
	NodeNone      NodeKind = "NodeNone"
	NodeIdent     NodeKind = "NodeIdent"
	NodeUnary     NodeKind = "NodeUnary"
	NodeBinary    NodeKind = "NodeBinary"
	NodeCompare   NodeKind = "NodeCompare"
	NodeCall      NodeKind = "NodeCall"
	NodeList      NodeKind = "NodeList"
	NodeTuple     NodeKind = "NodeTuple"
	NodeSet       NodeKind = "NodeSet"
	NodeDict      NodeKind = "NodeDict"
	NodeSubscript NodeKind = "NodeSubscript"
	NodeSlice     NodeKind = "NodeSlice"
	NodeAttribute NodeKind = "NodeAttribute"

	// Statements
	NodeAssign   NodeKind = "NodeAssign"
	NodeExprStmt NodeKind = "NodeExprStmt"
	NodeReturn   NodeKind = "NodeReturn"
	NodeBreak    NodeKind = "NodeBreak"
	NodeContinue NodeKind = "NodeContinue"
	NodePass     NodeKind = "NodePass"
	NodeImport   NodeKind = "NodeImport"
	NodeIf       NodeKind = "NodeIf"
	NodeWhile    NodeKind = "NodeWhile"
	NodeFor      NodeKind = "NodeFor"
	NodeBlock    NodeKind = "NodeBlock"
	NodeFuncDef  NodeKind = "NodeFuncDef"
)

// ElifClause is one `elif cond:` arm of an if statement.
type ElifClause struct {
	Cond *ASTNode
	Body *ASTNode // NodeBlock
}

// DictPair is one `key: value` entry of a dict display.
type DictPair struct {
	Key   *ASTNode
	Value *ASTNode
}

// ASTNode represents a node in the Abstract Syntax Tree. Which fields are
// meaningful depends on Kind; the groups below are annotated with the kinds
// that use them. Nodes are treated as immutable once the parser returns.
type ASTNode struct {
	Kind NodeKind
	Line int
	Col  int

	// NodeInt / NodeFloat / NodeBool:
	IntValue   int64
	FloatValue float64
	BoolValue  bool
	// NodeString (value), NodeIdent (name), NodeAttribute (attribute name),
	// NodeImport (module name), NodeFuncDef (function name):
	Str string
	// NodeUnary, NodeBinary, NodeCompare, NodeAssign (the assignment op):
	Op string
	// NodeBinary, NodeCompare:
	Left  *ASTNode
	Right *ASTNode
	// NodeUnary:
	Operand *ASTNode
	// NodeCall:
	Callee *ASTNode
	Args   []*ASTNode
	// NodeModule/NodeBlock statements, NodeList/NodeTuple/NodeSet elements,
	// NodeFuncDef parameters (NodeIdent each):
	Children []*ASTNode
	// NodeDict:
	Pairs []DictPair
	// NodeAssign (Target, Value), NodeSubscript (Value, Index),
	// NodeAttribute (Value), NodeReturn (optional Value), NodeExprStmt (Value):
	Target *ASTNode
	Value  *ASTNode
	Index  *ASTNode
	// NodeSlice; any part may be nil for an omitted bound:
	Start *ASTNode
	Stop  *ASTNode
	Step  *ASTNode
	// NodeIf (Cond, Body, Elifs, Else), NodeWhile (Cond, Body, Else),
	// NodeFor (Target, Iter, Body, Else):
	Cond  *ASTNode
	Body  *ASTNode // NodeBlock
	Elifs []ElifClause
	Else  *ASTNode // NodeBlock, nil when absent
	Iter  *ASTNode
}

// ToSExpr renders a node as an s-expression, for diagnostics and tests.
func ToSExpr(node *ASTNode) string {
	if node == nil {
		return "_"
	}
	switch node.Kind {
	case NodeModule:
		return sexprSeq("module", node.Children)
	case NodeInt:
		return "(int " + strconv.FormatInt(node.IntValue, 10) + ")"
	case NodeFloat:
		return "(float " + strconv.FormatFloat(node.FloatValue, 'g', -1, 64) + ")"
	case NodeString:
		return "(string " + strconv.Quote(node.Str) + ")"
	case NodeBool:
		if node.BoolValue {
			return "(bool true)"
		}
		return "(bool false)"
	case NodeNone:
		return "(none)"
	case NodeIdent:
		return "(ident \"" + node.Str + "\")"
	case NodeUnary:
		return "(unary \"" + node.Op + "\" " + ToSExpr(node.Operand) + ")"
	case NodeBinary:
		return "(binary \"" + node.Op + "\" " + ToSExpr(node.Left) + " " + ToSExpr(node.Right) + ")"
	case NodeCompare:
		return "(compare \"" + node.Op + "\" " + ToSExpr(node.Left) + " " + ToSExpr(node.Right) + ")"
	case NodeCall:
		result := "(call " + ToSExpr(node.Callee)
		for _, arg := range node.Args {
			result += " " + ToSExpr(arg)
		}
		return result + ")"
	case NodeList:
		return sexprSeq("list", node.Children)
	case NodeTuple:
		return sexprSeq("tuple", node.Children)
	case NodeSet:
		return sexprSeq("set", node.Children)
	case NodeDict:
		result := "(dict"
		for _, pair := range node.Pairs {
			result += " (pair " + ToSExpr(pair.Key) + " " + ToSExpr(pair.Value) + ")"
		}
		return result + ")"
	case NodeSubscript:
		return "(idx " + ToSExpr(node.Value) + " " + ToSExpr(node.Index) + ")"
	case NodeSlice:
		return "(slice " + ToSExpr(node.Start) + " " + ToSExpr(node.Stop) + " " + ToSExpr(node.Step) + ")"
	case NodeAttribute:
		return "(attr " + ToSExpr(node.Value) + " \"" + node.Str + "\")"
	case NodeAssign:
		return "(assign \"" + node.Op + "\" " + ToSExpr(node.Target) + " " + ToSExpr(node.Value) + ")"
	case NodeExprStmt:
		return "(expr " + ToSExpr(node.Value) + ")"
	case NodeReturn:
		if node.Value == nil {
			return "(return)"
		}
		return "(return " + ToSExpr(node.Value) + ")"
	case NodeBreak:
		return "(break)"
	case NodeContinue:
		return "(continue)"
	case NodePass:
		return "(pass)"
	case NodeImport:
		return "(import \"" + node.Str + "\")"
	case NodeIf:
		result := "(if " + ToSExpr(node.Cond) + " " + ToSExpr(node.Body)
		for _, clause := range node.Elifs {
			result += " (elif " + ToSExpr(clause.Cond) + " " + ToSExpr(clause.Body) + ")"
		}
		if node.Else != nil {
			result += " (else " + ToSExpr(node.Else) + ")"
		}
		return result + ")"
	case NodeWhile:
		result := "(while " + ToSExpr(node.Cond) + " " + ToSExpr(node.Body)
		if node.Else != nil {
			result += " (else " + ToSExpr(node.Else) + ")"
		}
		return result + ")"
	case NodeFor:
		result := "(for " + ToSExpr(node.Target) + " " + ToSExpr(node.Iter) + " " + ToSExpr(node.Body)
		if node.Else != nil {
			result += " (else " + ToSExpr(node.Else) + ")"
		}
		return result + ")"
	case NodeBlock:
		return sexprSeq("block", node.Children)
	case NodeFuncDef:
		var params []string
		for _, p := range node.Children {
			params = append(params, "\""+p.Str+"\"")
		}
		result := "(def \"" + node.Str + "\" (params"
		if len(params) > 0 {
			result += " " + strings.Join(params, " ")
		}
		return result + ") " + ToSExpr(node.Body) + ")"
	default:
		return ""
	}
}

func sexprSeq(tag string, children []*ASTNode) string {
	result := "(" + tag
	for _, child := range children {
		result += " " + ToSExpr(child)
	}
	return result + ")"
}
