package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func genFuncString(t *testing.T, source string) string {
	t.Helper()
	def := parseStmtNode(t, source)
	be.Equal(t, def.Kind, NodeFuncDef)

	code, err := NewFuncGen(NewScope(), &genState{}).Generate(def)
	be.Err(t, err, nil)
	return code
}

func TestGenFuncSignatureAndReturn(t *testing.T) {
	code := genFuncString(t, "def add(a, b):\n    return a + b\n")
	expected := "DynamicType _fn_add(DynamicType a, DynamicType b) {\n" +
		"    return (a) + (b);\n" +
		"}\n"
	be.Equal(t, code, expected)
}

func TestGenFuncNoParams(t *testing.T) {
	code := genFuncString(t, "def f():\n    return 1\n")
	be.True(t, strings.HasPrefix(code, "DynamicType _fn_f() {"))
}

func TestGenFuncImplicitReturn(t *testing.T) {
	code := genFuncString(t, "def greet():\n    print(\"hi\")\n")
	expected := "DynamicType _fn_greet() {\n" +
		"    print(DynamicType(std::string(\"hi\")));\n" +
		"    return DynamicType();\n" +
		"}\n"
	be.Equal(t, code, expected)
}

func TestGenFuncImplicitReturnAfterNestedReturn(t *testing.T) {
	// Returns inside control flow do not cover the fallthrough path.
	code := genFuncString(t, "def f(n):\n    if n:\n        return n\n")
	be.True(t, strings.Contains(code, "return n;"))
	be.True(t, strings.HasSuffix(code, "    return DynamicType();\n}\n"))
}

func TestGenFuncParamsAreDeclared(t *testing.T) {
	// Assigning to a parameter reassigns rather than redeclares.
	code := genFuncString(t, "def f(x):\n    x = 1\n    return x\n")
	be.True(t, strings.Contains(code, "    x = DynamicType(1);\n"))
	be.True(t, !strings.Contains(code, "DynamicType x = DynamicType(1);"))
}

func TestGenFuncDuplicateParams(t *testing.T) {
	def := parseStmtNode(t, "def f(a, a):\n    pass\n")
	_, err := NewFuncGen(NewScope(), &genState{}).Generate(def)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "duplicate parameter"))
}

func TestGenFuncScopePoppedOnError(t *testing.T) {
	scope := NewScope()
	def := parseStmtNode(t, "def f():\n    break\n")
	_, err := NewFuncGen(scope, &genState{}).Generate(def)
	be.True(t, err != nil)
	be.Equal(t, scope.Depth(), 1)
}

func TestGenFuncLocalsDoNotLeak(t *testing.T) {
	scope := NewScope()
	def := parseStmtNode(t, "def f():\n    local = 1\n")
	_, err := NewFuncGen(scope, &genState{}).Generate(def)
	be.Err(t, err, nil)
	be.True(t, !scope.Exists("local"))
}
