package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func genExprString(t *testing.T, source string) string {
	t.Helper()
	l := NewLexer([]byte(source + "\x00"))
	l.NextToken()
	node := ParseExpression(l)
	be.Err(t, l.Errors.Err(), nil)

	code, err := NewExprGen(NewScope()).Generate(node)
	be.Err(t, err, nil)
	return code
}

func TestGenLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "DynamicType(42)"},
		{"3.5", "DynamicType(3.5)"},
		{"2.0", "DynamicType(2.0)"},
		{`"hi"`, `DynamicType(std::string("hi"))`},
		{`"a\nb"`, `DynamicType(std::string("a\nb"))`},
		{`"say \"hi\""`, `DynamicType(std::string("say \"hi\""))`},
		{"True", "DynamicType(true)"},
		{"False", "DynamicType(false)"},
		{"None", "DynamicType()"},
		{"x", "x"},
		{"__name__", `DynamicType(std::string("__main__"))`},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenUnary(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-x", "(DynamicType(0) - (x))"},
		{"not x", "(!(x))"},
		{"-5", "(DynamicType(0) - (DynamicType(5)))"},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenBinary(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b", "(a) + (b)"},
		{"a - b", "(a) - (b)"},
		{"a * b", "(a) * (b)"},
		{"a / b", "(a) / (b)"},
		{"a % b", "(a) % (b)"},
		{"a ** b", "DynamicType(pow((a).toFloat(), (b).toFloat()))"},
		{"a // b", "(a).floor_div(b)"},
		{"a and b", "DynamicType((a).toBool() && (b).toBool())"},
		{"a or b", "DynamicType((a).toBool() || (b).toBool())"},
		{"1 + 2 * 3", "(DynamicType(1)) + ((DynamicType(2)) * (DynamicType(3)))"},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenCompare(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a < b", "DynamicType((a) < (b))"},
		{"a <= b", "DynamicType((a) <= (b))"},
		{"a == b", "DynamicType((a) == (b))"},
		{"a != b", "DynamicType((a) != (b))"},
		// Membership swaps operands onto the container.
		{"a in b", "DynamicType((b).contains(a))"},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenCalls(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print(x)", "print(x)"},
		{"len(xs)", "len(xs)"},
		{"range(5)", "range(DynamicType(5))"},
		{"str(1)", "str(DynamicType(1))"},
		{"int(x)", "int_(x)"},
		{"float(x)", "float_(x)"},
		{"bool(x)", "bool_(x)"},
		{"set()", "set_()"},
		{"input()", "input()"},
		{"fib(10)", "_fn_fib(DynamicType(10))"},
		{"f(a, b)", "_fn_f(a, b)"},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenMethodCalls(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"xs.append(4)", "(xs).append(DynamicType(4))"},
		{"xs.remove(1)", "(xs).remove(DynamicType(1))"},
		{"d.get(k)", "(d).get(k)"},
		{"s.add(1)", "(s).add(DynamicType(1))"},
		{"s.discard(1)", "(s).remove(DynamicType(1))"},
		{"xs.pop()", "(xs).removeAt(DynamicType(-1))"},
		{`d.pop("k")`, `(d).removeKey(DynamicType(std::string("k")))`},
		{"xs.sublist(a, b)", "(xs).sublist(a, b)"},
		{"xs.slice(a, b)", "(xs).sublist(a, b)"},
		{"xs.sort()", "(xs).sort()"},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenPopTooManyArgs(t *testing.T) {
	l := NewLexer([]byte("xs.pop(1, 2)\x00"))
	l.NextToken()
	node := ParseExpression(l)
	be.Err(t, l.Errors.Err(), nil)

	_, err := NewExprGen(NewScope()).Generate(node)
	be.True(t, err != nil)
}

func TestGenSubscript(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"xs[0]", "(xs)[DynamicType(0)]"},
		{"xs[i + 1]", "(xs)[(i) + (DynamicType(1))]"},
		{"m[k][0]", "((m)[k])[DynamicType(0)]"},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenSlices(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"xs[1:3]", "(xs).sublist(DynamicType(1), DynamicType(3))"},
		{"xs[:3]", "(xs).sublist(DynamicType(0), DynamicType(3))"},
		{"xs[1:]", "(xs).sublist(DynamicType(1), len(xs))"},
		{"xs[1:5:2]", "(xs).sublist(DynamicType(1), DynamicType(5), DynamicType(2))"},
		{"xs[::2]", "(xs).sublist(DynamicType(0), len(xs), DynamicType(2))"},
		// A step of literal 1 uses the two-argument form.
		{"xs[1:3:1]", "(xs).sublist(DynamicType(1), DynamicType(3))"},
		// A full slice is the value itself.
		{"xs[:]", "xs"},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenAttributeAccess(t *testing.T) {
	result := genExprString(t, "obj.field")
	be.Equal(t, result, "(obj).field")
}
