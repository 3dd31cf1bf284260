package mdtest

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseAtom(t *testing.T) {
	node, err := Parse("module")
	be.Err(t, err, nil)
	be.Equal(t, node.Type, NodeSymbol)
	be.Equal(t, node.Text, "module")
}

func TestParseNumber(t *testing.T) {
	node, err := Parse("42")
	be.Err(t, err, nil)
	be.Equal(t, node.Type, NodeNumber)
	be.Equal(t, node.Text, "42")

	node, err = Parse("-3.5")
	be.Err(t, err, nil)
	be.Equal(t, node.Type, NodeNumber)
	be.Equal(t, node.Text, "-3.5")
}

func TestParseString(t *testing.T) {
	node, err := Parse(`"hello\nworld"`)
	be.Err(t, err, nil)
	be.Equal(t, node.Type, NodeString)
	be.Equal(t, node.Text, "hello\nworld")
}

func TestParseList(t *testing.T) {
	node, err := Parse(`(binary "+" (int 1) (int 2))`)
	be.Err(t, err, nil)
	be.Equal(t, node.Type, NodeList)
	be.Equal(t, len(node.Items), 4)
	be.Equal(t, node.Items[0].Text, "binary")
	be.Equal(t, node.Items[1].Type, NodeString)
	be.Equal(t, node.Items[2].Type, NodeList)
}

func TestParseWildcardAndEllipsis(t *testing.T) {
	node, err := Parse("(module _ ...)")
	be.Err(t, err, nil)
	be.Equal(t, node.Items[1].Type, NodeWildcard)
	be.Equal(t, node.Items[2].Type, NodeEllipsis)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"(unclosed",
		")",
		`"unterminated`,
		"(a) trailing",
		"",
	}
	for _, input := range tests {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q): expected error, got none", input)
		}
	}
}

func TestMatchExact(t *testing.T) {
	pattern, err := Parse(`(int 42)`)
	be.Err(t, err, nil)
	actual, err := Parse(`(int 42)`)
	be.Err(t, err, nil)
	be.True(t, Match(pattern, actual))
}

func TestMatchWildcard(t *testing.T) {
	pattern, err := Parse(`(assign "=" (ident "x") _)`)
	be.Err(t, err, nil)
	actual, err := Parse(`(assign "=" (ident "x") (binary "+" (int 1) (int 2)))`)
	be.Err(t, err, nil)
	be.True(t, Match(pattern, actual))
}

func TestMatchEllipsis(t *testing.T) {
	pattern, err := Parse(`(module (def "fib" ...) ...)`)
	be.Err(t, err, nil)
	actual, err := Parse(`(module (def "fib" (params "n") (block)) (expr (call (ident "fib") (int 10))))`)
	be.Err(t, err, nil)
	be.True(t, Match(pattern, actual))
}

func TestMatchEllipsisMidList(t *testing.T) {
	pattern, err := Parse(`(block ... (return _))`)
	be.Err(t, err, nil)
	actual, err := Parse(`(block (pass) (pass) (return (int 1)))`)
	be.Err(t, err, nil)
	be.True(t, Match(pattern, actual))

	noReturn, err := Parse(`(block (pass))`)
	be.Err(t, err, nil)
	be.True(t, !Match(pattern, noReturn))
}

func TestMatchRejectsDifferences(t *testing.T) {
	tests := []struct {
		pattern string
		actual  string
	}{
		{`(int 42)`, `(int 43)`},
		{`(ident "x")`, `(ident "y")`},
		{`(block (pass))`, `(block (pass) (pass))`},
		{`(int 1)`, `(float 1)`},
		{`"a"`, `a`},
	}
	for _, tt := range tests {
		pattern, err := Parse(tt.pattern)
		be.Err(t, err, nil)
		actual, err := Parse(tt.actual)
		be.Err(t, err, nil)
		if Match(pattern, actual) {
			t.Errorf("Match(%s, %s): expected no match", tt.pattern, tt.actual)
		}
	}
}
