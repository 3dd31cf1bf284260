package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func generateString(t *testing.T, source string) string {
	t.Helper()
	l := NewLexer([]byte(source + "\x00"))
	l.NextToken()
	module := ParseProgram(l)
	be.Err(t, l.Errors.Err(), nil)

	code, err := NewCodeGenerator().Generate(module)
	be.Err(t, err, nil)
	return code
}

func TestGeneratePreamble(t *testing.T) {
	code := generateString(t, "x = 1\n")
	be.True(t, strings.HasPrefix(code, "#include \"builtins.hpp\"\nusing namespace std;\n\n"))
}

func TestGenerateMainWrapsTopLevel(t *testing.T) {
	code := generateString(t, "x = 1\nprint(x)\n")
	expected := "#include \"builtins.hpp\"\n" +
		"using namespace std;\n" +
		"\n" +
		"int main() {\n" +
		"    DynamicType x = DynamicType(1);\n" +
		"    print(x);\n" +
		"    return 0;\n" +
		"}\n"
	be.Equal(t, code, expected)
}

func TestGenerateFunctionsComeFirst(t *testing.T) {
	source := "x = 1\ndef f():\n    return 2\ny = f()\n"
	code := generateString(t, source)

	funcPos := strings.Index(code, "DynamicType _fn_f()")
	mainPos := strings.Index(code, "int main()")
	be.True(t, funcPos >= 0)
	be.True(t, mainPos >= 0)
	be.True(t, funcPos < mainPos)

	// Top-level statements keep their original order inside main.
	xPos := strings.Index(code, "DynamicType x = DynamicType(1);")
	yPos := strings.Index(code, "DynamicType y = _fn_f();")
	be.True(t, xPos >= 0)
	be.True(t, yPos >= 0)
	be.True(t, xPos < yPos)
}

func TestGenerateMainGuardElided(t *testing.T) {
	source := "def main():\n    print(1)\n\nif __name__ == \"__main__\":\n    main()\n"
	code := generateString(t, source)
	be.True(t, strings.Contains(code, "    _fn_main();\n"))
	be.True(t, !strings.Contains(code, "__main__"))
	be.True(t, !strings.Contains(code, "toBool"))
}

func TestGenerateMainGuardReversedOperands(t *testing.T) {
	source := "def main():\n    print(1)\n\nif \"__main__\" == __name__:\n    main()\n"
	code := generateString(t, source)
	be.True(t, !strings.Contains(code, "__main__"))
}

func TestGenerateMainSynthesized(t *testing.T) {
	source := "def main():\n    print(2)\n"
	code := generateString(t, source)
	be.True(t, strings.Contains(code, "int main() {\n    _fn_main();\n    return 0;\n}\n"))
}

func TestGenerateMainNotSynthesizedTwice(t *testing.T) {
	source := "def main():\n    print(2)\n\nmain()\n"
	code := generateString(t, source)
	be.Equal(t, strings.Count(code, "_fn_main();"), 1)
}

func TestGenerateMainCallInsideExpression(t *testing.T) {
	// A main() call nested in an expression still suppresses synthesis.
	source := "def main():\n    return 2\n\nx = main() + 1\n"
	code := generateString(t, source)
	be.True(t, strings.Contains(code, "DynamicType x = (_fn_main()) + (DynamicType(1));"))
	be.True(t, !strings.Contains(code, "    _fn_main();\n"))
	// The definition header and the expression call are the only occurrences.
	be.Equal(t, strings.Count(code, "_fn_main()"), 2)
}

func TestGenerateNoMainFunctionNoSynthesis(t *testing.T) {
	code := generateString(t, "x = 1\n")
	be.True(t, !strings.Contains(code, "_fn_main"))
}

func TestGenerateFlagsUniqueAcrossFunctions(t *testing.T) {
	source := "def f():\n" +
		"    while True:\n" +
		"        break\n" +
		"    else:\n" +
		"        pass\n" +
		"\n" +
		"while True:\n" +
		"    break\n" +
		"else:\n" +
		"    pass\n"
	code := generateString(t, source)
	be.True(t, strings.Contains(code, "_while_done_1"))
	be.True(t, strings.Contains(code, "_while_done_2"))
}

func TestGenerateErrorStopsOutput(t *testing.T) {
	l := NewLexer([]byte("x += 1\n\x00"))
	l.NextToken()
	module := ParseProgram(l)
	be.Err(t, l.Errors.Err(), nil)

	code, err := NewCodeGenerator().Generate(module)
	be.True(t, err != nil)
	be.Equal(t, code, "")
}

func TestGenerateIsRepeatable(t *testing.T) {
	l := NewLexer([]byte("x = 1\nx = 2\n\x00"))
	l.NextToken()
	module := ParseProgram(l)
	be.Err(t, l.Errors.Err(), nil)

	g := NewCodeGenerator()
	first, err := g.Generate(module)
	be.Err(t, err, nil)
	second, err := g.Generate(module)
	be.Err(t, err, nil)
	be.Equal(t, first, second)
}
