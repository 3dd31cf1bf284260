package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputLanguage is the fence language marking a test case's source input.
const InputLanguage = "python"

// AssertionType is the fence language of an assertion.
type AssertionType string

const (
	// AssertionAST matches an s-expression pattern against the parsed AST.
	AssertionAST AssertionType = "ast"
	// AssertionCppContains requires every non-blank line of the fence to
	// appear in the generated C++.
	AssertionCppContains AssertionType = "cpp-contains"
	// AssertionCppExcludes requires every non-blank line of the fence to be
	// absent from the generated C++.
	AssertionCppExcludes AssertionType = "cpp-excludes"
	// AssertionErrorContains requires transpilation to fail with a message
	// containing every non-blank line of the fence.
	AssertionErrorContains AssertionType = "error-contains"
)

// Assertion is a single assertion fence of a test case.
type Assertion struct {
	Type    AssertionType
	Content string
	Pattern *Node // parsed pattern, only for AssertionAST
}

// Needles returns the fence content as independent substring needles, one
// per non-blank line, trimmed.
func (a Assertion) Needles() []string {
	var needles []string
	for _, line := range strings.Split(a.Content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			needles = append(needles, line)
		}
	}
	return needles
}

// TestCase is one extracted test: a name, a source input and its
// assertions.
type TestCase struct {
	Name       string
	Input      string
	Assertions []Assertion
}

// ExpectsError reports whether the case asserts a transpilation failure.
func (tc TestCase) ExpectsError() bool {
	for _, a := range tc.Assertions {
		if a.Type == AssertionErrorContains {
			return true
		}
	}
	return false
}

// ExtractTestCases parses a Markdown document and returns its test cases.
// Fences with unknown languages inside a test case are an error so typos in
// assertion names cannot silently skip checks.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)
	doc := md.Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	flush := func() error {
		if current == nil {
			return nil
		}
		if current.Input == "" {
			return fmt.Errorf("test %q has no %s input fence", current.Name, InputLanguage)
		}
		if len(current.Assertions) == 0 {
			return fmt.Errorf("test %q has no assertion fences", current.Name)
		}
		testCases = append(testCases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(n, source)
			if strings.HasPrefix(headingText, "Test: ") {
				if err := flush(); err != nil {
					return ast.WalkStop, err
				}
				current = &TestCase{Name: strings.TrimPrefix(headingText, "Test: ")}
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			if language == "" {
				return ast.WalkContinue, nil
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("%s fence found outside of a test case", language)
			}
			content := strings.TrimRight(extractCodeBlockContent(n, source), "\n")

			if language == InputLanguage {
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("multiple input fences in test %q", current.Name)
				}
				current.Input = content
				return ast.WalkContinue, nil
			}

			assertion := Assertion{Type: AssertionType(language), Content: content}
			switch assertion.Type {
			case AssertionAST:
				pattern, err := Parse(content)
				if err != nil {
					return ast.WalkStop, fmt.Errorf("bad ast pattern in test %q: %w", current.Name, err)
				}
				assertion.Pattern = pattern
			case AssertionCppContains, AssertionCppExcludes, AssertionErrorContains:
				// Needle assertions carry their content as-is.
			default:
				return ast.WalkStop, fmt.Errorf("unknown fence language %q in test %q", language, current.Name)
			}
			current.Assertions = append(current.Assertions, assertion)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return testCases, nil
}

func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}
