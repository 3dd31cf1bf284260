package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/adderlang/adder/mdtest"
)

// TestMarkdownCorpus runs every test case extracted from test/*_test.md
// through the full pipeline and checks its assertions.
func TestMarkdownCorpus(t *testing.T) {
	files, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		content, err := os.ReadFile(file)
		be.Err(t, err, nil)

		cases, err := mdtest.ExtractTestCases(string(content))
		if err != nil {
			t.Fatalf("%s: %v", file, err)
		}
		for _, tc := range cases {
			tc := tc
			t.Run(filepath.Base(file)+"/"+tc.Name, func(t *testing.T) {
				runMarkdownCase(t, tc)
			})
		}
	}
}

func runMarkdownCase(t *testing.T, tc mdtest.TestCase) {
	input := append([]byte(tc.Input), '\x00')
	l := NewLexer(input)
	l.NextToken()
	module := ParseProgram(l)

	pipelineErr := l.Errors.Err()
	var cpp string
	if pipelineErr == nil {
		cpp, pipelineErr = NewCodeGenerator().Generate(module)
	}

	if tc.ExpectsError() {
		if pipelineErr == nil {
			t.Fatalf("expected transpilation to fail, but it succeeded")
		}
	} else if pipelineErr != nil {
		t.Fatalf("transpilation failed: %v", pipelineErr)
	}

	for _, assertion := range tc.Assertions {
		switch assertion.Type {
		case mdtest.AssertionAST:
			actual, err := mdtest.Parse(ToSExpr(module))
			be.Err(t, err, nil)
			if !mdtest.Match(assertion.Pattern, actual) {
				t.Errorf("AST does not match pattern\npattern: %s\nactual:  %s",
					assertion.Pattern, ToSExpr(module))
			}
		case mdtest.AssertionCppContains:
			for _, needle := range assertion.Needles() {
				if !strings.Contains(cpp, needle) {
					t.Errorf("generated C++ missing %q\noutput:\n%s", needle, cpp)
				}
			}
		case mdtest.AssertionCppExcludes:
			for _, needle := range assertion.Needles() {
				if strings.Contains(cpp, needle) {
					t.Errorf("generated C++ unexpectedly contains %q\noutput:\n%s", needle, cpp)
				}
			}
		case mdtest.AssertionErrorContains:
			for _, needle := range assertion.Needles() {
				if !strings.Contains(pipelineErr.Error(), needle) {
					t.Errorf("error %q missing %q", pipelineErr, needle)
				}
			}
		}
	}
}
