package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestGenListShort(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[]", "DynamicType(std::vector<DynamicType>{})"},
		{"[1]", "DynamicType(std::vector<DynamicType>{DynamicType(1)})"},
		{"[1, 2, 3]", "DynamicType(std::vector<DynamicType>{DynamicType(1), DynamicType(2), DynamicType(3)})"},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenListLongBreaksLines(t *testing.T) {
	result := genExprString(t, "[1, 2, 3, 4]")
	expected := "DynamicType(std::vector<DynamicType>{\n" +
		"    DynamicType(1),\n" +
		"    DynamicType(2),\n" +
		"    DynamicType(3),\n" +
		"    DynamicType(4)\n" +
		"})"
	be.Equal(t, result, expected)
}

func TestGenTupleLowersToVector(t *testing.T) {
	result := genExprString(t, "(1, 2)")
	be.Equal(t, result, "DynamicType(std::vector<DynamicType>{DynamicType(1), DynamicType(2)})")
}

func TestGenSet(t *testing.T) {
	result := genExprString(t, "{1, 2}")
	be.Equal(t, result, "DynamicType(std::unordered_set<DynamicType>{DynamicType(1), DynamicType(2)})")
}

func TestGenDictShort(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"{}", "DynamicType(std::map<std::string, DynamicType>{})"},
		{
			`{"a": 1}`,
			`DynamicType(std::map<std::string, DynamicType>{{(DynamicType(std::string("a"))).toString(), DynamicType(1)}})`,
		},
		{
			`{"a": 1, "b": 2}`,
			`DynamicType(std::map<std::string, DynamicType>{{(DynamicType(std::string("a"))).toString(), DynamicType(1)}, {(DynamicType(std::string("b"))).toString(), DynamicType(2)}})`,
		},
	}
	for _, test := range tests {
		result := genExprString(t, test.input)
		be.Equal(t, result, test.expected)
	}
}

func TestGenDictLongBreaksLines(t *testing.T) {
	result := genExprString(t, `{"a": 1, "b": 2, "c": 3}`)
	expected := "DynamicType(std::map<std::string, DynamicType>{\n" +
		`{(DynamicType(std::string("a"))).toString(), DynamicType(1)},` + "\n" +
		`{(DynamicType(std::string("b"))).toString(), DynamicType(2)},` + "\n" +
		`{(DynamicType(std::string("c"))).toString(), DynamicType(3)}})`
	be.Equal(t, result, expected)
}

func TestGenDictNonLiteralKeys(t *testing.T) {
	result := genExprString(t, "{k: v}")
	be.Equal(t, result, "DynamicType(std::map<std::string, DynamicType>{{(k).toString(), v}})")
}

func TestGenNestedCollections(t *testing.T) {
	result := genExprString(t, "[[1], [2]]")
	be.Equal(t, result, "DynamicType(std::vector<DynamicType>{DynamicType(std::vector<DynamicType>{DynamicType(1)}), DynamicType(std::vector<DynamicType>{DynamicType(2)})})")
}
