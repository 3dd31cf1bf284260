package main

import "strings"

// DataGen generates C++ container literals. Lists and tuples both lower to
// std::vector (the runtime has no tuple type), sets to std::unordered_set,
// dicts to std::map keyed by the stringified key. Short displays stay on
// one line; longer ones break one element per line.
type DataGen struct {
	expr *ExprGen
}

func (g *DataGen) genElements(elements []*ASTNode) ([]string, error) {
	parts := make([]string, 0, len(elements))
	for _, element := range elements {
		code, err := g.expr.Generate(element)
		if err != nil {
			return nil, err
		}
		parts = append(parts, code)
	}
	return parts, nil
}

func (g *DataGen) genVector(elements []*ASTNode) (string, error) {
	parts, err := g.genElements(elements)
	if err != nil {
		return "", err
	}
	if len(parts) <= 3 {
		return "DynamicType(std::vector<DynamicType>{" + strings.Join(parts, ", ") + "})", nil
	}
	return "DynamicType(std::vector<DynamicType>{\n    " + strings.Join(parts, ",\n    ") + "\n})", nil
}

func (g *DataGen) genSet(elements []*ASTNode) (string, error) {
	parts, err := g.genElements(elements)
	if err != nil {
		return "", err
	}
	return "DynamicType(std::unordered_set<DynamicType>{" + strings.Join(parts, ", ") + "})", nil
}

func (g *DataGen) genDict(pairs []DictPair) (string, error) {
	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		key, err := g.expr.Generate(pair.Key)
		if err != nil {
			return "", err
		}
		value, err := g.expr.Generate(pair.Value)
		if err != nil {
			return "", err
		}
		parts = append(parts, "{("+key+").toString(), "+value+"}")
	}
	if len(parts) <= 2 {
		return "DynamicType(std::map<std::string, DynamicType>{" + strings.Join(parts, ", ") + "})", nil
	}
	return "DynamicType(std::map<std::string, DynamicType>{\n" + strings.Join(parts, ",\n") + "})", nil
}
