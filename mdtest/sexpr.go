// Package mdtest extracts transpiler test cases from Markdown documents and
// matches s-expression patterns against parsed ASTs. Test corpora live in
// test/*_test.md; a test case is a "Test: name" heading followed by a
// `python` input fence and one or more assertion fences.
package mdtest

import (
	"fmt"
	"strings"
)

// NodeType classifies a pattern node.
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeNumber
	NodeWildcard // `_` matches any single node
	NodeEllipsis // `...` matches any run of remaining list items
	NodeList
)

// Node is one datum of an s-expression pattern (or of an actual AST
// s-expression; both sides of a match use the same representation).
type Node struct {
	Type  NodeType
	Text  string
	Items []*Node
}

func (n *Node) String() string {
	switch n.Type {
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return "\"" + escaped + "\""
	case NodeWildcard:
		return "_"
	case NodeEllipsis:
		return "..."
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return n.Text
	}
}

// Match reports whether actual satisfies pattern. Wildcards match any
// single node; an ellipsis inside a list matches any run of items.
func Match(pattern, actual *Node) bool {
	if pattern == nil || actual == nil {
		return pattern == actual
	}
	switch pattern.Type {
	case NodeWildcard:
		return true
	case NodeList:
		if actual.Type != NodeList {
			return false
		}
		return matchItems(pattern.Items, actual.Items)
	default:
		return pattern.Type == actual.Type && pattern.Text == actual.Text
	}
}

func matchItems(pattern, actual []*Node) bool {
	if len(pattern) == 0 {
		return len(actual) == 0
	}
	if pattern[0].Type == NodeEllipsis {
		rest := pattern[1:]
		for skip := 0; skip <= len(actual); skip++ {
			if matchItems(rest, actual[skip:]) {
				return true
			}
		}
		return false
	}
	if len(actual) == 0 {
		return false
	}
	return Match(pattern[0], actual[0]) && matchItems(pattern[1:], actual[1:])
}

// Parse parses one s-expression datum.
func Parse(input string) (*Node, error) {
	p := &sexprParser{input: input}
	node, err := p.parseDatum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("trailing input after s-expression at offset %d", p.pos)
	}
	return node, nil
}

type sexprParser struct {
	input string
	pos   int
}

func (p *sexprParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *sexprParser) skipSpace() {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ';' {
			for p.pos < len(p.input) && p.input[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		p.pos++
	}
}

func (p *sexprParser) parseDatum() (*Node, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == 0:
		return nil, fmt.Errorf("unexpected end of s-expression")
	case c == '(':
		return p.parseList()
	case c == ')':
		return nil, fmt.Errorf("unexpected ')' at offset %d", p.pos)
	case c == '"':
		return p.parseString()
	default:
		return p.parseAtom()
	}
}

func (p *sexprParser) parseList() (*Node, error) {
	p.pos++ // '('
	node := &Node{Type: NodeList}
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
			return node, nil
		}
		if p.peek() == 0 {
			return nil, fmt.Errorf("unterminated list in s-expression")
		}
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		node.Items = append(node.Items, item)
	}
}

func (p *sexprParser) parseString() (*Node, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	for {
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("unterminated string in s-expression")
		}
		c := p.input[p.pos]
		p.pos++
		if c == '"' {
			return &Node{Type: NodeString, Text: sb.String()}, nil
		}
		if c == '\\' {
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("unterminated string in s-expression")
			}
			esc := p.input[p.pos]
			p.pos++
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"':
				sb.WriteByte(esc)
			default:
				return nil, fmt.Errorf("invalid escape sequence \\%c in s-expression string", esc)
			}
			continue
		}
		sb.WriteByte(c)
	}
}

func isAtomChar(c byte) bool {
	switch c {
	case 0, ' ', '\t', '\n', '\r', '(', ')', '"', ';':
		return false
	}
	return true
}

func (p *sexprParser) parseAtom() (*Node, error) {
	start := p.pos
	for p.pos < len(p.input) && isAtomChar(p.input[p.pos]) {
		p.pos++
	}
	text := p.input[start:p.pos]
	switch text {
	case "":
		return nil, fmt.Errorf("unexpected character %q at offset %d", p.input[start], start)
	case "_":
		return &Node{Type: NodeWildcard}, nil
	case "...":
		return &Node{Type: NodeEllipsis}, nil
	}
	if isNumberText(text) {
		return &Node{Type: NodeNumber, Text: text}, nil
	}
	return &Node{Type: NodeSymbol, Text: text}, nil
}

func isNumberText(text string) bool {
	i := 0
	if text[0] == '+' || text[0] == '-' {
		i++
	}
	if i >= len(text) {
		return false
	}
	digits := false
	for ; i < len(text); i++ {
		c := text[i]
		if c >= '0' && c <= '9' {
			digits = true
			continue
		}
		if c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			continue
		}
		return false
	}
	return digits
}
