package main

// Recursive descent parser. Expressions use a layered precedence chain
// (or < and < comparison < additive < multiplicative < power < unary <
// postfix); statements are dispatched on the leading token. Errors are
// recorded in the lexer's ErrorList and the parser synchronizes to the next
// logical line, so one pass reports every syntax error it can find.

// expect consumes the current token if it matches, otherwise records a
// positioned syntax error.
func expect(l *Lexer, typ TokenType) bool {
	if l.CurrTokenType != typ {
		l.Errors.Add(l.CurrLine, l.CurrCol, "expected %s but got %s", tokenName(typ), describeToken(l))
		return false
	}
	l.NextToken()
	return true
}

func tokenName(typ TokenType) string {
	switch typ {
	case NEWLINE:
		return "newline"
	case INDENT:
		return "indented block"
	case DEDENT:
		return "dedent"
	case IDENT:
		return "identifier"
	default:
		return "'" + string(typ) + "'"
	}
}

func describeToken(l *Lexer) string {
	switch l.CurrTokenType {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "newline"
	case INDENT:
		return "indent"
	case DEDENT:
		return "dedent"
	case INT, FLOAT, STRING, IDENT:
		return "'" + l.CurrLiteral + "'"
	default:
		return "'" + string(l.CurrTokenType) + "'"
	}
}

// synchronize skips to the start of the next logical line after a syntax
// error, so one bad statement does not cascade.
func synchronize(l *Lexer) {
	for l.CurrTokenType != NEWLINE && l.CurrTokenType != DEDENT && l.CurrTokenType != EOF {
		l.NextToken()
	}
	if l.CurrTokenType == NEWLINE {
		l.NextToken()
	}
}

// ParseProgram parses a whole source file into a Module node.
func ParseProgram(l *Lexer) *ASTNode {
	module := &ASTNode{Kind: NodeModule, Line: 1, Col: 1}
	for l.CurrTokenType != EOF {
		switch l.CurrTokenType {
		case NEWLINE, DEDENT:
			l.NextToken()
			continue
		case INDENT:
			l.Errors.Add(l.CurrLine, l.CurrCol, "unexpected indent")
			l.NextToken()
			continue
		}
		stmt := ParseStatement(l)
		if stmt == nil {
			synchronize(l)
			continue
		}
		module.Children = append(module.Children, stmt)
	}
	return module
}

// ParseStatement parses one statement, including its terminating newline
// (for simple statements) or its suite (for compound statements). Returns
// nil after recording an error.
func ParseStatement(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	switch l.CurrTokenType {
	case IF:
		return parseIf(l)
	case WHILE:
		return parseWhile(l)
	case FOR:
		return parseFor(l)
	case DEF:
		return parseFuncDef(l)
	case RETURN:
		l.NextToken()
		node := &ASTNode{Kind: NodeReturn, Line: line, Col: col}
		if !atStatementEnd(l) {
			node.Value = ParseExpression(l)
		}
		endSimpleStatement(l)
		return node
	case BREAK:
		l.NextToken()
		endSimpleStatement(l)
		return &ASTNode{Kind: NodeBreak, Line: line, Col: col}
	case CONTINUE:
		l.NextToken()
		endSimpleStatement(l)
		return &ASTNode{Kind: NodeContinue, Line: line, Col: col}
	case PASS:
		l.NextToken()
		endSimpleStatement(l)
		return &ASTNode{Kind: NodePass, Line: line, Col: col}
	case IMPORT:
		return parseImport(l)
	default:
		return parseExprOrAssign(l)
	}
}

func atStatementEnd(l *Lexer) bool {
	switch l.CurrTokenType {
	case NEWLINE, DEDENT, EOF:
		return true
	}
	return false
}

func endSimpleStatement(l *Lexer) {
	switch l.CurrTokenType {
	case NEWLINE:
		l.NextToken()
	case DEDENT, EOF:
		// The suite or file ends here; leave the token for the caller.
	default:
		l.Errors.Add(l.CurrLine, l.CurrCol, "expected newline after statement, got %s", describeToken(l))
		synchronize(l)
	}
}

func parseImport(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	l.NextToken()
	if l.CurrTokenType != IDENT {
		l.Errors.Add(l.CurrLine, l.CurrCol, "expected module name after 'import'")
		return nil
	}
	name := l.CurrLiteral
	l.NextToken()
	for l.CurrTokenType == DOT {
		l.NextToken()
		if l.CurrTokenType != IDENT {
			l.Errors.Add(l.CurrLine, l.CurrCol, "expected identifier after '.' in import")
			return nil
		}
		name += "." + l.CurrLiteral
		l.NextToken()
	}
	endSimpleStatement(l)
	return &ASTNode{Kind: NodeImport, Str: name, Line: line, Col: col}
}

var augAssignTokens = map[TokenType]bool{
	PLUS_ASSIGN:     true,
	MINUS_ASSIGN:    true,
	ASTERISK_ASSIGN: true,
	SLASH_ASSIGN:    true,
	PERCENT_ASSIGN:  true,
	POWER_ASSIGN:    true,
	FLOORDIV_ASSIGN: true,
}

func isAssignmentTarget(node *ASTNode) bool {
	switch node.Kind {
	case NodeIdent, NodeTuple, NodeList, NodeSubscript, NodeAttribute:
		return true
	}
	return false
}

func parseExprOrAssign(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	expr := ParseExpression(l)
	if expr == nil {
		return nil
	}

	if l.CurrTokenType == ASSIGN || augAssignTokens[l.CurrTokenType] {
		op := l.CurrLiteral
		opLine, opCol := l.CurrLine, l.CurrCol
		l.NextToken()
		if !isAssignmentTarget(expr) {
			l.Errors.Add(opLine, opCol, "invalid assignment target")
		}
		value := ParseExpression(l)
		endSimpleStatement(l)
		return &ASTNode{
			Kind:   NodeAssign,
			Op:     op,
			Target: expr,
			Value:  value,
			Line:   line,
			Col:    col,
		}
	}

	endSimpleStatement(l)
	return &ASTNode{Kind: NodeExprStmt, Value: expr, Line: line, Col: col}
}

// parseSuite parses `: NEWLINE INDENT stmts DEDENT`, or a single inline
// simple statement after the colon, into a Block node.
func parseSuite(l *Lexer) *ASTNode {
	block := &ASTNode{Kind: NodeBlock, Line: l.CurrLine, Col: l.CurrCol}
	if !expect(l, COLON) {
		synchronize(l)
		return block
	}

	if l.CurrTokenType != NEWLINE {
		// Inline suite: a single simple statement on the same line.
		stmt := ParseStatement(l)
		if stmt != nil {
			block.Children = append(block.Children, stmt)
		}
		return block
	}

	l.NextToken() // NEWLINE
	if !expect(l, INDENT) {
		synchronize(l)
		return block
	}
	for l.CurrTokenType != DEDENT && l.CurrTokenType != EOF {
		if l.CurrTokenType == NEWLINE {
			l.NextToken()
			continue
		}
		stmt := ParseStatement(l)
		if stmt == nil {
			synchronize(l)
			continue
		}
		block.Children = append(block.Children, stmt)
	}
	if l.CurrTokenType == DEDENT {
		l.NextToken()
	}
	return block
}

func parseIf(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	l.NextToken() // 'if'
	node := &ASTNode{Kind: NodeIf, Line: line, Col: col}
	node.Cond = ParseExpression(l)
	node.Body = parseSuite(l)

	for l.CurrTokenType == ELIF {
		l.NextToken()
		cond := ParseExpression(l)
		body := parseSuite(l)
		node.Elifs = append(node.Elifs, ElifClause{Cond: cond, Body: body})
	}
	if l.CurrTokenType == ELSE {
		l.NextToken()
		node.Else = parseSuite(l)
	}
	return node
}

func parseWhile(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	l.NextToken() // 'while'
	node := &ASTNode{Kind: NodeWhile, Line: line, Col: col}
	node.Cond = ParseExpression(l)
	node.Body = parseSuite(l)
	if l.CurrTokenType == ELSE {
		l.NextToken()
		node.Else = parseSuite(l)
	}
	return node
}

func parseFor(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	l.NextToken() // 'for'
	node := &ASTNode{Kind: NodeFor, Line: line, Col: col}
	node.Target = parseTarget(l)
	if !expect(l, IN) {
		synchronize(l)
		return node
	}
	node.Iter = ParseExpression(l)
	node.Body = parseSuite(l)
	if l.CurrTokenType == ELSE {
		l.NextToken()
		node.Else = parseSuite(l)
	}
	return node
}

// parseTarget parses a binding target: an identifier or a parenthesized /
// bracketed pattern of targets.
func parseTarget(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	switch l.CurrTokenType {
	case IDENT:
		name := l.CurrLiteral
		l.NextToken()
		return &ASTNode{Kind: NodeIdent, Str: name, Line: line, Col: col}
	case LPAREN, LBRACKET:
		open := l.CurrTokenType
		closing := RPAREN
		kind := NodeTuple
		if open == LBRACKET {
			closing = RBRACKET
			kind = NodeList
		}
		l.NextToken()
		node := &ASTNode{Kind: kind, Line: line, Col: col}
		for l.CurrTokenType != closing && l.CurrTokenType != EOF {
			element := parseTarget(l)
			if element == nil {
				break
			}
			node.Children = append(node.Children, element)
			if l.CurrTokenType == COMMA {
				l.NextToken()
			} else {
				break
			}
		}
		expect(l, closing)
		return node
	default:
		l.Errors.Add(line, col, "expected binding target, got %s", describeToken(l))
		return nil
	}
}

func parseFuncDef(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	l.NextToken() // 'def'
	node := &ASTNode{Kind: NodeFuncDef, Line: line, Col: col}
	if l.CurrTokenType != IDENT {
		l.Errors.Add(l.CurrLine, l.CurrCol, "expected function name after 'def'")
		synchronize(l)
		return nil
	}
	node.Str = l.CurrLiteral
	l.NextToken()

	if !expect(l, LPAREN) {
		synchronize(l)
		return nil
	}
	for l.CurrTokenType != RPAREN && l.CurrTokenType != EOF {
		if l.CurrTokenType != IDENT {
			l.Errors.Add(l.CurrLine, l.CurrCol, "expected parameter name, got %s", describeToken(l))
			break
		}
		param := &ASTNode{Kind: NodeIdent, Str: l.CurrLiteral, Line: l.CurrLine, Col: l.CurrCol}
		node.Children = append(node.Children, param)
		l.NextToken()
		if l.CurrTokenType == COMMA {
			l.NextToken()
		} else {
			break
		}
	}
	if !expect(l, RPAREN) {
		synchronize(l)
		return nil
	}
	node.Body = parseSuite(l)
	return node
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// ParseExpression parses an expression and returns an AST node, or nil
// after recording an error.
func ParseExpression(l *Lexer) *ASTNode {
	return parseOr(l)
}

func parseOr(l *Lexer) *ASTNode {
	left := parseAnd(l)
	for left != nil && l.CurrTokenType == OR {
		line, col := l.CurrLine, l.CurrCol
		l.NextToken()
		right := parseAnd(l)
		left = &ASTNode{Kind: NodeBinary, Op: "or", Left: left, Right: right, Line: line, Col: col}
	}
	return left
}

func parseAnd(l *Lexer) *ASTNode {
	left := parseComparison(l)
	for left != nil && l.CurrTokenType == AND {
		line, col := l.CurrLine, l.CurrCol
		l.NextToken()
		right := parseComparison(l)
		left = &ASTNode{Kind: NodeBinary, Op: "and", Left: left, Right: right, Line: line, Col: col}
	}
	return left
}

func comparisonOp(typ TokenType) (string, bool) {
	switch typ {
	case EQ:
		return "==", true
	case NOT_EQ:
		return "!=", true
	case LT:
		return "<", true
	case LE:
		return "<=", true
	case GT:
		return ">", true
	case GE:
		return ">=", true
	case IN:
		return "in", true
	}
	return "", false
}

func parseComparison(l *Lexer) *ASTNode {
	left := parseAdditive(l)
	if left == nil {
		return nil
	}
	op, ok := comparisonOp(l.CurrTokenType)
	if !ok {
		return left
	}
	line, col := l.CurrLine, l.CurrCol
	l.NextToken()
	right := parseAdditive(l)
	node := &ASTNode{Kind: NodeCompare, Op: op, Left: left, Right: right, Line: line, Col: col}

	// Comparisons are strictly binary; a second comparator would silently
	// change meaning if re-associated, so reject it outright.
	if _, chained := comparisonOp(l.CurrTokenType); chained {
		l.Errors.Add(l.CurrLine, l.CurrCol, "chained comparisons are not supported")
		for {
			if _, more := comparisonOp(l.CurrTokenType); !more {
				break
			}
			l.NextToken()
			parseAdditive(l)
		}
	}
	return node
}

func parseAdditive(l *Lexer) *ASTNode {
	left := parseMultiplicative(l)
	for left != nil && (l.CurrTokenType == PLUS || l.CurrTokenType == MINUS) {
		op := l.CurrLiteral
		line, col := l.CurrLine, l.CurrCol
		l.NextToken()
		right := parseMultiplicative(l)
		left = &ASTNode{Kind: NodeBinary, Op: op, Left: left, Right: right, Line: line, Col: col}
	}
	return left
}

func parseMultiplicative(l *Lexer) *ASTNode {
	left := parsePower(l)
	for left != nil {
		switch l.CurrTokenType {
		case ASTERISK, SLASH, PERCENT, FLOORDIV:
			op := l.CurrLiteral
			line, col := l.CurrLine, l.CurrCol
			l.NextToken()
			right := parsePower(l)
			left = &ASTNode{Kind: NodeBinary, Op: op, Left: left, Right: right, Line: line, Col: col}
		default:
			return left
		}
	}
	return left
}

// parsePower handles `**`, which is right-associative and binds looser than
// unary operators.
func parsePower(l *Lexer) *ASTNode {
	left := parseUnary(l)
	if left == nil || l.CurrTokenType != POWER {
		return left
	}
	line, col := l.CurrLine, l.CurrCol
	l.NextToken()
	right := parsePower(l)
	return &ASTNode{Kind: NodeBinary, Op: "**", Left: left, Right: right, Line: line, Col: col}
}

func parseUnary(l *Lexer) *ASTNode {
	switch l.CurrTokenType {
	case MINUS:
		line, col := l.CurrLine, l.CurrCol
		l.NextToken()
		operand := parseUnary(l)
		return &ASTNode{Kind: NodeUnary, Op: "-", Operand: operand, Line: line, Col: col}
	case NOT:
		line, col := l.CurrLine, l.CurrCol
		l.NextToken()
		operand := parseUnary(l)
		return &ASTNode{Kind: NodeUnary, Op: "not", Operand: operand, Line: line, Col: col}
	default:
		return parsePostfix(l)
	}
}

func parsePostfix(l *Lexer) *ASTNode {
	node := parsePrimary(l)
	for node != nil {
		switch l.CurrTokenType {
		case LPAREN:
			line, col := l.CurrLine, l.CurrCol
			l.NextToken()
			call := &ASTNode{Kind: NodeCall, Callee: node, Line: line, Col: col}
			for l.CurrTokenType != RPAREN && l.CurrTokenType != EOF {
				arg := ParseExpression(l)
				if arg == nil {
					break
				}
				call.Args = append(call.Args, arg)
				if l.CurrTokenType == COMMA {
					l.NextToken()
				} else {
					break
				}
			}
			expect(l, RPAREN)
			node = call
		case LBRACKET:
			line, col := l.CurrLine, l.CurrCol
			l.NextToken()
			index := parseSubscriptIndex(l)
			expect(l, RBRACKET)
			node = &ASTNode{Kind: NodeSubscript, Value: node, Index: index, Line: line, Col: col}
		case DOT:
			line, col := l.CurrLine, l.CurrCol
			l.NextToken()
			if l.CurrTokenType != IDENT {
				l.Errors.Add(l.CurrLine, l.CurrCol, "expected attribute name after '.'")
				return node
			}
			node = &ASTNode{Kind: NodeAttribute, Value: node, Str: l.CurrLiteral, Line: line, Col: col}
			l.NextToken()
		default:
			return node
		}
	}
	return node
}

// parseSubscriptIndex parses the inside of `[...]`: either a plain index
// expression or a slice with any of start/stop/step omitted.
func parseSubscriptIndex(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol

	var start *ASTNode
	if l.CurrTokenType != COLON {
		start = ParseExpression(l)
		if l.CurrTokenType != COLON {
			return start // plain index
		}
	}

	slice := &ASTNode{Kind: NodeSlice, Start: start, Line: line, Col: col}
	l.NextToken() // first ':'
	if l.CurrTokenType != COLON && l.CurrTokenType != RBRACKET {
		slice.Stop = ParseExpression(l)
	}
	if l.CurrTokenType == COLON {
		l.NextToken()
		if l.CurrTokenType != RBRACKET {
			slice.Step = ParseExpression(l)
		}
	}
	return slice
}

func parsePrimary(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	switch l.CurrTokenType {
	case INT:
		node := &ASTNode{Kind: NodeInt, IntValue: l.CurrIntValue, Line: line, Col: col}
		l.NextToken()
		return node
	case FLOAT:
		node := &ASTNode{Kind: NodeFloat, FloatValue: l.CurrFloatValue, Line: line, Col: col}
		l.NextToken()
		return node
	case STRING:
		node := &ASTNode{Kind: NodeString, Str: l.CurrLiteral, Line: line, Col: col}
		l.NextToken()
		return node
	case TRUE:
		l.NextToken()
		return &ASTNode{Kind: NodeBool, BoolValue: true, Line: line, Col: col}
	case FALSE:
		l.NextToken()
		return &ASTNode{Kind: NodeBool, BoolValue: false, Line: line, Col: col}
	case NONE:
		l.NextToken()
		return &ASTNode{Kind: NodeNone, Line: line, Col: col}
	case IDENT:
		node := &ASTNode{Kind: NodeIdent, Str: l.CurrLiteral, Line: line, Col: col}
		l.NextToken()
		return node
	case LPAREN:
		return parseParenExpr(l)
	case LBRACKET:
		l.NextToken()
		node := &ASTNode{Kind: NodeList, Line: line, Col: col}
		node.Children = parseExprList(l, RBRACKET)
		expect(l, RBRACKET)
		return node
	case LBRACE:
		return parseBraceExpr(l)
	default:
		l.Errors.Add(line, col, "unexpected %s in expression", describeToken(l))
		if l.CurrTokenType != NEWLINE && l.CurrTokenType != DEDENT && l.CurrTokenType != EOF {
			l.NextToken()
		}
		return nil
	}
}

// parseParenExpr disambiguates grouping from tuple displays.
func parseParenExpr(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	l.NextToken() // '('
	if l.CurrTokenType == RPAREN {
		l.NextToken()
		return &ASTNode{Kind: NodeTuple, Line: line, Col: col}
	}
	first := ParseExpression(l)
	if l.CurrTokenType != COMMA {
		expect(l, RPAREN)
		return first
	}
	node := &ASTNode{Kind: NodeTuple, Line: line, Col: col}
	node.Children = append(node.Children, first)
	l.NextToken() // ','
	node.Children = append(node.Children, parseExprList(l, RPAREN)...)
	expect(l, RPAREN)
	return node
}

// parseBraceExpr disambiguates set displays from dict displays.
func parseBraceExpr(l *Lexer) *ASTNode {
	line, col := l.CurrLine, l.CurrCol
	l.NextToken() // '{'
	if l.CurrTokenType == RBRACE {
		l.NextToken()
		// {} is an empty dict, as in the source language.
		return &ASTNode{Kind: NodeDict, Line: line, Col: col}
	}
	first := ParseExpression(l)
	if l.CurrTokenType == COLON {
		node := &ASTNode{Kind: NodeDict, Line: line, Col: col}
		l.NextToken()
		value := ParseExpression(l)
		node.Pairs = append(node.Pairs, DictPair{Key: first, Value: value})
		for l.CurrTokenType == COMMA {
			l.NextToken()
			if l.CurrTokenType == RBRACE {
				break // trailing comma
			}
			key := ParseExpression(l)
			if !expect(l, COLON) {
				break
			}
			val := ParseExpression(l)
			node.Pairs = append(node.Pairs, DictPair{Key: key, Value: val})
		}
		expect(l, RBRACE)
		return node
	}

	node := &ASTNode{Kind: NodeSet, Line: line, Col: col}
	node.Children = append(node.Children, first)
	if l.CurrTokenType == COMMA {
		l.NextToken()
		node.Children = append(node.Children, parseExprList(l, RBRACE)...)
	}
	expect(l, RBRACE)
	return node
}

// parseExprList parses comma-separated expressions up to (not consuming)
// the terminator. A trailing comma is allowed.
func parseExprList(l *Lexer, terminator TokenType) []*ASTNode {
	var elements []*ASTNode
	for l.CurrTokenType != terminator && l.CurrTokenType != EOF {
		element := ParseExpression(l)
		if element == nil {
			break
		}
		elements = append(elements, element)
		if l.CurrTokenType == COMMA {
			l.NextToken()
		} else {
			break
		}
	}
	return elements
}
