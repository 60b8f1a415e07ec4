package nimmy

import (
	"fmt"
	"strconv"
	"strings"
)

type Parser struct {
	tokens  []Token
	currIdx int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:  tokens,
		currIdx: 0,
	}
}

// Parse consumes the whole token stream and returns the program node.
func (p *Parser) Parse() (*Program, Error) {
	program := &Program{Stmts: make([]Stmt, 0)}
	if len(p.tokens) > 0 {
		program.Token = &p.tokens[0]
	}

	p.skipNewlines()
	for !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		program.Stmts = append(program.Stmts, stmt)
		p.skipNewlines()
	}
	return program, nil
}

// ParseSource runs the lexer and parser over a source fragment.
func ParseSource(source string) (*Program, Error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// utils

// Check and advance the given token kind if it matches current, return an
// error with the given message otherwise.
func (p *Parser) consume(kind TokenType, msg string) (*Token, Error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return nil, NewParseError(msg, p.current().Loc)
}

// Match and advance if matched, otherwise return false without advancing.
func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) matchKeyword(keyword string) bool {
	if p.check(TokenKeyword) && p.current().Value == keyword {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) checkKeyword(keyword string) bool {
	return p.check(TokenKeyword) && p.current().Value == keyword
}

func (p *Parser) check(kind TokenType) bool {
	return p.current().Kind == kind
}

func (p *Parser) advance() *Token {
	if !p.isAtEnd() {
		p.currIdx++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.current().Kind == TokenEOF
}

func (p *Parser) current() *Token {
	return &p.tokens[p.currIdx]
}

func (p *Parser) peekAt(offset int) *Token {
	index := p.currIdx + offset
	if index >= len(p.tokens) {
		return &p.tokens[len(p.tokens)-1]
	}
	return &p.tokens[index]
}

func (p *Parser) previous() *Token {
	return &p.tokens[p.currIdx-1]
}

func (p *Parser) skipNewlines() {
	for p.check(TokenNewline) {
		p.advance()
	}
}

// endOfStatement consumes the statement terminator. Dedent and EOF are left
// for the enclosing block to consume.
func (p *Parser) endOfStatement() Error {
	if p.check(TokenNewline) {
		p.advance()
		return nil
	}
	if p.check(TokenDedent) || p.check(TokenEOF) {
		return nil
	}
	return NewParseError(fmt.Sprintf("Expected end of statement, got '%s'", p.current().Value), p.current().Loc)
}

// grammar

func (p *Parser) statement() (Stmt, Error) {
	if p.check(TokenKeyword) {
		switch p.current().Value {
		case "let", "var":
			return p.declaration()
		case "proc":
			return p.procDefinition()
		case "type":
			return p.typeDefinition()
		case "if":
			return p.ifStatement()
		case "for":
			return p.forStatement()
		case "while":
			return p.whileStatement()
		case "return":
			return p.returnStatement()
		case "break":
			tok := p.advance()
			if err := p.endOfStatement(); err != nil {
				return nil, err
			}
			return &BreakStmt{Token: tok}, nil
		case "continue":
			tok := p.advance()
			if err := p.endOfStatement(); err != nil {
				return nil, err
			}
			return &ContinueStmt{Token: tok}, nil
		case "echo":
			return p.echoStatement()
		}
	}

	return p.exprOrAssignStatement()
}

func (p *Parser) declaration() (Stmt, Error) {
	tok := p.advance()
	isConst := tok.Value == "let"
	name, err := p.consume(TokenIdent, fmt.Sprintf("Expected variable name after '%s'", tok.Value))
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenAssign, "Expected '=' after variable name"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return &DeclStmt{Token: tok, Name: name, Value: value, IsConst: isConst}, nil
}

func (p *Parser) procDefinition() (Stmt, Error) {
	tok := p.advance()
	name, err := p.consume(TokenIdent, "Expected proc name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenLParen, "Expected '(' after proc name"); err != nil {
		return nil, err
	}
	params := []*Token{}
	if !p.check(TokenRParen) {
		for {
			param, err := p.consume(TokenIdent, "Expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(TokenRParen, "Expected ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenAssign, "Expected '=' after proc signature"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FuncDefStmt{Token: tok, Name: name, Params: params, Body: body}, nil
}

func (p *Parser) typeDefinition() (Stmt, Error) {
	tok := p.advance()
	name, err := p.consume(TokenIdent, "Expected type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenAssign, "Expected '=' after type name"); err != nil {
		return nil, err
	}
	if !p.matchKeyword("object") {
		return nil, NewParseError("Expected 'object' in type definition", p.current().Loc)
	}
	if _, err := p.consume(TokenNewline, "Expected newline after 'object'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenIndent, "Expected indented field list"); err != nil {
		return nil, err
	}
	fields := []*Token{}
	for !p.check(TokenDedent) && !p.isAtEnd() {
		field, err := p.consume(TokenIdent, "Expected field name")
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if err := p.endOfStatement(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(TokenDedent, "Expected end of field list"); err != nil {
		return nil, err
	}
	return &TypeDefStmt{Token: tok, Name: name, Fields: fields}, nil
}

func (p *Parser) ifStatement() (Stmt, Error) {
	tok := p.advance()
	stmt := &IfStmt{Token: tok}

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenColon, "Expected ':' after if condition"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt.Branches = append(stmt.Branches, IfBranch{Cond: cond, Body: body})

	for p.checkKeyword("elif") {
		p.advance()
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TokenColon, "Expected ':' after elif condition"); err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, IfBranch{Cond: cond, Body: body})
	}

	if p.checkKeyword("else") {
		p.advance()
		if _, err := p.consume(TokenColon, "Expected ':' after else"); err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		stmt.Else = body
	}
	return stmt, nil
}

func (p *Parser) forStatement() (Stmt, Error) {
	tok := p.advance()
	loopVar, err := p.consume(TokenIdent, "Expected loop variable name")
	if err != nil {
		return nil, err
	}
	if !p.matchKeyword("in") {
		return nil, NewParseError("Expected 'in' after loop variable", p.current().Loc)
	}
	iterable, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenColon, "Expected ':' after for iterable"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Token: tok, LoopVar: loopVar, Iterable: iterable, Body: body}, nil
}

func (p *Parser) whileStatement() (Stmt, Error) {
	tok := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(TokenColon, "Expected ':' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Token: tok, Cond: cond, Body: body}, nil
}

func (p *Parser) returnStatement() (Stmt, Error) {
	tok := p.advance()
	stmt := &ReturnStmt{Token: tok}
	if !p.check(TokenNewline) && !p.check(TokenDedent) && !p.check(TokenEOF) {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) echoStatement() (Stmt, Error) {
	tok := p.advance()
	stmt := &EchoStmt{Token: tok}
	if !p.check(TokenNewline) && !p.check(TokenDedent) && !p.check(TokenEOF) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			stmt.Args = append(stmt.Args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) exprOrAssignStatement() (Stmt, Error) {
	startTok := p.current()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.check(TokenAssign) {
		assignTok := p.advance()
		switch expr.(type) {
		case *IdentExpr, *IndexExpr, *DotExpr:
		default:
			return nil, NewParseError("Invalid assignment target", assignTok.Loc)
		}
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.endOfStatement(); err != nil {
			return nil, err
		}
		return &AssignStmt{Token: startTok, Target: expr, Value: value}, nil
	}

	if err := p.endOfStatement(); err != nil {
		return nil, err
	}
	return &ExprStmt{Token: startTok, Value: expr}, nil
}

// block parses an indented statement list after ':' or '=', or a single
// inline statement on the same line.
func (p *Parser) block() ([]Stmt, Error) {
	if p.match(TokenNewline) {
		if _, err := p.consume(TokenIndent, "Expected indented block"); err != nil {
			return nil, err
		}
		stmts := []Stmt{}
		for !p.check(TokenDedent) && !p.isAtEnd() {
			stmt, err := p.statement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
		if _, err := p.consume(TokenDedent, "Expected end of block"); err != nil {
			return nil, err
		}
		return stmts, nil
	}

	stmt, err := p.statement()
	if err != nil {
		return nil, err
	}
	return []Stmt{stmt}, nil
}

// expressions

func (p *Parser) expression() (Expr, Error) {
	return p.orExpr()
}

func (p *Parser) orExpr() (Expr, Error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.checkKeyword("or") {
		op := p.advance()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Token: op, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) andExpr() (Expr, Error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.checkKeyword("and") {
		op := p.advance()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Token: op, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) comparison() (Expr, Error) {
	left, err := p.rangeExpr()
	if err != nil {
		return nil, err
	}
	for p.check(TokenEQ) || p.check(TokenNEQ) || p.check(TokenLT) || p.check(TokenLTE) ||
		p.check(TokenGT) || p.check(TokenGTE) || p.checkKeyword("in") {
		op := p.advance()
		right, err := p.rangeExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Token: op, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) rangeExpr() (Expr, Error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	if p.check(TokenDotDot) || p.check(TokenDotDotLT) {
		op := p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		return &RangeExpr{Token: op, Start: left, End: right, Exclusive: op.Kind == TokenDotDotLT}, nil
	}
	return left, nil
}

func (p *Parser) additive() (Expr, Error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.check(TokenPlus) || p.check(TokenMinus) || p.check(TokenAmp) {
		op := p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Token: op, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) term() (Expr, Error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(TokenMul) || p.check(TokenDiv) || p.check(TokenPercent) ||
		p.checkKeyword("div") || p.checkKeyword("mod") {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Token: op, Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (Expr, Error) {
	if p.check(TokenMinus) || p.check(TokenDollar) || p.checkKeyword("not") {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Token: op, Op: op, Operand: operand}, nil
	}
	return p.postfix()
}

func (p *Parser) postfix() (Expr, Error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		if p.check(TokenLParen) {
			lparen := p.advance()
			args := []Expr{}
			if !p.check(TokenRParen) {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(TokenComma) {
						break
					}
				}
			}
			if _, err := p.consume(TokenRParen, "Expected ')' after arguments"); err != nil {
				return nil, err
			}
			expr = &CallExpr{Token: lparen, Callee: expr, Arguments: args}
			continue
		}
		if p.check(TokenLSqBracket) {
			lbracket := p.advance()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(TokenRSqBracket, "Expected ']' after index"); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Token: lbracket, Collection: expr, Index: index}
			continue
		}
		if p.check(TokenDot) {
			dot := p.advance()
			attr, err := p.consume(TokenIdent, "Expected field name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &DotExpr{Token: dot, Obj: expr, Attr: attr}
			continue
		}
		break
	}
	return expr, nil
}

func (p *Parser) primary() (Expr, Error) {
	tok := p.current()

	switch tok.Kind {
	case TokenInt:
		p.advance()
		value, err := strconv.ParseInt(strings.ReplaceAll(tok.Value, "_", ""), 10, 64)
		if err != nil {
			return nil, NewParseError(fmt.Sprintf("Invalid integer literal '%s'", tok.Value), tok.Loc)
		}
		return &IntExpr{Token: tok, Value: value}, nil
	case TokenFloat:
		p.advance()
		value, err := strconv.ParseFloat(strings.ReplaceAll(tok.Value, "_", ""), 64)
		if err != nil {
			return nil, NewParseError(fmt.Sprintf("Invalid float literal '%s'", tok.Value), tok.Loc)
		}
		return &FloatExpr{Token: tok, Value: value}, nil
	case TokenString:
		p.advance()
		return &StringExpr{Token: tok, Value: tok.Value}, nil
	case TokenIdent:
		p.advance()
		return &IdentExpr{Token: tok, Name: tok}, nil
	case TokenKeyword:
		switch tok.Value {
		case "true", "false":
			p.advance()
			return &BoolExpr{Token: tok, Value: tok.Value == "true"}, nil
		case "nil":
			p.advance()
			return &NilExpr{Token: tok}, nil
		}
	case TokenLParen:
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TokenRParen, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	case TokenLSqBracket:
		return p.arrayLiteral()
	case TokenLCurlyBrace:
		return p.braceLiteral()
	}

	return nil, NewParseError(fmt.Sprintf("Unexpected token '%s'", tok.Value), tok.Loc)
}

func (p *Parser) arrayLiteral() (Expr, Error) {
	tok := p.advance()
	elements := []Expr{}
	if !p.check(TokenRSqBracket) {
		for {
			elem, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(TokenRSqBracket, "Expected ']' after array elements"); err != nil {
		return nil, err
	}
	return &ArrayExpr{Token: tok, Elements: elements}, nil
}

// braceLiteral disambiguates table and set constructors: '{}' and any brace
// whose first entry is `key:` parse as a table, everything else as a set.
func (p *Parser) braceLiteral() (Expr, Error) {
	tok := p.advance()

	if p.check(TokenRCurlyBrace) {
		p.advance()
		return &TableExpr{Token: tok}, nil
	}

	isTable := (p.check(TokenIdent) || p.check(TokenString)) && p.peekAt(1).Kind == TokenColon
	if isTable {
		props := []TableProperty{}
		for {
			var key *Token
			if p.check(TokenIdent) || p.check(TokenString) {
				key = p.advance()
			} else {
				return nil, NewParseError("Expected table key", p.current().Loc)
			}
			if _, err := p.consume(TokenColon, "Expected ':' after table key"); err != nil {
				return nil, err
			}
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			props = append(props, TableProperty{Key: key, Value: value})
			if !p.match(TokenComma) {
				break
			}
		}
		if _, err := p.consume(TokenRCurlyBrace, "Expected '}' after table entries"); err != nil {
			return nil, err
		}
		return &TableExpr{Token: tok, Properties: props}, nil
	}

	elements := []Expr{}
	for {
		elem, err := p.expression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
		if !p.match(TokenComma) {
			break
		}
	}
	if _, err := p.consume(TokenRCurlyBrace, "Expected '}' after set elements"); err != nil {
		return nil, err
	}
	return &SetExpr{Token: tok, Elements: elements}, nil
}
