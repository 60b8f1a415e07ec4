package nimmy

import (
	"fmt"
	"strings"
)

type Node interface {
	GetToken() *Token
	String() string
}

type Stmt interface {
	Node
	stmtNode() // dummy method
}

type Expr interface {
	Node
	exprNode() // dummy method
}

// Visitor pattern for traversing the AST.
type Visitor interface {
	Visit(node Node)
}

// WalkFunc is a function that can be used as a visitor.
type WalkFunc func(node Node)

func (f WalkFunc) Visit(node Node) {
	f(node)
}

// Walk traverses an AST node and its children for LSP.
func Walk(node Node, visitor Visitor) {
	if node == nil {
		return
	}

	visitor.Visit(node)

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Stmts {
			Walk(stmt, visitor)
		}
	case *DeclStmt:
		Walk(n.Value, visitor)
	case *AssignStmt:
		Walk(n.Target, visitor)
		Walk(n.Value, visitor)
	case *FuncDefStmt:
		for _, stmt := range n.Body {
			Walk(stmt, visitor)
		}
	case *IfStmt:
		for _, br := range n.Branches {
			Walk(br.Cond, visitor)
			for _, stmt := range br.Body {
				Walk(stmt, visitor)
			}
		}
		for _, stmt := range n.Else {
			Walk(stmt, visitor)
		}
	case *ForStmt:
		Walk(n.Iterable, visitor)
		for _, stmt := range n.Body {
			Walk(stmt, visitor)
		}
	case *WhileStmt:
		Walk(n.Cond, visitor)
		for _, stmt := range n.Body {
			Walk(stmt, visitor)
		}
	case *ReturnStmt:
		Walk(n.Value, visitor)
	case *EchoStmt:
		for _, arg := range n.Args {
			Walk(arg, visitor)
		}
	case *ExprStmt:
		Walk(n.Value, visitor)
	case *BinaryOp:
		Walk(n.Left, visitor)
		Walk(n.Right, visitor)
	case *UnaryOp:
		Walk(n.Operand, visitor)
	case *CallExpr:
		Walk(n.Callee, visitor)
		for _, arg := range n.Arguments {
			Walk(arg, visitor)
		}
	case *IndexExpr:
		Walk(n.Collection, visitor)
		Walk(n.Index, visitor)
	case *DotExpr:
		Walk(n.Obj, visitor)
	case *ArrayExpr:
		for _, elem := range n.Elements {
			Walk(elem, visitor)
		}
	case *SetExpr:
		for _, elem := range n.Elements {
			Walk(elem, visitor)
		}
	case *TableExpr:
		for _, prop := range n.Properties {
			Walk(prop.Value, visitor)
		}
	case *RangeExpr:
		Walk(n.Start, visitor)
		Walk(n.End, visitor)
	}
}

// Program is the root node the parser emits.
type Program struct {
	Token *Token
	Stmts []Stmt
}

func (p *Program) GetToken() *Token { return p.Token }
func (p *Program) String() string {
	str := "Program [\n"
	for _, stmt := range p.Stmts {
		str += "  " + stmt.String() + "\n"
	}
	return str + "]"
}
func (p *Program) stmtNode() {}

// statements

type DeclStmt struct {
	Token   *Token
	Name    *Token
	Value   Expr
	IsConst bool
}

func (s *DeclStmt) GetToken() *Token { return s.Token }
func (s *DeclStmt) String() string {
	return fmt.Sprintf("DeclStmt (Name: %s, IsConst: %t, Value: %v)", s.Name.Value, s.IsConst, s.Value)
}
func (s *DeclStmt) stmtNode() {}

type AssignStmt struct {
	Token  *Token
	Target Expr
	Value  Expr
}

func (s *AssignStmt) GetToken() *Token { return s.Token }
func (s *AssignStmt) String() string {
	return fmt.Sprintf("AssignStmt (Target: %v, Value: %v)", s.Target, s.Value)
}
func (s *AssignStmt) stmtNode() {}

type FuncDefStmt struct {
	Token  *Token
	Name   *Token
	Params []*Token
	Body   []Stmt
}

func (s *FuncDefStmt) GetToken() *Token { return s.Token }
func (s *FuncDefStmt) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Value
	}
	return fmt.Sprintf("FuncDefStmt (Name: %s, Params: [%s])", s.Name.Value, strings.Join(params, ", "))
}
func (s *FuncDefStmt) stmtNode() {}

type TypeDefStmt struct {
	Token  *Token
	Name   *Token
	Fields []*Token
}

func (s *TypeDefStmt) GetToken() *Token { return s.Token }
func (s *TypeDefStmt) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = f.Value
	}
	return fmt.Sprintf("TypeDefStmt (Name: %s, Fields: [%s])", s.Name.Value, strings.Join(fields, ", "))
}
func (s *TypeDefStmt) stmtNode() {}

type EchoStmt struct {
	Token *Token
	Args  []Expr
}

func (s *EchoStmt) GetToken() *Token { return s.Token }
func (s *EchoStmt) String() string   { return fmt.Sprintf("EchoStmt (%v)", s.Args) }
func (s *EchoStmt) stmtNode()        {}

type IfBranch struct {
	Cond Expr
	Body []Stmt
}

type IfStmt struct {
	Token    *Token
	Branches []IfBranch
	Else     []Stmt
}

func (s *IfStmt) GetToken() *Token { return s.Token }
func (s *IfStmt) String() string {
	return fmt.Sprintf("IfStmt (%d branches, else: %t)", len(s.Branches), s.Else != nil)
}
func (s *IfStmt) stmtNode() {}

type ForStmt struct {
	Token    *Token
	LoopVar  *Token
	Iterable Expr
	Body     []Stmt
}

func (s *ForStmt) GetToken() *Token { return s.Token }
func (s *ForStmt) String() string {
	return fmt.Sprintf("ForStmt (LoopVar: %s, Iterable: %v)", s.LoopVar.Value, s.Iterable)
}
func (s *ForStmt) stmtNode() {}

type WhileStmt struct {
	Token *Token
	Cond  Expr
	Body  []Stmt
}

func (s *WhileStmt) GetToken() *Token { return s.Token }
func (s *WhileStmt) String() string   { return fmt.Sprintf("WhileStmt (Cond: %v)", s.Cond) }
func (s *WhileStmt) stmtNode()        {}

type ReturnStmt struct {
	Token *Token
	Value Expr // nil for a bare return
}

func (s *ReturnStmt) GetToken() *Token { return s.Token }
func (s *ReturnStmt) String() string {
	if s.Value != nil {
		return fmt.Sprintf("ReturnStmt (Value: %v)", s.Value)
	}
	return "ReturnStmt"
}
func (s *ReturnStmt) stmtNode() {}

type BreakStmt struct {
	Token *Token
}

func (s *BreakStmt) GetToken() *Token { return s.Token }
func (s *BreakStmt) String() string   { return "BreakStmt" }
func (s *BreakStmt) stmtNode()        {}

type ContinueStmt struct {
	Token *Token
}

func (s *ContinueStmt) GetToken() *Token { return s.Token }
func (s *ContinueStmt) String() string   { return "ContinueStmt" }
func (s *ContinueStmt) stmtNode()        {}

type ExprStmt struct {
	Token *Token
	Value Expr
}

func (s *ExprStmt) GetToken() *Token { return s.Token }
func (s *ExprStmt) String() string   { return fmt.Sprintf("ExprStmt (%v)", s.Value) }
func (s *ExprStmt) stmtNode()        {}

// expressions

type IdentExpr struct {
	Token *Token
	Name  *Token
}

func (e *IdentExpr) GetToken() *Token { return e.Token }
func (e *IdentExpr) String() string   { return fmt.Sprintf("IdentExpr (%s)", e.Name.Value) }
func (e *IdentExpr) exprNode()        {}

type IntExpr struct {
	Token *Token
	Value int64
}

func (e *IntExpr) GetToken() *Token { return e.Token }
func (e *IntExpr) String() string   { return fmt.Sprintf("Int (%d)", e.Value) }
func (e *IntExpr) exprNode()        {}

type FloatExpr struct {
	Token *Token
	Value float64
}

func (e *FloatExpr) GetToken() *Token { return e.Token }
func (e *FloatExpr) String() string   { return fmt.Sprintf("Float (%g)", e.Value) }
func (e *FloatExpr) exprNode()        {}

type StringExpr struct {
	Token *Token
	Value string
}

func (e *StringExpr) GetToken() *Token { return e.Token }
func (e *StringExpr) String() string   { return fmt.Sprintf("String (%q)", e.Value) }
func (e *StringExpr) exprNode()        {}

type BoolExpr struct {
	Token *Token
	Value bool
}

func (e *BoolExpr) GetToken() *Token { return e.Token }
func (e *BoolExpr) String() string   { return fmt.Sprintf("Bool (%t)", e.Value) }
func (e *BoolExpr) exprNode()        {}

type NilExpr struct {
	Token *Token
}

func (e *NilExpr) GetToken() *Token { return e.Token }
func (e *NilExpr) String() string   { return "Nil" }
func (e *NilExpr) exprNode()        {}

type BinaryOp struct {
	Token *Token
	Left  Expr
	Op    *Token
	Right Expr
}

func (e *BinaryOp) GetToken() *Token { return e.Token }
func (e *BinaryOp) String() string {
	return fmt.Sprintf("BinaryOp (%v %s %v)", e.Left, e.Op.Value, e.Right)
}
func (e *BinaryOp) exprNode() {}

type UnaryOp struct {
	Token   *Token
	Op      *Token
	Operand Expr
}

func (e *UnaryOp) GetToken() *Token { return e.Token }
func (e *UnaryOp) String() string   { return fmt.Sprintf("UnaryOp (%s %v)", e.Op.Value, e.Operand) }
func (e *UnaryOp) exprNode()        {}

type CallExpr struct {
	Token     *Token // the '(' token
	Callee    Expr
	Arguments []Expr
}

func (e *CallExpr) GetToken() *Token { return e.Token }
func (e *CallExpr) String() string   { return fmt.Sprintf("CallExpr (Callee: %v)", e.Callee) }
func (e *CallExpr) exprNode()        {}

type IndexExpr struct {
	Token      *Token
	Collection Expr
	Index      Expr
}

func (e *IndexExpr) GetToken() *Token { return e.Token }
func (e *IndexExpr) String() string {
	return fmt.Sprintf("IndexExpr (Collection: %v, Index: %v)", e.Collection, e.Index)
}
func (e *IndexExpr) exprNode() {}

type DotExpr struct {
	Token *Token
	Obj   Expr
	Attr  *Token
}

func (e *DotExpr) GetToken() *Token { return e.Token }
func (e *DotExpr) String() string   { return fmt.Sprintf("DotExpr (Obj: %v, Attr: %s)", e.Obj, e.Attr.Value) }
func (e *DotExpr) exprNode()        {}

type ArrayExpr struct {
	Token    *Token
	Elements []Expr
}

func (e *ArrayExpr) GetToken() *Token { return e.Token }
func (e *ArrayExpr) String() string   { return fmt.Sprintf("ArrayExpr (%v)", e.Elements) }
func (e *ArrayExpr) exprNode()        {}

type SetExpr struct {
	Token    *Token
	Elements []Expr
}

func (e *SetExpr) GetToken() *Token { return e.Token }
func (e *SetExpr) String() string   { return fmt.Sprintf("SetExpr (%v)", e.Elements) }
func (e *SetExpr) exprNode()        {}

type TableProperty struct {
	Key   *Token
	Value Expr
}

type TableExpr struct {
	Token      *Token
	Properties []TableProperty
}

func (e *TableExpr) GetToken() *Token { return e.Token }
func (e *TableExpr) String() string   { return fmt.Sprintf("TableExpr (%d entries)", len(e.Properties)) }
func (e *TableExpr) exprNode()        {}

type RangeExpr struct {
	Token     *Token
	Start     Expr
	End       Expr
	Exclusive bool
}

func (e *RangeExpr) GetToken() *Token { return e.Token }
func (e *RangeExpr) String() string {
	op := ".."
	if e.Exclusive {
		op = "..<"
	}
	return fmt.Sprintf("RangeExpr (%v %s %v)", e.Start, op, e.End)
}
func (e *RangeExpr) exprNode() {}
