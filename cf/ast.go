package cf

import (
	"fmt"
	"strconv"
	"strings"
)

// The parser produces this AST; the code generator walks it once,
// depth first, left to right. Every node carries the source line it
// started on for diagnostics.

type Expr interface {
	String() string
	Lineno() int
}

type Stmt interface {
	String() string
	Lineno() int
}

// TypeExpr is a type as written: a name, optionally with an array
// length expression, e.g. byte[5]. The length must fold to a virtual
// integer at compile time.
type TypeExpr struct {
	Name string
	Len  Expr // nil for scalar types
	Line int
}

func (t *TypeExpr) String() string {
	if t.Len == nil {
		return t.Name
	}
	return fmt.Sprintf("%s[%s]", t.Name, t.Len)
}

type Param struct {
	Type *TypeExpr
	Name string
}

type FuncDecl struct {
	RetType *TypeExpr
	Name    string
	Params  []Param
	Body    []Stmt
	Line    int
}

func (f *FuncDecl) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Type.String() + " " + p.Name
	}
	return fmt.Sprintf("%s %s(%s) {...}", f.RetType, f.Name, strings.Join(parts, ", "))
}

// ProgramAST is one parsed source file: an ordered list of function
// definitions.
type ProgramAST struct {
	Funcs []*FuncDecl
}

func (p *ProgramAST) String() string {
	parts := make([]string, len(p.Funcs))
	for i, f := range p.Funcs {
		parts[i] = f.String()
	}
	return strings.Join(parts, "\n")
}

// statements

type DeclStmt struct {
	Type *TypeExpr
	Name string
	Init Expr // nil when declared unassigned
	Line int
}

func (s *DeclStmt) String() string {
	if s.Init == nil {
		return fmt.Sprintf("%s %s;", s.Type, s.Name)
	}
	return fmt.Sprintf("%s %s = %s;", s.Type, s.Name, s.Init)
}
func (s *DeclStmt) Lineno() int { return s.Line }

type ExprStmt struct {
	X    Expr
	Line int
}

func (s *ExprStmt) String() string { return s.X.String() + ";" }
func (s *ExprStmt) Lineno() int    { return s.Line }

type IfStmt struct {
	Cond Expr
	Body []Stmt
	Line int
}

func (s *IfStmt) String() string { return fmt.Sprintf("if (%s) {...}", s.Cond) }
func (s *IfStmt) Lineno() int    { return s.Line }

// WhileStmt re-evaluates its condition at the end of every
// iteration.
type WhileStmt struct {
	Cond Expr
	Body []Stmt
	Line int
}

func (s *WhileStmt) String() string { return fmt.Sprintf("while (%s) {...}", s.Cond) }
func (s *WhileStmt) Lineno() int    { return s.Line }

// WhilevarStmt evaluates its condition exactly once; iteration
// depends on the value left in the surviving condition cell.
type WhilevarStmt struct {
	Cond Expr
	Body []Stmt
	Line int
}

func (s *WhilevarStmt) String() string { return fmt.Sprintf("whilevar (%s) {...}", s.Cond) }
func (s *WhilevarStmt) Lineno() int    { return s.Line }

type FreeStmt struct {
	Name string
	Line int
}

func (s *FreeStmt) String() string { return fmt.Sprintf("free %s;", s.Name) }
func (s *FreeStmt) Lineno() int    { return s.Line }

type ReturnStmt struct {
	X    Expr
	Line int
}

func (s *ReturnStmt) String() string { return fmt.Sprintf("return %s;", s.X) }
func (s *ReturnStmt) Lineno() int    { return s.Line }

// expressions

type Ident struct {
	Name string
	Line int
}

func (e *Ident) String() string { return e.Name }
func (e *Ident) Lineno() int    { return e.Line }

type IntLit struct {
	Val  int64
	Line int
}

func (e *IntLit) String() string { return strconv.FormatInt(e.Val, 10) }
func (e *IntLit) Lineno() int    { return e.Line }

type FloatLit struct {
	Val  float64
	Line int
}

func (e *FloatLit) String() string { return strconv.FormatFloat(e.Val, 'g', -1, 64) }
func (e *FloatLit) Lineno() int    { return e.Line }

type CharLit struct {
	Val  rune
	Line int
}

func (e *CharLit) String() string { return strconv.QuoteRune(e.Val) }
func (e *CharLit) Lineno() int    { return e.Line }

type StrLit struct {
	Val  string
	Line int
}

func (e *StrLit) String() string { return strconv.Quote(e.Val) }
func (e *StrLit) Lineno() int    { return e.Line }

type ListLit struct {
	Elems []Expr
	Line  int
}

func (e *ListLit) String() string {
	parts := make([]string, len(e.Elems))
	for i, x := range e.Elems {
		parts[i] = x.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (e *ListLit) Lineno() int { return e.Line }

type TupleLit struct {
	Elems []Expr
	Line  int
}

func (e *TupleLit) String() string {
	parts := make([]string, len(e.Elems))
	for i, x := range e.Elems {
		parts[i] = x.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (e *TupleLit) Lineno() int { return e.Line }

// Unary covers the prefix operators ++ -- ! ~ and the copy operator
// &.
type Unary struct {
	Op   string
	X    Expr
	Line int
}

func (e *Unary) String() string { return e.Op + e.X.String() }
func (e *Unary) Lineno() int    { return e.Line }

type Binary struct {
	Op   string
	X, Y Expr
	Line int
}

func (e *Binary) String() string { return fmt.Sprintf("(%s %s %s)", e.X, e.Op, e.Y) }
func (e *Binary) Lineno() int    { return e.Line }

type Call struct {
	Name string
	Args []Expr
	Line int
}

func (e *Call) String() string {
	parts := make([]string, len(e.Args))
	for i, x := range e.Args {
		parts[i] = x.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}
func (e *Call) Lineno() int { return e.Line }

type Index struct {
	X    Expr
	I    Expr
	Line int
}

func (e *Index) String() string { return fmt.Sprintf("%s[%s]", e.X, e.I) }
func (e *Index) Lineno() int    { return e.Line }
