package cf

import (
	"fmt"
	"strconv"
)

// Parser turns the token stream into the AST the code generator
// walks. Plain recursive descent with precedence climbing for
// operator expressions.
type Parser struct {
	toks []Token
	idx  int
}

func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// ParseString lexes and parses one CF source file.
func ParseString(src string) (*ProgramAST, error) {
	toks, err := NewLexer(src).Tokens()
	if err != nil {
		return nil, err
	}
	return NewParser(toks).Program()
}

func (p *Parser) peek() Token {
	if p.idx >= len(p.toks) {
		return EndTk
	}
	return p.toks[p.idx]
}

func (p *Parser) next() Token {
	t := p.peek()
	p.idx++
	return t
}

func (p *Parser) save() int      { return p.idx }
func (p *Parser) restore(at int) { p.idx = at }

func (p *Parser) errHere(format string, args ...interface{}) error {
	return errAt(ErrSyntax, p.peek().line, format, args...)
}

func (p *Parser) expect(typ TokenType, what string) (Token, error) {
	t := p.peek()
	if t.typ != typ {
		if t.typ == TokenEnd {
			return t, fmt.Errorf("%w: expected %s", UnexpectedEnd, what)
		}
		return t, p.errHere("expected %s, found %q", what, t.String())
	}
	return p.next(), nil
}

func (p *Parser) acceptOp(op string) bool {
	t := p.peek()
	if t.typ == TokenOp && t.str == op {
		p.next()
		return true
	}
	return false
}

func isKeyword(name string) bool {
	switch name {
	case "if", "while", "whilevar", "free", "return":
		return true
	}
	return false
}

// Program parses a whole file: a sequence of function definitions.
func (p *Parser) Program() (*ProgramAST, error) {
	prog := &ProgramAST{}
	for p.peek().typ != TokenEnd {
		fn, err := p.function()
		if err != nil {
			return nil, err
		}
		prog.Funcs = append(prog.Funcs, fn)
	}
	return prog, nil
}

// function = typedname "(" params ")" codeblock
func (p *Parser) function() (*FuncDecl, error) {
	ret, name, err := p.typedName()
	if err != nil {
		return nil, err
	}
	fn := &FuncDecl{RetType: ret, Name: name, Line: ret.Line}
	if _, err := p.expect(TokenLParen, "("); err != nil {
		return nil, err
	}
	for p.peek().typ != TokenRParen {
		if len(fn.Params) > 0 {
			if _, err := p.expect(TokenComma, ","); err != nil {
				return nil, err
			}
		}
		typ, pname, err := p.typedName()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, Param{Type: typ, Name: pname})
	}
	p.next() // )
	fn.Body, err = p.codeblock()
	return fn, err
}

// typedname = type identifier, where type may carry [len].
func (p *Parser) typedName() (*TypeExpr, string, error) {
	t, err := p.typeExpr()
	if err != nil {
		return nil, "", err
	}
	id, err := p.expect(TokenIdent, "identifier")
	if err != nil {
		return nil, "", err
	}
	return t, id.str, nil
}

func (p *Parser) typeExpr() (*TypeExpr, error) {
	id, err := p.expect(TokenIdent, "type name")
	if err != nil {
		return nil, err
	}
	t := &TypeExpr{Name: id.str, Line: id.line}
	if p.peek().typ == TokenLSquare {
		p.next()
		t.Len, err = p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRSquare, "]"); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (p *Parser) codeblock() ([]Stmt, error) {
	if _, err := p.expect(TokenLCurly, "{"); err != nil {
		return nil, err
	}
	stmts := []Stmt{}
	for p.peek().typ != TokenRCurly {
		if p.peek().typ == TokenEnd {
			return nil, fmt.Errorf("%w inside block", UnexpectedEnd)
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.next() // }
	return stmts, nil
}

func (p *Parser) statement() (Stmt, error) {
	t := p.peek()
	if t.typ == TokenIdent {
		switch t.str {
		case "if", "while", "whilevar":
			return p.condStatement(t.str)
		case "free":
			p.next()
			id, err := p.expect(TokenIdent, "variable name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenSemicolon, ";"); err != nil {
				return nil, err
			}
			return &FreeStmt{Name: id.str, Line: t.line}, nil
		case "return":
			p.next()
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenSemicolon, ";"); err != nil {
				return nil, err
			}
			return &ReturnStmt{X: x, Line: t.line}, nil
		}

		// Could be a declaration (typedname) or an expression
		// statement; a declaration is the only statement where an
		// identifier directly follows a type form, so try that shape
		// first and back off on failure.
		if d, ok := p.tryDeclaration(); ok {
			return d, nil
		}
	}

	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, ";"); err != nil {
		return nil, err
	}
	return &ExprStmt{X: x, Line: t.line}, nil
}

func (p *Parser) tryDeclaration() (Stmt, bool) {
	at := p.save()
	typ, name, err := p.typedName()
	if err != nil || isKeyword(name) {
		p.restore(at)
		return nil, false
	}
	d := &DeclStmt{Type: typ, Name: name, Line: typ.Line}
	if p.acceptOp("=") {
		d.Init, err = p.expression()
		if err != nil {
			p.restore(at)
			return nil, false
		}
	}
	if _, err := p.expect(TokenSemicolon, ";"); err != nil {
		p.restore(at)
		return nil, false
	}
	return d, true
}

func (p *Parser) condStatement(kw string) (Stmt, error) {
	t := p.next() // keyword
	if _, err := p.expect(TokenLParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.codeblock()
	if err != nil {
		return nil, err
	}
	switch kw {
	case "if":
		return &IfStmt{Cond: cond, Body: body, Line: t.line}, nil
	case "while":
		return &WhileStmt{Cond: cond, Body: body, Line: t.line}, nil
	}
	return &WhilevarStmt{Cond: cond, Body: body, Line: t.line}, nil
}

// expression precedence, loosest first. Assignment and the compound
// ops bind loosest and associate to the right.
func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	lhs, err := p.comparison()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.typ == TokenOp {
		switch t.str {
		case "=", "+=", "-=", "*=", "/=", "//=", "%=":
			p.next()
			rhs, err := p.assignment()
			if err != nil {
				return nil, err
			}
			return &Binary{Op: t.str, X: lhs, Y: rhs, Line: t.line}, nil
		}
	}
	return lhs, nil
}

func (p *Parser) comparison() (Expr, error) {
	lhs, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.typ != TokenOp {
			return lhs, nil
		}
		switch t.str {
		case "==", "!=", "<", ">", "<=", ">=":
			p.next()
			rhs, err := p.additive()
			if err != nil {
				return nil, err
			}
			lhs = &Binary{Op: t.str, X: lhs, Y: rhs, Line: t.line}
		default:
			return lhs, nil
		}
	}
}

func (p *Parser) additive() (Expr, error) {
	lhs, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.typ != TokenOp || (t.str != "+" && t.str != "-") {
			return lhs, nil
		}
		p.next()
		rhs, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &Binary{Op: t.str, X: lhs, Y: rhs, Line: t.line}
	}
}

func (p *Parser) multiplicative() (Expr, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.typ != TokenOp {
			return lhs, nil
		}
		switch t.str {
		case "*", "/", "//", "%":
			p.next()
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			lhs = &Binary{Op: t.str, X: lhs, Y: rhs, Line: t.line}
		default:
			return lhs, nil
		}
	}
}

func (p *Parser) unary() (Expr, error) {
	t := p.peek()
	if t.typ == TokenOp {
		switch t.str {
		case "++", "--", "!", "~", "&", "-":
			p.next()
			x, err := p.unary()
			if err != nil {
				return nil, err
			}
			return &Unary{Op: t.str, X: x, Line: t.line}, nil
		}
	}
	return p.postfix()
}

func (p *Parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch t.typ {
		case TokenLSquare:
			p.next()
			i, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenRSquare, "]"); err != nil {
				return nil, err
			}
			x = &Index{X: x, I: i, Line: t.line}
		case TokenLParen:
			id, isIdent := x.(*Ident)
			if !isIdent {
				return nil, p.errHere("only named functions can be called")
			}
			p.next()
			call := &Call{Name: id.Name, Line: t.line}
			for p.peek().typ != TokenRParen {
				if len(call.Args) > 0 {
					if _, err := p.expect(TokenComma, ","); err != nil {
						return nil, err
					}
				}
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
			}
			p.next() // )
			x = call
		default:
			return x, nil
		}
	}
}

func (p *Parser) primary() (Expr, error) {
	t := p.peek()
	switch t.typ {
	case TokenInt:
		p.next()
		v, err := strconv.ParseInt(t.str, 10, 64)
		if err != nil {
			return nil, errAt(ErrSyntax, t.line, "bad integer literal %q", t.str)
		}
		return &IntLit{Val: v, Line: t.line}, nil
	case TokenFloat:
		p.next()
		v, err := strconv.ParseFloat(t.str, 64)
		if err != nil {
			return nil, errAt(ErrSyntax, t.line, "bad float literal %q", t.str)
		}
		return &FloatLit{Val: v, Line: t.line}, nil
	case TokenChar:
		p.next()
		return &CharLit{Val: []rune(t.str)[0], Line: t.line}, nil
	case TokenString:
		p.next()
		return &StrLit{Val: t.str, Line: t.line}, nil
	case TokenIdent:
		p.next()
		return &Ident{Name: t.str, Line: t.line}, nil
	case TokenLSquare:
		p.next()
		lst := &ListLit{Line: t.line}
		for p.peek().typ != TokenRSquare {
			if len(lst.Elems) > 0 {
				if _, err := p.expect(TokenComma, ","); err != nil {
					return nil, err
				}
			}
			el, err := p.expression()
			if err != nil {
				return nil, err
			}
			lst.Elems = append(lst.Elems, el)
		}
		p.next() // ]
		return lst, nil
	case TokenLParen:
		p.next()
		first, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.peek().typ == TokenComma {
			tup := &TupleLit{Elems: []Expr{first}, Line: t.line}
			for p.peek().typ == TokenComma {
				p.next()
				el, err := p.expression()
				if err != nil {
					return nil, err
				}
				tup.Elems = append(tup.Elems, el)
			}
			if _, err := p.expect(TokenRParen, ")"); err != nil {
				return nil, err
			}
			return tup, nil
		}
		if _, err := p.expect(TokenRParen, ")"); err != nil {
			return nil, err
		}
		return first, nil
	}
	return nil, p.errHere("unexpected token %q", t.String())
}
