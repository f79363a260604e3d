package cf

import (
	"strings"
)

// The single walk over the AST. Statements compile in source order;
// expressions evaluate depth first, left to right. Instruction order
// is semantics on the target machine, so nothing here may reorder.

func (c *Compiler) resolveType(te *TypeExpr) (RealType, error) {
	var base RealType
	switch te.Name {
	case "byte", "u8":
		base = byteType
	default:
		return nil, errAt(ErrTypeMismatch, te.Line, "unknown type %s", te.Name)
	}
	if te.Len == nil {
		return base, nil
	}
	lv, err := c.evalExpr(te.Len)
	if err != nil {
		return nil, err
	}
	n, ok := virtualScalar(lv)
	if !ok {
		return nil, errAt(ErrTypeMismatch, te.Len.Lineno(),
			"array length must be a compile-time integer, got %s", lv.ValueString())
	}
	if n <= 0 {
		return nil, errAt(ErrTypeMismatch, te.Len.Lineno(), "array length %d", n)
	}
	return &ArrayType{Elem: base, Len: int(n)}, nil
}

// inlineFunction expands fn at the current emission point. The
// target machine has no call stack, so this is the only calling
// convention: parameters bind to the evaluated arguments, the body
// compiles in a fresh function scope, and the declaration and
// allocation logic re-runs at every call site.
func (c *Compiler) inlineFunction(fn *FuncDecl, args []Value, line int) (Value, error) {
	if c.inlineDepth >= MaxInlineDepth {
		return nil, errAt(ErrSyntax, line,
			"call of %s exceeds inline depth %d; the target cannot run unbounded recursion", fn.Name, MaxInlineDepth)
	}
	c.inlineDepth++
	defer func() { c.inlineDepth-- }()

	if len(args) != len(fn.Params) {
		return nil, errAt(ErrArityMismatch, line,
			"%s takes %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}

	scope := c.pushScope(fn.Name)
	scope.IsFunction = true

	for i, p := range fn.Params {
		ptype, err := c.resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		arg := args[i]
		if rv, ok := arg.(*RealValue); ok {
			if !typesEqual(rv.Type, ptype) {
				return nil, errAt(ErrTypeMismatch, line,
					"argument %d of %s: want %s, got %s", i+1, fn.Name, ptype.TypeString(), rv.Type.TypeString())
			}
			if rv.Borrowed {
				copied, err := c.copyValue(rv, line)
				if err != nil {
					return nil, err
				}
				arg = copied
				rv = copied.(*RealValue)
			} else if rv.Binding != nil {
				// the callee takes the argument over; the caller's
				// name is gone, just like any other destroyed source
				rv.Binding.scope.Unbind(rv.Binding.Name)
			}
			b := scope.Bind(p.Name, rv, fn.Line)
			b.Assigned = true
			rv.Binding = b
		} else {
			b := scope.Bind(p.Name, arg, fn.Line)
			b.Assigned = true
		}
	}

	var ret Value
	for i, st := range fn.Body {
		if rs, isRet := st.(*ReturnStmt); isRet {
			if i != len(fn.Body)-1 {
				return nil, errAt(ErrMisplacedReturn, rs.Line,
					"return must be the last statement of %s", fn.Name)
			}
			v, err := c.evalExpr(rs.X)
			if err != nil {
				return nil, err
			}
			ret = v
			break
		}
		if err := c.compileStmt(st); err != nil {
			return nil, err
		}
	}

	var keep *RealValue
	if rv, ok := ret.(*RealValue); ok {
		if rv.Borrowed {
			copied, err := c.copyValue(rv, line)
			if err != nil {
				return nil, err
			}
			ret = copied
			keep = copied.(*RealValue)
		} else {
			if rv.Binding != nil {
				rv.Binding.scope.Unbind(rv.Binding.Name)
				rv.Binding = nil
			}
			keep = rv
		}
	}
	c.popScope(keep)
	return ret, nil
}

// compileBlock compiles a nested block in its own scope. Block exit
// frees every variable the scope still owns.
func (c *Compiler) compileBlock(stmts []Stmt, name string, isLoop bool) error {
	scope := c.pushScope(name)
	scope.IsLoop = isLoop
	for _, st := range stmts {
		if err := c.compileStmt(st); err != nil {
			return err
		}
	}
	c.popScope(nil)
	return nil
}

func (c *Compiler) compileStmt(s Stmt) error {
	switch st := s.(type) {
	case *DeclStmt:
		return c.compileDecl(st)
	case *ExprStmt:
		v, err := c.evalExpr(st.X)
		if err != nil {
			return err
		}
		if v != nil {
			c.releaseTemp(v)
		}
		return nil
	case *IfStmt:
		return c.compileIf(st)
	case *WhilevarStmt:
		return c.compileWhilevar(st)
	case *WhileStmt:
		return c.compileWhile(st)
	case *FreeStmt:
		return c.compileFree(st)
	case *ReturnStmt:
		return errAt(ErrMisplacedReturn, st.Line,
			"return is only legal as the last statement of a function body")
	}
	return errAt(ErrInternal, s.Lineno(), "unknown statement %T", s)
}

func (c *Compiler) compileDecl(st *DeclStmt) error {
	typ, err := c.resolveType(st.Type)
	if err != nil {
		return err
	}
	scope := c.curScope()
	if _, dup := scope.Map[st.Name]; dup {
		return errAt(ErrSyntax, st.Line, "%s redeclared in this scope", st.Name)
	}
	if st.Init == nil {
		region, err := c.tape.Allocate(typ.Width())
		if err != nil {
			return lineify(err, st.Line)
		}
		rv := &RealValue{Region: region, Type: typ}
		b := scope.Bind(st.Name, rv, st.Line)
		rv.Binding = b
		return nil
	}

	// evaluate the initializer before allocating, so a real result's
	// region can be adopted as the variable's storage outright instead
	// of allocating a cell only to hand it back.
	init, err := c.evalExpr(st.Init)
	if err != nil {
		return err
	}
	if src, ok := init.(*RealValue); ok {
		if src.Borrowed {
			copied, err := c.copyValue(src, st.Line)
			if err != nil {
				return err
			}
			src = copied.(*RealValue)
		}
		if src.Region.Width != typ.Width() {
			return errAt(ErrTypeMismatch, st.Line,
				"cannot initialize %s %s from %s", typ.TypeString(), st.Name, src.Type.TypeString())
		}
		c.detachValue(src, st.Line)
		rv := &RealValue{Region: src.Region, Type: typ}
		b := scope.Bind(st.Name, rv, st.Line)
		rv.Binding = b
		b.Assigned = true
		return nil
	}
	region, err := c.tape.Allocate(typ.Width())
	if err != nil {
		return lineify(err, st.Line)
	}
	rv := &RealValue{Region: region, Type: typ}
	b := scope.Bind(st.Name, rv, st.Line)
	rv.Binding = b
	return c.assignToBinding(b, init, st.Line)
}

// compileFree is the compile-time free: it fires once per syntactic
// occurrence, independent of any runtime branching around it.
func (c *Compiler) compileFree(st *FreeStmt) error {
	b := c.lookup(st.Name)
	if b == nil {
		return errAt(ErrUndeclaredVariable, st.Line, "free of unknown variable %s", st.Name)
	}
	if !c.freeLegal(b) {
		return errAt(ErrIllegalFree, st.Line,
			"%s was declared outside the enclosing loop; freeing it would change the tape layout between iterations", st.Name)
	}
	if rv, ok := b.Val.(*RealValue); ok && !rv.Borrowed {
		c.tape.Free(rv.Region)
	}
	b.scope.Unbind(st.Name)
	return nil
}

// compileIf: branch past the body when the condition cell is zero,
// and force the cell to zero at the end of the body so the loop
// construct runs at most once. The condition value does not survive.
func (c *Compiler) compileIf(st *IfStmt) error {
	cond, err := c.evalExpr(st.Cond)
	if err != nil {
		return err
	}
	cv, err := c.materialize(cond, st.Line)
	if err != nil {
		return err
	}
	if cv.Region.Width != 1 {
		return errAt(ErrTypeMismatch, st.Line, "if condition must be a single cell")
	}
	cell := cv.Region.Cell()
	c.emit.MoveTo(cell)
	err = c.emit.Loop(func() error {
		if err := c.compileBlock(st.Body, "if", false); err != nil {
			return err
		}
		c.emit.MoveTo(cell)
		c.emit.ZeroCell()
		return nil
	})
	if err != nil {
		return err
	}
	c.destroyValue(cv)
	return nil
}

// compileWhilevar: the condition is evaluated exactly once; the body
// repeats for as long as it leaves the condition cell nonzero. The
// condition value survives the statement.
func (c *Compiler) compileWhilevar(st *WhilevarStmt) error {
	cond, err := c.evalExpr(st.Cond)
	if err != nil {
		return err
	}
	cv, err := c.materialize(cond, st.Line)
	if err != nil {
		return err
	}
	if cv.Region.Width != 1 {
		return errAt(ErrTypeMismatch, st.Line, "whilevar condition must be a single cell")
	}
	cell := cv.Region.Cell()
	c.emit.MoveTo(cell)
	before := c.tape.OwnedCells()
	err = c.emit.Loop(func() error {
		if err := c.compileBlock(st.Body, "whilevar", true); err != nil {
			return err
		}
		c.emit.MoveTo(cell)
		return nil
	})
	if err != nil {
		return err
	}
	if err := c.checkLoopBalance(before, st.Line); err != nil {
		return err
	}
	if cv.Binding == nil {
		// anonymous condition cells cannot be referenced again
		c.releaseTemp(cv)
	}
	return nil
}

// compileWhile desugars to whilevar over a stable driver cell that
// is refilled from a re-evaluation of the condition at the end of
// every iteration.
func (c *Compiler) compileWhile(st *WhileStmt) error {
	cond, err := c.evalExpr(st.Cond)
	if err != nil {
		return err
	}
	j, err := c.whileDriver(cond, st.Line)
	if err != nil {
		return err
	}
	cell := j.Cell()
	c.emit.MoveTo(cell)
	before := c.tape.OwnedCells()
	err = c.emit.Loop(func() error {
		if err := c.compileBlock(st.Body, "while", true); err != nil {
			return err
		}
		// refill the driver from a fresh evaluation
		v2, err := c.evalExpr(st.Cond)
		if err != nil {
			return err
		}
		if n, ok := virtualScalar(v2); ok {
			if n < 0 || n > 255 {
				return errAt(ErrTypeMismatch, st.Line, "condition value %d does not fit a byte cell", n)
			}
			c.emit.MoveTo(cell)
			c.emit.ZeroCell()
			c.emit.Op(OpInc, int(n))
			return nil
		}
		vc, err := c.consumable(v2, st.Line)
		if err != nil {
			return err
		}
		rv, err := realByte(vc, "while", st.Line)
		if err != nil {
			return err
		}
		c.emit.MoveTo(cell)
		c.emit.ZeroCell()
		if err := c.transfer(rv.Region.Cell(), cell); err != nil {
			return err
		}
		c.releaseTemp(rv)
		c.emit.MoveTo(cell)
		return nil
	})
	if err != nil {
		return err
	}
	if err := c.checkLoopBalance(before, st.Line); err != nil {
		return err
	}
	c.tape.Free(j)
	return nil
}

// whileDriver turns the first evaluation of a while condition into
// an owned driver cell: anonymous temporaries are taken over, named
// values are copied so they survive, virtuals are constructed.
func (c *Compiler) whileDriver(cond Value, line int) (Region, error) {
	if rv, ok := cond.(*RealValue); ok {
		if rv.Region.Width != 1 {
			return Region{}, errAt(ErrTypeMismatch, line, "while condition must be a single cell")
		}
		if rv.Binding == nil && !rv.Borrowed {
			return rv.Region, nil
		}
		r, err := c.copyCell(rv.Region.Cell(), line)
		if err != nil {
			return Region{}, err
		}
		return r, nil
	}
	mv, err := c.materialize(cond, line)
	if err != nil {
		return Region{}, err
	}
	return mv.Region, nil
}

// checkLoopBalance asserts the tape layout at the loop's back edge
// matches the layout at entry. The body's instructions execute an
// unbounded number of times at runtime; any net allocation delta
// would make later iterations run against a layout the compiler no
// longer believes in. Scope discipline makes this hold; a violation
// is a compiler bug.
func (c *Compiler) checkLoopBalance(before []int, line int) error {
	after := c.tape.OwnedCells()
	if len(before) != len(after) {
		return errAt(ErrInternal, line, "loop body changed tape ownership: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			return errAt(ErrInternal, line, "loop body changed tape ownership: %v -> %v", before, after)
		}
	}
	return nil
}

// expressions -------------------------------------------------------

func (c *Compiler) evalExpr(e Expr) (Value, error) {
	switch x := e.(type) {
	case *IntLit:
		return &VirtInt{Val: x.Val}, nil
	case *FloatLit:
		return &VirtFloat{Val: x.Val}, nil
	case *CharLit:
		return &VirtChar{Val: x.Val}, nil
	case *StrLit:
		return &VirtStr{Val: x.Val}, nil
	case *ListLit:
		elems := make([]Value, len(x.Elems))
		for i, el := range x.Elems {
			v, err := c.evalExpr(el)
			if err != nil {
				return nil, err
			}
			if !isVirtual(v) {
				return nil, errAt(ErrTypeMismatch, el.Lineno(),
					"list elements must be compile-time values")
			}
			elems[i] = v
		}
		return &VirtList{Elems: elems}, nil
	case *TupleLit:
		elems := make([]Value, len(x.Elems))
		for i, el := range x.Elems {
			v, err := c.evalExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &VirtTuple{Elems: elems}, nil
	case *Ident:
		b := c.lookup(x.Name)
		if b == nil {
			return nil, errAt(ErrUndeclaredVariable, x.Line, "%s is not declared", x.Name)
		}
		if !b.Assigned {
			return nil, errAt(ErrUninitializedUse, x.Line, "%s is declared but never assigned", x.Name)
		}
		return b.Val, nil
	case *Unary:
		return c.evalUnary(x)
	case *Binary:
		return c.evalBinary(x)
	case *Call:
		return c.compileCall(x)
	case *Index:
		return c.evalIndex(x)
	}
	return nil, errAt(ErrInternal, e.Lineno(), "unknown expression %T", e)
}

func (c *Compiler) evalUnary(x *Unary) (Value, error) {
	switch x.Op {
	case "&":
		v, err := c.evalExpr(x.X)
		if err != nil {
			return nil, err
		}
		return c.copyValue(v, x.Line)
	case "-":
		v, err := c.evalExpr(x.X)
		if err != nil {
			return nil, err
		}
		if n, ok := virtualScalar(v); ok {
			return &VirtInt{Val: -n}, nil
		}
		if f, ok := v.(*VirtFloat); ok {
			return &VirtFloat{Val: -f.Val}, nil
		}
		return nil, errAt(ErrTypeMismatch, x.Line,
			"unary - needs a compile-time value, got %s", v.ValueString())
	case "~":
		return nil, errAt(ErrTypeMismatch, x.Line, "operator ~ has no code generation rule")
	case "++", "--", "!":
		v, err := c.evalExpr(x.X)
		if err != nil {
			return nil, err
		}
		var res Value
		if x.Op == "!" {
			res, err = c.opNot(v, x.Line)
		} else {
			res, err = c.opIncDec(x.Op, v, x.Line)
		}
		if err != nil {
			return nil, err
		}
		// a folded result of mutating a virtual binding rebinds it
		if isVirtual(res) {
			if id, isIdent := x.X.(*Ident); isIdent {
				if b := c.lookup(id.Name); b != nil {
					b.Val = res
				}
			}
		}
		return res, nil
	}
	return nil, errAt(ErrSyntax, x.Line, "unknown prefix operator %s", x.Op)
}

func (c *Compiler) evalBinary(x *Binary) (Value, error) {
	switch x.Op {
	case "=":
		return c.compileAssign(x.X, x.Y, x.Line)
	case "+=", "-=", "*=", "/=", "//=", "%=":
		xv, err := c.evalExpr(x.X)
		if err != nil {
			return nil, err
		}
		yv, err := c.evalExpr(x.Y)
		if err != nil {
			return nil, err
		}
		yv, err = c.unalias(xv, yv, x.Line)
		if err != nil {
			return nil, err
		}
		if isVirtual(xv) {
			// a virtual target folds entirely at compile time
			id, isIdent := x.X.(*Ident)
			if !isIdent || !isVirtual(yv) {
				return nil, errAt(ErrTypeMismatch, x.Line,
					"%s needs a tape-resident target", x.Op)
			}
			res, err := foldArith(strings.TrimSuffix(x.Op, "="), xv, yv, x.Line)
			if err != nil {
				return nil, err
			}
			c.lookup(id.Name).Val = res
			return res, nil
		}
		return c.opCompound(x.Op, xv, yv, x.Line)
	case "==", "!=":
		xv, yv, err := c.evalPair(x.X, x.Y)
		if err != nil {
			return nil, err
		}
		return c.opEquality(x.Op, xv, yv, x.Line)
	case "<", ">", "<=", ">=":
		xv, yv, err := c.evalPair(x.X, x.Y)
		if err != nil {
			return nil, err
		}
		return c.opOrdered(x.Op, xv, yv, x.Line)
	case "+", "-", "*", "/", "//", "%":
		xv, yv, err := c.evalPair(x.X, x.Y)
		if err != nil {
			return nil, err
		}
		return c.opPlain(x.Op, xv, yv, x.Line)
	}
	return nil, errAt(ErrSyntax, x.Line, "unknown operator %s", x.Op)
}

func (c *Compiler) evalPair(xe, ye Expr) (Value, Value, error) {
	xv, err := c.evalExpr(xe)
	if err != nil {
		return nil, nil, err
	}
	yv, err := c.evalExpr(ye)
	if err != nil {
		return nil, nil, err
	}
	yv, err = c.unalias(xv, yv, ye.Lineno())
	if err != nil {
		return nil, nil, err
	}
	return xv, yv, nil
}

// unalias guards the x op x shape: the same name on both sides of a
// binary operator hands the generator one value twice, and the cell
// idioms cannot drain a cell into itself. The right side becomes a
// duplicate.
func (c *Compiler) unalias(xv, yv Value, line int) (Value, error) {
	if xv != yv {
		return yv, nil
	}
	if _, real := xv.(*RealValue); !real {
		return yv, nil
	}
	return c.copyValue(yv, line)
}

func (c *Compiler) evalIndex(x *Index) (Value, error) {
	base, err := c.evalExpr(x.X)
	if err != nil {
		return nil, err
	}
	iv, err := c.evalExpr(x.I)
	if err != nil {
		return nil, err
	}
	n, ok := virtualScalar(iv)
	if !ok {
		return nil, errAt(ErrTypeMismatch, x.Line,
			"index must be a compile-time integer, got %s", iv.ValueString())
	}
	i := int(n)
	switch bv := base.(type) {
	case *RealValue:
		arr, isArr := bv.Type.(*ArrayType)
		if !isArr {
			return nil, errAt(ErrTypeMismatch, x.Line, "%s is not indexable", bv.Type.TypeString())
		}
		if i < 0 || i >= arr.Len {
			return nil, errAt(ErrTypeMismatch, x.Line, "index %d out of range of %s", i, arr.TypeString())
		}
		ew := arr.Elem.Width()
		return &RealValue{
			Region:   bv.Region.Sub(i*ew, ew),
			Type:     arr.Elem,
			Borrowed: true,
		}, nil
	case *VirtList:
		if i < 0 || i >= len(bv.Elems) {
			return nil, errAt(ErrTypeMismatch, x.Line, "index %d out of range of %s", i, bv.ValueString())
		}
		return bv.Elems[i], nil
	case *VirtStr:
		if i < 0 || i >= len(bv.Val) {
			return nil, errAt(ErrTypeMismatch, x.Line, "index %d out of range", i)
		}
		return &VirtChar{Val: rune(bv.Val[i])}, nil
	case *VirtTuple:
		if i < 0 || i >= len(bv.Elems) {
			return nil, errAt(ErrTypeMismatch, x.Line, "index %d out of range of %s", i, bv.ValueString())
		}
		return bv.Elems[i], nil
	}
	return nil, errAt(ErrTypeMismatch, x.Line, "%s is not indexable", base.ValueString())
}

// assignment --------------------------------------------------------

func (c *Compiler) compileAssign(lhs Expr, rhs Expr, line int) (Value, error) {
	switch target := lhs.(type) {
	case *Ident:
		b := c.lookup(target.Name)
		if b == nil {
			return nil, errAt(ErrUndeclaredVariable, target.Line, "%s is not declared", target.Name)
		}
		v, err := c.evalExpr(rhs)
		if err != nil {
			return nil, err
		}
		if err := c.assignToBinding(b, v, line); err != nil {
			return nil, err
		}
		return b.Val, nil
	case *TupleLit:
		v, err := c.evalExpr(rhs)
		if err != nil {
			return nil, err
		}
		return c.assignTuple(target, v, line)
	case *Index:
		elem, err := c.evalIndex(target)
		if err != nil {
			return nil, err
		}
		ev, isReal := elem.(*RealValue)
		if !isReal {
			return nil, errAt(ErrTypeMismatch, line, "cannot assign into a compile-time value")
		}
		v, err := c.evalExpr(rhs)
		if err != nil {
			return nil, err
		}
		return c.assignIntoView(ev, v, line)
	}
	return nil, errAt(ErrSyntax, line, "cannot assign to %s", lhs.String())
}

// assignToBinding implements =. A real source hands its storage
// region over to the target's identity; the source ceases to exist
// as a distinct entity. A virtual source is constructed into the
// target's existing storage.
func (c *Compiler) assignToBinding(b *Binding, v Value, line int) error {
	cur, curReal := b.Val.(*RealValue)
	if !curReal {
		// a virtual binding (inlined parameter) simply rebinds
		if rv, ok := v.(*RealValue); ok {
			c.detachValue(rv, line)
			rv.Binding = b
		}
		b.Val = v
		b.Assigned = true
		return nil
	}

	switch src := v.(type) {
	case *RealValue:
		if src.Borrowed {
			copied, err := c.copyValue(src, line)
			if err != nil {
				return err
			}
			src = copied.(*RealValue)
		}
		if src.Region.Width != cur.Type.Width() {
			return errAt(ErrTypeMismatch, line,
				"cannot assign %s into %s %s", src.Type.TypeString(), cur.Type.TypeString(), b.Name)
		}
		if src.Region == cur.Region {
			// x = x; nothing moves
			b.Assigned = true
			return nil
		}
		c.tape.Free(cur.Region)
		cur.Region = src.Region
		if src.Binding != nil {
			src.Binding.scope.Unbind(src.Binding.Name)
		}
		b.Assigned = true
		return nil
	default:
		if err := c.construct(cur.Type, cur.Region, v, b.Assigned, line); err != nil {
			return err
		}
		b.Assigned = true
		return nil
	}
}

// detachValue strips a real value of any existing name so a new
// binding can take it over.
func (c *Compiler) detachValue(rv *RealValue, line int) {
	if rv.Binding != nil {
		rv.Binding.scope.Unbind(rv.Binding.Name)
		rv.Binding = nil
	}
}

// assignTuple distributes a tuple source over a tuple of targets,
// field by field in declaration order.
func (c *Compiler) assignTuple(target *TupleLit, v Value, line int) (Value, error) {
	tup, ok := v.(*VirtTuple)
	if !ok {
		return nil, errAt(ErrTypeMismatch, line,
			"tuple assignment needs a tuple source, got %s", v.ValueString())
	}
	if len(tup.Elems) != len(target.Elems) {
		return nil, errAt(ErrArityMismatch, line,
			"%d targets but %d values", len(target.Elems), len(tup.Elems))
	}
	for i, te := range target.Elems {
		if _, err := c.compileAssignValue(te, tup.Elems[i], line); err != nil {
			return nil, err
		}
	}
	return tup, nil
}

// compileAssignValue assigns an already evaluated value to a target
// expression; used by tuple distribution.
func (c *Compiler) compileAssignValue(lhs Expr, v Value, line int) (Value, error) {
	switch target := lhs.(type) {
	case *Ident:
		b := c.lookup(target.Name)
		if b == nil {
			return nil, errAt(ErrUndeclaredVariable, target.Line, "%s is not declared", target.Name)
		}
		if err := c.assignToBinding(b, v, line); err != nil {
			return nil, err
		}
		return b.Val, nil
	case *TupleLit:
		return c.assignTuple(target, v, line)
	}
	return nil, errAt(ErrSyntax, line, "cannot assign to %s", lhs.String())
}

// assignIntoView writes into borrowed storage (an array element).
// The view's identity cannot change, so real sources move their
// value at runtime and are destroyed.
func (c *Compiler) assignIntoView(view *RealValue, v Value, line int) (Value, error) {
	switch src := v.(type) {
	case *RealValue:
		if src.Region.Width != view.Region.Width {
			return nil, errAt(ErrTypeMismatch, line,
				"cannot assign %s into %s", src.Type.TypeString(), view.Type.TypeString())
		}
		if view.Region.Width != 1 {
			return nil, errAt(ErrTypeMismatch, line, "element assignment works on single cells")
		}
		c.emit.MoveTo(view.Region.Cell())
		c.emit.ZeroCell()
		if err := c.transfer(src.Region.Cell(), view.Region.Cell()); err != nil {
			return nil, err
		}
		c.destroyValue(src)
		return view, nil
	default:
		// element views are always treated as dirty
		if err := c.construct(view.Type, view.Region, v, true, line); err != nil {
			return nil, err
		}
		return view, nil
	}
}

// calls -------------------------------------------------------------

func (c *Compiler) compileCall(x *Call) (Value, error) {
	switch x.Name {
	case "read":
		if len(x.Args) != 0 {
			return nil, errAt(ErrArityMismatch, x.Line, "read takes no arguments")
		}
		// no zeroing: the input primitive overwrites the cell
		r, err := c.tape.Allocate(1)
		if err != nil {
			return nil, lineify(err, x.Line)
		}
		c.emit.MoveTo(r.Cell())
		c.emit.Op(OpRead, 1)
		return &RealValue{Region: r, Type: byteType}, nil
	case "write":
		if len(x.Args) != 1 {
			return nil, errAt(ErrArityMismatch, x.Line, "write takes one argument")
		}
		v, err := c.evalExpr(x.Args[0])
		if err != nil {
			return nil, err
		}
		rv, err := c.materialize(v, x.Line)
		if err != nil {
			return nil, err
		}
		if rv.Region.Width != 1 {
			return nil, errAt(ErrTypeMismatch, x.Line, "write takes a single cell, got %s", rv.Type.TypeString())
		}
		c.emit.MoveTo(rv.Region.Cell())
		c.emit.Op(OpWrite, 1)
		c.releaseTemp(rv)
		return nil, nil
	}

	fn, ok := c.funcs[x.Name]
	if !ok {
		return nil, errAt(ErrUnknownFunction, x.Line, "no function named %s", x.Name)
	}
	args := make([]Value, len(x.Args))
	for i, ae := range x.Args {
		v, err := c.evalExpr(ae)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return c.inlineFunction(fn, args, x.Line)
}
