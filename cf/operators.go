package cf

// The operator code generator. Every built-in operates on values
// backed by single byte cells; the four real/virtual operand
// combinations each get their own path:
//
//   real x real      -> runtime loops over the cells
//   real x virtual   -> fixed-count increments/decrements where a
//                       pure count suffices, otherwise the constant
//                       is materialized into a cell first
//   virtual x virtual-> folds at compile time, zero instructions
//
// Destructive effects follow the original operator table: the
// compound ops mutate x and destroy y, the equality and ordered
// comparisons destroy both operands, & is the only nondestructive
// way to duplicate a cell.

// lineify stamps line onto a CompileError that has no location yet.
func lineify(err error, line int) error {
	if ce, ok := err.(*CompileError); ok && ce.Line == 0 {
		ce.Line = line
	}
	return err
}

// tape idioms -------------------------------------------------------

// freshCell allocates an anonymous cell guaranteed to hold zero:
// pristine cells already do, reused ones get the zeroing idiom. A
// cell allocated inside an open loop body is never trusted to be
// zero, since iteration two runs against whatever iteration one left.
func (c *Compiler) freshCell(line int) (Region, error) {
	r, err := c.tape.Allocate(1)
	if err != nil {
		return Region{}, lineify(err, line)
	}
	if c.emit.InLoop() || !c.tape.Pristine(r.Cell()) {
		c.emit.MoveTo(r.Cell())
		c.emit.ZeroCell()
	}
	return r, nil
}

// transfer drains src into every dst: while src nonzero, decrement
// src and increment each dst. Destroys the value at src (leaves 0).
func (c *Compiler) transfer(src int, dsts ...int) error {
	c.emit.MoveTo(src)
	return c.emit.Loop(func() error {
		c.emit.Op(OpDec, 1)
		for _, d := range dsts {
			c.emit.MoveTo(d)
			c.emit.Op(OpInc, 1)
		}
		c.emit.MoveTo(src)
		return nil
	})
}

// transferMul drains src into dst, adding mult per unit of src.
func (c *Compiler) transferMul(src, dst, mult int) error {
	c.emit.MoveTo(src)
	return c.emit.Loop(func() error {
		c.emit.Op(OpDec, 1)
		c.emit.MoveTo(dst)
		c.emit.Op(OpInc, mult)
		c.emit.MoveTo(src)
		return nil
	})
}

// copyCell duplicates the value at src without destroying it: drain
// src into two temporaries, drain one back into src, keep the other.
func (c *Compiler) copyCell(src int, line int) (Region, error) {
	a1, err := c.freshCell(line)
	if err != nil {
		return Region{}, err
	}
	a2, err := c.freshCell(line)
	if err != nil {
		return Region{}, err
	}
	if err := c.transfer(src, a1.Cell(), a2.Cell()); err != nil {
		return Region{}, err
	}
	if err := c.transfer(a2.Cell(), src); err != nil {
		return Region{}, err
	}
	c.tape.Free(a2)
	return a1, nil
}

// boolifyCell returns a fresh cell holding 1 if cell was nonzero,
// else 0. Destroys the value at cell (leaves 0).
func (c *Compiler) boolifyCell(cell int, line int) (Region, error) {
	z, err := c.freshCell(line)
	if err != nil {
		return Region{}, err
	}
	c.emit.MoveTo(cell)
	err = c.emit.Loop(func() error {
		c.emit.ZeroCell()
		c.emit.MoveTo(z.Cell())
		c.emit.Op(OpInc, 1)
		c.emit.MoveTo(cell)
		return nil
	})
	return z, err
}

// notCell returns a fresh cell holding 1 if cell was zero, else 0.
// Destroys the value at cell (leaves 0).
func (c *Compiler) notCell(cell int, line int) (Region, error) {
	z, err := c.freshCell(line)
	if err != nil {
		return Region{}, err
	}
	c.emit.MoveTo(z.Cell())
	c.emit.Op(OpInc, 1)
	c.emit.MoveTo(cell)
	err = c.emit.Loop(func() error {
		c.emit.ZeroCell()
		c.emit.MoveTo(z.Cell())
		c.emit.Op(OpDec, 1)
		c.emit.MoveTo(cell)
		return nil
	})
	return z, err
}

// bothNonzero returns a fresh 0/1 cell = (a != 0 && b != 0), leaving
// a and b intact.
func (c *Compiler) bothNonzero(a, b int, line int) (Region, error) {
	ca, err := c.copyCell(a, line)
	if err != nil {
		return Region{}, err
	}
	cb, err := c.copyCell(b, line)
	if err != nil {
		return Region{}, err
	}
	ba, err := c.boolifyCell(ca.Cell(), line)
	if err != nil {
		return Region{}, err
	}
	c.tape.Free(ca)
	bb, err := c.boolifyCell(cb.Cell(), line)
	if err != nil {
		return Region{}, err
	}
	c.tape.Free(cb)
	r, err := c.freshCell(line)
	if err != nil {
		return Region{}, err
	}
	c.emit.MoveTo(ba.Cell())
	err = c.emit.Loop(func() error {
		c.emit.ZeroCell()
		c.emit.MoveTo(bb.Cell())
		if err := c.emit.Loop(func() error {
			c.emit.ZeroCell()
			c.emit.MoveTo(r.Cell())
			c.emit.Op(OpInc, 1)
			c.emit.MoveTo(bb.Cell())
			return nil
		}); err != nil {
			return err
		}
		c.emit.MoveTo(ba.Cell())
		return nil
	})
	if err != nil {
		return Region{}, err
	}
	c.tape.Free(ba)
	c.tape.Free(bb)
	return r, nil
}

// parallelDecrement decrements a and b together until one of them
// reaches zero. Afterwards a holds a-min(a,b) and b holds
// b-min(a,b); at most one of them is nonzero. This is the
// decrement-to-zero family all the ordered comparisons derive from.
func (c *Compiler) parallelDecrement(a, b int, line int) error {
	cond, err := c.bothNonzero(a, b, line)
	if err != nil {
		return err
	}
	c.emit.MoveTo(cond.Cell())
	err = c.emit.Loop(func() error {
		c.emit.ZeroCell()
		c.emit.MoveTo(a)
		c.emit.Op(OpDec, 1)
		c.emit.MoveTo(b)
		c.emit.Op(OpDec, 1)
		flag, err := c.bothNonzero(a, b, line)
		if err != nil {
			return err
		}
		if err := c.transfer(flag.Cell(), cond.Cell()); err != nil {
			return err
		}
		c.tape.Free(flag)
		c.emit.MoveTo(cond.Cell())
		return nil
	})
	if err != nil {
		return err
	}
	c.tape.Free(cond)
	return nil
}

// value helpers -----------------------------------------------------

// realByte requires a real, single-cell value.
func realByte(v Value, op string, line int) (*RealValue, error) {
	rv, ok := v.(*RealValue)
	if !ok {
		return nil, errAt(ErrTypeMismatch, line,
			"operator %s needs a tape-resident operand, got %s", op, v.ValueString())
	}
	if rv.Region.Width != 1 {
		return nil, errAt(ErrTypeMismatch, line,
			"operator %s works on single cells, got %s", op, rv.Type.TypeString())
	}
	return rv, nil
}

// destroyValue frees a real value's storage and removes its binding,
// after which the name (if any) is gone and the region is available
// for reuse. Borrowed views and virtual values have nothing to free.
func (c *Compiler) destroyValue(v Value) {
	rv, ok := v.(*RealValue)
	if !ok || rv.Borrowed {
		return
	}
	c.tape.Free(rv.Region)
	if rv.Binding != nil {
		rv.Binding.scope.Unbind(rv.Binding.Name)
		rv.Binding = nil
	}
}

// releaseTemp frees a value only if it is an anonymous temporary;
// named and borrowed values survive.
func (c *Compiler) releaseTemp(v Value) {
	rv, ok := v.(*RealValue)
	if ok && !rv.Borrowed && rv.Binding == nil {
		c.tape.Free(rv.Region)
	}
}

// consumable produces a value an operator may destroy: anonymous
// temporaries and virtuals pass through, named or borrowed reals are
// duplicated first.
func (c *Compiler) consumable(v Value, line int) (Value, error) {
	rv, ok := v.(*RealValue)
	if !ok || (rv.Binding == nil && !rv.Borrowed) {
		return v, nil
	}
	return c.copyValue(v, line)
}

// copyValue is the & operator: a fresh real duplicate of a cell, or
// a plain copy of a virtual.
func (c *Compiler) copyValue(v Value, line int) (Value, error) {
	switch x := v.(type) {
	case *RealValue:
		if x.Region.Width != 1 {
			return nil, errAt(ErrTypeMismatch, line,
				"& copies single cells, got %s", x.Type.TypeString())
		}
		r, err := c.copyCell(x.Region.Cell(), line)
		if err != nil {
			return nil, err
		}
		return &RealValue{Region: r, Type: byteType}, nil
	case *VirtInt:
		return &VirtInt{Val: x.Val}, nil
	case *VirtFloat:
		return &VirtFloat{Val: x.Val}, nil
	case *VirtChar:
		return &VirtChar{Val: x.Val}, nil
	case *VirtStr:
		return &VirtStr{Val: x.Val}, nil
	case *VirtList:
		return &VirtList{Elems: append([]Value{}, x.Elems...)}, nil
	case *VirtTuple:
		return &VirtTuple{Elems: append([]Value{}, x.Elems...)}, nil
	}
	return nil, errAt(ErrInternal, line, "cannot copy %s", v.ValueString())
}

// materialize gives a virtual scalar a real cell; reals pass
// through.
func (c *Compiler) materialize(v Value, line int) (*RealValue, error) {
	if rv, ok := v.(*RealValue); ok {
		return rv, nil
	}
	n, ok := virtualScalar(v)
	if !ok {
		return nil, errAt(ErrTypeMismatch, line,
			"%s cannot back a single cell", v.ValueString())
	}
	r, err := c.tape.Allocate(1)
	if err != nil {
		return nil, lineify(err, line)
	}
	if err := c.constructScalar(byteType, r, n, false, line); err != nil {
		return nil, err
	}
	return &RealValue{Region: r, Type: byteType}, nil
}

// adoptRegion rebinds x's storage to src, freeing the old region.
// For borrowed views the storage cannot change identity, so the
// value is moved at runtime instead.
func (c *Compiler) adoptRegion(x *RealValue, src Region) error {
	if !x.Borrowed {
		c.tape.Free(x.Region)
		x.Region = src
		return nil
	}
	c.emit.MoveTo(x.Region.Cell())
	c.emit.ZeroCell()
	if err := c.transfer(src.Cell(), x.Region.Cell()); err != nil {
		return err
	}
	c.tape.Free(src)
	return nil
}

// operators ---------------------------------------------------------

// opIncDec handles ++ and --.
func (c *Compiler) opIncDec(op string, x Value, line int) (Value, error) {
	if n, ok := virtualScalar(x); ok {
		if op == "++" {
			return &VirtInt{Val: n + 1}, nil
		}
		return &VirtInt{Val: n - 1}, nil
	}
	rv, err := realByte(x, op, line)
	if err != nil {
		return nil, err
	}
	c.emit.MoveTo(rv.Region.Cell())
	if op == "++" {
		c.emit.Op(OpInc, 1)
	} else {
		c.emit.Op(OpDec, 1)
	}
	return rv, nil
}

// opNot maps nonzero to 0 and zero to 1, in place.
func (c *Compiler) opNot(x Value, line int) (Value, error) {
	if n, ok := virtualScalar(x); ok {
		if n == 0 {
			return &VirtInt{Val: 1}, nil
		}
		return &VirtInt{Val: 0}, nil
	}
	rv, err := realByte(x, "!", line)
	if err != nil {
		return nil, err
	}
	cell := rv.Region.Cell()
	t, err := c.notCell(cell, line)
	if err != nil {
		return nil, err
	}
	if err := c.transfer(t.Cell(), cell); err != nil {
		return nil, err
	}
	c.tape.Free(t)
	return rv, nil
}

// opCompound handles += -= *= /= //= %=. Mutates x, destroys y.
func (c *Compiler) opCompound(op string, x, y Value, line int) (Value, error) {
	rv, err := realByte(x, op, line)
	if err != nil {
		return nil, err
	}
	cell := rv.Region.Cell()

	switch op {
	case "+=", "-=":
		if n, ok := virtualScalar(y); ok {
			if n < -255 || n > 255 {
				return nil, errAt(ErrTypeMismatch, line, "offset %d does not fit a byte cell", n)
			}
			if op == "-=" {
				n = -n
			}
			c.emit.MoveTo(cell)
			if n >= 0 {
				c.emit.Op(OpInc, int(n))
			} else {
				c.emit.Op(OpDec, int(-n))
			}
			return rv, nil
		}
		ry, err := realByte(y, op, line)
		if err != nil {
			return nil, err
		}
		ycell := ry.Region.Cell()
		if op == "+=" {
			if err := c.transfer(ycell, cell); err != nil {
				return nil, err
			}
		} else {
			c.emit.MoveTo(ycell)
			err = c.emit.Loop(func() error {
				c.emit.Op(OpDec, 1)
				c.emit.MoveTo(cell)
				c.emit.Op(OpDec, 1)
				c.emit.MoveTo(ycell)
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		c.destroyValue(ry)
		return rv, nil

	case "*=":
		if n, ok := virtualScalar(y); ok {
			if n < 0 || n > 255 {
				return nil, errAt(ErrTypeMismatch, line, "multiplier %d does not fit a byte cell", n)
			}
			t, err := c.freshCell(line)
			if err != nil {
				return nil, err
			}
			if err := c.transferMul(cell, t.Cell(), int(n)); err != nil {
				return nil, err
			}
			if err := c.transfer(t.Cell(), cell); err != nil {
				return nil, err
			}
			c.tape.Free(t)
			return rv, nil
		}
		ry, err := realByte(y, op, line)
		if err != nil {
			return nil, err
		}
		ycell := ry.Region.Cell()
		// save the multiplicand, zero the accumulator, then add the
		// saved copy back in once per unit of the multiplier.
		xp, err := c.copyCell(cell, line)
		if err != nil {
			return nil, err
		}
		c.emit.MoveTo(cell)
		c.emit.ZeroCell()
		c.emit.MoveTo(ycell)
		err = c.emit.Loop(func() error {
			c.emit.Op(OpDec, 1)
			xpp, err := c.copyCell(xp.Cell(), line)
			if err != nil {
				return err
			}
			if err := c.transfer(xpp.Cell(), cell); err != nil {
				return err
			}
			c.tape.Free(xpp)
			c.emit.MoveTo(ycell)
			return nil
		})
		if err != nil {
			return nil, err
		}
		c.tape.Free(xp)
		c.destroyValue(ry)
		return rv, nil

	case "/=", "//=", "%=":
		return c.opDivMod(op, rv, y, line)
	}
	return nil, errAt(ErrInternal, line, "no compound rule for %s", op)
}

// opDivMod: repeatedly subtract the divisor from the dividend while
// dividend >= divisor, counting subtractions in a quotient cell. The
// division forms keep the quotient, %= keeps the remaining dividend;
// the unused cell and the divisor are destroyed.
func (c *Compiler) opDivMod(op string, x *RealValue, y Value, line int) (Value, error) {
	if n, ok := virtualScalar(y); ok && n == 0 {
		return nil, errAt(ErrTypeMismatch, line, "division by zero")
	}
	ry, err := c.materialize(y, line)
	if err != nil {
		return nil, err
	}
	if ry.Region.Width != 1 {
		return nil, errAt(ErrTypeMismatch, line,
			"operator %s works on single cells, got %s", op, ry.Type.TypeString())
	}
	d := x.Region.Cell()
	v := ry.Region.Cell()

	q, err := c.freshCell(line)
	if err != nil {
		return nil, err
	}
	cond, err := c.geqCell(d, v, line)
	if err != nil {
		return nil, err
	}
	c.emit.MoveTo(cond.Cell())
	err = c.emit.Loop(func() error {
		c.emit.ZeroCell()
		// dividend -= divisor, preserving the divisor
		vc, err := c.copyCell(v, line)
		if err != nil {
			return err
		}
		c.emit.MoveTo(vc.Cell())
		if err := c.emit.Loop(func() error {
			c.emit.Op(OpDec, 1)
			c.emit.MoveTo(d)
			c.emit.Op(OpDec, 1)
			c.emit.MoveTo(vc.Cell())
			return nil
		}); err != nil {
			return err
		}
		c.tape.Free(vc)
		c.emit.MoveTo(q.Cell())
		c.emit.Op(OpInc, 1)
		flag, err := c.geqCell(d, v, line)
		if err != nil {
			return err
		}
		if err := c.transfer(flag.Cell(), cond.Cell()); err != nil {
			return err
		}
		c.tape.Free(flag)
		c.emit.MoveTo(cond.Cell())
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.tape.Free(cond)
	c.destroyValue(ry)

	if op == "%=" {
		c.tape.Free(q)
		return x, nil
	}
	if err := c.adoptRegion(x, q); err != nil {
		return nil, err
	}
	return x, nil
}

// geqCell computes (value at a) >= (value at b) into a fresh 0/1
// cell without destroying a or b.
func (c *Compiler) geqCell(a, b int, line int) (Region, error) {
	ca, err := c.copyCell(a, line)
	if err != nil {
		return Region{}, err
	}
	cb, err := c.copyCell(b, line)
	if err != nil {
		return Region{}, err
	}
	if err := c.parallelDecrement(ca.Cell(), cb.Cell(), line); err != nil {
		return Region{}, err
	}
	// a >= b exactly when b ran out first
	z, err := c.notCell(cb.Cell(), line)
	if err != nil {
		return Region{}, err
	}
	c.tape.Free(ca)
	c.tape.Free(cb)
	return z, nil
}

// opEquality handles == and !=. Destroys both operands.
func (c *Compiler) opEquality(op string, x, y Value, line int) (Value, error) {
	if folded, ok, err := foldEquality(op, x, y, line); ok || err != nil {
		return folded, err
	}

	// put the real operand in x; == and != commute
	if isVirtual(x) {
		x, y = y, x
	}
	rx, err := realByte(x, op, line)
	if err != nil {
		return nil, err
	}
	xcell := rx.Region.Cell()

	if n, ok := virtualScalar(y); ok {
		// the statically known side becomes a fixed-count offset
		if n < 0 || n > 255 {
			return nil, errAt(ErrTypeMismatch, line, "value %d does not fit a byte cell", n)
		}
		c.emit.MoveTo(xcell)
		c.emit.Op(OpDec, int(n))
	} else {
		ry, err := realByte(y, op, line)
		if err != nil {
			return nil, err
		}
		ycell := ry.Region.Cell()
		c.emit.MoveTo(ycell)
		err = c.emit.Loop(func() error {
			c.emit.Op(OpDec, 1)
			c.emit.MoveTo(xcell)
			c.emit.Op(OpDec, 1)
			c.emit.MoveTo(ycell)
			return nil
		})
		if err != nil {
			return nil, err
		}
		c.destroyValue(ry)
	}

	var z Region
	if op == "==" {
		z, err = c.notCell(xcell, line)
	} else {
		z, err = c.boolifyCell(xcell, line)
	}
	if err != nil {
		return nil, err
	}
	c.destroyValue(rx)
	return &RealValue{Region: z, Type: byteType}, nil
}

// opOrdered handles < > <= >=. Destroys both operands.
func (c *Compiler) opOrdered(op string, x, y Value, line int) (Value, error) {
	if folded, ok, err := foldOrdered(op, x, y, line); ok || err != nil {
		return folded, err
	}

	rx, err := c.materialize(x, line)
	if err != nil {
		return nil, err
	}
	ry, err := c.materialize(y, line)
	if err != nil {
		return nil, err
	}
	if rx.Region.Width != 1 || ry.Region.Width != 1 {
		return nil, errAt(ErrTypeMismatch, line, "operator %s works on single cells", op)
	}
	a := rx.Region.Cell()
	b := ry.Region.Cell()
	if err := c.parallelDecrement(a, b, line); err != nil {
		return nil, err
	}
	// after parallel decrement at most one residue is nonzero:
	// a residue means x was larger, a b residue means y was larger.
	var z Region
	switch op {
	case "<":
		z, err = c.boolifyCell(b, line)
	case ">":
		z, err = c.boolifyCell(a, line)
	case "<=":
		z, err = c.notCell(a, line)
	case ">=":
		z, err = c.notCell(b, line)
	}
	if err != nil {
		return nil, err
	}
	c.destroyValue(rx)
	c.destroyValue(ry)
	return &RealValue{Region: z, Type: byteType}, nil
}

// opPlain handles the non-mutating arithmetic forms + - * / // %.
// The result is a fresh anonymous value; named operands are copied,
// anonymous temporaries are consumed.
func (c *Compiler) opPlain(op string, x, y Value, line int) (Value, error) {
	if isVirtual(x) && isVirtual(y) {
		return foldArith(op, x, y, line)
	}

	compound := op + "="
	if op == "+" || op == "*" {
		// commutes: keep the virtual side virtual for the
		// fixed-count path
		if isVirtual(x) {
			x, y = y, x
		}
	}
	var t Value
	var err error
	if isVirtual(x) {
		t, err = c.materialize(x, line)
	} else {
		t, err = c.consumable(x, line)
	}
	if err != nil {
		return nil, err
	}
	yc, err := c.consumable(y, line)
	if err != nil {
		return nil, err
	}
	res, err := c.opCompound(compound, t, yc, line)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// compile-time folds ------------------------------------------------

func boolVirt(b bool) Value {
	if b {
		return &VirtInt{Val: 1}
	}
	return &VirtInt{Val: 0}
}

// foldEquality folds == and != when both operands are virtual.
func foldEquality(op string, x, y Value, line int) (Value, bool, error) {
	if !isVirtual(x) || !isVirtual(y) {
		return nil, false, nil
	}
	var eq bool
	switch a := x.(type) {
	case *VirtStr:
		b, ok := y.(*VirtStr)
		if !ok {
			return nil, true, errAt(ErrTypeMismatch, line,
				"cannot compare %s with %s", x.ValueString(), y.ValueString())
		}
		eq = a.Val == b.Val
	case *VirtFloat:
		bf, ok := floatScalar(y)
		if !ok {
			return nil, true, errAt(ErrTypeMismatch, line,
				"cannot compare %s with %s", x.ValueString(), y.ValueString())
		}
		eq = a.Val == bf
	default:
		an, aok := virtualScalar(x)
		if !aok {
			return nil, true, errAt(ErrTypeMismatch, line,
				"cannot compare %s", x.ValueString())
		}
		if bf, isf := y.(*VirtFloat); isf {
			eq = float64(an) == bf.Val
		} else {
			bn, bok := virtualScalar(y)
			if !bok {
				return nil, true, errAt(ErrTypeMismatch, line,
					"cannot compare %s", y.ValueString())
			}
			eq = an == bn
		}
	}
	if op == "!=" {
		eq = !eq
	}
	return boolVirt(eq), true, nil
}

func floatScalar(v Value) (float64, bool) {
	if f, ok := v.(*VirtFloat); ok {
		return f.Val, true
	}
	n, ok := virtualScalar(v)
	return float64(n), ok
}

// foldOrdered folds < > <= >= when both operands are virtual.
func foldOrdered(op string, x, y Value, line int) (Value, bool, error) {
	if !isVirtual(x) || !isVirtual(y) {
		return nil, false, nil
	}
	a, aok := floatScalar(x)
	b, bok := floatScalar(y)
	if !aok || !bok {
		return nil, true, errAt(ErrTypeMismatch, line,
			"cannot order %s and %s", x.ValueString(), y.ValueString())
	}
	var r bool
	switch op {
	case "<":
		r = a < b
	case ">":
		r = a > b
	case "<=":
		r = a <= b
	case ">=":
		r = a >= b
	}
	return boolVirt(r), true, nil
}

// foldArith folds + - * / // % over two virtual scalars.
func foldArith(op string, x, y Value, line int) (Value, error) {
	_, xFloat := x.(*VirtFloat)
	_, yFloat := y.(*VirtFloat)
	if xFloat || yFloat {
		a, aok := floatScalar(x)
		b, bok := floatScalar(y)
		if !aok || !bok {
			return nil, errAt(ErrTypeMismatch, line,
				"cannot apply %s to %s and %s", op, x.ValueString(), y.ValueString())
		}
		switch op {
		case "+":
			return &VirtFloat{Val: a + b}, nil
		case "-":
			return &VirtFloat{Val: a - b}, nil
		case "*":
			return &VirtFloat{Val: a * b}, nil
		case "/":
			if b == 0 {
				return nil, errAt(ErrTypeMismatch, line, "division by zero")
			}
			return &VirtFloat{Val: a / b}, nil
		}
		return nil, errAt(ErrTypeMismatch, line, "operator %s is not defined for floats", op)
	}
	a, aok := virtualScalar(x)
	b, bok := virtualScalar(y)
	if !aok || !bok {
		return nil, errAt(ErrTypeMismatch, line,
			"cannot apply %s to %s and %s", op, x.ValueString(), y.ValueString())
	}
	switch op {
	case "+":
		return &VirtInt{Val: a + b}, nil
	case "-":
		return &VirtInt{Val: a - b}, nil
	case "*":
		return &VirtInt{Val: a * b}, nil
	case "/", "//":
		if b == 0 {
			return nil, errAt(ErrTypeMismatch, line, "division by zero")
		}
		return &VirtInt{Val: a / b}, nil
	case "%":
		if b == 0 {
			return nil, errAt(ErrTypeMismatch, line, "division by zero")
		}
		return &VirtInt{Val: a % b}, nil
	}
	return nil, errAt(ErrInternal, line, "no fold rule for %s", op)
}
