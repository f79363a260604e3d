package cf

// Construction turns a virtual value into real cell contents.
// Dispatch is on the (target type, virtual kind) pair; anything
// outside the table below is an error rather than a guess. In
// particular float has no real representation in the fixed type set.
//
// A freshly allocated cell above the high-water mark is guaranteed
// zero, so constructing N into it is just N increments. A reused
// cell may hold the previous occupant's value and gets the [-]
// zeroing idiom first; so does any cell being re-assigned, and any
// cell constructed inside a loop body, where the previous iteration's
// value is still sitting in it when the body runs again.

// construct emits the writes that make region hold v. dirty says the
// region may hold a nonzero value already (re-assignment, or storage
// the caller knows was written).
func (c *Compiler) construct(target RealType, region Region, v Value, dirty bool, line int) error {
	switch virt := v.(type) {
	case *VirtInt:
		return c.constructScalar(target, region, virt.Val, dirty, line)
	case *VirtChar:
		return c.constructScalar(target, region, int64(virt.Val), dirty, line)
	case *VirtStr:
		arr, ok := target.(*ArrayType)
		if !ok || !typesEqual(arr.Elem, byteType) {
			return errAt(ErrTypeMismatch, line,
				"cannot construct a string into %s", target.TypeString())
		}
		if len(virt.Val) != arr.Len {
			return errAt(ErrTypeMismatch, line,
				"string of length %d does not fit %s", len(virt.Val), target.TypeString())
		}
		for i := 0; i < len(virt.Val); i++ {
			if err := c.constructScalar(byteType, region.Sub(i, 1), int64(virt.Val[i]), dirty, line); err != nil {
				return err
			}
		}
		return nil
	case *VirtList:
		arr, ok := target.(*ArrayType)
		if !ok {
			return errAt(ErrTypeMismatch, line,
				"cannot construct a list into %s", target.TypeString())
		}
		if len(virt.Elems) != arr.Len {
			return errAt(ErrTypeMismatch, line,
				"list of %d elements does not fit %s", len(virt.Elems), target.TypeString())
		}
		ew := arr.Elem.Width()
		for i, el := range virt.Elems {
			if !isVirtual(el) {
				return errAt(ErrTypeMismatch, line,
					"list element %d is not a compile-time value", i)
			}
			if err := c.construct(arr.Elem, region.Sub(i*ew, ew), el, dirty, line); err != nil {
				return err
			}
		}
		return nil
	case *VirtFloat:
		return errAt(ErrUnsupportedConstruction, line,
			"float has no real-type representation")
	case *VirtTuple:
		// tuples construct into multiple declared targets, which is
		// resolved at the assignment level; a single region is never
		// a valid tuple target.
		return errAt(ErrTypeMismatch, line,
			"cannot construct a tuple into a single %s", target.TypeString())
	}
	return errAt(ErrInternal, line, "construct called on real value %s", v.ValueString())
}

func (c *Compiler) constructScalar(target RealType, region Region, val int64, dirty bool, line int) error {
	if !typesEqual(target, byteType) {
		return errAt(ErrTypeMismatch, line,
			"cannot construct integer %d into %s", val, target.TypeString())
	}
	if val < 0 || val > 255 {
		return errAt(ErrTypeMismatch, line,
			"value %d does not fit in a byte cell", val)
	}
	cell := region.Cell()
	c.emit.MoveTo(cell)
	if dirty || c.emit.InLoop() || !c.tape.Pristine(cell) {
		c.emit.ZeroCell()
	}
	c.emit.Op(OpInc, int(val))
	return nil
}
