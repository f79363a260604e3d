package cf

import (
	"fmt"
	"strconv"
	"strings"
)

// RealType is a type with a runtime representation on the tape. The
// fixed set is byte and arrays thereof; both have a cell width known
// at compile time.
type RealType interface {
	Width() int
	TypeString() string
}

type ByteType struct{}

func (t *ByteType) Width() int         { return 1 }
func (t *ByteType) TypeString() string { return "byte" }

type ArrayType struct {
	Elem RealType
	Len  int
}

func (t *ArrayType) Width() int { return t.Elem.Width() * t.Len }
func (t *ArrayType) TypeString() string {
	return fmt.Sprintf("%s[%d]", t.Elem.TypeString(), t.Len)
}

var byteType = &ByteType{}

func typesEqual(a, b RealType) bool {
	switch x := a.(type) {
	case *ByteType:
		_, ok := b.(*ByteType)
		return ok
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && x.Len == y.Len && typesEqual(x.Elem, y.Elem)
	}
	return false
}

// Value is what evaluating an expression yields: either a real value
// backed by owned tape cells, or a virtual one that lives only in
// the compiler until constructed.
type Value interface {
	ValueString() string
}

// RealValue denotes a currently-owned tape region. Binding is nil
// for anonymous temporaries. Borrowed marks a view into storage
// owned by someone else (an array element); destroying a borrowed
// value never frees cells.
type RealValue struct {
	Region   Region
	Type     RealType
	Binding  *Binding
	Borrowed bool
}

func (v *RealValue) ValueString() string {
	who := "anonymous"
	if v.Binding != nil {
		who = v.Binding.Name
	}
	if v.Borrowed {
		who += " (borrowed)"
	}
	return fmt.Sprintf("%s %s at %s", v.Type.TypeString(), who, v.Region)
}

// Virtual values: one struct per kind, like the literal they came from.

type VirtInt struct {
	Val int64
}

func (v *VirtInt) ValueString() string { return fmt.Sprintf("virtual integer %d", v.Val) }

type VirtFloat struct {
	Val float64
}

func (v *VirtFloat) ValueString() string { return fmt.Sprintf("virtual float %v", v.Val) }

type VirtChar struct {
	Val rune
}

func (v *VirtChar) ValueString() string {
	return fmt.Sprintf("virtual char %s", strconv.QuoteRune(v.Val))
}

type VirtStr struct {
	Val string
}

func (v *VirtStr) ValueString() string {
	return fmt.Sprintf("virtual string %s", strconv.Quote(v.Val))
}

type VirtList struct {
	Elems []Value
}

func (v *VirtList) ValueString() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.ValueString()
	}
	return "virtual list [" + strings.Join(parts, ", ") + "]"
}

type VirtTuple struct {
	Elems []Value
}

func (v *VirtTuple) ValueString() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.ValueString()
	}
	return "virtual tuple (" + strings.Join(parts, ", ") + ")"
}

// isVirtual reports whether v has no tape backing.
func isVirtual(v Value) bool {
	_, real := v.(*RealValue)
	return !real
}

// virtualScalar extracts the numeric payload of an integer or char
// virtual, the two kinds the byte operators fold against.
func virtualScalar(v Value) (int64, bool) {
	switch x := v.(type) {
	case *VirtInt:
		return x.Val, true
	case *VirtChar:
		return int64(x.Val), true
	}
	return 0, false
}
