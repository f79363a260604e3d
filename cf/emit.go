package cf

import (
	"bytes"
	"fmt"
)

// The eight target-machine primitives.
const (
	OpLeft  byte = '<'
	OpRight byte = '>'
	OpInc   byte = '+'
	OpDec   byte = '-'
	OpRead  byte = ','
	OpWrite byte = '.'
	OpOpen  byte = '['
	OpClose byte = ']'
)

// Emitter owns the output instruction buffer and the emulated head
// position. The recorded position is, by construction, exactly where
// the target machine's head will be after executing everything
// emitted so far; every cell-touching operation must route its
// movement through MoveTo to keep that true.
type Emitter struct {
	buf   bytes.Buffer
	head  int
	depth int

	trace bool
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

func (e *Emitter) Reset() {
	e.buf.Reset()
	e.head = 0
	e.depth = 0
}

// InLoop reports whether emission is currently inside an open [ ]
// body. Code emitted there re-executes once per runtime iteration, so
// a cell that is pristine at compile time still carries the previous
// iteration's value when the body runs again.
func (e *Emitter) InLoop() bool {
	return e.depth > 0
}

// Head returns the emulated head position.
func (e *Emitter) Head() int {
	return e.head
}

// Len returns the number of instructions emitted so far.
func (e *Emitter) Len() int {
	return e.buf.Len()
}

// Code returns a copy of the instruction buffer.
func (e *Emitter) Code() []byte {
	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	return out
}

// Op appends op n times.
func (e *Emitter) Op(op byte, n int) {
	if n < 0 {
		panic(fmt.Sprintf("emit count %d", n))
	}
	for i := 0; i < n; i++ {
		e.buf.WriteByte(op)
	}
	if e.trace && n > 0 {
		VPrintf("emit %s (head at %d)", string(bytes.Repeat([]byte{op}, n)), e.head)
	}
}

// MoveTo emits exactly |cell - head| movement primitives and records
// the new position.
func (e *Emitter) MoveTo(cell int) {
	if cell < 0 {
		panic(fmt.Sprintf("move to negative cell %d", cell))
	}
	if cell > e.head {
		e.Op(OpRight, cell-e.head)
	} else {
		e.Op(OpLeft, e.head-cell)
	}
	e.head = cell
}

// ZeroCell emits the [-] idiom, forcing the cell under the head to
// zero at runtime no matter what it held.
func (e *Emitter) ZeroCell() {
	e.Op(OpOpen, 1)
	e.Op(OpDec, 1)
	e.Op(OpClose, 1)
}

// Loop emits a balanced [ body ] pair. The head must sit on the loop
// cell when Loop is called, and body must bring it back to the same
// cell before the close emits, since the target machine re-tests the
// cell it branched on. A body that ends elsewhere is a compiler bug,
// not a user error.
func (e *Emitter) Loop(body func() error) error {
	save := e.head
	e.Op(OpOpen, 1)
	e.depth++
	err := body()
	e.depth--
	if err != nil {
		return err
	}
	if e.head != save {
		return errAt(ErrInternal, 0,
			"unbalanced loop: opened at cell %d, closing at cell %d", save, e.head)
	}
	e.Op(OpClose, 1)
	return nil
}
