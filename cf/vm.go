package cf

import (
	"bytes"
	"fmt"
	"io"
)

// Machine interprets compiled programs on the eight primitive
// instructions. Cells are bytes with wraparound arithmetic, the tape
// grows on demand to the right, and the head may not move left of
// cell zero.

var ErrStepLimit = fmt.Errorf("machine: step limit exceeded")

type Machine struct {
	In  io.Reader
	Out io.Writer

	// MaxSteps bounds execution; zero means the default.
	MaxSteps int64

	tape []byte
	head int
}

const defaultMaxSteps = 50 * 1000 * 1000

func NewMachine() *Machine {
	return &Machine{}
}

// Tape returns the cells touched so far; useful for inspection after
// a run.
func (m *Machine) Tape() []byte { return m.tape }

// Head returns the final head position.
func (m *Machine) Head() int { return m.head }

// matchBrackets precomputes the jump table for [ and ].
func matchBrackets(code []byte) (map[int]int, error) {
	jump := map[int]int{}
	var stack []int
	for i, op := range code {
		switch op {
		case OpOpen:
			stack = append(stack, i)
		case OpClose:
			if len(stack) == 0 {
				return nil, fmt.Errorf("machine: unmatched ] at offset %d", i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jump[open] = i
			jump[i] = open
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("machine: unmatched [ at offset %d", stack[len(stack)-1])
	}
	return jump, nil
}

func (m *Machine) cellAt(i int) *byte {
	for len(m.tape) <= i {
		m.tape = append(m.tape, 0)
	}
	return &m.tape[i]
}

// Run executes code from a zeroed tape with the head at cell zero.
func (m *Machine) Run(code []byte) error {
	m.tape = m.tape[:0]
	m.head = 0

	jump, err := matchBrackets(code)
	if err != nil {
		return err
	}
	limit := m.MaxSteps
	if limit == 0 {
		limit = defaultMaxSteps
	}
	in := m.In
	if in == nil {
		in = bytes.NewReader(nil)
	}
	out := m.Out
	if out == nil {
		out = io.Discard
	}

	var steps int64
	var inbuf [1]byte
	for pc := 0; pc < len(code); pc++ {
		steps++
		if steps > limit {
			return ErrStepLimit
		}
		switch code[pc] {
		case OpRight:
			m.head++
		case OpLeft:
			m.head--
			if m.head < 0 {
				return fmt.Errorf("machine: head moved left of cell zero at offset %d", pc)
			}
		case OpInc:
			*m.cellAt(m.head)++
		case OpDec:
			*m.cellAt(m.head)--
		case OpWrite:
			if _, err := out.Write([]byte{*m.cellAt(m.head)}); err != nil {
				return err
			}
		case OpRead:
			_, err := io.ReadFull(in, inbuf[:])
			switch err {
			case nil:
				*m.cellAt(m.head) = inbuf[0]
			case io.EOF, io.ErrUnexpectedEOF:
				*m.cellAt(m.head) = 0
			default:
				return err
			}
		case OpOpen:
			if *m.cellAt(m.head) == 0 {
				pc = jump[pc]
			}
		case OpClose:
			if *m.cellAt(m.head) != 0 {
				pc = jump[pc]
			}
		}
	}
	return nil
}

// RunString is a convenience for tests and the repl: run code with
// the given input, capturing output.
func (m *Machine) RunString(code []byte, input string) (string, error) {
	m.In = bytes.NewReader([]byte(input))
	var out bytes.Buffer
	m.Out = &out
	err := m.Run(code)
	return out.String(), err
}
