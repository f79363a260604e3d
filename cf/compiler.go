package cf

import (
	"fmt"
)

// Compiler is all the state of one compilation run: the tape
// ownership map, the emitter (instruction buffer plus emulated head
// position), the scope stack, and the program's function table.
// Compilation is single threaded; the walk mutates this state in
// strict AST order. A Compiler can be Reset and reused between
// independent runs.
type Compiler struct {
	tape   *Tape
	emit   *Emitter
	scopes []*Scope
	funcs  map[string]*FuncDecl

	// depth of inlined calls, to catch unbounded recursion: the
	// target has no call stack, so every call expands the callee at
	// the call site.
	inlineDepth int
}

// MaxInlineDepth bounds call inlining. The target machine has no
// call stack, so recursion can only unroll; past this depth we call
// it an error instead of expanding forever.
const MaxInlineDepth = 64

func NewCompiler() *Compiler {
	return &Compiler{
		tape:  NewTape(),
		emit:  NewEmitter(),
		funcs: make(map[string]*FuncDecl),
	}
}

// SetTapeLimit caps the tape at n cells; zero means unbounded. The
// cap is the only way an allocation can fail.
func (c *Compiler) SetTapeLimit(n int) {
	c.tape.MaxCells = n
}

// Reset clears all per-run state so the Compiler can be reused.
func (c *Compiler) Reset() {
	limit := c.tape.MaxCells
	c.tape.Reset()
	c.tape.MaxCells = limit
	c.emit.Reset()
	c.scopes = nil
	c.funcs = make(map[string]*FuncDecl)
	c.inlineDepth = 0
}

// Tape exposes the allocator state, mainly for tests and the repl
// .tape command.
func (c *Compiler) Tape() *Tape {
	return c.tape
}

// CompiledProgram is the compiler's output artifact: the flat
// instruction stream for the expanded main function, stamped with a
// fingerprint of the source it came from.
type CompiledProgram struct {
	Source string `msg:"source"`
	Blake2 uint64 `msg:"blake2"`
	Code   []byte `msg:"code"`
}

func (p *CompiledProgram) String() string {
	return string(p.Code)
}

// CompileString compiles one CF source file. The program must define
// a zero-argument main function; its expansion is the output.
func (c *Compiler) CompileString(src string) (*CompiledProgram, error) {
	ast, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	prog, err := c.CompileProgram(ast)
	if err != nil {
		return nil, err
	}
	prog.Source = src
	prog.Blake2 = Blake2bUint64([]byte(src))
	return prog, nil
}

// CompileProgram walks the parsed program. Functions other than main
// only produce code where they are called, since every call inlines
// the callee.
func (c *Compiler) CompileProgram(ast *ProgramAST) (*CompiledProgram, error) {
	for _, fn := range ast.Funcs {
		if _, dup := c.funcs[fn.Name]; dup {
			return nil, errAt(ErrSyntax, fn.Line, "function %s redefined", fn.Name)
		}
		c.funcs[fn.Name] = fn
	}
	main, ok := c.funcs["main"]
	if !ok {
		return nil, fmt.Errorf("no main function defined")
	}
	if len(main.Params) != 0 {
		return nil, errAt(ErrArityMismatch, main.Line, "main takes no parameters")
	}
	if _, err := c.inlineFunction(main, nil, main.Line); err != nil {
		return nil, err
	}
	return &CompiledProgram{Code: c.emit.Code()}, nil
}
