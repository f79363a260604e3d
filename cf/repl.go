package cf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shurcooL/go-goon"
)

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

// NB this doesn't track comment and string state, so unbalanced
// braces inside either will confuse the continuation logic.
func isBalanced(str string) bool {
	parens := 0
	braces := 0
	squares := 0

	for _, c := range str {
		switch c {
		case '(':
			parens++
		case ')':
			parens--
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			squares++
		case ']':
			squares--
		}
	}

	return parens == 0 && braces == 0 && squares == 0
}

var continuationPrompt = "... "

// liner reads Stdin only. If noLiner, then we read from reader.
func (pr *Prompter) getSource(reader *bufio.Reader, noLiner bool) (readin string, err error) {
	var line, nextline string

	if noLiner {
		fmt.Print(pr.prompt)
		line, err = getLine(reader)
	} else {
		line, err = pr.Getline(nil)
	}
	if err != nil {
		return "", err
	}

	for !isBalanced(line) {
		if noLiner {
			fmt.Print(continuationPrompt)
			nextline, err = getLine(reader)
		} else {
			nextline, err = pr.Getline(&continuationPrompt)
		}
		if err != nil {
			return "", err
		}
		line += "\n" + nextline
	}
	return line, nil
}

// wrapSnippet lets the repl accept bare statements: anything without
// a main function gets one.
func wrapSnippet(src string) string {
	if strings.Contains(src, "main") {
		return src
	}
	return "u8 main() {\n" + src + "\n}\n"
}

// replSession is the state the dot-commands operate on.
type replSession struct {
	cfg  *CfConfig
	last *CompiledProgram
	rep  *CompileReport
}

func (s *replSession) compile(src string) {
	c := NewCompiler()
	if s.cfg.TapeLimit > 0 {
		c.SetTapeLimit(s.cfg.TapeLimit)
	}
	prog, err := c.CompileString(wrapSnippet(src))
	if err != nil {
		fmt.Println(err)
		return
	}
	s.last = prog
	s.rep = c.Report(prog)
	fmt.Printf("%s\n", prog.Code)
	if s.cfg.Run {
		s.run()
	}
}

func (s *replSession) run() {
	if s.last == nil {
		fmt.Println("nothing compiled yet")
		return
	}
	m := NewMachine()
	m.In = os.Stdin
	m.Out = os.Stdout
	m.MaxSteps = s.cfg.MaxSteps
	if err := m.Run(s.last.Code); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("\nhalted; head at cell %d\n", m.Head())
}

func Repl(cfg *CfConfig) {
	var reader *bufio.Reader
	if cfg.NoLiner {
		// reader is used if one wishes to drop the liner library.
		// Useful for not full terminal env, like under test.
		reader = bufio.NewReader(os.Stdin)
	}

	if cfg.Trace {
		Verbose = true
	}

	if !cfg.Quiet {
		fmt.Printf("cfc version %s\n", Version())
		fmt.Printf("type CF statements to compile them; .run executes, .quit exits.\n")
	}
	var pr *Prompter // can be nil if noLiner
	if !cfg.NoLiner {
		pr = NewPrompter(cfg.Prompt)
		defer pr.Close()
	} else {
		pr = &Prompter{prompt: cfg.Prompt}
	}

	sess := &replSession{cfg: cfg}

	for {
		line, err := pr.getSource(reader, cfg.NoLiner)
		if err != nil {
			fmt.Println(err)
			if err == io.EOF {
				os.Exit(0)
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		parts := strings.SplitN(trimmed, " ", 2)
		first := parts[0]
		rest := ""
		if len(parts) > 1 {
			rest = strings.TrimSpace(parts[1])
		}

		switch first {
		case ".quit":
			return

		case ".verb":
			Verbose = !Verbose
			fmt.Printf("verbose: %v.\n", Verbose)
			continue

		case ".ast":
			src := rest
			if src == "" && sess.last != nil {
				src = sess.last.Source
			}
			if src == "" {
				fmt.Println("nothing to parse")
				continue
			}
			ast, err := ParseString(wrapSnippet(src))
			if err != nil {
				fmt.Println(err)
				continue
			}
			goon.Dump(ast)
			continue

		case ".run":
			sess.run()
			continue

		case ".tape":
			if sess.rep == nil {
				fmt.Println("nothing compiled yet")
				continue
			}
			fmt.Printf("owned cells: %v (high %d)\n", sess.rep.OwnedCells, sess.rep.HighCell)
			continue

		case ".report":
			if sess.rep == nil {
				fmt.Println("nothing compiled yet")
				continue
			}
			fmt.Printf("%s\n", sess.rep.Json())
			continue

		case ".save":
			if rest == "" {
				fmt.Println("provide a path to save to.")
				continue
			}
			if sess.last == nil {
				fmt.Println("nothing compiled yet")
				continue
			}
			if err := SaveProgram(sess.last, rest); err != nil {
				fmt.Println(err)
			}
			continue

		case ".load":
			if rest == "" {
				fmt.Println("provide a path to load from.")
				continue
			}
			prog, err := LoadProgram(rest)
			if err != nil {
				fmt.Println(err)
				continue
			}
			sess.last = prog
			sess.rep = nil
			fmt.Printf("loaded %d instructions (source hash %x)\n", len(prog.Code), prog.Blake2)
			continue

		case ".reset":
			sess.last = nil
			sess.rep = nil
			continue
		}

		sess.compile(line)
	}
}

func runScript(fname string, cfg *CfConfig) {
	by, err := os.ReadFile(fname)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	compileAndDispose(string(by), cfg)
}

// compileAndDispose handles the non-interactive paths: compile once,
// then run, save, and report as the flags ask.
func compileAndDispose(src string, cfg *CfConfig) {
	if cfg.ShowAst {
		ast, err := ParseString(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		goon.Dump(ast)
		return
	}

	c := NewCompiler()
	if cfg.TapeLimit > 0 {
		c.SetTapeLimit(cfg.TapeLimit)
	}
	prog, err := c.CompileString(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if cfg.OutPath != "" {
		if err := SaveProgram(prog, cfg.OutPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	if cfg.Report {
		fmt.Printf("%s\n", c.Report(prog).Json())
	}
	if cfg.Run {
		m := NewMachine()
		m.In = os.Stdin
		m.Out = os.Stdout
		m.MaxSteps = cfg.MaxSteps
		if err := m.Run(prog.Code); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}
	if cfg.OutPath == "" && !cfg.Report {
		fmt.Printf("%s\n", prog.Code)
	}
}

// like main() for a standalone compiler, now in library
func ReplMain(cfg *CfConfig) {
	if cfg.Command != "" {
		compileAndDispose(cfg.Command, cfg)
		return
	}

	args := cfg.Flags.Args()
	if len(args) > 0 {
		runScript(args[0], cfg)
		return
	}
	Repl(cfg)
}
