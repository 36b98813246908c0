package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/zephyrtronium/calculator"
)

const helpText = `The program calculates expressions over integers of any size.
Operators: + - * / ^ and parentheses. / truncates; ^ needs a non-negative exponent.
Assign with "name = expr"; names are letters only.
Commands:
  /help          show this text
  /vars          list variables
  /postfix EXPR  show EXPR in postfix notation
  /exit          quit`

// session is one interactive calculator session.
type session struct {
	env    *calculator.Env
	out    io.Writer
	prompt string
	echo   bool
}

// run handles lines from in until /exit or the end of the input. Lines may be
// any length.
func (s *session) run(in io.Reader) error {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	for {
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && err != nil {
			return nil
		}
		if !s.line(line) {
			return nil
		}
	}
}

// line handles one input line. The result is false if the session should end.
func (s *session) line(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if strings.HasPrefix(line, "/") {
		return s.command(line)
	}
	if ident, expr, ok := calculator.SplitAssignment(line); ok {
		if err := s.env.AssignLine(ident, expr); err != nil {
			fmt.Fprintln(s.out, calculator.Message(err))
		}
		return true
	}
	p, err := calculator.ParseString(line)
	if err != nil {
		fmt.Fprintln(s.out, calculator.Message(err))
		return true
	}
	if s.echo {
		fmt.Fprintf(s.out, "%v : ", p)
	}
	r, err := s.env.Eval(p)
	if err != nil {
		fmt.Fprintln(s.out, calculator.Message(err))
		return true
	}
	fmt.Fprintln(s.out, r)
	return true
}

// command handles a line starting with /. Commands other than /postfix take no
// arguments and must match exactly.
func (s *session) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	if name == "/postfix" {
		p, err := calculator.ParseString(arg)
		if err != nil {
			fmt.Fprintln(s.out, calculator.Message(err))
			return true
		}
		fmt.Fprintln(s.out, p)
		return true
	}
	switch line {
	case "/exit":
		fmt.Fprintln(s.out, "Bye!")
		return false
	case "/help":
		fmt.Fprintln(s.out, helpText)
	case "/vars":
		s.env.Ascend(func(name string, val *big.Int) bool {
			fmt.Fprintf(s.out, "%s = %v\n", name, val)
			return true
		})
	default:
		fmt.Fprintln(s.out, "Unknown command")
	}
	return true
}
