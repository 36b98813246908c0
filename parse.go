package calculator

import (
	"math/big"
	"strings"
)

// Program is a parsed expression in postfix order, ready to be evaluated
// against an Env.
type Program struct {
	// code is the postfix instruction sequence.
	code []Instruction
	// names is the sorted list of variable names used in the program.
	names []string
}

// parser holds the state of one infix to postfix conversion.
type parser struct {
	// ops is the operator stack. Open brackets are opParen entries.
	ops []Instruction
	// out is the postfix output.
	out []Instruction
	// vals holds the position of the first token of each value the output
	// would leave on the evaluation stack so far.
	vals []int
	// groups holds len(vals) at each open bracket still on the stack.
	groups []int
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
}

// Parse converts a token sequence into a postfix program using the
// shunting-yard algorithm. Every binary operator is left-associative,
// including ^, so 2^3^2 is (2^3)^2. A - at the start of the expression or
// directly after ( is negation, which binds tighter than any binary operator;
// a + in the same place is ignored.
//
// Parse checks brackets and operand counts, so any program it returns can be
// evaluated without errors other than unknown variables and arithmetic
// failures.
func Parse(tokens []Token) (*Program, error) {
	if len(tokens) == 0 {
		return nil, &EmptyExpressionError{Col: 1}
	}
	p := parser{
		names: make(map[string]bool),
	}
	unary := true
	for _, tok := range tokens {
		if err := p.token(tok, unary); err != nil {
			return nil, err
		}
		unary = tok.Kind == TokenDelim && tok.Text == "("
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	switch len(p.vals) {
	case 1: // do nothing
	case 0:
		last := tokens[len(tokens)-1]
		return nil, &EmptyExpressionError{Col: last.Pos + len(last.Text)}
	default:
		return nil, &OperandError{Col: p.vals[1], Len: len(p.vals)}
	}
	prog := Program{
		code:  p.out,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		prog.names = append(prog.names, k)
	}
	sortstrs(prog.names)
	return &prog, nil
}

// ParseString is a shortcut to tokenize and parse a string expression.
func ParseString(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

// token handles a single token. unary indicates whether a sign token would be
// a unary operator here.
func (p *parser) token(tok Token, unary bool) error {
	switch tok.Kind {
	case TokenNum:
		v, ok := new(big.Int).SetString(tok.Text, 10)
		if !ok {
			return &LexError{Text: tok.Text, Kind: "number", Col: tok.Pos}
		}
		return p.emit(Instruction{Op: OpLiteral, Val: v, Pos: tok.Pos})
	case TokenIdent:
		p.names[tok.Text] = true
		return p.emit(Instruction{Op: OpVariable, Name: tok.Text, Pos: tok.Pos})
	case TokenDelim:
		switch tok.Text {
		case "(":
			p.ops = append(p.ops, Instruction{Op: opParen, Pos: tok.Pos})
			p.groups = append(p.groups, len(p.vals))
			return nil
		case ")":
			return p.close(tok)
		}
		if unary {
			switch tok.Text {
			case "-":
				// Unary context only exists at the start or after an open
				// bracket, so there is never an operator to pop here.
				p.ops = append(p.ops, Instruction{Op: OpNegate, Pos: tok.Pos})
				return nil
			case "+":
				return nil
			}
		}
		op := binop(tok.Text)
		if op == opNone {
			return &OperatorError{Col: tok.Pos, Operator: tok.Text}
		}
		if err := p.popWhile(op.Priority()); err != nil {
			return err
		}
		p.ops = append(p.ops, Instruction{Op: op, Pos: tok.Pos})
		return nil
	default:
		panic("calculator: unknown token: " + tok.String())
	}
}

// popWhile moves operators from the stack to the output while they have
// priority of at least prio, stopping at an open bracket.
func (p *parser) popWhile(prio int) error {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		if top.Op == opParen || top.Op.Priority() < prio {
			break
		}
		p.ops = p.ops[:len(p.ops)-1]
		if err := p.emit(top); err != nil {
			return err
		}
	}
	return nil
}

// close handles a close bracket by moving operators to the output up to the
// matching open bracket, then discarding the bracket. A bracketed group must
// produce a value.
func (p *parser) close(tok Token) error {
	if err := p.popWhile(0); err != nil {
		return err
	}
	if len(p.ops) == 0 {
		return &BracketError{Col: tok.Pos, Right: tok.Text}
	}
	// popWhile stopped early, so the top is the open bracket.
	p.ops = p.ops[:len(p.ops)-1]
	mark := p.groups[len(p.groups)-1]
	p.groups = p.groups[:len(p.groups)-1]
	if len(p.vals) == mark {
		return &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
	}
	return nil
}

// finish moves all remaining operators to the output.
func (p *parser) finish() error {
	for _, op := range p.ops {
		if op.Op == opParen {
			return &BracketError{Col: op.Pos, Left: "("}
		}
	}
	return p.popWhile(0)
}

// emit appends an instruction to the output, checking that it has enough
// operands.
func (p *parser) emit(in Instruction) error {
	n := in.Op.arity()
	if len(p.vals) < n {
		text := in.String()
		if in.Op == OpNegate {
			text = "-"
		}
		return &OperatorError{Col: in.Pos, Operator: text, Missing: true}
	}
	switch n {
	case 0:
		p.vals = append(p.vals, in.Pos)
	case 2:
		// The result starts where the left operand starts.
		p.vals = p.vals[:len(p.vals)-1]
	}
	p.out = append(p.out, in)
	return nil
}

// binop gets the binary operator for a delimiter. If there is no such binary
// operator, then the result is opNone.
func binop(text string) Op {
	switch text {
	case "+":
		return OpAdd
	case "-":
		return OpSubtract
	case "*":
		return OpMultiply
	case "/":
		return OpDivide
	case "^":
		return OpPower
	default:
		return opNone
	}
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// Instructions returns a copy of the program's postfix instructions.
func (p *Program) Instructions() []Instruction {
	return append(([]Instruction)(nil), p.code...)
}

// Vars returns the variable names used when evaluating the program.
func (p *Program) Vars() []string {
	return append(([]string)(nil), p.names...)
}

// String formats the program in postfix notation, with negation written as
// "neg".
func (p *Program) String() string {
	var b strings.Builder
	for i, in := range p.code {
		if i > 0 {
			b.WriteByte(' ')
		}
		in.fmt(&b)
	}
	return b.String()
}
