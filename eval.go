package calculator

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Eval evaluates a program and returns the result. Variables are looked up in
// env. If a variable is unbound, the error is a *NameError; any other failure,
// e.g. division by zero, is an error matching ErrInvalidExpression.
func (env *Env) Eval(p *Program) (*big.Int, error) {
	defer env.reset()
	for _, in := range p.code {
		if err := env.exec(in); err != nil {
			return nil, err
		}
	}
	if len(env.stack) != 1 {
		// Parse does not produce such programs.
		col := 1
		if len(p.code) > 0 {
			col = p.code[len(p.code)-1].Pos
		}
		return nil, &OperandError{Col: col, Len: len(env.stack)}
	}
	return new(big.Int).Set(env.stack[0]), nil
}

// EvalLine tokenizes, parses, and evaluates a line.
func (env *Env) EvalLine(line string) (*big.Int, error) {
	p, err := ParseString(line)
	if err != nil {
		return nil, err
	}
	return env.Eval(p)
}

// AssignLine evaluates expr and binds the result to ident. ident is checked
// first; if it is not a valid identifier, the result is an *IdentError. If
// expr is an invalid expression, the result is an *AssignError. Unbound
// variables in expr give a *NameError. On any error, env is unchanged.
func (env *Env) AssignLine(ident, expr string) error {
	if !IsIdent(ident) {
		return &IdentError{Name: ident}
	}
	v, err := env.EvalLine(expr)
	if err != nil {
		if errors.Is(err, ErrInvalidExpression) {
			return &AssignError{Name: ident, Err: err}
		}
		return err
	}
	env.set(ident, v)
	return nil
}

// EvalString is a shortcut to evaluate a string expression in a new
// environment.
func EvalString(src string, opts ...EnvOption) (*big.Int, error) {
	return NewEnv(opts...).EvalLine(src)
}

// SplitAssignment splits a line at its first = and trims space from both
// sides. ok is false if the line contains no =.
func SplitAssignment(line string) (ident, expr string, ok bool) {
	k := strings.IndexByte(line, '=')
	if k < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:k]), strings.TrimSpace(line[k+1:]), true
}

// push ensures a settable value on the stack.
func (env *Env) push() *big.Int {
	if len(env.stack) < cap(env.stack) {
		env.stack = env.stack[:len(env.stack)+1]
		if env.stack[len(env.stack)-1] == nil {
			env.stack[len(env.stack)-1] = new(big.Int)
		}
	} else {
		env.stack = append(env.stack, new(big.Int))
	}
	return env.stack[len(env.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future instructions.
func (env *Env) pop() *big.Int {
	r := env.stack[len(env.stack)-1]
	env.stack = env.stack[:len(env.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (env *Env) top() *big.Int {
	return env.stack[len(env.stack)-1]
}

// reset empties the stack, keeping its values for reuse.
func (env *Env) reset() {
	env.stack = env.stack[:0]
}

// exec executes a single instruction.
func (env *Env) exec(in Instruction) error {
	if len(env.stack) < in.Op.arity() {
		return &OperatorError{Col: in.Pos, Operator: in.String(), Missing: true}
	}
	switch in.Op {
	case OpLiteral:
		env.push().Set(in.Val)
	case OpVariable:
		v := env.get(in.Name)
		if v == nil {
			return &NameError{Name: in.Name}
		}
		env.push().Set(v)
	case OpNegate:
		v := env.top()
		v.Neg(v)
	case OpAdd:
		r := env.pop()
		l := env.top()
		l.Add(l, r)
	case OpSubtract:
		r := env.pop()
		l := env.top()
		l.Sub(l, r)
	case OpMultiply:
		r := env.pop()
		l := env.top()
		l.Mul(l, r)
	case OpDivide:
		r := env.pop()
		l := env.top()
		if r.Sign() == 0 {
			return &ArithError{Col: in.Pos, Op: "/", Reason: "division by zero"}
		}
		// Quo truncates toward zero; Div would round toward negative infinity
		// for negative divisors.
		l.Quo(l, r)
	case OpPower:
		r := env.pop()
		l := env.top()
		if err := env.checkpow(l, r, in.Pos); err != nil {
			return err
		}
		l.Exp(l, r, nil)
	default:
		panic("calculator: invalid instruction " + in.Op.String())
	}
	return nil
}

var (
	bigone = big.NewInt(1)
	// ln2 is used to convert natural logs to bits.
	ln2 = bigfloat.Log(new(big.Float).SetPrec(64), new(big.Float).SetPrec(64).SetInt64(2))
)

// checkpow checks that an exponent is a non-negative machine integer and that
// base^exp is estimated to fit within the power size limit.
func (env *Env) checkpow(base, exp *big.Int, pos int) error {
	if exp.Sign() < 0 {
		return &ArithError{Col: pos, Op: "^", Reason: "negative exponent " + exp.String()}
	}
	if !exp.IsInt64() || exp.Int64() > math.MaxInt {
		return &ArithError{Col: pos, Op: "^", Reason: "exponent too large"}
	}
	if base.CmpAbs(bigone) <= 0 {
		// 0, 1, and -1 never grow.
		return nil
	}
	x := new(big.Float).SetPrec(64).SetInt(base)
	x.Abs(x)
	bits := bigfloat.Log(new(big.Float).SetPrec(64), x)
	bits.Quo(bits, ln2)
	bits.Mul(bits, new(big.Float).SetPrec(64).SetInt(exp))
	limit := new(big.Float).SetPrec(64).SetUint64(uint64(env.maxbits))
	if bits.Cmp(limit) > 0 {
		return &ArithError{Col: pos, Op: "^", Reason: "result would exceed " + strconv.FormatUint(uint64(env.maxbits), 10) + " bits"}
	}
	return nil
}

// ArithError is an error from an arithmetic operation with operands outside
// its domain, e.g. division by zero. It matches ErrInvalidExpression.
type ArithError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator.
	Op string
	// Reason describes the problem.
	Reason string
}

func (err *ArithError) Error() string {
	return errpos(err.Col, "invalid "+err.Op+": "+err.Reason)
}

func (err *ArithError) Pos() int {
	return err.Col
}

func (err *ArithError) Is(target error) bool {
	return target == ErrInvalidExpression
}

// AssignError is an error from an assignment whose right-hand side is an
// invalid expression. It matches both ErrInvalidAssignment and, through the
// wrapped error, ErrInvalidExpression.
type AssignError struct {
	// Name is the variable being assigned.
	Name string
	// Err is the error from the right-hand side.
	Err error
}

func (err *AssignError) Error() string {
	return "invalid assignment to " + err.Name + ": " + err.Err.Error()
}

func (err *AssignError) Unwrap() error {
	return err.Err
}

func (err *AssignError) Is(target error) bool {
	return target == ErrInvalidAssignment
}
