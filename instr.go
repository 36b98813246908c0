package calculator

import (
	"math/big"
	"strconv"
	"strings"
)

// Instruction is a single step of a postfix program.
type Instruction struct {
	// Op is the operation to perform.
	Op Op
	// Val is the value pushed by OpLiteral. It is nil for other ops.
	Val *big.Int
	// Name is the variable pushed by OpVariable.
	Name string
	// Pos is the column of the token that produced the instruction.
	Pos int
}

// Op is an operation in a postfix program.
type Op int8

const (
	opNone Op = iota

	OpLiteral  // push Val
	OpVariable // push lookup(Name)

	OpNegate   // pop x, push -x
	OpAdd      // pop y, pop x, push x+y
	OpSubtract // pop y, pop x, push x-y
	OpMultiply // pop y, pop x, push x*y
	OpDivide   // pop y, pop x, push x/y truncated
	OpPower    // pop y, pop x, push x^y

	// opParen marks an open bracket on the parser's operator stack. It never
	// appears in a program.
	opParen
)

// Priority is the binding strength of the op during parsing. Higher binds
// tighter. Operands and the open bracket marker have priority 0.
func (op Op) Priority() int {
	switch op {
	case OpAdd, OpSubtract:
		return 1
	case OpMultiply, OpDivide:
		return 2
	case OpPower:
		return 3
	case OpNegate:
		return 4
	default:
		return 0
	}
}

// arity is the number of values the op pops.
func (op Op) arity() int {
	switch op {
	case OpLiteral, OpVariable:
		return 0
	case OpNegate:
		return 1
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower:
		return 2
	default:
		panic("calculator: arity of invalid op " + op.String())
	}
}

func (op Op) String() string {
	switch op {
	case opNone:
		return "None"
	case OpLiteral:
		return "Literal"
	case OpVariable:
		return "Variable"
	case OpNegate:
		return "Negate"
	case OpAdd:
		return "Add"
	case OpSubtract:
		return "Subtract"
	case OpMultiply:
		return "Multiply"
	case OpDivide:
		return "Divide"
	case OpPower:
		return "Power"
	case opParen:
		return "Paren"
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

func (in Instruction) String() string {
	var b strings.Builder
	in.fmt(&b)
	return b.String()
}

func (in Instruction) fmt(b *strings.Builder) {
	switch in.Op {
	case OpLiteral:
		b.WriteString(in.Val.String())
	case OpVariable:
		b.WriteString(in.Name)
	case OpNegate:
		b.WriteString("neg")
	case OpAdd:
		b.WriteByte('+')
	case OpSubtract:
		b.WriteByte('-')
	case OpMultiply:
		b.WriteByte('*')
	case OpDivide:
		b.WriteByte('/')
	case OpPower:
		b.WriteByte('^')
	default:
		panic("calculator: invalid instruction " + in.Op.String() + " after writing " + b.String())
	}
}
