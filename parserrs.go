package calculator

import (
	"errors"
	"strconv"
)

// Error kinds. Every error returned by this package for bad input matches
// exactly one of ErrInvalidExpression, ErrUnknownVariable, and
// ErrInvalidIdentifier under errors.Is. Assignment errors additionally match
// ErrInvalidAssignment when the right-hand side is an invalid expression.
var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrInvalidAssignment = errors.New("invalid assignment")
)

// Message returns the text shown to a user for an error: "Invalid
// identifier", "Unknown variable", "Invalid assignment", or "Invalid
// expression". Errors of no known kind produce their own Error text.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidIdentifier):
		return "Invalid identifier"
	case errors.Is(err, ErrUnknownVariable):
		return "Unknown variable"
	case errors.Is(err, ErrInvalidAssignment):
		return "Invalid assignment"
	case errors.Is(err, ErrInvalidExpression):
		return "Invalid expression"
	default:
		return err.Error()
	}
}

// OperatorError is an error indicating an operator that is out of place or
// missing an operand. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator's token text.
	Operator string
	// Missing is whether the operator was placed correctly but did not have
	// enough operands.
	Missing bool
}

func (err *OperatorError) Error() string {
	if err.Missing {
		return errpos(err.Col, "missing operand for "+strconv.Quote(err.Operator))
	}
	return errpos(err.Col, "unexpected operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool {
	return target == ErrInvalidExpression
}

// BracketError is an error indicating unbalanced brackets in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched bracket.
	Col int
	// Left is the opening bracket, or the empty string if a close bracket had
	// no opening bracket.
	Left string
	// Right is the closing bracket, or the empty string if an open bracket was
	// never closed.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == ErrInvalidExpression
}

// EmptyExpressionError is an error indicating an empty expression or
// subexpression. It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrInvalidExpression
}

// OperandError is an error indicating an expression which leaves other than
// exactly one value, e.g. "2 3". It implements InputError.
type OperandError struct {
	// Col is the position of the first operand with no operator joining it.
	Col int
	// Len is the number of values the expression leaves.
	Len int
}

func (err *OperandError) Error() string {
	return errpos(err.Col, strconv.Itoa(err.Len)+" values with no operator between them")
}

func (err *OperandError) Pos() int {
	return err.Col
}

func (err *OperandError) Is(target error) bool {
	return target == ErrInvalidExpression
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// tokenizing or parsing invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the column of the start of
	// the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*ArithError)(nil)
)
