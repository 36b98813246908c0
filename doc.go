// Package calculator implements an arbitrary-precision integer calculator
// with variables.
//
// A line goes through three stages. Tokenize splits it into names, numbers,
// and delimiters, folding runs of signs so that "5---2" has a single "-".
// Parse converts the tokens to a postfix Program with the shunting-yard
// algorithm. Env.Eval runs the program on a value stack, looking up
// variables in the Env.
//
// Operators are + - * / and ^, all left-associative, so "2^3^2" is 64. A
// leading - or one directly after ( is negation, which binds tighter than
// everything else: "-2^2" is 4. Division truncates toward zero.
//
// Errors fall into a small set of kinds, tested with errors.Is against
// ErrInvalidExpression, ErrUnknownVariable, ErrInvalidIdentifier, and
// ErrInvalidAssignment. Message gives the text to show a user.
package calculator
