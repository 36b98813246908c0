package calculator_test

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calculator"
)

func bigint(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad test number %q", s)
	}
	return n
}

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "1"},
		{"zero", "0", "0"},
		{"leading-zeros", "007", "7"},
		{"big", "123456789012345678901234567890", "123456789012345678901234567890"},
		{"big-add", "99999999999999999999 + 1", "100000000000000000000"},
		{"big-mul", "9223372036854775807 * 9223372036854775807", "85070591730234615847396907784232501249"},
		{"add", "4+5+6", "15"},
		{"sub-left", "8 - 3 - 2", "3"},
		{"mul", "4*5*6", "120"},
		{"div-left", "100 / 10 / 5", "2"},
		{"div-trunc", "7 / 2", "3"},
		{"div-trunc-neg", "7 / (-2)", "-3"},
		{"div-trunc-neg-num", "-7 / 2", "-3"},
		{"prec", "2 + 3 * 4", "14"},
		{"parens", "(2 + 3) * 4", "20"},
		{"fold-minus", "5---2", "3"},
		{"fold-plus", "5++2", "7"},
		{"fold-even", "5 -- 2", "7"},
		{"pow", "2^10", "1024"},
		{"pow-left", "2^3^2", "64"},
		{"pow-zero", "0^0", "1"},
		{"pow-big", "2^100", "1267650600228229401496703205376"},
		{"neg", "-5", "-5"},
		{"neg-pow", "-2^2", "4"},
		{"neg-pow-odd", "-2^3", "-8"},
		{"neg-paren-pow", "(-(2^2))", "-4"},
		{"unary-plus", "+5", "5"},
		{"long", "3 + 8 * ((4 + 3) * 2 + 1) - 6 / (2 + 1)", "121"},
		{"spaces", "  1   +   2  ", "3"},
	}
	env := calculator.NewEnv()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := env.EvalLine(c.src)
			require.NoError(t, err, "evaluating %q", c.src)
			require.Equal(t, 0, r.Cmp(bigint(t, c.want)), "%q: want %s, got %v", c.src, c.want, r)
		})
	}
}

func TestEvalVars(t *testing.T) {
	env := calculator.NewEnv(
		calculator.SetVar("x", big.NewInt(4)),
		calculator.SetVars(map[string]*big.Int{"y": big.NewInt(-3), "Y": big.NewInt(10)}),
	)
	cases := []struct {
		src  string
		want int64
	}{
		{"x", 4},
		{"-x", -4},
		{"x * y", -12},
		{"x - y - Y", -3},
		{"Y / x", 2},
		{"x ^ 3", 64},
		{"(x + y) * (x - y)", 7},
	}
	for _, c := range cases {
		r, err := env.EvalLine(c.src)
		require.NoError(t, err, "evaluating %q", c.src)
		require.Equal(t, big.NewInt(c.want), r, "evaluating %q", c.src)
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind error
	}{
		{"unknown", "x + 1", calculator.ErrUnknownVariable},
		{"unknown-late", "1 + 2 * (3 - zz)", calculator.ErrUnknownVariable},
		{"unclosed", "(1 + 2", calculator.ErrInvalidExpression},
		{"unopened", "1 + 2)", calculator.ErrInvalidExpression},
		{"div-zero", "1/0", calculator.ErrInvalidExpression},
		{"div-zero-expr", "5 / (3 - 3)", calculator.ErrInvalidExpression},
		{"neg-exp", "2^(-1)", calculator.ErrInvalidExpression},
		{"huge-exp", "2^100000000", calculator.ErrInvalidExpression},
		{"giant-exp", "2^99999999999999999999999", calculator.ErrInvalidExpression},
		{"number-letter", "12a", calculator.ErrInvalidExpression},
		{"bad-rune", "3 $ 4", calculator.ErrInvalidExpression},
		{"unicode", "π", calculator.ErrInvalidExpression},
		{"trailing", "1 +", calculator.ErrInvalidExpression},
		{"mul-neg", "2*-3", calculator.ErrInvalidExpression},
		{"two", "2 3", calculator.ErrInvalidExpression},
		{"equals", "a = 1", calculator.ErrInvalidExpression},
	}
	env := calculator.NewEnv()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := env.EvalLine(c.src)
			require.Nil(t, r)
			require.ErrorIs(t, err, c.kind)
			for _, other := range []error{calculator.ErrUnknownVariable, calculator.ErrInvalidExpression, calculator.ErrInvalidIdentifier, calculator.ErrInvalidAssignment} {
				if other != c.kind && errors.Is(err, other) {
					t.Errorf("%q: error %v also matches %v", c.src, err, other)
				}
			}
		})
	}
}

func TestEvalUnknownName(t *testing.T) {
	_, err := calculator.EvalString("a + bee")
	var nerr *calculator.NameError
	require.True(t, errors.As(err, &nerr))
	require.Equal(t, "a", nerr.Name)
}

func TestEvalPowerLimit(t *testing.T) {
	env := calculator.NewEnv(calculator.MaxPowerBits(64))
	require.Equal(t, uint(64), env.MaxPowerBits())
	r, err := env.EvalLine("2^63")
	require.NoError(t, err)
	require.Equal(t, bigint(t, "9223372036854775808"), r)
	_, err = env.EvalLine("2^65")
	var aerr *calculator.ArithError
	require.True(t, errors.As(err, &aerr), "want *ArithError, got %#v", err)
	require.Equal(t, "^", aerr.Op)
	require.Equal(t, 2, aerr.Pos())
	// Bases that cannot grow are exempt.
	for _, src := range []string{"1^1000000000", "0^1000000000", "(-1)^1000000001"} {
		_, err := env.EvalLine(src)
		require.NoError(t, err, "evaluating %q", src)
	}
	r, err = env.EvalLine("(-1)^1000000001")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(-1), r)

	require.Equal(t, uint(calculator.DefaultMaxPowerBits), calculator.NewEnv().MaxPowerBits())
	require.Equal(t, uint(calculator.DefaultMaxPowerBits), calculator.NewEnv(calculator.MaxPowerBits(0)).MaxPowerBits())
}

func TestEvalIdempotent(t *testing.T) {
	env := calculator.NewEnv(calculator.SetVar("n", big.NewInt(12)))
	p, err := calculator.ParseString("n * (n - 1) / 2 + 2^n")
	require.NoError(t, err)
	a, err := env.Eval(p)
	require.NoError(t, err)
	b, err := env.Eval(p)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, big.NewInt(66+4096), a)
	// Results are not aliased by later evaluations.
	c, err := env.EvalLine("1")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), c)
	require.Equal(t, big.NewInt(66+4096), a)
}

func TestEvalAfterError(t *testing.T) {
	env := calculator.NewEnv()
	_, err := env.EvalLine("1 + 2 * (3 / 0)")
	require.Error(t, err)
	r, err := env.EvalLine("1 + 2")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(3), r)
}

func TestEvalLiteralNotModified(t *testing.T) {
	env := calculator.NewEnv()
	p, err := calculator.ParseString("-5 * 3")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		r, err := env.Eval(p)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(-15), r)
	}
	require.Equal(t, "5 neg 3 *", p.String())
}

func TestAssignLine(t *testing.T) {
	env := calculator.NewEnv()
	require.NoError(t, env.AssignLine("a", "3 + 4"))
	r, err := env.EvalLine("a * 2")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(14), r)

	// Reassignment overwrites and may refer to the old value.
	require.NoError(t, env.AssignLine("a", "a * a"))
	r, err = env.Lookup("a")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(49), r)

	require.NoError(t, env.AssignLine("b", "a"))
	require.NoError(t, env.AssignLine("a", "1"))
	r, err = env.Lookup("b")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(49), r)
	require.Equal(t, []string{"a", "b"}, env.Vars())
}

func TestAssignLineErrors(t *testing.T) {
	cases := []struct {
		name  string
		ident string
		expr  string
		kinds []error
		not   []error
	}{
		{"digit-ident", "1x", "5", []error{calculator.ErrInvalidIdentifier}, []error{calculator.ErrInvalidExpression}},
		{"mixed-ident", "a1", "5", []error{calculator.ErrInvalidIdentifier}, nil},
		{"empty-ident", "", "5", []error{calculator.ErrInvalidIdentifier}, nil},
		{"ident-first", "a1", "2a", []error{calculator.ErrInvalidIdentifier}, []error{calculator.ErrInvalidAssignment}},
		{"bad-rhs", "a", "2a", []error{calculator.ErrInvalidAssignment, calculator.ErrInvalidExpression}, nil},
		{"double-assign", "a", "7 = 8", []error{calculator.ErrInvalidAssignment, calculator.ErrInvalidExpression}, nil},
		{"empty-rhs", "a", "", []error{calculator.ErrInvalidAssignment, calculator.ErrInvalidExpression}, nil},
		{"div-zero-rhs", "a", "1/0", []error{calculator.ErrInvalidAssignment}, nil},
		{"unknown-rhs", "a", "b", []error{calculator.ErrUnknownVariable}, []error{calculator.ErrInvalidAssignment, calculator.ErrInvalidExpression}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := calculator.NewEnv()
			err := env.AssignLine(c.ident, c.expr)
			require.Error(t, err)
			for _, k := range c.kinds {
				require.ErrorIs(t, err, k)
			}
			for _, k := range c.not {
				require.False(t, errors.Is(err, k), "%v matches %v", err, k)
			}
			require.Zero(t, env.Len())
		})
	}
}

func TestSplitAssignment(t *testing.T) {
	cases := []struct {
		line, ident, expr string
		ok                bool
	}{
		{"a = 5", "a", "5", true},
		{"  abc=  1 + 2 ", "abc", "1 + 2", true},
		{"a = 7 = 8", "a", "7 = 8", true},
		{"= 1", "", "1", true},
		{"1 + 2", "", "", false},
	}
	for _, c := range cases {
		ident, expr, ok := calculator.SplitAssignment(c.line)
		if ident != c.ident || expr != c.expr || ok != c.ok {
			t.Errorf("SplitAssignment(%q): want %q, %q, %t; got %q, %q, %t", c.line, c.ident, c.expr, c.ok, ident, expr, ok)
		}
	}
}

func TestMessage(t *testing.T) {
	env := calculator.NewEnv()
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{env.AssignLine("a2", "1"), "Invalid identifier"},
		{env.AssignLine("a", "q"), "Unknown variable"},
		{env.AssignLine("a", "(1"), "Invalid assignment"},
		{errors.New("disk on fire"), "disk on fire"},
	}
	_, err := env.EvalLine("1 +")
	cases = append(cases, struct {
		err  error
		want string
	}{err, "Invalid expression"})
	for _, c := range cases {
		if got := calculator.Message(c.err); got != c.want {
			t.Errorf("Message(%v): want %q, got %q", c.err, c.want, got)
		}
	}
}

func TestErrorText(t *testing.T) {
	_, err := calculator.EvalString("(1 + 2")
	require.True(t, strings.Contains(err.Error(), "open bracket ( with no close bracket"), err.Error())
	err = calculator.NewEnv().AssignLine("a", "1/0")
	require.Equal(t, "invalid assignment to a: 2: invalid /: division by zero", err.Error())
	_, err = calculator.EvalString("2 * ()")
	require.Equal(t, `6: no expression up to ")"`, err.Error())
}
