package calculator

import (
	"math/big"
	"strconv"
)

// EnvOption is an option used when creating or cloning an environment.
type EnvOption interface {
	envOption(*Env)
}

type (
	varopt struct {
		name string
		val  *big.Int
	}
	varsopt map[string]*big.Int
	bitsopt uint
)

// SetVar sets the value of a variable in the environment. Panics when the
// option is applied if name is not a valid identifier.
func SetVar(name string, val *big.Int) EnvOption {
	return varopt{name, val}
}

func (o varopt) envOption(env *Env) {
	mustIdent(o.name)
	env.set(o.name, o.val)
}

// SetVars sets the values of any number of variables in the environment.
// Panics when the option is applied if any name is not a valid identifier.
func SetVars(vars map[string]*big.Int) EnvOption {
	return varsopt(vars)
}

func (o varsopt) envOption(env *Env) {
	for k, v := range o {
		mustIdent(k)
		env.set(k, v)
	}
}

// MaxPowerBits sets the limit on the estimated size in bits of the result of
// ^. Exponentiations which would exceed it are invalid expressions. Zero means
// DefaultMaxPowerBits.
func MaxPowerBits(bits uint) EnvOption {
	return bitsopt(bits)
}

func (o bitsopt) envOption(env *Env) {
	if o == 0 {
		o = DefaultMaxPowerBits
	}
	env.maxbits = uint(o)
}

func mustIdent(name string) {
	if !IsIdent(name) {
		panic("calculator: invalid variable name " + strconv.Quote(name))
	}
}
