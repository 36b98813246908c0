package calculator

import (
	"math/big"
	"strconv"

	"github.com/google/btree"
)

// Env is a variable environment for evaluating programs. It also holds the
// value stack used during evaluation. It is not safe to use an Env
// concurrently.
type Env struct {
	stack []*big.Int
	vars  *btree.BTree
	// maxbits is the largest estimated size of the result of ^, in bits.
	maxbits uint
}

// binding is a variable in an Env's tree. Stored values are never modified,
// so cloned trees can share them.
type binding struct {
	name string
	val  *big.Int
}

func (b binding) Less(than btree.Item) bool {
	return b.name < than.(binding).name
}

// DefaultMaxPowerBits is the default limit on the estimated size of the
// result of ^.
const DefaultMaxPowerBits = 1 << 20

// NewEnv creates a new, empty environment and applies options to it.
func NewEnv(opts ...EnvOption) *Env {
	env := Env{
		vars:    btree.New(8),
		maxbits: DefaultMaxPowerBits,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.envOption(&env)
	}
	return &env
}

// Clone creates a copy of an environment and applies options to it.
// Assignments to either environment afterward are not visible in the other.
func (env *Env) Clone(opts ...EnvOption) *Env {
	n := Env{
		stack:   make([]*big.Int, 0, cap(env.stack)),
		vars:    env.vars.Clone(),
		maxbits: env.maxbits,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.envOption(&n)
	}
	return &n
}

// Assign binds a variable, replacing any existing value. The value is copied.
// If name is not a valid identifier, the result is an *IdentError and the
// environment is unchanged.
func (env *Env) Assign(name string, val *big.Int) error {
	if !IsIdent(name) {
		return &IdentError{Name: name}
	}
	env.set(name, val)
	return nil
}

func (env *Env) set(name string, val *big.Int) {
	env.vars.ReplaceOrInsert(binding{name: name, val: new(big.Int).Set(val)})
}

// get returns the stored value of a variable, or nil if there is none. The
// result must not be modified.
func (env *Env) get(name string) *big.Int {
	it := env.vars.Get(binding{name: name})
	if it == nil {
		return nil
	}
	return it.(binding).val
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable, the result is a *NameError.
func (env *Env) Lookup(name string) (*big.Int, error) {
	v := env.get(name)
	if v == nil {
		return nil, &NameError{Name: name}
	}
	return new(big.Int).Set(v), nil
}

// Len returns the number of variables bound in the environment.
func (env *Env) Len() int {
	return env.vars.Len()
}

// Vars returns the names of all bound variables in sorted order.
func (env *Env) Vars() []string {
	names := make([]string, 0, env.vars.Len())
	env.vars.Ascend(func(it btree.Item) bool {
		names = append(names, it.(binding).name)
		return true
	})
	return names
}

// Ascend calls f with each variable in name order until f returns false. The
// value passed to f must not be modified.
func (env *Env) Ascend(f func(name string, val *big.Int) bool) {
	env.vars.Ascend(func(it btree.Item) bool {
		b := it.(binding)
		return f(b.name, b.val)
	})
}

// MaxPowerBits returns the limit on the estimated size of the result of ^.
func (env *Env) MaxPowerBits() uint {
	return env.maxbits
}

// NameError is an error from a lookup for a variable that is missing from the
// environment.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Is(target error) bool {
	return target == ErrUnknownVariable
}

// IdentError is an error from assigning to a name that is not a valid
// identifier.
type IdentError struct {
	// Name is the rejected name.
	Name string
}

func (err *IdentError) Error() string {
	return "invalid identifier: " + strconv.Quote(err.Name)
}

func (err *IdentError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}
