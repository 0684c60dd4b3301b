package puzzle

import (
	"bytes"
	"errors"
	"fmt"
)

// Operator atoms used by the curry encoding.
var (
	opQuote = []byte{0x01}
	opApply = []byte{0x02}
	opCons  = []byte{0x04}
)

// ErrNotCurried is returned by Uncurry for any program that is not in the
// exact shape Curry produces.
var ErrNotCurried = errors.New("program is not a curried template")

// quote wraps a program so it evaluates to itself.
func quote(p *Program) *Program {
	return Pair(Atom(opQuote), p)
}

// Curry fixes args into mod, producing a new program whose tree hash
// deterministically depends on the mod and every argument.
// Shape: (a (q . mod) (c (q . arg1) (c (q . arg2) ... 1)))
func Curry(mod *Program, args ...*Program) *Program {
	env := Atom(opQuote) // the bare environment reference
	for i := len(args) - 1; i >= 0; i-- {
		env = List(Atom(opCons), quote(args[i]), env)
	}
	return List(Atom(opApply), quote(mod), env)
}

// Uncurry deconstructs a curried program into its mod and arguments.
// Any deviation from the Curry shape fails with ErrNotCurried; the caller
// must never guess at unrecognized trees.
func Uncurry(p *Program) (mod *Program, args []*Program, err error) {
	items, err := p.ToList()
	if err != nil || len(items) != 3 {
		return nil, nil, ErrNotCurried
	}
	if !isAtom(items[0], opApply) {
		return nil, nil, ErrNotCurried
	}
	mod, err = unquote(items[1])
	if err != nil {
		return nil, nil, err
	}

	env := items[2]
	for {
		if !env.IsPair() {
			if !isAtom(env, opQuote) {
				return nil, nil, fmt.Errorf("%w: bad environment terminator", ErrNotCurried)
			}
			return mod, args, nil
		}
		link, err := env.ToList()
		if err != nil || len(link) != 3 || !isAtom(link[0], opCons) {
			return nil, nil, ErrNotCurried
		}
		arg, err := unquote(link[1])
		if err != nil {
			return nil, nil, err
		}
		args = append(args, arg)
		env = link[2]
	}
}

// unquote strips a (q . x) wrapper.
func unquote(p *Program) (*Program, error) {
	first, rest, err := p.Split()
	if err != nil {
		return nil, ErrNotCurried
	}
	if !isAtom(first, opQuote) {
		return nil, fmt.Errorf("%w: missing quote", ErrNotCurried)
	}
	return rest, nil
}

// isAtom reports whether p is an atom with exactly the given bytes.
func isAtom(p *Program, b []byte) bool {
	if p.IsPair() {
		return false
	}
	got, err := p.AtomBytes()
	if err != nil {
		return false
	}
	return bytes.Equal(got, b)
}
