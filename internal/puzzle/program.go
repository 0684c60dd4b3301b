// Package puzzle implements the puzzle derivation engine: the program tree
// model, deterministic currying, and the pooling puzzle templates.
//
// A puzzle is an immutable binary tree of atoms and pairs. Its identity is
// its tree hash, which must reproduce the hash of the on-chain puzzle
// bit-for-bit. The package never executes puzzles; it only constructs them
// and decodes observed ones.
package puzzle

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/orchardnet/orchard-wallet/pkg/crypto"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Tree hash and serialization domain prefixes.
const (
	tagAtom byte = 0x01
	tagPair byte = 0x02
)

// maxParseDepth bounds recursion when parsing untrusted serialized programs.
const maxParseDepth = 256

// ErrMalformedProgram is returned when deserializing bytes that do not form
// a valid program tree.
var ErrMalformedProgram = errors.New("malformed program")

// Program is an immutable node in a puzzle tree: either an atom (a byte
// string) or a pair of two sub-programs.
type Program struct {
	atom  []byte
	first *Program
	rest  *Program
	pair  bool
}

// Atom creates an atom node. The byte slice is copied.
func Atom(b []byte) *Program {
	a := make([]byte, len(b))
	copy(a, b)
	return &Program{atom: a}
}

// AtomHash creates an atom node holding a 32-byte hash.
func AtomHash(h types.Hash) *Program {
	return Atom(h[:])
}

// AtomUint64 creates an atom holding the minimal big-endian encoding of v.
// Zero encodes as the empty atom.
func AtomUint64(v uint64) *Program {
	if v == 0 {
		return Atom(nil)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	i := 0
	for buf[i] == 0 {
		i++
	}
	return Atom(buf[i:])
}

// Nil returns the empty atom, which terminates lists and encodes zero.
func Nil() *Program {
	return Atom(nil)
}

// Pair creates a pair node.
func Pair(first, rest *Program) *Program {
	return &Program{first: first, rest: rest, pair: true}
}

// List builds a proper list ending in the empty atom.
func List(items ...*Program) *Program {
	out := Nil()
	for i := len(items) - 1; i >= 0; i-- {
		out = Pair(items[i], out)
	}
	return out
}

// IsPair returns true if this node is a pair.
func (p *Program) IsPair() bool {
	return p.pair
}

// IsNil returns true if this node is the empty atom.
func (p *Program) IsNil() bool {
	return !p.pair && len(p.atom) == 0
}

// AtomBytes returns the atom's bytes. Errors if this node is a pair.
func (p *Program) AtomBytes() ([]byte, error) {
	if p.pair {
		return nil, fmt.Errorf("%w: expected atom, got pair", ErrMalformedProgram)
	}
	out := make([]byte, len(p.atom))
	copy(out, p.atom)
	return out, nil
}

// Split returns the pair's two sub-programs. Errors if this node is an atom.
func (p *Program) Split() (first, rest *Program, err error) {
	if !p.pair {
		return nil, nil, fmt.Errorf("%w: expected pair, got atom", ErrMalformedProgram)
	}
	return p.first, p.rest, nil
}

// ToList flattens a proper list into its elements. Errors if the tree is
// not nil-terminated.
func (p *Program) ToList() ([]*Program, error) {
	var out []*Program
	cur := p
	for cur.pair {
		out = append(out, cur.first)
		cur = cur.rest
	}
	if !cur.IsNil() {
		return nil, fmt.Errorf("%w: improper list terminator", ErrMalformedProgram)
	}
	return out, nil
}

// AtomHash32 returns the atom interpreted as a 32-byte hash.
func (p *Program) AtomHash32() (types.Hash, error) {
	b, err := p.AtomBytes()
	if err != nil {
		return types.Hash{}, err
	}
	if len(b) != types.HashSize {
		return types.Hash{}, fmt.Errorf("%w: hash atom must be %d bytes, got %d", ErrMalformedProgram, types.HashSize, len(b))
	}
	var h types.Hash
	copy(h[:], b)
	return h, nil
}

// AtomUint64Value returns the atom interpreted as a minimal big-endian
// unsigned integer.
func (p *Program) AtomUint64Value() (uint64, error) {
	b, err := p.AtomBytes()
	if err != nil {
		return 0, err
	}
	if len(b) > 8 {
		return 0, fmt.Errorf("%w: integer atom too large (%d bytes)", ErrMalformedProgram, len(b))
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// TreeHash computes the program's canonical hash.
// atom: H(0x01 | bytes); pair: H(0x02 | hash(first) | hash(rest))
func (p *Program) TreeHash() types.Hash {
	if !p.pair {
		buf := make([]byte, 1+len(p.atom))
		buf[0] = tagAtom
		copy(buf[1:], p.atom)
		return crypto.Hash(buf)
	}
	var buf [1 + 2*types.HashSize]byte
	buf[0] = tagPair
	fh := p.first.TreeHash()
	rh := p.rest.TreeHash()
	copy(buf[1:], fh[:])
	copy(buf[1+types.HashSize:], rh[:])
	return crypto.Hash(buf[:])
}

// Serialize returns the canonical wire encoding.
// atom: 0x01 | uvarint(len) | bytes; pair: 0x02 | first | rest
func (p *Program) Serialize() types.SerializedProgram {
	return types.SerializedProgram(p.appendTo(nil))
}

func (p *Program) appendTo(buf []byte) []byte {
	if !p.pair {
		buf = append(buf, tagAtom)
		buf = binary.AppendUvarint(buf, uint64(len(p.atom)))
		return append(buf, p.atom...)
	}
	buf = append(buf, tagPair)
	buf = p.first.appendTo(buf)
	return p.rest.appendTo(buf)
}

// Parse decodes a serialized program. It fails closed on trailing bytes,
// truncated input and over-deep trees.
func Parse(data types.SerializedProgram) (*Program, error) {
	p, rest, err := parseNode(data, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedProgram, len(rest))
	}
	return p, nil
}

func parseNode(data []byte, depth int) (*Program, []byte, error) {
	if depth > maxParseDepth {
		return nil, nil, fmt.Errorf("%w: tree too deep", ErrMalformedProgram)
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: truncated", ErrMalformedProgram)
	}
	switch data[0] {
	case tagAtom:
		n, sz := binary.Uvarint(data[1:])
		if sz <= 0 {
			return nil, nil, fmt.Errorf("%w: bad atom length", ErrMalformedProgram)
		}
		body := data[1+sz:]
		if uint64(len(body)) < n {
			return nil, nil, fmt.Errorf("%w: truncated atom", ErrMalformedProgram)
		}
		return Atom(body[:n]), body[n:], nil
	case tagPair:
		first, rest, err := parseNode(data[1:], depth+1)
		if err != nil {
			return nil, nil, err
		}
		second, rest, err := parseNode(rest, depth+1)
		if err != nil {
			return nil, nil, err
		}
		return Pair(first, second), rest, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown node tag 0x%02x", ErrMalformedProgram, data[0])
	}
}

// Equal reports whether two programs are structurally identical.
func (p *Program) Equal(q *Program) bool {
	if p.pair != q.pair {
		return false
	}
	if !p.pair {
		if len(p.atom) != len(q.atom) {
			return false
		}
		for i := range p.atom {
			if p.atom[i] != q.atom[i] {
				return false
			}
		}
		return true
	}
	return p.first.Equal(q.first) && p.rest.Equal(q.rest)
}
