package types

import (
	"fmt"
	"strings"
)

// Orchard addresses are bech32 strings (BIP-173): an HRP, the separator
// '1', the 5-bit-regrouped payload and a 6-character checksum.
const bech32Alphabet = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// bech32Values maps an ASCII character to its 5-bit value, or -1.
var bech32Values = func() (tbl [128]int8) {
	for i := range tbl {
		tbl[i] = -1
	}
	for i, c := range bech32Alphabet {
		tbl[c] = int8(i)
	}
	return
}()

// Bech32Encode encodes payload bytes under the given HRP.
func Bech32Encode(hrp string, payload []byte) (string, error) {
	if hrp == "" {
		return "", fmt.Errorf("bech32: hrp must not be empty")
	}
	for _, c := range hrp {
		if c < 33 || c > 126 {
			return "", fmt.Errorf("bech32: hrp character %q out of range", c)
		}
	}
	grouped, err := regroupBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("bech32: %w", err)
	}

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(grouped) + checksumLen)
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, v := range grouped {
		sb.WriteByte(bech32Alphabet[v])
	}
	for _, v := range checksum(hrp, grouped) {
		sb.WriteByte(bech32Alphabet[v])
	}
	return sb.String(), nil
}

// Bech32Decode splits a bech32 string into its HRP and payload bytes,
// verifying the checksum. Mixed-case input is rejected; otherwise case is
// ignored.
func Bech32Decode(s string) (string, []byte, error) {
	if s == "" {
		return "", nil, fmt.Errorf("bech32: empty input")
	}
	lower := strings.ToLower(s)
	if s != lower && s != strings.ToUpper(s) {
		return "", nil, fmt.Errorf("bech32: mixed-case input")
	}
	s = lower

	sep := strings.LastIndexByte(s, '1')
	if sep < 1 {
		return "", nil, fmt.Errorf("bech32: no separator")
	}
	if len(s)-sep-1 < checksumLen {
		return "", nil, fmt.Errorf("bech32: input shorter than its checksum")
	}
	hrp := s[:sep]

	body := s[sep+1:]
	values := make([]byte, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= 128 || bech32Values[c] < 0 {
			return "", nil, fmt.Errorf("bech32: character %q not in alphabet", c)
		}
		values[i] = byte(bech32Values[c])
	}

	if polymod(append(hrpExpand(hrp), values...)) != 1 {
		return "", nil, fmt.Errorf("bech32: checksum mismatch")
	}

	payload, err := regroupBits(values[:len(values)-checksumLen], 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("bech32: %w", err)
	}
	return hrp, payload, nil
}

const checksumLen = 6

// polymod is the BCH checksum polynomial over 5-bit values.
func polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := uint(0); i < 5; i++ {
			if top>>i&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

// hrpExpand feeds the HRP into the checksum: high bits, a zero, low bits.
func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, 2*len(hrp)+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

// checksum computes the 6 checksum values for an HRP and payload.
func checksum(hrp string, values []byte) []byte {
	work := append(hrpExpand(hrp), values...)
	work = append(work, make([]byte, checksumLen)...)
	residue := polymod(work) ^ 1
	out := make([]byte, checksumLen)
	for i := range out {
		out[i] = byte(residue >> uint(5*(5-i)) & 31)
	}
	return out
}

// regroupBits repacks a bit stream between group widths. Encoding pads the
// final group with zeros; decoding requires the padding to be zero and
// shorter than a source group.
func regroupBits(data []byte, from, to uint, pad bool) ([]byte, error) {
	var (
		acc  uint32
		bits uint
		out  []byte
	)
	mask := uint32(1)<<to - 1

	for _, b := range data {
		if uint32(b)>>from != 0 {
			return nil, fmt.Errorf("value %d exceeds %d bits", b, from)
		}
		acc = acc<<from | uint32(b)
		bits += from
		for bits >= to {
			bits -= to
			out = append(out, byte(acc>>bits&mask))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(to-bits)&mask))
		}
		return out, nil
	}
	if bits >= from || acc<<(to-bits)&mask != 0 {
		return nil, fmt.Errorf("non-zero trailing padding")
	}
	return out, nil
}
