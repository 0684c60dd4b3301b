// Package tx defines the spend bundle the wallet hands to the network and
// its structural validation.
package tx

import (
	"encoding/binary"

	"github.com/orchardnet/orchard-wallet/pkg/crypto"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// SpendBundle is an unsigned group of coin spends submitted as one unit.
// Signing happens in the farmer/signer process, not here.
type SpendBundle struct {
	Spends []types.CoinSpend `json:"coin_spends"`
	Fee    uint64            `json:"fee"`
}

// Bytes returns the canonical serialization used for naming.
// Format: spend_count(4 LE) | per spend: coin(72) | reveal_len(4 LE) | reveal | solution_len(4 LE) | solution,
// then fee(8 LE).
func (b *SpendBundle) Bytes() []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(b.Spends)))
	for _, sp := range b.Spends {
		out = append(out, sp.Coin.Bytes()...)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(sp.PuzzleReveal)))
		out = append(out, sp.PuzzleReveal...)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(sp.Solution)))
		out = append(out, sp.Solution...)
	}
	out = binary.LittleEndian.AppendUint64(out, b.Fee)
	return out
}

// Name returns the bundle's stable identifier, the hash of its canonical
// bytes.
func (b *SpendBundle) Name() types.Hash {
	return crypto.Hash(b.Bytes())
}
