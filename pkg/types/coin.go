package types

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Coin is an unspent output: a parent coin id, the hash of the puzzle that
// locks it, and an amount in base units.
type Coin struct {
	ParentCoinInfo Hash   `json:"parent_coin_info"`
	PuzzleHash     Hash   `json:"puzzle_hash"`
	Amount         uint64 `json:"amount"`
}

// Bytes returns the canonical byte representation used for coin ids.
// Format: parent(32) | puzzle_hash(32) | amount(8 LE)
func (c Coin) Bytes() []byte {
	buf := make([]byte, 0, 2*HashSize+8)
	buf = append(buf, c.ParentCoinInfo[:]...)
	buf = append(buf, c.PuzzleHash[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, c.Amount)
	return buf
}

// String returns "parent:puzzlehash:amount" in hex.
func (c Coin) String() string {
	return fmt.Sprintf("%s:%s:%d", c.ParentCoinInfo, c.PuzzleHash, c.Amount)
}

// SerializedProgram is the wire form of a puzzle or solution program.
type SerializedProgram []byte

// MarshalJSON encodes the program as a hex string.
func (sp SerializedProgram) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(sp))
}

// UnmarshalJSON decodes a hex string into a serialized program.
func (sp *SerializedProgram) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid program hex: %w", err)
	}
	*sp = b
	return nil
}

// CoinSpend is a confirmed or proposed spend of a coin: the coin itself,
// the revealed puzzle whose hash must equal the coin's puzzle hash, and the
// solution passed to that puzzle.
type CoinSpend struct {
	Coin         Coin              `json:"coin"`
	PuzzleReveal SerializedProgram `json:"puzzle_reveal"`
	Solution     SerializedProgram `json:"solution"`
}
