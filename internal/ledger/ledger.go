// Package ledger checks the hash-linked health ledger kept by the browser
// client before the server stores a copy of it.
package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrEmptyChain = errors.New("ledger: chain has no blocks")

// Block is the wire form of a ledger block. Data is kept as the exact JSON
// the client hashed.
type Block struct {
	Index        int64           `json:"index"`
	Timestamp    string          `json:"timestamp"`
	Data         json.RawMessage `json:"data"`
	PreviousHash string          `json:"previousHash"`
	Hash         string          `json:"hash"`
}

// BrokenChainError points at the first block that fails verification.
type BrokenChainError struct {
	Index  int64
	Reason string
}

func (e *BrokenChainError) Error() string {
	return fmt.Sprintf("ledger: block %d: %s", e.Index, e.Reason)
}

// Hash computes sha256(index + previousHash + data + timestamp) as hex.
func Hash(index int64, previousHash string, data []byte, timestamp string) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(index, 10)))
	h.Write([]byte(previousHash))
	h.Write(data)
	h.Write([]byte(timestamp))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks every block's hash and the previous-hash links.
func Verify(blocks []Block) error {
	if len(blocks) == 0 {
		return ErrEmptyChain
	}
	for i, b := range blocks {
		if b.Index != int64(i) {
			return &BrokenChainError{Index: b.Index, Reason: fmt.Sprintf("expected index %d", i)}
		}
		if Hash(b.Index, b.PreviousHash, b.Data, b.Timestamp) != b.Hash {
			return &BrokenChainError{Index: b.Index, Reason: "hash mismatch"}
		}
		if i > 0 && b.PreviousHash != blocks[i-1].Hash {
			return &BrokenChainError{Index: b.Index, Reason: "previous hash does not link"}
		}
	}
	return nil
}

// ToModels converts verified wire blocks into stored blocks owned by userID.
func ToModels(userID primitive.ObjectID, blocks []Block) []models.LedgerBlock {
	out := make([]models.LedgerBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, models.LedgerBlock{
			UserID:       userID,
			Index:        b.Index,
			Timestamp:    b.Timestamp,
			Data:         string(b.Data),
			PreviousHash: b.PreviousHash,
			Hash:         b.Hash,
		})
	}
	return out
}

// FromModels restores the wire form of stored blocks.
func FromModels(stored []models.LedgerBlock) []Block {
	out := make([]Block, 0, len(stored))
	for _, b := range stored {
		out = append(out, Block{
			Index:        b.Index,
			Timestamp:    b.Timestamp,
			Data:         json.RawMessage(b.Data),
			PreviousHash: b.PreviousHash,
			Hash:         b.Hash,
		})
	}
	return out
}

// Encode writes blocks as a JSON array without HTML escaping, so each
// block's data keeps the bytes it was hashed over.
func Encode(blocks []Block) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(blocks); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

type Status struct {
	Status     string `json:"status"`
	Blocks     int    `json:"blocks"`
	Valid      bool   `json:"valid"`
	LastUpdate string `json:"last_update"`
}

// Summarize reports whether a stored chain exists and still verifies.
func Summarize(stored []models.LedgerBlock) Status {
	if len(stored) == 0 {
		return Status{Status: "inactive"}
	}
	return Status{
		Status:     "active",
		Blocks:     len(stored),
		Valid:      Verify(FromModels(stored)) == nil,
		LastUpdate: stored[len(stored)-1].Timestamp,
	}
}
