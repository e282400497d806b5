package ledger

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func buildChain(t *testing.T, data ...string) []Block {
	t.Helper()
	genesis := Block{Index: 0, Timestamp: "2025-04-15T00:00:00Z", Data: json.RawMessage(`"Genesis Block"`), PreviousHash: "0"}
	genesis.Hash = Hash(genesis.Index, genesis.PreviousHash, genesis.Data, genesis.Timestamp)
	chain := []Block{genesis}
	for i, d := range data {
		prev := chain[len(chain)-1]
		b := Block{Index: int64(i + 1), Timestamp: "2026-01-02T10:00:00.000Z", Data: json.RawMessage(d), PreviousHash: prev.Hash}
		b.Hash = Hash(b.Index, b.PreviousHash, b.Data, b.Timestamp)
		chain = append(chain, b)
	}
	return chain
}

func TestHashMatchesKnownValue(t *testing.T) {
	got := Hash(0, "0", []byte(`"Genesis Block"`), "2025-04-15T00:00:00Z")
	if got != "d06cea29a7570606516862c07bbb3c8fe3bc8f9456e16a7a4b71f5e61238f267" {
		t.Fatalf("unexpected genesis hash %q", got)
	}
	if got == Hash(0, "0", []byte(`"Genesis  Block"`), "2025-04-15T00:00:00Z") {
		t.Fatal("hash must depend on the exact data bytes")
	}
}

func TestVerifyAcceptsClientChain(t *testing.T) {
	chain := buildChain(t, `{"type":"log","data":{"mood":"good"}}`, `{"type":"wearable","data":{"heartRate":72}}`)

	// Round trip through the request body keeps the raw data bytes.
	body, err := json.Marshal(chain)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []Block
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := Verify(decoded); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	chain := buildChain(t, `{"a":1}`, `{"b":2}`)
	chain[1].Data = json.RawMessage(`{"a":2}`)

	var broken *BrokenChainError
	if err := Verify(chain); !errors.As(err, &broken) || broken.Index != 1 {
		t.Fatalf("expected broken block 1, got %v", err)
	}
}

func TestVerifyRejectsBadLink(t *testing.T) {
	chain := buildChain(t, `{"a":1}`, `{"b":2}`)
	chain[2].PreviousHash = chain[0].Hash
	chain[2].Hash = Hash(chain[2].Index, chain[2].PreviousHash, chain[2].Data, chain[2].Timestamp)

	var broken *BrokenChainError
	if err := Verify(chain); !errors.As(err, &broken) || broken.Index != 2 {
		t.Fatalf("expected broken link at 2, got %v", err)
	}
}

func TestVerifyEmpty(t *testing.T) {
	if err := Verify(nil); !errors.Is(err, ErrEmptyChain) {
		t.Fatalf("expected ErrEmptyChain, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	if s := Summarize(nil); s.Status != "inactive" || s.Valid {
		t.Fatalf("unexpected status %+v", s)
	}
	chain := buildChain(t, `{"a":1}`)
	stored := ToModels(primitive.NewObjectID(), chain)
	s := Summarize(stored)
	if s.Status != "active" || s.Blocks != 2 || !s.Valid || s.LastUpdate != chain[1].Timestamp {
		t.Fatalf("unexpected status %+v", s)
	}
}

func TestEncodeKeepsHashedBytes(t *testing.T) {
	chain := buildChain(t, `{"note":"sleep <6h & tired"}`)
	body, err := Encode(chain)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(body), `{"note":"sleep <6h & tired"}`) {
		t.Fatalf("data was rewritten: %s", body)
	}
	if strings.HasSuffix(string(body), "\n") {
		t.Fatal("encoded chain should not end with a newline")
	}

	var decoded []Block
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := Verify(decoded); err != nil {
		t.Fatalf("round-tripped chain should verify: %v", err)
	}
}
