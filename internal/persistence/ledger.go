package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/agora/internal/agents"
)

// Shared codecs; EncodeAll and DecodeAll are safe for concurrent use.
var (
	ledgerEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	ledgerDecoder, _ = zstd.NewReader(nil)
)

// encodeLedger stores a ledger as zstd-compressed JSON.
func encodeLedger(records []agents.Record) ([]byte, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return ledgerEncoder.EncodeAll(raw, nil), nil
}

func decodeLedger(blob []byte) ([]agents.Record, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	raw, err := ledgerDecoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress ledger: %w", err)
	}
	var records []agents.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return records, nil
}
