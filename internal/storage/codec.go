package storage

import (
	"bytes"
	"encoding/gob"

	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/errs"
)

// EncodeBlock gob-encodes a block for storage in a StoredBlock's Data
// field, the same serialization idiom the teacher's block.go Serialize
// uses (gob rather than a custom wire format — blocks are never sent to
// the packet layer directly, only reconstructed from PushBlock payloads).
func EncodeBlock(b *entity.Block) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, errs.Wrap(err, errs.WriteError, "storage: failed to encode block")
	}
	return buf.Bytes(), nil
}

// DecodeBlock reverses EncodeBlock.
func DecodeBlock(data []byte) (*entity.Block, error) {
	var b entity.Block
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
		return nil, errs.Wrap(err, errs.MalformedData, "storage: failed to decode block")
	}
	return &b, nil
}

// EncodeTransactions gob-encodes a transaction range for a Push_Transactions
// wire payload, the same serialization idiom EncodeBlock uses.
func EncodeTransactions(txs []*entity.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(txs); err != nil {
		return nil, errs.Wrap(err, errs.WriteError, "storage: failed to encode transactions")
	}
	return buf.Bytes(), nil
}

// DecodeTransactions reverses EncodeTransactions.
func DecodeTransactions(data []byte) ([]*entity.Transaction, error) {
	var txs []*entity.Transaction
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&txs); err != nil {
		return nil, errs.Wrap(err, errs.MalformedData, "storage: failed to decode transactions")
	}
	return txs, nil
}
