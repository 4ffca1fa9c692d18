package entity

import "github.com/solechain/core/internal/chaintypes"

// TypeHandler is the plugin vtable the spec's registry maps a transaction
// type tag to (§4.2, §9 "Plugin registry"): a data buffer extractor and an
// optional list of merkle-supplementary buffers. The registry is immutable
// after startup.
type TypeHandler interface {
	// DataBuffer returns the byte range fed to the entity hasher for T —
	// the same range a signature-verification caller must use (§4.2).
	DataBuffer(tx *Transaction) []byte
	// MerkleSupplementaryBuffers returns extra buffers mixed into T's
	// merkle component hash beyond its entity hash (I2), in declared
	// order. Returning nil means "no supplementary buffers".
	MerkleSupplementaryBuffers(tx *Transaction) [][]byte
}

// PluginRegistry maps a transaction type tag to its TypeHandler. Lookup of
// an unknown type is a programmer/configuration error — the caller's
// registry is incomplete — and is fatal per §4.2, surfaced as a panic
// rather than a recoverable error so misconfiguration fails loudly at the
// first unknown type rather than silently corrupting a hash.
type PluginRegistry struct {
	handlers map[uint32]TypeHandler
}

// NewPluginRegistry returns an empty registry; handlers are added with
// Register.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{handlers: make(map[uint32]TypeHandler)}
}

// Register associates a transaction type tag with its handler. Intended to
// be called only during startup wiring, before the registry is handed to
// any hashing code.
func (r *PluginRegistry) Register(txType uint32, handler TypeHandler) {
	r.handlers[txType] = handler
}

// Find returns the handler for txType, panicking if none is registered
// (§4.2: "unknown transaction type -> fatal, caller's registry is
// incomplete").
func (r *PluginRegistry) Find(txType uint32) TypeHandler {
	h, ok := r.handlers[txType]
	if !ok {
		panic("entity: plugin registry has no handler for transaction type")
	}
	return h
}

// TransferPayload is the concrete payload of the one transaction type this
// repository ships end to end (§ SPEC_FULL "supplemented features"): a
// plain value transfer. It has no merkle-supplementary buffers, exercising
// I2's default branch (MerkleComponentHash == EntityHash).
type TransferPayload struct {
	Recipient chaintypes.Key
	Amount    chaintypes.Amount
}

// TransferTypeTag is the transaction type code for TransferPayload.
const TransferTypeTag uint32 = 0x4154 // "AT" for "account transfer"

// EncodeTransferPayload serializes a TransferPayload into the raw bytes a
// Transaction carries.
func EncodeTransferPayload(p TransferPayload) []byte {
	out := make([]byte, 0, chaintypes.KeySize+8)
	out = append(out, p.Recipient[:]...)
	out = appendUint64(out, uint64(p.Amount))
	return out
}

// DecodeTransferPayload parses bytes previously produced by
// EncodeTransferPayload.
func DecodeTransferPayload(data []byte) (TransferPayload, bool) {
	if len(data) != chaintypes.KeySize+8 {
		return TransferPayload{}, false
	}
	var p TransferPayload
	copy(p.Recipient[:], data[:chaintypes.KeySize])
	p.Amount = chaintypes.Amount(decodeUint64(data[chaintypes.KeySize:]))
	return p, true
}

func decodeUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// transferTypeHandler implements TypeHandler for TransferPayload: the data
// buffer is the transaction's full MaxFee+Deadline+Payload body (there is
// no supplementary buffer for a plain transfer).
type transferTypeHandler struct{}

// NewTransferTypeHandler returns the TypeHandler for TransferTypeTag.
func NewTransferTypeHandler() TypeHandler { return transferTypeHandler{} }

func (transferTypeHandler) DataBuffer(tx *Transaction) []byte {
	return tx.BodyForHash()
}

func (transferTypeHandler) MerkleSupplementaryBuffers(tx *Transaction) [][]byte {
	return nil
}
