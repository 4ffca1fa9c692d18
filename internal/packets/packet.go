// Package packets implements the wire framing layer (§4.9): a fixed
// 8-byte packet header (Size, Type, both little-endian u32), a
// size-checked payload builder, and parsing helpers for lifting typed
// entities back out of a packet's data section.
package packets

import (
	"encoding/binary"

	"github.com/solechain/core/internal/errs"
)

// HeaderSize is the width in bytes of every packet's Size+Type prefix.
const HeaderSize = 8

// Packet type codes (§6). Values are arbitrary but fixed once assigned.
const (
	ChainStatistics uint32 = iota + 1
	PullBlock
	PullBlocks
	BlockHashes
	PushBlock
	PushTransactions
	PullTransactions
	SubCacheMerkleRoots
	SecureSigned
)

// Packet is a decoded wire packet: its type and the Size-8 bytes that
// followed the header.
type Packet struct {
	Type uint32
	Data []byte
}

// Size returns the packet's on-wire Size field (header plus data).
func (p Packet) Size() uint32 {
	return HeaderSize + uint32(len(p.Data))
}

// Encode serializes p as { Size u32 LE, Type u32 LE, Data }.
func (p Packet) Encode() []byte {
	out := make([]byte, HeaderSize+len(p.Data))
	binary.LittleEndian.PutUint32(out[0:4], p.Size())
	binary.LittleEndian.PutUint32(out[4:8], p.Type)
	copy(out[8:], p.Data)
	return out
}

// Decode parses a single packet from the front of buf. It returns
// Malformed_Data if buf is shorter than the header or the declared size
// does not fit within buf.
func Decode(buf []byte) (Packet, error) {
	if len(buf) < HeaderSize {
		return Packet{}, errs.New(errs.MalformedData, "packets: buffer shorter than header")
	}
	size := binary.LittleEndian.Uint32(buf[0:4])
	typ := binary.LittleEndian.Uint32(buf[4:8])
	if size < HeaderSize {
		return Packet{}, errs.New(errs.MalformedData, "packets: declared size smaller than header")
	}
	if uint64(size) > uint64(len(buf)) {
		return Packet{}, errs.New(errs.MalformedData, "packets: declared size exceeds available data")
	}
	return Packet{Type: typ, Data: buf[HeaderSize:size]}, nil
}

// Builder accumulates a payload for a fixed packet type, tracking a
// running size against max_size (§4.9). Once any append would overflow
// max_size or overflow the u32 Size field arithmetically, the builder
// becomes sticky-failed: every later append is a no-op that returns
// false, and Build returns an empty payload.
type Builder struct {
	typ     uint32
	maxSize uint32
	buf     []byte
	failed  bool
}

// NewBuilder returns a Builder for the given packet type, bounding the
// total payload (header included) to maxSize bytes.
func NewBuilder(typ uint32, maxSize uint32) *Builder {
	return &Builder{typ: typ, maxSize: maxSize}
}

// Failed reports whether a previous append already tripped the sticky
// failure flag.
func (b *Builder) Failed() bool {
	return b.failed
}

// AppendBytes appends a raw buffer to the payload under construction.
// Returns false (and sets the sticky failure flag) if appending data
// would overflow maxSize or the u32 Size field.
func (b *Builder) AppendBytes(data []byte) bool {
	if b.failed {
		return false
	}
	newSize := uint64(HeaderSize) + uint64(len(b.buf)) + uint64(len(data))
	if newSize > uint64(^uint32(0)) || newSize > uint64(b.maxSize) {
		b.failed = true
		return false
	}
	b.buf = append(b.buf, data...)
	return true
}

// AppendEntity appends a single entity's pre-encoded bytes.
func (b *Builder) AppendEntity(entity []byte) bool {
	return b.AppendBytes(entity)
}

// AppendEntities appends a sequence of pre-encoded entities in order,
// stopping at (and reporting) the first one that would overflow.
func (b *Builder) AppendEntities(entities [][]byte) bool {
	for _, e := range entities {
		if !b.AppendBytes(e) {
			return false
		}
	}
	return true
}

// AppendValue appends a fixed little-endian encoding of a uint64 value
// (used for the fixed-width numeric fields of request/response packets).
func (b *Builder) AppendValue(v uint64) bool {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return b.AppendBytes(tmp[:])
}

// AppendValue32 is the 32-bit variant of AppendValue.
func (b *Builder) AppendValue32(v uint32) bool {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.AppendBytes(tmp[:])
}

// Build finalizes the packet. A failed builder yields an empty payload
// of the builder's type (§4.9: "build() on a failed builder returns the
// empty payload").
func (b *Builder) Build() Packet {
	if b.failed {
		return Packet{Type: b.typ}
	}
	return Packet{Type: b.typ, Data: b.buf}
}

// EntityValidator reports whether a candidate entity's declared byte
// range is acceptable to the caller (e.g. a version/network check).
type EntityValidator func(candidate []byte) bool

// ExtractEntity returns the first sizeOf-bytes entity from p's data iff
// its declared size fits within the remaining data and validator accepts
// it. sizeOf extracts the entity's self-declared size (e.g. its leading
// Size field) from a candidate buffer.
func ExtractEntity(p Packet, sizeOf func(candidate []byte) (uint32, bool), validator EntityValidator) ([]byte, bool) {
	declaredSize, ok := sizeOf(p.Data)
	if !ok || uint64(declaredSize) > uint64(len(p.Data)) {
		return nil, false
	}
	candidate := p.Data[:declaredSize]
	if validator != nil && !validator(candidate) {
		return nil, false
	}
	return candidate, true
}

// ExtractEntities splits p's data section into a sequence of
// variable-size entities whose declared sizes sum exactly to len(Data).
// A shortfall or overflow (the running sum exceeds len(Data) before
// reaching the end, or does not exactly reach it) returns an empty
// result and false.
func ExtractEntities(p Packet, sizeOf func(candidate []byte) (uint32, bool)) ([][]byte, bool) {
	var out [][]byte
	data := p.Data
	for len(data) > 0 {
		size, ok := sizeOf(data)
		if !ok || size == 0 || uint64(size) > uint64(len(data)) {
			return nil, false
		}
		out = append(out, data[:size])
		data = data[size:]
	}
	if len(data) != 0 {
		return nil, false
	}
	return out, true
}

// ExtractFixedSizeStructures splits p's data section into a sequence of
// fixed-width entities of width elemSize, requiring an exact multiple.
func ExtractFixedSizeStructures(p Packet, elemSize int) ([][]byte, bool) {
	if elemSize <= 0 || len(p.Data)%elemSize != 0 {
		return nil, false
	}
	count := len(p.Data) / elemSize
	out := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, p.Data[i*elemSize:(i+1)*elemSize])
	}
	return out, true
}
