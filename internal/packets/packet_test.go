package packets_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solechain/core/internal/packets"
)

func TestPacket_EncodeDecodeRoundTrip(t *testing.T) {
	p := packets.Packet{Type: packets.ChainStatistics, Data: []byte("hello")}
	wire := p.Encode()

	decoded, err := packets.Decode(wire)
	require.NoError(t, err)
	assert.Equal(t, p.Type, decoded.Type)
	assert.Equal(t, p.Data, decoded.Data)
}

func TestPacket_DecodeRejectsShortBuffer(t *testing.T) {
	_, err := packets.Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestPacket_DecodeRejectsSizeExceedingBuffer(t *testing.T) {
	buf := make([]byte, packets.HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], 100)
	_, err := packets.Decode(buf)
	assert.Error(t, err)
}

func TestBuilder_AppendsUntilMaxSize(t *testing.T) {
	b := packets.NewBuilder(packets.PushBlock, packets.HeaderSize+4)
	assert.True(t, b.AppendValue32(7))
	assert.False(t, b.AppendValue32(8), "second append should overflow maxSize")
	assert.True(t, b.Failed())

	built := b.Build()
	assert.Empty(t, built.Data, "a failed builder must yield an empty payload")
}

func TestBuilder_BuildsUnderLimit(t *testing.T) {
	b := packets.NewBuilder(packets.PullBlock, 64)
	require.True(t, b.AppendValue(42))
	require.True(t, b.AppendEntity([]byte("entity-bytes")))

	built := b.Build()
	assert.False(t, b.Failed())
	assert.Equal(t, packets.PullBlock, built.Type)
	assert.Len(t, built.Data, 8+len("entity-bytes"))
}

func u32SizeOf(data []byte) (uint32, bool) {
	if len(data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[:4]), true
}

func TestExtractEntity_AcceptsValidatedEntity(t *testing.T) {
	entity := make([]byte, 4)
	binary.LittleEndian.PutUint32(entity, 4)
	p := packets.Packet{Data: entity}

	got, ok := packets.ExtractEntity(p, u32SizeOf, func(c []byte) bool { return true })
	assert.True(t, ok)
	assert.Equal(t, entity, got)
}

func TestExtractEntity_RejectsFailingValidator(t *testing.T) {
	entity := make([]byte, 4)
	binary.LittleEndian.PutUint32(entity, 4)
	p := packets.Packet{Data: entity}

	_, ok := packets.ExtractEntity(p, u32SizeOf, func(c []byte) bool { return false })
	assert.False(t, ok)
}

func TestExtractEntities_ExactSumSucceeds(t *testing.T) {
	e1 := make([]byte, 4)
	binary.LittleEndian.PutUint32(e1, 4)
	e2 := make([]byte, 8)
	binary.LittleEndian.PutUint32(e2, 8)

	data := append(append([]byte{}, e1...), e2...)
	p := packets.Packet{Data: data}

	entities, ok := packets.ExtractEntities(p, u32SizeOf)
	require.True(t, ok)
	assert.Len(t, entities, 2)
}

func TestExtractEntities_ShortfallFails(t *testing.T) {
	e1 := make([]byte, 4)
	binary.LittleEndian.PutUint32(e1, 4)
	// Declare a second entity larger than the remaining bytes.
	e2 := make([]byte, 4)
	binary.LittleEndian.PutUint32(e2, 100)

	data := append(append([]byte{}, e1...), e2...)
	p := packets.Packet{Data: data}

	_, ok := packets.ExtractEntities(p, u32SizeOf)
	assert.False(t, ok)
}

func TestExtractFixedSizeStructures_RequiresExactMultiple(t *testing.T) {
	p := packets.Packet{Data: make([]byte, 20)}
	structs, ok := packets.ExtractFixedSizeStructures(p, 4)
	require.True(t, ok)
	assert.Len(t, structs, 5)

	p2 := packets.Packet{Data: make([]byte, 21)}
	_, ok2 := packets.ExtractFixedSizeStructures(p2, 4)
	assert.False(t, ok2)
}
