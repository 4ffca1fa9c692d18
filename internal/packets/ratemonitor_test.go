package packets_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solechain/core/internal/packets"
)

func TestReadRateMonitor_ForwardsPacketsUnchanged(t *testing.T) {
	inner := &memIO{queue: []packets.Packet{{Type: packets.ChainStatistics, Data: []byte("abcd")}}}
	mon := packets.NewReadRateMonitor(inner)

	got, err := mon.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, packets.ChainStatistics, got.Type)
}

func TestReadRateMonitor_EOFPropagates(t *testing.T) {
	inner := &memIO{}
	mon := packets.NewReadRateMonitor(inner)

	_, err := mon.ReadPacket()
	assert.Equal(t, io.EOF, err)
}

func TestReadRateMonitor_RateIsNeverNegative(t *testing.T) {
	inner := &memIO{queue: []packets.Packet{{Type: packets.ChainStatistics, Data: []byte("abcd")}}}
	mon := packets.NewReadRateMonitor(inner)
	_, err := mon.ReadPacket()
	require.NoError(t, err)

	// BytesPerSecond is a best-effort instrument; it must not panic or
	// return a negative rate regardless of how little time has elapsed.
	assert.GreaterOrEqual(t, mon.BytesPerSecond(), float64(0))
}
