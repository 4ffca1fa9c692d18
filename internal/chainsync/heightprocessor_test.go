package chainsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/chainsync"
)

func TestProcessHeightRequest_RejectsBeyondTip(t *testing.T) {
	view := &fakeChainView{height: 10}
	_, ok := chainsync.ProcessHeightRequest(view, 11, false)
	assert.False(t, ok)
}

func TestProcessHeightRequest_RejectsZeroWithoutAllowZero(t *testing.T) {
	view := &fakeChainView{height: 10}
	_, ok := chainsync.ProcessHeightRequest(view, 0, false)
	assert.False(t, ok)
}

func TestProcessHeightRequest_NormalizesZeroWithAllowZero(t *testing.T) {
	view := &fakeChainView{height: 10}
	result, ok := chainsync.ProcessHeightRequest(view, 0, true)
	require.True(t, ok)
	assert.Equal(t, chaintypes.Height(10), result.NormalizedHeight)
	assert.Equal(t, uint64(1), result.NumAvailableBlocks)
}

func TestProcessHeightRequest_ReportsAvailableBlocks(t *testing.T) {
	view := &fakeChainView{height: 10}
	result, ok := chainsync.ProcessHeightRequest(view, 4, false)
	require.True(t, ok)
	assert.Equal(t, uint64(7), result.NumAvailableBlocks)
}
