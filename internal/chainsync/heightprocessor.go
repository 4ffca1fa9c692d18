// Package chainsync implements the server-side chain-sync wire handlers
// (§4.11): chain statistics, block/hash pulls, transaction push/pull,
// and the shared height-request validation helper they all build on.
package chainsync

import "github.com/solechain/core/internal/chaintypes"

// ChainStatisticsView is the read-only chain metadata the height
// processor and chain-statistics handler consult.
type ChainStatisticsView interface {
	ChainHeight() chaintypes.Height
	FinalizedHeight() chaintypes.Height
	Score() (hi uint64, lo uint64)
}

// HeightResult is the outcome of successfully validating and normalizing
// a height-keyed request (§4.11).
type HeightResult struct {
	NormalizedHeight   chaintypes.Height
	NumAvailableBlocks uint64
}

// ProcessHeightRequest validates requestedHeight against the chain's
// current height, normalizing 0 to the chain tip when allowZero is set.
// Returns ok=false when the request must be answered with an empty,
// header-only response: requestedHeight exceeds the chain height, or
// equals 0 without allowZero.
func ProcessHeightRequest(storage ChainStatisticsView, requestedHeight chaintypes.Height, allowZero bool) (HeightResult, bool) {
	chainHeight := storage.ChainHeight()
	if requestedHeight > chainHeight {
		return HeightResult{}, false
	}
	if requestedHeight == 0 {
		if !allowZero {
			return HeightResult{}, false
		}
		requestedHeight = chainHeight
	}
	return HeightResult{
		NormalizedHeight:   requestedHeight,
		NumAvailableBlocks: uint64(chainHeight-requestedHeight) + 1,
	}, true
}
