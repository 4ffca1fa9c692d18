package chainsync

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/mempool"
	"github.com/solechain/core/internal/packets"
)

// ChainView is the read-only chain storage surface the handlers consult
// (§1: "persistent block storage... treated as an opaque append-and-load
// service"; this is its read-only half, §5).
type ChainView interface {
	ChainStatisticsView
	HashAt(height chaintypes.Height) (chaintypes.Hash256, bool)
	BlockAt(height chaintypes.Height) (data []byte, ok bool)
	SubCacheMerkleRoots(height chaintypes.Height) []chaintypes.Hash256
}

// ServerLimits bounds the handlers' responses independent of what a
// client requests (§4.11).
type ServerLimits struct {
	MaxHashes        uint32
	MaxBlocks        uint32
	MaxResponseBytes uint64
}

// PeerIdentity tags the source of a pushed block or transaction range.
type PeerIdentity string

// PushedBlockConsumer accepts a validated pushed block, tagged with the
// peer that sent it.
type PushedBlockConsumer interface {
	ConsumeBlock(peer PeerIdentity, blockType uint32, blockData []byte) error
}

// PushedTransactionsConsumer accepts a validated pushed transaction
// range, tagged with the sending peer.
type PushedTransactionsConsumer interface {
	ConsumeTransactions(peer PeerIdentity, txType uint32, txData []byte) error
}

// Handlers implements the server-side chain-sync handlers of §4.11.
type Handlers struct {
	storage      ChainView
	limits       ServerLimits
	utCache      *mempool.UTCache
	registry     *entity.PluginRegistry
	pushBlocks   PushedBlockConsumer
	pushTxs      PushedTransactionsConsumer
	logger       *zap.Logger
}

// NewHandlers builds the chain-sync handler set.
func NewHandlers(
	storage ChainView,
	limits ServerLimits,
	utCache *mempool.UTCache,
	registry *entity.PluginRegistry,
	pushBlocks PushedBlockConsumer,
	pushTxs PushedTransactionsConsumer,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		storage:    storage,
		limits:     limits,
		utCache:    utCache,
		registry:   registry,
		pushBlocks: pushBlocks,
		pushTxs:    pushTxs,
		logger:     logger,
	}
}

func emptyResponse(packetType uint32) packets.Packet {
	return packets.Packet{Type: packetType}
}

// HandleChainStatistics responds with { Height, FinalizedHeight,
// ScoreHigh, ScoreLow } as four little-endian u64s.
func (h *Handlers) HandleChainStatistics() packets.Packet {
	hi, lo := h.storage.Score()
	b := packets.NewBuilder(packets.ChainStatistics, 8+4*8)
	b.AppendValue(uint64(h.storage.ChainHeight()))
	b.AppendValue(uint64(h.storage.FinalizedHeight()))
	b.AppendValue(hi)
	b.AppendValue(lo)
	return b.Build()
}

// HandlePullBlock returns the requested block body, treating height 0 as
// the chain tip (allow_zero = true, §4.11).
func (h *Handlers) HandlePullBlock(requestedHeight chaintypes.Height) packets.Packet {
	result, ok := ProcessHeightRequest(h.storage, requestedHeight, true)
	if !ok {
		return emptyResponse(packets.PullBlock)
	}
	data, found := h.storage.BlockAt(result.NormalizedHeight)
	if !found {
		return emptyResponse(packets.PullBlock)
	}
	return packets.Packet{Type: packets.PullBlock, Data: data}
}

// HandleBlockHashes returns up to min(numHashes, server max, available)
// consecutive 32-byte hashes starting at the requested height.
func (h *Handlers) HandleBlockHashes(requestedHeight chaintypes.Height, numHashes uint32) packets.Packet {
	result, ok := ProcessHeightRequest(h.storage, requestedHeight, false)
	if !ok {
		return emptyResponse(packets.BlockHashes)
	}

	limit := numHashes
	if h.limits.MaxHashes < limit {
		limit = h.limits.MaxHashes
	}
	if uint64(limit) > result.NumAvailableBlocks {
		limit = uint32(result.NumAvailableBlocks)
	}

	out := make([]byte, 0, int(limit)*chaintypes.HashSize)
	for i := uint32(0); i < limit; i++ {
		hash, found := h.storage.HashAt(result.NormalizedHeight + chaintypes.Height(i))
		if !found {
			break
		}
		out = append(out, hash[:]...)
	}
	return packets.Packet{Type: packets.BlockHashes, Data: out}
}

// HandlePullBlocks returns blocks starting at the requested height
// subject to two independent caps: a block-count cap and a
// cumulative-byte cap. At least one block is returned if the requested
// height exists; the first subsequent block that would exceed the byte
// cap stops inclusion (§4.11).
func (h *Handlers) HandlePullBlocks(requestedHeight chaintypes.Height, numBlocks uint32, numResponseBytes uint64) packets.Packet {
	result, ok := ProcessHeightRequest(h.storage, requestedHeight, false)
	if !ok {
		return emptyResponse(packets.PullBlocks)
	}

	blockCap := numBlocks
	if h.limits.MaxBlocks < blockCap {
		blockCap = h.limits.MaxBlocks
	}
	byteCap := numResponseBytes
	if h.limits.MaxResponseBytes < byteCap {
		byteCap = h.limits.MaxResponseBytes
	}

	var out []byte
	var cumulative uint64
	var count uint32
	for i := uint32(0); count < blockCap; i++ {
		data, found := h.storage.BlockAt(result.NormalizedHeight + chaintypes.Height(i))
		if !found {
			break
		}
		size := uint64(len(data))
		if count > 0 && cumulative+size > byteCap {
			break
		}
		out = append(out, data...)
		cumulative += size
		count++
	}
	return packets.Packet{Type: packets.PullBlocks, Data: out}
}

// HandleSubCacheMerkleRoots returns the per-component root hashes for
// the requested block, or an empty response if none are present.
func (h *Handlers) HandleSubCacheMerkleRoots(requestedHeight chaintypes.Height) packets.Packet {
	result, ok := ProcessHeightRequest(h.storage, requestedHeight, false)
	if !ok {
		return emptyResponse(packets.SubCacheMerkleRoots)
	}
	roots := h.storage.SubCacheMerkleRoots(result.NormalizedHeight)
	out := make([]byte, 0, len(roots)*chaintypes.HashSize)
	for _, r := range roots {
		out = append(out, r[:]...)
	}
	return packets.Packet{Type: packets.SubCacheMerkleRoots, Data: out}
}

// HandlePushBlock forwards blockData to the block-range consumer tagged
// with peer. An empty range, or any range when no plugin registry is
// configured, logs a warning and is dropped. The block's size and its
// transaction types are not checked here.
func (h *Handlers) HandlePushBlock(peer PeerIdentity, blockType uint32, blockData []byte) {
	if len(blockData) == 0 {
		h.logger.Warn("dropping empty pushed block", zap.String("peer", string(peer)))
		return
	}
	if h.registry == nil {
		h.logger.Warn("dropping pushed block: no plugin registry configured", zap.String("peer", string(peer)))
		return
	}
	if err := h.pushBlocks.ConsumeBlock(peer, blockType, blockData); err != nil {
		h.logger.Warn("block-range consumer rejected pushed block",
			zap.String("peer", string(peer)), zap.Error(err))
	}
}

// HandlePushTransactions is HandlePushBlock's transaction-shaped sibling.
func (h *Handlers) HandlePushTransactions(peer PeerIdentity, txType uint32, txData []byte) {
	if len(txData) == 0 {
		h.logger.Warn("dropping empty pushed transaction range", zap.String("peer", string(peer)))
		return
	}
	if err := h.pushTxs.ConsumeTransactions(peer, txType, txData); err != nil {
		h.logger.Warn("transaction consumer rejected pushed range",
			zap.String("peer", string(peer)), zap.Error(err))
	}
}

// PullTransactionsRequest is the parsed { MinFeeMultiplier u32,
// ShortHash[] } request body (§6); an empty tail is accepted.
type PullTransactionsRequest struct {
	MinFeeMultiplier uint32
	KnownShortHashes []chaintypes.ShortHash
}

// ParsePullTransactionsRequest decodes a Pull_Transactions packet body.
func ParsePullTransactionsRequest(data []byte) (PullTransactionsRequest, bool) {
	if len(data) < 4 {
		return PullTransactionsRequest{}, false
	}
	minFee := binary.LittleEndian.Uint32(data[:4])
	tail := data[4:]
	if len(tail)%4 != 0 {
		return PullTransactionsRequest{}, false
	}
	hashes := make([]chaintypes.ShortHash, 0, len(tail)/4)
	for i := 0; i < len(tail); i += 4 {
		hashes = append(hashes, chaintypes.ShortHash(binary.LittleEndian.Uint32(tail[i:i+4])))
	}
	return PullTransactionsRequest{MinFeeMultiplier: minFee, KnownShortHashes: hashes}, true
}

// HandlePullTransactions delegates to the unconfirmed-transaction
// cache's unknown_transactions view operation.
func (h *Handlers) HandlePullTransactions(req PullTransactionsRequest) []*entity.Transaction {
	known := make(map[chaintypes.ShortHash]struct{}, len(req.KnownShortHashes))
	for _, sh := range req.KnownShortHashes {
		known[sh] = struct{}{}
	}

	view := h.utCache.View()
	defer view.Close()
	return view.UnknownTransactions(uint64(req.MinFeeMultiplier), known, h.limits.MaxResponseBytes)
}
