package main

import (
	"encoding/binary"

	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/protocol"
	"go.uber.org/zap"

	"github.com/solechain/core/internal/chainsync"
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/packets"
	"github.com/solechain/core/internal/storage"
)

// syncProtocolID identifies the chain-sync packet stream on the libp2p
// host, the same role the teacher's raw TCP protocol string plays for
// its own gob-encoded HandleStream loop.
const syncProtocolID protocol.ID = "/sole/chainsync/1.0.0"

// syncServer adapts chainsync.Handlers onto a libp2p stream: one
// goroutine per inbound stream, one request packet in, one response
// packet out, until the peer closes the stream or sends something this
// node cannot parse.
type syncServer struct {
	handlers *chainsync.Handlers
	logger   *zap.Logger
}

// HandleStream is registered as the protocol's libp2p stream handler.
func (s *syncServer) HandleStream(stream network.Stream) {
	defer stream.Close()

	io := packets.NewStreamIO(stream)
	peer := chainsync.PeerIdentity(stream.Conn().RemotePeer().String())

	for {
		req, err := io.ReadPacket()
		if err != nil {
			return
		}

		resp, ok := s.dispatch(peer, req)
		if !ok {
			s.logger.Warn("chainsync: closing stream on unparseable request",
				zap.String("peer", string(peer)), zap.Uint32("type", req.Type))
			return
		}
		if err := io.WritePacket(resp); err != nil {
			return
		}
	}
}

// dispatch routes a single request packet to its handler and builds the
// response packet. It reports false for a request this node could not
// decode at all (the caller closes the stream); a request the handler
// itself rejects still produces a packet (typically an empty response,
// per §4.11's "always produce an empty header-only response" contract).
func (s *syncServer) dispatch(peer chainsync.PeerIdentity, req packets.Packet) (packets.Packet, bool) {
	switch req.Type {
	case packets.ChainStatistics:
		return s.handlers.HandleChainStatistics(), true

	case packets.PullBlock:
		height, ok := decodeHeight(req.Data)
		if !ok {
			return packets.Packet{}, false
		}
		return s.handlers.HandlePullBlock(height), true

	case packets.BlockHashes:
		height, numHashes, ok := decodeHeightAndCount32(req.Data)
		if !ok {
			return packets.Packet{}, false
		}
		return s.handlers.HandleBlockHashes(height, numHashes), true

	case packets.PullBlocks:
		if len(req.Data) < 20 {
			return packets.Packet{}, false
		}
		height := chaintypes.Height(binary.LittleEndian.Uint64(req.Data[0:8]))
		numBlocks := binary.LittleEndian.Uint32(req.Data[8:12])
		numResponseBytes := binary.LittleEndian.Uint64(req.Data[12:20])
		return s.handlers.HandlePullBlocks(height, numBlocks, numResponseBytes), true

	case packets.SubCacheMerkleRoots:
		height, ok := decodeHeight(req.Data)
		if !ok {
			return packets.Packet{}, false
		}
		return s.handlers.HandleSubCacheMerkleRoots(height), true

	case packets.PushBlock:
		if len(req.Data) < 4 {
			return packets.Packet{}, false
		}
		blockType := binary.LittleEndian.Uint32(req.Data[0:4])
		s.handlers.HandlePushBlock(peer, blockType, req.Data[4:])
		return packets.Packet{Type: packets.PushBlock}, true

	case packets.PushTransactions:
		if len(req.Data) < 4 {
			return packets.Packet{}, false
		}
		txType := binary.LittleEndian.Uint32(req.Data[0:4])
		s.handlers.HandlePushTransactions(peer, txType, req.Data[4:])
		return packets.Packet{Type: packets.PushTransactions}, true

	case packets.PullTransactions:
		parsed, ok := chainsync.ParsePullTransactionsRequest(req.Data)
		if !ok {
			return packets.Packet{}, false
		}
		txs := s.handlers.HandlePullTransactions(parsed)
		data, err := storage.EncodeTransactions(txs)
		if err != nil {
			return packets.Packet{}, false
		}
		return packets.Packet{Type: packets.PullTransactions, Data: data}, true

	default:
		return packets.Packet{}, false
	}
}

func decodeHeight(data []byte) (chaintypes.Height, bool) {
	if len(data) < 8 {
		return 0, false
	}
	return chaintypes.Height(binary.LittleEndian.Uint64(data[0:8])), true
}

func decodeHeightAndCount32(data []byte) (chaintypes.Height, uint32, bool) {
	if len(data) < 12 {
		return 0, 0, false
	}
	height := chaintypes.Height(binary.LittleEndian.Uint64(data[0:8]))
	count := binary.LittleEndian.Uint32(data[8:12])
	return height, count, true
}
