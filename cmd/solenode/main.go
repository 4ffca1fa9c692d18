// Command solenode is the validator node binary: it combines the libp2p
// gossip host, the badger-backed block/proof storage, the mempool caches,
// and a read-only REST introspection server into one process, the same
// single-binary shape as the teacher's main.go/cli.go/network.go, wired to
// this repository's core subsystem instead of the teacher's toy PoA chain.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/solechain/core/internal/api"
	"github.com/solechain/core/internal/chainsync"
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/config"
	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/finalization"
	"github.com/solechain/core/internal/logging"
	"github.com/solechain/core/internal/mempool"
	"github.com/solechain/core/internal/storage"
	"github.com/solechain/core/internal/subscribers"
	"github.com/solechain/core/internal/wiring"
)

// defaultServerLimits bounds chain-sync responses independent of what a
// peer requests, the same fixed ceilings the teacher's own server config
// applies to its block/header fan-out.
var defaultServerLimits = chainsync.ServerLimits{
	MaxHashes:        1000,
	MaxBlocks:        100,
	MaxResponseBytes: 16 * 1024 * 1024,
}

const discoveryNamespace = "sole_p2p"

// discoveryNotifee connects newly-found mDNS peers, the same event-driven
// shape the teacher's network.go discoveryNotifee uses instead of a
// periodic dial loop.
type discoveryNotifee struct {
	host   host.Host
	logger *zap.Logger
}

func (n *discoveryNotifee) HandlePeerFound(pi peer.AddrInfo) {
	if pi.ID == n.host.ID() {
		return
	}
	if err := n.host.Connect(context.Background(), pi); err != nil {
		n.logger.Warn("p2p: failed to connect to discovered peer", zap.String("peer", pi.ID.String()), zap.Error(err))
	}
}

// finalizationFanout is the single finalization.Subscriber the aggregate
// proof storage notifies: it first lets the patching subscriber repair
// the local chain (propagating a failure as an error, the same
// fail-closed contract finalization.Subscriber documents), then fans the
// same notification out to every subscribers.Manager finalization
// registrant for observation.
type finalizationFanout struct {
	patching  *finalization.PatchingSubscriber
	observers *subscribers.FinalizationAggregate
}

func (f *finalizationFanout) NotifyFinalizedBlock(round chaintypes.FinalizationRound, height chaintypes.Height, hash chaintypes.Hash256) error {
	if err := f.patching.NotifyFinalizedBlock(round, height, hash); err != nil {
		return err
	}
	f.observers.NotifyFinalizedBlock(round, height, hash)
	return nil
}

func main() {
	printWelcome()

	v := viper.New()
	root := &cobra.Command{
		Use:   "solenode",
		Short: "Run a SOLE validator node",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	config.BindFlags(root, v)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printWelcome() {
	color.Cyan("   Sole Blockchain v1.0 (Educational)")
}

func run(cfg config.NodeConfig) error {
	logger := logging.New("solenode")
	defer logging.Sync()

	blockStore, err := storage.OpenBlockStore(cfg.DataDir+"/blocks", logger)
	if err != nil {
		return fmt.Errorf("solenode: failed to open block store: %w", err)
	}
	defer blockStore.Close()

	proofStore, err := storage.OpenProofStore(cfg.DataDir+"/proofs", logger)
	if err != nil {
		return fmt.Errorf("solenode: failed to open proof store: %w", err)
	}
	defer proofStore.Close()

	utCache := mempool.NewUTCache(mempool.Limits{MaxBytes: uint64(cfg.UtCacheMaxBytes), MaxCount: cfg.UtCacheMaxCount})
	ptCache := mempool.NewPTCache(mempool.Limits{MaxBytes: uint64(cfg.PtCacheMaxBytes), MaxCount: cfg.PtCacheMaxCount})

	generationHash := chaintypes.Hash256{}
	registry := wiring.NewRegistry()
	hasher := entity.NewHasher(registry)
	extensions := wiring.NewExtensions(generationHash)

	// Finalization overlay (§4.4, §4.5): an in-memory ancestry tree records
	// every block this node appends, so later finalization votes can be
	// checked for descent from the current chain; the prevote-chain backup
	// store lets the patching subscriber repair a diverged local chain; the
	// aggregate proof storage filters stale saves before fanning a
	// finalized block out to every registered finalization subscriber.
	finalizationTree := finalization.NewTree()
	blocks := &blockIngestor{store: blockStore, extensions: extensions, generationHash: generationHash, tree: finalizationTree, logger: logger}
	txs := &txIngestor{utCache: utCache, hasher: hasher, generationHash: generationHash, logger: logger}

	handlers := chainsync.NewHandlers(blockStore, defaultServerLimits, utCache, registry, blocks, txs, logger)

	prevoteBackups := storage.NewPrevoteChainBackupStore()
	patchingSubscriber := finalization.NewPatchingSubscriber(blockStore, prevoteBackups, blocks)

	subscriberManager := subscribers.NewManager()
	if _, _, err := subscriberManager.CreatePtChange(); err != nil {
		return fmt.Errorf("solenode: failed to create pt-change aggregate: %w", err)
	}
	finalizationAggregate, err := subscriberManager.CreateFinalization()
	if err != nil {
		return fmt.Errorf("solenode: failed to create finalization aggregate: %w", err)
	}
	finalization.NewAggregateProofStorage(proofStore, &finalizationFanout{
		patching:  patchingSubscriber,
		observers: finalizationAggregate,
	}, logger)

	p2pHost, err := libp2p.New(
		libp2p.ListenAddrStrings(fmt.Sprintf("/ip4/%s/tcp/%d", cfg.ListenAddr, cfg.Port)),
	)
	if err != nil {
		return fmt.Errorf("solenode: failed to start libp2p host: %w", err)
	}
	defer p2pHost.Close()

	chainSync := &syncServer{handlers: handlers, logger: logger}
	p2pHost.SetStreamHandler(syncProtocolID, chainSync.HandleStream)

	discoveryService := mdns.NewMdnsService(p2pHost, discoveryNamespace, &discoveryNotifee{host: p2pHost, logger: logger})
	if err := discoveryService.Start(); err != nil {
		return fmt.Errorf("solenode: failed to start mDNS discovery: %w", err)
	}

	logger.Info("p2p host started",
		zap.String("peer_id", p2pHost.ID().String()),
		zap.Int("listen_port", cfg.Port),
		zap.String("chainsync_protocol", string(syncProtocolID)))

	restServer := api.NewServer(cfg.APIListenAddr, cfg.APIPort, blockStore, utCache, ptCache,
		rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)

	go func() {
		if err := restServer.ListenAndServe(); err != nil {
			logger.Warn("rest introspection server stopped", zap.Error(err))
		}
	}()

	color.Green("✅ node listening, p2p port %d, api port %d", cfg.Port, cfg.APIPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	color.Yellow("⚠️  shutting down")
	return nil
}
