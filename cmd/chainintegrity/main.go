// Command chainintegrity is the offline CHAIN-INTEGRITY-VERIFY tool: it
// walks a node's on-disk resources directory and reports the first
// chain-link, block-hash/signature, or proof-hash failure it finds,
// following the teacher's utils_ui.go convention of colored pass/fail
// console output.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/solechain/core/internal/blockext"
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/logging"
	"github.com/solechain/core/internal/storage"
	"github.com/solechain/core/internal/wiring"
)

// Exit codes per the CLI surface: pass, chain-link failure, block-hash or
// signature failure, proof-hash failure.
const (
	exitPass             = 0
	exitChainLinkFailure = 1
	exitBlockFailure     = 2
	exitProofFailure     = 3
)

func main() {
	var resourcesDir string

	root := &cobra.Command{
		Use:   "chainintegrity",
		Short: "Walk a node's chain and proof storage, reporting the first integrity failure found",
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(run(resourcesDir))
			return nil
		},
	}
	root.Flags().StringVar(&resourcesDir, "resources", "", "Directory holding the node's block and proof storage")
	root.MarkFlagRequired("resources")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitChainLinkFailure)
	}
}

func run(resourcesDir string) int {
	logger := logging.New("chainintegrity")

	blocks, err := storage.OpenBlockStore(filepath.Join(resourcesDir, "blocks"), logger)
	if err != nil {
		color.Red("⛔ failed to open block store: %v", err)
		return exitChainLinkFailure
	}
	defer blocks.Close()

	proofs, err := storage.OpenProofStore(filepath.Join(resourcesDir, "proofs"), logger)
	if err != nil {
		color.Red("⛔ failed to open proof store: %v", err)
		return exitChainLinkFailure
	}
	defer proofs.Close()

	extensions := wiring.NewExtensions(chaintypes.Hash256{})

	tip := blocks.ChainHeight()
	if tip == 0 {
		color.Yellow("⚠️  chain is empty, nothing to verify")
		return exitPass
	}

	var previousHash chaintypes.Hash256
	for height := chaintypes.Height(1); height <= tip; height++ {
		data, ok := blocks.BlockAt(height)
		if !ok {
			color.Red("⛔ missing block at height %d", height)
			return exitChainLinkFailure
		}

		block, err := storage.DecodeBlock(data)
		if err != nil {
			color.Red("⛔ failed to decode block at height %d: %v", height, err)
			return exitBlockFailure
		}

		if height > 1 && block.Header.PreviousBlockHash != previousHash {
			color.Red("⛔ chain link broken at height %d: previous-block-hash mismatch", height)
			return exitChainLinkFailure
		}

		if result := extensions.VerifyFullBlock(block); result != blockext.Success {
			color.Red("⛔ block at height %d failed verification: %s", height, result)
			return exitBlockFailure
		}

		storedHash, ok := blocks.HashAt(height)
		if !ok {
			color.Red("⛔ missing stored hash at height %d", height)
			return exitBlockFailure
		}
		previousHash = storedHash
	}

	if proof, ok, err := proofs.LatestProof(); err != nil {
		color.Red("⛔ failed to read finalization proof: %v", err)
		return exitProofFailure
	} else if ok {
		storedHash, present := blocks.HashAt(proof.Height)
		if !present || storedHash != proof.Hash {
			color.Red("⛔ finalization proof for round %+v does not match the block hash at height %d", proof.Round, proof.Height)
			return exitProofFailure
		}
	}

	color.Green("✅ chain resources at %s verified clean through height %d", resourcesDir, tip)
	return exitPass
}
