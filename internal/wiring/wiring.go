// Package wiring assembles the node's default plugin registry, entity
// hasher, and block extensions the way the teacher's network.go NewServer
// assembles its Blockchain and Server in one constructor, so cmd/solenode
// and cmd/chainintegrity share a single source of truth for which
// transaction types the node understands.
package wiring

import (
	"github.com/solechain/core/internal/blockext"
	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
)

// NewRegistry returns the plugin registry wired with every transaction
// type this node supports. Currently that is only the plain transfer type;
// additional plugin handlers register here as the node gains them.
func NewRegistry() *entity.PluginRegistry {
	registry := entity.NewPluginRegistry()
	registry.Register(entity.TransferTypeTag, entity.NewTransferTypeHandler())
	return registry
}

// NewExtensions returns block Extensions over the default registry's
// hasher and generationHash.
func NewExtensions(generationHash chaintypes.Hash256) *blockext.Extensions {
	hasher := entity.NewHasher(NewRegistry())
	return blockext.New(hasher, generationHash)
}
