package wiring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solechain/core/internal/chaintypes"
	"github.com/solechain/core/internal/entity"
	"github.com/solechain/core/internal/wiring"
)

func TestNewRegistry_ResolvesTransferType(t *testing.T) {
	registry := wiring.NewRegistry()
	handler := registry.Find(entity.TransferTypeTag)
	assert.NotNil(t, handler)
}

func TestNewRegistry_PanicsOnUnknownType(t *testing.T) {
	registry := wiring.NewRegistry()
	assert.Panics(t, func() {
		registry.Find(0xDEAD)
	})
}

func TestNewExtensions_ReturnsExtensions(t *testing.T) {
	x := wiring.NewExtensions(chaintypes.Hash256{9})
	require.NotNil(t, x)
}
