package dynft

import (
	"context"
	"testing"
	"time"

	"github.com/everFinance/dynft/schema"
	"github.com/stretchr/testify/assert"
)

func newTestCollections(t *testing.T, batchSize int) (*CollectionManager, *Engine, *memLedger) {
	lg := newMemLedger()
	e := NewEngine(lg, newMemStore(), nil)
	e.historyTimeout = 100 * time.Millisecond
	return NewCollectionManager(lg, e, batchSize), e, lg
}

func TestCollectionCreateGet(t *testing.T) {
	m, _, _ := newTestCollections(t, 0)
	ctx := context.Background()

	coll, err := m.Create(ctx, "Dragons", "DRG", "a dragon collection")
	assert.NoError(t, err)
	assert.NotEmpty(t, coll.Id)
	assert.Equal(t, "a dragon collection", coll.Description)

	got, err := m.Get(ctx, coll.Id)
	assert.NoError(t, err)
	assert.Equal(t, "Dragons", got.Name)
	assert.Equal(t, "DRG", got.Symbol)
	// the ledger does not retain the description
	assert.Equal(t, schema.DescriptionNotAvailable, got.Description)
}

func TestCollectionGetNotFound(t *testing.T) {
	m, _, _ := newTestCollections(t, 0)
	_, err := m.Get(context.Background(), "0.0.404")
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestListAssetsStopsAtFirstGap(t *testing.T) {
	m, e, lg := newTestCollections(t, 0)
	ctx := context.Background()

	coll, err := m.Create(ctx, "Dragons", "DRG", "d")
	assert.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = e.Mint(ctx, coll.Id, schema.Envelope{Name: "Dragon", Description: "d"})
		assert.NoError(t, err)
	}

	lg.itemInfoCalls = 0
	nfts, err := m.ListAssets(ctx, coll.Id)
	assert.NoError(t, err)
	assert.Len(t, nfts, 2)
	assert.Equal(t, "1", nfts[0].SerialNumber)
	assert.Equal(t, "2", nfts[1].SerialNumber)
	// serials 1, 2 and the probe that found the gap at 3
	assert.Equal(t, 3, lg.itemInfoCalls)
}

func TestListAssetsEmptyCollection(t *testing.T) {
	m, _, _ := newTestCollections(t, 0)
	ctx := context.Background()
	coll, err := m.Create(ctx, "Dragons", "DRG", "d")
	assert.NoError(t, err)

	nfts, err := m.ListAssets(ctx, coll.Id)
	assert.NoError(t, err)
	assert.Len(t, nfts, 0)
}

func TestListAssetsBatchEndsAtFirstGap(t *testing.T) {
	m, e, _ := newTestCollections(t, 5)
	ctx := context.Background()

	coll, err := m.Create(ctx, "Dragons", "DRG", "d")
	assert.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = e.Mint(ctx, coll.Id, schema.Envelope{Name: "Dragon", Description: "d"})
		assert.NoError(t, err)
	}

	nfts, err := m.ListAssets(ctx, coll.Id)
	assert.NoError(t, err)
	assert.Len(t, nfts, 3)
	for i, nft := range nfts {
		assert.Equal(t, nfts[0].Metadata.Envelope.Name, nft.Metadata.Envelope.Name, i)
	}
}
