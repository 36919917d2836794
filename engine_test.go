package dynft

import (
	"context"
	"testing"
	"time"

	"github.com/everFinance/dynft/schema"
	"github.com/stretchr/testify/assert"
)

func newTestEngine(t *testing.T) (*Engine, *memLedger) {
	lg := newMemLedger()
	e := NewEngine(lg, newMemStore(), nil)
	e.historyTimeout = 100 * time.Millisecond
	return e, lg
}

func mintTestNft(t *testing.T, e *Engine, lg *memLedger) MintReceipt {
	ctx := context.Background()
	collectionId, err := lg.CreateCollection(ctx, "Dragons", "DRG")
	assert.NoError(t, err)

	receipt, err := e.Mint(ctx, collectionId, schema.Envelope{
		Name:        "Fire Dragon",
		Description: "A dragon that breathes fire",
		Attributes: []schema.Attribute{
			{TraitType: "element", Value: "fire"},
			{TraitType: "level", Value: 1},
		},
	})
	assert.NoError(t, err)
	return receipt
}

func TestGetInfoInvalidId(t *testing.T) {
	e, lg := newTestEngine(t)

	for _, id := range []string{"", "no-separator", ":1", "0.0.5:", "a:b:c"} {
		_, err := e.GetInfo(context.Background(), id)
		assert.ErrorIs(t, err, schema.ErrInvalidNftId, id)
	}
	// malformed ids never reach the ledger
	assert.Equal(t, 0, lg.itemInfoCalls)
	assert.Equal(t, 0, lg.subscribeCalls)
}

func TestMintGetInfoRoundTrip(t *testing.T) {
	e, lg := newTestEngine(t)
	receipt := mintTestNft(t, e, lg)

	assert.Equal(t, "1", receipt.SerialNumber)
	assert.Equal(t, receipt.CollectionId+":1", receipt.NftId)
	assert.NotEmpty(t, receipt.BlobHandle)
	assert.NotEmpty(t, receipt.LogHandle)

	info, err := e.GetInfo(context.Background(), receipt.NftId)
	assert.NoError(t, err)
	assert.Equal(t, "1", info.SerialNumber)
	env := info.Metadata.Envelope
	assert.NotNil(t, env)
	assert.Equal(t, "Fire Dragon", env.Name)
	assert.Equal(t, "A dragon that breathes fire", env.Description)
	assert.Len(t, env.Attributes, 2)
	assert.Equal(t, receipt.LogHandle, env.EventLogHandle)
	assert.Empty(t, info.Events)
}

func TestGetInfoNotFound(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.GetInfo(context.Background(), "0.0.999:1")
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestWriteEventHistory(t *testing.T) {
	e, lg := newTestEngine(t)
	receipt := mintTestNft(t, e, lg)
	ctx := context.Background()

	event, err := e.WriteEvent(ctx, receipt.NftId, schema.WriteEventReq{
		Name:        "Level Up",
		Description: "The dragon reached level 2",
		Attributes:  map[string]interface{}{"level": 2},
	})
	assert.NoError(t, err)
	assert.Equal(t, schema.EventTypeMetadataUpdate, event.Type)
	assert.NotNil(t, event.UpdatedMetadata)

	events, err := e.GetHistory(ctx, receipt.NftId)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "Level Up", events[0].Name)

	// current state reflects the newest snapshot
	info, err := e.GetInfo(ctx, receipt.NftId)
	assert.NoError(t, err)
	env := info.Metadata.Envelope
	assert.NotNil(t, env)
	assert.Equal(t, "Level Up", env.Name)
	level := schema.Attribute{}
	for _, attr := range env.Attributes {
		if attr.TraitType == "level" {
			level = attr
		}
	}
	assert.EqualValues(t, 2, level.Value)
}

func TestWriteEventValidation(t *testing.T) {
	e, lg := newTestEngine(t)
	receipt := mintTestNft(t, e, lg)
	ctx := context.Background()

	_, err := e.WriteEvent(ctx, "bad id", schema.WriteEventReq{Name: "x", Description: "y"})
	assert.ErrorIs(t, err, schema.ErrInvalidNftId)

	_, err = e.WriteEvent(ctx, receipt.NftId, schema.WriteEventReq{Name: "", Description: "y"})
	assert.ErrorIs(t, err, schema.ErrNullData)

	_, err = e.WriteEvent(ctx, receipt.CollectionId+":99", schema.WriteEventReq{Name: "x", Description: "y"})
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestHistorySkipsMalformedRecords(t *testing.T) {
	e, lg := newTestEngine(t)
	receipt := mintTestNft(t, e, lg)
	ctx := context.Background()

	_, err := e.WriteEvent(ctx, receipt.NftId, schema.WriteEventReq{Name: "First", Description: "d"})
	assert.NoError(t, err)
	lg.corruptLog(receipt.LogHandle)
	_, err = e.WriteEvent(ctx, receipt.NftId, schema.WriteEventReq{Name: "Second", Description: "d"})
	assert.NoError(t, err)

	events, err := e.GetHistory(ctx, receipt.NftId)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Name)
	assert.Equal(t, "Second", events[1].Name)
}

func TestGetInfoIdempotent(t *testing.T) {
	e, lg := newTestEngine(t)
	receipt := mintTestNft(t, e, lg)
	ctx := context.Background()

	first, err := e.GetInfo(ctx, receipt.NftId)
	assert.NoError(t, err)
	second, err := e.GetInfo(ctx, receipt.NftId)
	assert.NoError(t, err)
	assert.Equal(t, first.Metadata, second.Metadata)
	assert.Equal(t, first.SerialNumber, second.SerialNumber)
}

func TestDecodePayloadFallbacks(t *testing.T) {
	e, lg := newTestEngine(t)
	ctx := context.Background()

	// ledger file handle
	lg.files["0.0.777"] = []byte(`{"name":"FromFile","description":"d"}`)
	md := e.decodePayload(ctx, []byte("0.0.777"))
	assert.NotNil(t, md.Envelope)
	assert.Equal(t, "FromFile", md.Envelope.Name)

	// inline json
	md = e.decodePayload(ctx, []byte(`{"name":"Inline","description":"d"}`))
	assert.NotNil(t, md.Envelope)
	assert.Equal(t, "Inline", md.Envelope.Name)

	// opaque string is wrapped, never dropped
	md = e.decodePayload(ctx, []byte("ipfs://QmSomething"))
	assert.Nil(t, md.Envelope)
	assert.Equal(t, "ipfs://QmSomething", md.Raw)
}

func TestMintValidation(t *testing.T) {
	e, lg := newTestEngine(t)
	ctx := context.Background()
	collectionId, err := lg.CreateCollection(ctx, "Dragons", "DRG")
	assert.NoError(t, err)

	_, err = e.Mint(ctx, collectionId, schema.Envelope{Name: "", Description: "d"})
	assert.Error(t, err)
	_, err = e.Mint(ctx, collectionId, schema.Envelope{Name: "n", Description: ""})
	assert.Error(t, err)
	_, err = e.Mint(ctx, collectionId, schema.Envelope{
		Name: "n", Description: "d",
		Attributes: []schema.Attribute{{TraitType: "bad", Value: []string{"list"}}},
	})
	assert.Error(t, err)
}
