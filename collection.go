package dynft

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/everFinance/dynft/ledger"
	"github.com/everFinance/dynft/schema"
	"github.com/panjf2000/ants/v2"
)

// ListAssetsMaxSerials bounds enumeration; serials start at 1 and the first
// gap ends the collection.
const ListAssetsMaxSerials = 100

// CollectionManager owns collection handle -> display metadata. It keeps no
// local state: creation delegates to the ledger and lookups read through.
type CollectionManager struct {
	ledger    ledger.Client
	engine    *Engine
	batchSize int // > 1 enables concurrent batch probing in ListAssets
}

func NewCollectionManager(ledgerCli ledger.Client, engine *Engine, batchSize int) *CollectionManager {
	return &CollectionManager{
		ledger:    ledgerCli,
		engine:    engine,
		batchSize: batchSize,
	}
}

func (m *CollectionManager) Create(ctx context.Context, name, symbol, description string) (schema.Collection, error) {
	handle, err := m.ledger.CreateCollection(ctx, name, symbol)
	if err != nil {
		return schema.Collection{}, fmt.Errorf("create collection; name: %s, err: %w", name, err)
	}
	log.Info("created collection", "collection", handle, "name", name, "symbol", symbol)
	return schema.Collection{
		Id:          handle,
		Name:        name,
		Symbol:      symbol,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Get reconstructs a collection from what the ledger retains: name, symbol
// and supply. Description and creation time are not recoverable, so lookup
// returns a sentinel description and a fresh createdAt.
func (m *CollectionManager) Get(ctx context.Context, collectionId string) (schema.Collection, error) {
	info, err := m.ledger.CollectionInfo(ctx, collectionId)
	if err != nil {
		if !errors.Is(err, ledger.ErrNotFound) {
			log.Error("collection lookup failed", "collection", collectionId, "err", err)
		}
		// transport details never leak to the caller
		return schema.Collection{}, schema.ErrNotFound
	}
	return schema.Collection{
		Id:          collectionId,
		Name:        info.Name,
		Symbol:      info.Symbol,
		Description: schema.DescriptionNotAvailable,
		TotalSupply: info.TotalSupply,
		MaxSupply:   info.MaxSupply,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ListAssets enumerates minted serials from 1, stopping at the first
// not-found; that gap marks end-of-collection, any other error re-raises.
func (m *CollectionManager) ListAssets(ctx context.Context, collectionId string) ([]schema.NftInfo, error) {
	if m.batchSize > 1 {
		return m.listAssetsBatch(ctx, collectionId)
	}
	nfts := make([]schema.NftInfo, 0)
	for i := 1; i <= ListAssetsMaxSerials; i++ {
		info, err := m.engine.getInfo(ctx, schema.NftId{CollectionId: collectionId, SerialNumber: strconv.Itoa(i)})
		if err != nil {
			if errors.Is(err, schema.ErrNotFound) {
				break
			}
			return nil, err
		}
		nfts = append(nfts, info)
	}
	return nfts, nil
}

// listAssetsBatch probes fixed-size batches concurrently. Serials past the
// first gap may still be probed inside the same batch; their results are
// discarded so the returned list always ends exactly at the first gap.
func (m *CollectionManager) listAssetsBatch(ctx context.Context, collectionId string) ([]schema.NftInfo, error) {
	pool, err := ants.NewPool(m.batchSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	type probe struct {
		info schema.NftInfo
		err  error
	}

	nfts := make([]schema.NftInfo, 0)
	for start := 1; start <= ListAssetsMaxSerials; start += m.batchSize {
		end := start + m.batchSize - 1
		if end > ListAssetsMaxSerials {
			end = ListAssetsMaxSerials
		}

		results := make([]probe, end-start+1)
		var wg sync.WaitGroup
		for serial := start; serial <= end; serial++ {
			serial := serial
			idx := serial - start
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				info, err := m.engine.getInfo(ctx, schema.NftId{CollectionId: collectionId, SerialNumber: strconv.Itoa(serial)})
				results[idx] = probe{info: info, err: err}
			})
			if submitErr != nil {
				wg.Done()
				results[idx] = probe{err: submitErr}
			}
		}
		wg.Wait()

		for _, r := range results {
			if r.err != nil {
				if errors.Is(r.err, schema.ErrNotFound) {
					return nfts, nil
				}
				return nil, r.err
			}
			nfts = append(nfts, r.info)
		}
	}
	return nfts, nil
}
