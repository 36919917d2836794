package dynft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/everFinance/dynft/cache"
	"github.com/everFinance/dynft/ledger"
	"github.com/everFinance/dynft/rawdb"
	"github.com/everFinance/dynft/schema"
)

const (
	historyMaxCount = 100
	historyTimeout  = 10 * time.Second
)

// Engine owns the mapping from a logical NFT identity to its minted item, its
// append-only event log and the materialized current-state view. The ledger
// stays authoritative; the engine only reconstructs state from it.
type Engine struct {
	ledger     ledger.Client
	store      rawdb.BlobStore
	reader     *EventLogReader
	localCache *cache.Cache // immutable blob payloads only; may be nil

	historyMaxCount int
	historyTimeout  time.Duration
}

func NewEngine(ledgerCli ledger.Client, store rawdb.BlobStore, localCache *cache.Cache) *Engine {
	return &Engine{
		ledger:          ledgerCli,
		store:           store,
		reader:          NewEventLogReader(ledgerCli),
		localCache:      localCache,
		historyMaxCount: historyMaxCount,
		historyTimeout:  historyTimeout,
	}
}

// MintReceipt reports the remote resources a successful mint created.
type MintReceipt struct {
	NftId        string
	CollectionId string
	SerialNumber string
	BlobHandle   string
	LogHandle    string
	Envelope     schema.Envelope
}

// Mint runs the fixed sequence log -> blob -> item. No compensating rollback:
// a failure mid-sequence leaves an orphaned log or blob with no referencing
// item, which is accepted (there is no cleanup mechanism).
func (e *Engine) Mint(ctx context.Context, collectionId string, envelope schema.Envelope) (MintReceipt, error) {
	if err := envelope.Validate(); err != nil {
		return MintReceipt{}, err
	}

	logHandle, err := e.ledger.CreateLog(ctx, fmt.Sprintf("NFT Topic - %s", collectionId))
	if err != nil {
		return MintReceipt{}, fmt.Errorf("create event log; collection: %s, err: %w", collectionId, err)
	}
	envelope.EventLogHandle = logHandle

	payload, err := json.Marshal(&envelope)
	if err != nil {
		return MintReceipt{}, err
	}
	blobHandle, err := e.store.Put(payload)
	if err != nil {
		return MintReceipt{}, fmt.Errorf("store envelope; collection: %s, err: %w", collectionId, err)
	}

	serial, err := e.ledger.Mint(ctx, collectionId, []byte(blobHandle))
	if err != nil {
		return MintReceipt{}, fmt.Errorf("mint item; collection: %s, err: %w", collectionId, err)
	}

	if e.localCache != nil {
		_ = e.localCache.Cache.Set(blobHandle, payload)
	}
	metricNftMinted(collectionId)

	id := schema.NftId{CollectionId: collectionId, SerialNumber: serial}
	log.Info("minted nft", "nft", id.String(), "blob", blobHandle, "log", logHandle)
	return MintReceipt{
		NftId:        id.String(),
		CollectionId: collectionId,
		SerialNumber: serial,
		BlobHandle:   blobHandle,
		LogHandle:    logHandle,
		Envelope:     envelope,
	}, nil
}

func (e *Engine) GetInfo(ctx context.Context, rawId string) (schema.NftInfo, error) {
	id, err := schema.ParseNftId(rawId)
	if err != nil {
		return schema.NftInfo{}, err
	}
	return e.getInfo(ctx, id)
}

func (e *Engine) getInfo(ctx context.Context, id schema.NftId) (schema.NftInfo, error) {
	item, err := e.ledger.ItemInfo(ctx, id.CollectionId, id.SerialNumber)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return schema.NftInfo{}, schema.ErrNotFound
		}
		log.Error("item lookup failed", "nft", id.String(), "err", err)
		return schema.NftInfo{}, fmt.Errorf("lookup item; nft: %s, err: %w", id.String(), err)
	}

	info := schema.NftInfo{
		ItemHandle:   item.CollectionHandle,
		SerialNumber: item.SerialNumber,
		Owner:        item.Owner,
		Metadata:     e.decodePayload(ctx, item.Payload),
		MintTime:     item.MintTime,
	}

	// best-effort live window of recent events; a failed drain never fails a read
	if env := info.Metadata.Envelope; env != nil && env.EventLogHandle != "" {
		records, err := e.reader.Drain(ctx, env.EventLogHandle, time.Unix(0, 0), e.historyMaxCount, e.historyTimeout)
		if err != nil {
			log.Warn("attach events failed", "nft", id.String(), "err", err)
		} else {
			info.Events = e.parseEvents(id, records)
			// current state = envelope overridden by the newest full snapshot
			for i := len(info.Events) - 1; i >= 0; i-- {
				ev := info.Events[i]
				if ev.Type == schema.EventTypeMetadataUpdate && ev.UpdatedMetadata != nil {
					info.Metadata = schema.ResolvedMetadata(*ev.UpdatedMetadata)
					break
				}
			}
		}
	}
	return info, nil
}

// WriteEvent appends a full-snapshot MetadataUpdate record: the event fields
// plus the complete merged metadata, so any later reader derives current
// state from the newest record alone.
func (e *Engine) WriteEvent(ctx context.Context, rawId string, req schema.WriteEventReq) (schema.Event, error) {
	id, err := schema.ParseNftId(rawId)
	if err != nil {
		return schema.Event{}, err
	}
	if err := req.Validate(); err != nil {
		return schema.Event{}, err
	}

	info, err := e.getInfo(ctx, id)
	if err != nil {
		return schema.Event{}, err
	}
	env := info.Metadata.Envelope
	if env == nil || env.EventLogHandle == "" {
		return schema.Event{}, schema.ErrMissingLogHandle
	}

	merged := env.Merge(req.Name, req.Description, req.Attributes)
	event := schema.Event{
		Type:            schema.EventTypeMetadataUpdate,
		Name:            req.Name,
		Description:     req.Description,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Attributes:      req.Attributes,
		UpdatedMetadata: &merged,
	}
	msg, err := json.Marshal(&event)
	if err != nil {
		return schema.Event{}, err
	}

	if err := e.ledger.Append(ctx, env.EventLogHandle, msg); err != nil {
		log.Error("append event failed", "nft", id.String(), "log", env.EventLogHandle, "err", err)
		return schema.Event{}, fmt.Errorf("append event; nft: %s, err: %w", id.String(), err)
	}
	metricEventWritten(id.CollectionId)
	return event, nil
}

func (e *Engine) GetHistory(ctx context.Context, rawId string) ([]schema.Event, error) {
	id, err := schema.ParseNftId(rawId)
	if err != nil {
		return nil, err
	}

	info, err := e.getInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	env := info.Metadata.Envelope
	if env == nil || env.EventLogHandle == "" {
		return nil, schema.ErrMissingLogHandle
	}

	records, err := e.reader.Drain(ctx, env.EventLogHandle, time.Unix(0, 0), e.historyMaxCount, e.historyTimeout)
	if err != nil {
		return nil, fmt.Errorf("drain history; nft: %s, err: %w", id.String(), err)
	}
	return e.parseEvents(id, records), nil
}

// parseEvents maps raw log records to events in append order. Malformed
// records are dropped with an operator warning and never abort the read.
func (e *Engine) parseEvents(id schema.NftId, records []ledger.LogRecord) []schema.Event {
	events := make([]schema.Event, 0, len(records))
	for _, rec := range records {
		ev := schema.Event{}
		if err := json.Unmarshal(rec.Contents, &ev); err != nil {
			log.Warn("drop malformed history record", "nft", id.String(), "seq", rec.SequenceNumber, "err", err)
			metricMalformedRecord()
			continue
		}
		events = append(events, ev)
	}
	return events
}

// decodePayload interprets a minted item's opaque payload. Order: ledger file
// handle, blob-store handle, inline JSON, raw string wrapper.
func (e *Engine) decodePayload(ctx context.Context, payload []byte) schema.Metadata {
	s := strings.TrimSpace(string(payload))

	if schema.IsLedgerEntityHandle(s) {
		data, err := e.ledger.FileContents(ctx, s)
		if err == nil {
			if md, ok := parseEnvelope(data); ok {
				return md
			}
			return schema.RawMetadata(string(data))
		}
		log.Warn("ledger file lookup failed, fall back to inline decode", "handle", s, "err", err)
	}

	if schema.IsBlobHandle(s) {
		data, err := e.blobPayload(s)
		if err == nil {
			if md, ok := parseEnvelope(data); ok {
				return md
			}
			return schema.RawMetadata(string(data))
		}
		log.Warn("blob lookup failed, fall back to inline decode", "handle", s, "err", err)
	}

	if md, ok := parseEnvelope(payload); ok {
		return md
	}
	return schema.RawMetadata(s)
}

func (e *Engine) blobPayload(handle string) ([]byte, error) {
	if e.localCache != nil {
		if data, err := e.localCache.Cache.Get(handle); err == nil {
			return data, nil
		}
	}
	data, err := e.store.Get(handle)
	if err != nil {
		return nil, err
	}
	if e.localCache != nil {
		_ = e.localCache.Cache.Set(handle, data)
	}
	return data, nil
}

func parseEnvelope(data []byte) (schema.Metadata, bool) {
	env := schema.Envelope{}
	if err := json.Unmarshal(data, &env); err != nil {
		return schema.Metadata{}, false
	}
	return schema.ResolvedMetadata(env), true
}
