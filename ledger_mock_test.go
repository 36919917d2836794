package dynft

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/everFinance/dynft/ledger"
	"github.com/everFinance/dynft/rawdb"
	"github.com/everFinance/dynft/schema"
)

// memLedger is an in-memory ledger double; counters track remote call volume.
type memLedger struct {
	mu sync.Mutex

	nextEntity  int
	collections map[string]ledger.CollectionInfo
	items       map[string]ledger.ItemInfo // "collection:serial"
	logs        map[string][]ledger.LogRecord
	files       map[string][]byte

	itemInfoCalls  int
	subscribeCalls int
	subFailures    int // consume this many SubscribeLog calls with an error
}

func newMemLedger() *memLedger {
	return &memLedger{
		nextEntity:  100,
		collections: map[string]ledger.CollectionInfo{},
		items:       map[string]ledger.ItemInfo{},
		logs:        map[string][]ledger.LogRecord{},
		files:       map[string][]byte{},
	}
}

func (m *memLedger) newHandle() string {
	m.nextEntity++
	return fmt.Sprintf("0.0.%d", m.nextEntity)
}

func (m *memLedger) CreateCollection(ctx context.Context, name, symbol string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handle := m.newHandle()
	m.collections[handle] = ledger.CollectionInfo{Handle: handle, Name: name, Symbol: symbol}
	return handle, nil
}

func (m *memLedger) CollectionInfo(ctx context.Context, handle string) (ledger.CollectionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.collections[handle]
	if !ok {
		return ledger.CollectionInfo{}, ledger.ErrNotFound
	}
	return info, nil
}

func (m *memLedger) Mint(ctx context.Context, collectionHandle string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info := m.collections[collectionHandle]
	info.TotalSupply++
	m.collections[collectionHandle] = info
	serial := strconv.FormatInt(info.TotalSupply, 10)
	m.items[collectionHandle+":"+serial] = ledger.ItemInfo{
		CollectionHandle: collectionHandle,
		SerialNumber:     serial,
		Owner:            "0.0.2",
		Payload:          payload,
		MintTime:         time.Now().UTC(),
	}
	return serial, nil
}

func (m *memLedger) ItemInfo(ctx context.Context, collectionHandle, serialNumber string) (ledger.ItemInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemInfoCalls++
	item, ok := m.items[collectionHandle+":"+serialNumber]
	if !ok {
		return ledger.ItemInfo{}, ledger.ErrNotFound
	}
	return item, nil
}

func (m *memLedger) CreateLog(ctx context.Context, memo string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handle := m.newHandle()
	m.logs[handle] = []ledger.LogRecord{}
	return handle, nil
}

func (m *memLedger) Append(ctx context.Context, logHandle string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	records, ok := m.logs[logHandle]
	if !ok {
		return ledger.ErrNotFound
	}
	m.logs[logHandle] = append(records, ledger.LogRecord{
		Contents:       message,
		ConsensusTime:  time.Now().UTC(),
		SequenceNumber: int64(len(records) + 1),
	})
	return nil
}

func (m *memLedger) SubscribeLog(ctx context.Context, logHandle string, startTime time.Time) (ledger.LogSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribeCalls++
	if m.subFailures > 0 {
		m.subFailures--
		return nil, fmt.Errorf("stream unavailable")
	}
	records, ok := m.logs[logHandle]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	pending := make([]ledger.LogRecord, 0, len(records))
	for _, rec := range records {
		if !rec.ConsensusTime.Before(startTime) {
			pending = append(pending, rec)
		}
	}
	return &memSubscription{pending: pending}, nil
}

func (m *memLedger) FileContents(ctx context.Context, fileHandle string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[fileHandle]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return data, nil
}

func (m *memLedger) Close() error { return nil }

// corruptLog injects a record that is not valid json.
func (m *memLedger) corruptLog(logHandle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := m.logs[logHandle]
	m.logs[logHandle] = append(records, ledger.LogRecord{
		Contents:       []byte("{not-json"),
		ConsensusTime:  time.Now().UTC(),
		SequenceNumber: int64(len(records) + 1),
	})
}

// memSubscription replays buffered records, then blocks until ctx is done,
// like a live stream with no further traffic.
type memSubscription struct {
	mu      sync.Mutex
	pending []ledger.LogRecord
}

func (s *memSubscription) Recv(ctx context.Context) (ledger.LogRecord, error) {
	s.mu.Lock()
	if len(s.pending) > 0 {
		rec := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()
		return rec, nil
	}
	s.mu.Unlock()
	<-ctx.Done()
	return ledger.LogRecord{}, ctx.Err()
}

func (s *memSubscription) Close() error { return nil }

// memStore is a minimal in-memory blob store for engine tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Put(data []byte) (string, error) {
	if len(data) == 0 {
		return "", schema.ErrNullData
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	handle := rawdb.BlobHandle(data)
	m.data[handle] = data
	return handle, nil
}

func (m *memStore) Get(handle string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[handle]
	if !ok {
		return nil, schema.ErrNotExist
	}
	return data, nil
}

func (m *memStore) Exist(handle string) bool {
	_, err := m.Get(handle)
	return err == nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) Type() string { return "memory" }
