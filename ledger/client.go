package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is the single typed not-found kind for the whole ledger
// boundary. Upstream "no such entity" responses are translated here and never
// string-matched by callers.
var ErrNotFound = errors.New("ledger_not_found")

type CollectionInfo struct {
	Handle      string `json:"handle"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	TotalSupply int64  `json:"totalSupply"`
	MaxSupply   int64  `json:"maxSupply"`
}

// ItemInfo is one minted item as the ledger reports it; Payload is the opaque
// bytes attached at mint time.
type ItemInfo struct {
	CollectionHandle string    `json:"collectionHandle"`
	SerialNumber     string    `json:"serialNumber"`
	Owner            string    `json:"owner"`
	Payload          []byte    `json:"payload"`
	MintTime         time.Time `json:"mintTime"`
}

type LogRecord struct {
	Contents       []byte    `json:"contents"`
	ConsensusTime  time.Time `json:"consensusTime"`
	SequenceNumber int64     `json:"sequenceNumber"`
}

// LogSubscription is a scoped read handle over one append-only log. Recv
// blocks until the next record arrives, ctx is done, or the transport fails.
// Close must be safe to call on every exit path.
type LogSubscription interface {
	Recv(ctx context.Context) (LogRecord, error)
	Close() error
}

// Client is the narrow contract the core depends on. The ledger itself is an
// external system with at-least-once delivery and eventual read consistency.
type Client interface {
	CreateCollection(ctx context.Context, name, symbol string) (handle string, err error)
	CollectionInfo(ctx context.Context, handle string) (CollectionInfo, error)

	Mint(ctx context.Context, collectionHandle string, payload []byte) (serialNumber string, err error)
	ItemInfo(ctx context.Context, collectionHandle, serialNumber string) (ItemInfo, error)

	CreateLog(ctx context.Context, memo string) (handle string, err error)
	Append(ctx context.Context, logHandle string, message []byte) error
	SubscribeLog(ctx context.Context, logHandle string, startTime time.Time) (LogSubscription, error)

	// FileContents reads a ledger-native immutable file, e.g. "0.0.123".
	FileContents(ctx context.Context, fileHandle string) ([]byte, error)

	Close() error
}
