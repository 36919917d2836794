package rawdb

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/inconshreveable/log15"
)

var log = log15.New("module", "dynft")

// BlobStore is content-addressed immutable storage: Put derives the handle
// from the payload and lookup returns the payload verbatim. A handle that was
// stored once can never resolve to different bytes.
type BlobStore interface {
	Put(data []byte) (handle string, err error)

	Get(handle string) (data []byte, err error)

	Exist(handle string) bool

	Close() (err error)

	Type() string
}

// BlobHandle is the content handle for kv backends: sha256 hex of the payload.
func BlobHandle(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
