package schema

var (
	// bucket
	BlobBucket = "blob-bucket" // key: content handle (sha256 hex), val: payload bytes
)
