package schema

import (
	"time"

	"gorm.io/datatypes"
)

// MintRecord is operator accounting only; the ledger stays the authoritative
// source of NFT state. A failed insert never fails the mint.
type MintRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	NftId        string `gorm:"index:idx_mint_nft" json:"nftId"`
	CollectionId string `gorm:"index:idx_mint_coll" json:"collectionId"`
	SerialNumber string `json:"serialNumber"`

	BlobHandle string         `json:"blobHandle"` // envelope payload handle
	LogHandle  string         `json:"logHandle"`  // append-only event log
	Name       string         `json:"name"`
	Attributes datatypes.JSON `json:"attributes"`
}

type EventRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	NftId        string         `gorm:"index:idx_event_nft" json:"nftId"`
	CollectionId string         `gorm:"index:idx_event_coll" json:"collectionId"`
	LogHandle    string         `json:"logHandle"`
	Name         string         `json:"name"`
	Payload      datatypes.JSON `json:"payload"` // serialized MetadataUpdate record
}

type CollectionStat struct {
	CollectionId string `json:"collectionId"`
	Mints        int64  `json:"mints"`
	Events       int64  `json:"events"`
}
