package schema

import "time"

// DescriptionNotAvailable is returned on collection lookup: the ledger only
// persists name/symbol/supply, so description and creation time are lost
// across a restart. Documented information-loss boundary.
const DescriptionNotAvailable = "Description not available"

type Collection struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	Description string    `json:"description"`
	TotalSupply int64     `json:"totalSupply,omitempty"`
	MaxSupply   int64     `json:"maxSupply,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
