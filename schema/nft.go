package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// EventTypeMetadataUpdate marks full-snapshot events: each one carries the
	// complete merged metadata, so current state is always the newest snapshot.
	EventTypeMetadataUpdate = "MetadataUpdate"

	NftIdSeparator = ":"
)

var (
	ledgerEntityReg = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	digestHandleReg = regexp.MustCompile(`^[a-f0-9]{64}$`)
	arTxHandleReg   = regexp.MustCompile(`^[a-zA-Z\d_-]{43}$`)
	uriReg          = regexp.MustCompile(`^[a-z][a-z\d+.-]*://.+$`)
)

// NftId is the composite identity of a minted item: "{collectionId}:{serialNumber}".
type NftId struct {
	CollectionId string
	SerialNumber string
}

// ParseNftId rejects any string that does not split into exactly two
// non-empty parts; no remote call may be made on a malformed id.
func ParseNftId(s string) (NftId, error) {
	parts := strings.Split(s, NftIdSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return NftId{}, ErrInvalidNftId
	}
	return NftId{CollectionId: parts[0], SerialNumber: parts[1]}, nil
}

func (n NftId) String() string {
	return n.CollectionId + NftIdSeparator + n.SerialNumber
}

// IsLedgerEntityHandle matches ledger-native handles, e.g. "0.0.12345".
func IsLedgerEntityHandle(s string) bool {
	return ledgerEntityReg.MatchString(s)
}

// IsBlobHandle matches content handles issued by the blob store: a sha256 hex
// digest (kv backends) or a 43 char tx id (arweave backend).
func IsBlobHandle(s string) bool {
	return digestHandleReg.MatchString(s) || arTxHandleReg.MatchString(s)
}

func IsUri(s string) bool {
	return uriReg.MatchString(s)
}

type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

func (a Attribute) Validate() error {
	if a.TraitType == "" {
		return fmt.Errorf("attribute trait_type can not null")
	}
	switch a.Value.(type) {
	case string, float64, int, int64:
		return nil
	default:
		return fmt.Errorf("attribute %s value must be string or number", a.TraitType)
	}
}

// Envelope is the metadata payload referenced by a minted item. It is created
// once at mint time and stored immutably; EventLogHandle points at the
// append-only log carrying the item's mutable history.
type Envelope struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Attributes     []Attribute `json:"attributes"`
	Image          string      `json:"image,omitempty"`
	EventLogHandle string      `json:"eventLogHandle,omitempty"`
}

func (e Envelope) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name can not null")
	}
	if e.Description == "" {
		return fmt.Errorf("description can not null")
	}
	for _, attr := range e.Attributes {
		if err := attr.Validate(); err != nil {
			return err
		}
	}
	if e.Image != "" && !IsBlobHandle(e.Image) && !IsLedgerEntityHandle(e.Image) && !IsUri(e.Image) {
		return fmt.Errorf("image must be a content handle or uri")
	}
	return nil
}

// Merge folds an event into the envelope and returns the new full snapshot.
// Event attributes upsert the attribute list by trait_type.
func (e Envelope) Merge(name, description string, attrs map[string]interface{}) Envelope {
	merged := e
	if name != "" {
		merged.Name = name
	}
	if description != "" {
		merged.Description = description
	}
	if len(attrs) > 0 {
		out := make([]Attribute, len(e.Attributes))
		copy(out, e.Attributes)
		for k, v := range attrs {
			found := false
			for i := range out {
				if out[i].TraitType == k {
					out[i].Value = v
					found = true
					break
				}
			}
			if !found {
				out = append(out, Attribute{TraitType: k, Value: v})
			}
		}
		merged.Attributes = out
	}
	return merged
}

// Event is one record of an NFT's append-only history. Append order is
// authoritative; Timestamp is carried for display only.
type Event struct {
	Type            string                 `json:"type,omitempty"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Timestamp       string                 `json:"timestamp"`
	Attributes      map[string]interface{} `json:"attributes,omitempty"`
	UpdatedMetadata *Envelope              `json:"updatedMetadata,omitempty"`
}

// Metadata is the decoded form of a minted item's payload: either a resolved
// envelope or the raw string for payloads that match no known encoding.
type Metadata struct {
	Envelope *Envelope
	Raw      string
}

func ResolvedMetadata(env Envelope) Metadata {
	return Metadata{Envelope: &env}
}

func RawMetadata(s string) Metadata {
	return Metadata{Raw: s}
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	if m.Envelope != nil {
		return json.Marshal(m.Envelope)
	}
	return json.Marshal(map[string]string{"rawMetadata": m.Raw})
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	raw := struct {
		RawMetadata *string `json:"rawMetadata"`
	}{}
	if err := json.Unmarshal(data, &raw); err == nil && raw.RawMetadata != nil {
		m.Raw = *raw.RawMetadata
		return nil
	}
	env := Envelope{}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	m.Envelope = &env
	return nil
}

// NftInfo is the materialized view assembled on every read; it is never
// persisted.
type NftInfo struct {
	ItemHandle   string    `json:"itemHandle"`
	SerialNumber string    `json:"serialNumber"`
	Owner        string    `json:"owner"`
	Metadata     Metadata  `json:"metadata"`
	Events       []Event   `json:"events,omitempty"`
	MintTime     time.Time `json:"mintTime"`
}
