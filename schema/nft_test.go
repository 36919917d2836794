package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNftId(t *testing.T) {
	id, err := ParseNftId("0.0.1234:7")
	assert.NoError(t, err)
	assert.Equal(t, "0.0.1234", id.CollectionId)
	assert.Equal(t, "7", id.SerialNumber)
	assert.Equal(t, "0.0.1234:7", id.String())

	for _, bad := range []string{"", "0.0.1234", ":7", "0.0.1234:", "a:b:c"} {
		_, err := ParseNftId(bad)
		assert.ErrorIs(t, err, ErrInvalidNftId, bad)
	}
}

func TestHandleKinds(t *testing.T) {
	assert.True(t, IsLedgerEntityHandle("0.0.12345"))
	assert.False(t, IsLedgerEntityHandle("0.0"))
	assert.False(t, IsLedgerEntityHandle("abc"))

	digest := "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
	assert.True(t, IsBlobHandle(digest))
	arId := "hHcZxYgurvoTN-KLylc0QulK9vyaUIHWfqvH7A9anmo"
	assert.True(t, IsBlobHandle(arId))
	assert.False(t, IsBlobHandle("not a handle"))

	assert.True(t, IsUri("ipfs://QmSomething"))
	assert.True(t, IsUri("https://example.com/meta.json"))
	assert.False(t, IsUri("QmSomething"))
}

func TestEnvelopeValidate(t *testing.T) {
	env := Envelope{Name: "n", Description: "d"}
	assert.NoError(t, env.Validate())

	assert.Error(t, Envelope{Description: "d"}.Validate())
	assert.Error(t, Envelope{Name: "n"}.Validate())
	assert.Error(t, Envelope{
		Name: "n", Description: "d",
		Attributes: []Attribute{{TraitType: ""}},
	}.Validate())
	assert.Error(t, Envelope{
		Name: "n", Description: "d",
		Attributes: []Attribute{{TraitType: "t", Value: map[string]string{}}},
	}.Validate())
	assert.Error(t, Envelope{Name: "n", Description: "d", Image: "not a handle"}.Validate())
	assert.NoError(t, Envelope{Name: "n", Description: "d", Image: "ipfs://Qm"}.Validate())
}

func TestEnvelopeMerge(t *testing.T) {
	env := Envelope{
		Name:        "Fire Dragon",
		Description: "d",
		Attributes: []Attribute{
			{TraitType: "element", Value: "fire"},
			{TraitType: "level", Value: 1},
		},
		EventLogHandle: "0.0.55",
	}

	merged := env.Merge("Ice Dragon", "", map[string]interface{}{
		"level": 2,
		"mood":  "calm",
	})
	assert.Equal(t, "Ice Dragon", merged.Name)
	assert.Equal(t, "d", merged.Description)
	assert.Equal(t, "0.0.55", merged.EventLogHandle)
	assert.Len(t, merged.Attributes, 3)
	byTrait := map[string]interface{}{}
	for _, attr := range merged.Attributes {
		byTrait[attr.TraitType] = attr.Value
	}
	assert.Equal(t, "fire", byTrait["element"])
	assert.EqualValues(t, 2, byTrait["level"])
	assert.Equal(t, "calm", byTrait["mood"])

	// the source envelope is never mutated
	assert.Len(t, env.Attributes, 2)
	assert.EqualValues(t, 1, env.Attributes[1].Value)
}

func TestMetadataJSON(t *testing.T) {
	resolved := ResolvedMetadata(Envelope{Name: "n", Description: "d"})
	by, err := json.Marshal(resolved)
	assert.NoError(t, err)
	got := Metadata{}
	assert.NoError(t, json.Unmarshal(by, &got))
	assert.NotNil(t, got.Envelope)
	assert.Equal(t, "n", got.Envelope.Name)

	raw := RawMetadata("ipfs://QmSomething")
	by, err = json.Marshal(raw)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"rawMetadata":"ipfs://QmSomething"}`, string(by))
	got = Metadata{}
	assert.NoError(t, json.Unmarshal(by, &got))
	assert.Nil(t, got.Envelope)
	assert.Equal(t, "ipfs://QmSomething", got.Raw)
}
