package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseConsensusTime(t *testing.T) {
	ts := parseConsensusTime("1723456789.000000123")
	assert.Equal(t, int64(1723456789), ts.Unix())
	assert.Equal(t, 123, ts.Nanosecond())

	// short fractions are right-padded
	ts = parseConsensusTime("1723456789.5")
	assert.Equal(t, 500000000, ts.Nanosecond())

	ts = parseConsensusTime("1723456789")
	assert.Equal(t, 0, ts.Nanosecond())
}

func TestFormatConsensusTime(t *testing.T) {
	assert.Equal(t, "0.000000000", formatConsensusTime(time.Unix(0, 0)))
	assert.Equal(t, "1723456789.000000123", formatConsensusTime(time.Unix(1723456789, 123)))
	// pre-epoch start times clamp to epoch
	assert.Equal(t, "0.000000000", formatConsensusTime(time.Unix(-5, 0)))
}

func TestConsensusTimeRoundTrip(t *testing.T) {
	orig := time.Unix(1723456789, 987654321).UTC()
	got := parseConsensusTime(formatConsensusTime(orig))
	assert.True(t, orig.Equal(got))
}
