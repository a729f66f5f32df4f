package kafka

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/volcano-atlas/internal/domain"
)

func testRows() []domain.CountryAggregate {
	return []domain.CountryAggregate{
		{
			ISO3: "JPN", Name: "Japan", Total: 2, Population: 126_000_000, RatePerMillion: 2.0 / 126,
			ByStatus: map[string]domain.StatusMetrics{"Historical": {Count: 2, RatePerMillion: 2.0 / 126}},
		},
		{
			ISO3: "FRA", Name: "France", Population: 1,
			ByStatus: map[string]domain.StatusMetrics{"Historical": {}},
		},
	}
}

func TestSerializeSnapshot(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)

	msgs, err := serializeSnapshot(testRows(), now)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, []byte("JPN"), msgs[0].Key)
	assert.Equal(t, []byte("FRA"), msgs[1].Key)

	var got domain.CountryAggregate
	require.NoError(t, json.Unmarshal(msgs[0].Value, &got))
	assert.Equal(t, testRows()[0], got)

	for _, msg := range msgs {
		require.Len(t, msg.Headers, 2)
		assert.Equal(t, HeaderDatasetVersion, msg.Headers[0].Key)
		assert.Len(t, msg.Headers[0].Value, 16)
		assert.Equal(t, HeaderGeneratedAt, msg.Headers[1].Key)
		assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
	}
	assert.Equal(t, msgs[0].Headers[0].Value, msgs[1].Headers[0].Value)
}

func TestSerializeSnapshot_VersionTracksContent(t *testing.T) {
	now := time.Now()

	a, err := serializeSnapshot(testRows(), now)
	require.NoError(t, err)
	b, err := serializeSnapshot(testRows(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, a[0].Headers[0].Value, b[0].Headers[0].Value, "same rows, same version")

	changed := testRows()
	changed[1].Total = 1
	c, err := serializeSnapshot(changed, now)
	require.NoError(t, err)
	assert.NotEqual(t, a[0].Headers[0].Value, c[0].Headers[0].Value)
}
