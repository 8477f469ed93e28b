package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverageService(t *testing.T) {
	cov := testCoverage(t)

	assert.Contains(t, cov.Divisions(), "Chattogram")
	assert.True(t, cov.HasRegion("Sylhet"))
	assert.False(t, cov.HasRegion("sylhet"))
	assert.True(t, cov.HasWarehouse("Chattogram", "Cox's Bazar"))
	assert.False(t, cov.HasWarehouse("Dhaka", "Cox's Bazar"))

	hits := cov.Search("  COX ")
	require.Len(t, hits, 1)
	assert.Equal(t, "Cox's Bazar", hits[0].District)
	assert.Len(t, cov.Search("bazar"), 2)
	assert.Empty(t, cov.Search("nowhere"))
	assert.Len(t, cov.Search(""), 64)
}

func TestNewCoverageService_RejectsBadJSON(t *testing.T) {
	_, err := NewCoverageService([]byte(`{`), []byte(`[]`))
	assert.Error(t, err)
	_, err = NewCoverageService([]byte(`[]`), []byte(`{"region":1}`))
	assert.Error(t, err)
}
