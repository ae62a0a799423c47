package traceability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_ExpireWindows(t *testing.T) {
	b := advanceTo(t, StageMarketplaceListed)
	require.NotNil(t, b.Listing)
	stage, history := b.Stage, len(b.History)

	assert.False(t, b.ExpireWindows(testNow.Add(24*time.Hour)).Any())

	lapsed := b.ExpireWindows(b.Listing.ExpiresAt)
	assert.Equal(t, LapsedWindows{Listing: true}, lapsed)
	assert.Equal(t, ListingStatusExpired, b.Listing.Status)
	require.NotNil(t, b.Listing.ExpiryNotifiedAt)
	assert.Equal(t, StorageStatusActive, b.Registration.Status)

	lapsed = b.ExpireWindows(b.Registration.StorageExpiryDate.Add(time.Hour))
	assert.Equal(t, LapsedWindows{Storage: true}, lapsed, "listing already closed")
	assert.Equal(t, StorageStatusExpired, b.Registration.Status)

	assert.False(t, b.ExpireWindows(b.Registration.StorageExpiryDate.Add(48*time.Hour)).Any())
	assert.Equal(t, stage, b.Stage)
	assert.Len(t, b.History, history)
}

func TestBatch_ExpireWindows_OnlyWhileHeld(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		want  LapsedWindows
	}{
		{"registered", StageWarehouseRegistered, LapsedWindows{Storage: true}},
		{"listed", StageMarketplaceListed, LapsedWindows{Storage: true, Listing: true}},
		{"sold to exporter", StageExportProposalAccepted, LapsedWindows{}},
		{"left the warehouse", StageDeliveryInitiated, LapsedWindows{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := advanceTo(t, tt.stage)
			at := b.Registration.StorageExpiryDate.Add(time.Hour)
			assert.Equal(t, tt.want, b.ExpireWindows(at))
		})
	}

	t.Run("withdrawn", func(t *testing.T) {
		b := advanceTo(t, StageExportProposalAccepted)
		require.NoError(t, b.Withdraw("buyer default", "ddgots", testNow))
		assert.False(t, b.ExpireWindows(b.Registration.StorageExpiryDate.Add(24*time.Hour)).Any())
		assert.Equal(t, ListingStatusActive, b.Listing.Status)
	})
}
