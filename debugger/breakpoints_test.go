package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBreakpointAssignsIncrementingID(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(0x1000, false, "")
	require.NotNil(t, bp)
	assert.Equal(t, 1, bp.ID)
	assert.Equal(t, uint32(0x1000), bp.Address)
	assert.True(t, bp.Enabled)
	assert.False(t, bp.Temporary)
	assert.Equal(t, 0, bp.HitCount)
}

func TestAddBreakpointAtSameAddressUpdatesExisting(t *testing.T) {
	bm := NewBreakpointManager()

	first := bm.AddBreakpoint(0x1000, false, "")
	second := bm.AddBreakpoint(0x1000, true, "a0 == 5")

	assert.Equal(t, first.ID, second.ID, "re-adding at an existing address updates it in place")
	assert.Equal(t, 1, bm.Count())
	assert.True(t, second.Temporary)
}

func TestDeleteBreakpointByID(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(0x1000, false, "")

	require.NoError(t, bm.DeleteBreakpoint(bp.ID))
	assert.Equal(t, 0, bm.Count())
	assert.Error(t, bm.DeleteBreakpoint(bp.ID), "deleting twice is an error")
}

func TestEnableDisableBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(0x1000, false, "")

	require.NoError(t, bm.DisableBreakpoint(bp.ID))
	assert.False(t, bm.GetBreakpoint(0x1000).Enabled)

	require.NoError(t, bm.EnableBreakpoint(bp.ID))
	assert.True(t, bm.GetBreakpoint(0x1000).Enabled)
}

func TestProcessHitIncrementsCountAndRemovesTemporary(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(0x1000, true, "")

	hit := bm.ProcessHit(0x1000)
	require.NotNil(t, hit)
	assert.Equal(t, 1, hit.HitCount)
	assert.False(t, bm.HasBreakpoint(0x1000), "temporary breakpoint is removed after its first hit")
}

func TestProcessHitOnPermanentBreakpointKeepsIt(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(0x1000, false, "")

	bm.ProcessHit(0x1000)
	bm.ProcessHit(0x1000)
	assert.True(t, bm.HasBreakpoint(0x1000))
	assert.Equal(t, 2, bm.GetBreakpoint(0x1000).HitCount)
}

func TestProcessHitAtUnknownAddressReturnsNil(t *testing.T) {
	bm := NewBreakpointManager()
	assert.Nil(t, bm.ProcessHit(0x9999))
}

func TestClearRemovesEverything(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(0x1000, false, "")
	bm.AddBreakpoint(0x2000, false, "")

	bm.Clear()
	assert.Equal(t, 0, bm.Count())
	assert.Empty(t, bm.GetAllBreakpoints())
}
