// ABOUTME: Tests for recording catalog operations
// ABOUTME: Slicing, downloads with sidecars, deletion and not-found mapping
package lanxi

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecordings(n int) []Recording {
	recs := make([]Recording, n)
	for i := range recs {
		recs[i] = Recording{
			URI: fmt.Sprintf("/rest/rec/measurements/%010d", i+1),
			Setup: RecordingSetup{
				Name:     fmt.Sprintf("run %d", i+1),
				Datetime: int64(1000 * (i + 1)),
			},
		}
	}
	return recs
}

func TestSliceNegativeStart(t *testing.T) {
	recs := makeRecordings(5)

	last3 := Slice(recs, -3, 0)
	require.Len(t, last3, 3)
	assert.Equal(t, "run 3", last3[0].Setup.Name)
	assert.Equal(t, "run 5", last3[2].Setup.Name)

	// K >= total returns the full list unchanged.
	assert.Equal(t, recs, Slice(recs, -10, 0))
}

func TestSliceWindow(t *testing.T) {
	recs := makeRecordings(5)

	window := Slice(recs, 1, 2)
	require.Len(t, window, 2)
	assert.Equal(t, "run 2", window[0].Setup.Name)
	assert.Equal(t, "run 3", window[1].Setup.Name)

	assert.Empty(t, Slice(recs, 7, 2))
	assert.Len(t, Slice(recs, 3, 0), 2)
}

func TestSliceEmpty(t *testing.T) {
	assert.Empty(t, Slice(nil, -5, 0))
}

func TestRecordingID(t *testing.T) {
	rec := Recording{URI: "/rest/rec/measurements/0000000042"}
	assert.Equal(t, "0000000042", rec.ID())
}

func TestRecordingStartTime(t *testing.T) {
	rec := Recording{Setup: RecordingSetup{Datetime: 1755950400000}}
	assert.Equal(t, time.UnixMilli(1755950400000).UTC(), rec.StartTime())
}

func TestListRecordingsSorted(t *testing.T) {
	dev, inst := powerUpFake(t)
	ctx := context.Background()

	for n := 0; n < 3; n++ {
		_, err := inst.Record(ctx, 5*time.Millisecond)
		require.NoError(t, err)
	}

	recs, err := inst.ListRecordings(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for n := 1; n < len(recs); n++ {
		assert.LessOrEqual(t, recs[n-1].Setup.Datetime, recs[n].Setup.Datetime)
	}
	_ = dev
}

func TestLastRecordings(t *testing.T) {
	_, inst := powerUpFake(t)
	ctx := context.Background()

	var ids []string
	for n := 0; n < 3; n++ {
		id, err := inst.Record(ctx, 5*time.Millisecond)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	last2, err := inst.LastRecordings(ctx, 2)
	require.NoError(t, err)
	require.Len(t, last2, 2)
	assert.Equal(t, ids[1], last2[0].ID())
	assert.Equal(t, ids[2], last2[1].ID())
}

func TestGetWAVWritesContainerAndSidecar(t *testing.T) {
	dev, inst := powerUpFake(t)
	ctx := context.Background()
	dir := t.TempDir()

	id, err := inst.Record(ctx, 5*time.Millisecond)
	require.NoError(t, err)

	path, err := inst.GetWAV(ctx, dir, id)
	require.NoError(t, err)
	assert.Equal(t, filepath.Ext(path), ".wav")
	assert.Contains(t, filepath.Base(path), "Shaker_sweep_")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dev.wavData, data)

	sidecar, err := os.ReadFile(path[:len(path)-4] + ".json")
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), "Shaker sweep")

	// No partial files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGetWAVUnknownID(t *testing.T) {
	_, inst := powerUpFake(t)

	_, err := inst.GetWAV(context.Background(), t.TempDir(), "0000009999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecordingUnknownID(t *testing.T) {
	_, inst := powerUpFake(t)

	err := inst.DeleteRecording(context.Background(), "0000009999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAllNeedsConfirmation(t *testing.T) {
	_, inst := powerUpFake(t)

	err := inst.DeleteAll(context.Background(), "yes")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDeleteAll(t *testing.T) {
	_, inst := powerUpFake(t)
	ctx := context.Background()

	for n := 0; n < 2; n++ {
		_, err := inst.Record(ctx, 5*time.Millisecond)
		require.NoError(t, err)
	}

	require.NoError(t, inst.DeleteAll(ctx, DeleteAllConfirm))
	recs, err := inst.ListRecordings(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
