package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *AnalysisStore {
	t.Helper()

	store, err := Open(t.TempDir())
	require.NoError(t, err, "failed to open store")
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	return store
}

func TestAnalysisRoundTrip(t *testing.T) {
	store := openTestStore(t)

	key := uint64(0x463B96181691FC9C)
	want := &AnalysisRecord{
		FEN:      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		BestMove: "e2e4",
		Score:    28,
		Depth:    14,
		Bound:    "exact",
		Session:  "test-session",
		Analyzed: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.PutAnalysis(key, want))

	got, ok, err := store.GetAnalysis(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestAnalysisMissing(t *testing.T) {
	store := openTestStore(t)

	rec, ok, err := store.GetAnalysis(0x1234)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rec)
}

func TestAnalysisOverwrite(t *testing.T) {
	store := openTestStore(t)

	key := uint64(42)
	require.NoError(t, store.PutAnalysis(key, &AnalysisRecord{BestMove: "d2d4", Depth: 6}))
	require.NoError(t, store.PutAnalysis(key, &AnalysisRecord{BestMove: "e2e4", Depth: 12}))

	got, ok, err := store.GetAnalysis(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "e2e4", got.BestMove)
	assert.Equal(t, 12, got.Depth)
}

func TestKeysDoNotCollide(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.PutAnalysis(1, &AnalysisRecord{BestMove: "a2a3"}))
	require.NoError(t, store.PutAnalysis(1<<63|1, &AnalysisRecord{BestMove: "h2h3"}))

	got, ok, err := store.GetAnalysis(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a2a3", got.BestMove)
}

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)

	sess, err := store.BeginSession(64)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, 64, sess.HashMB)

	sess.Positions = 3
	require.NoError(t, store.SaveSession(sess))

	got, ok, err := store.GetSession(sess.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Positions)

	_, ok, err = store.GetSession("no-such-session")
	require.NoError(t, err)
	assert.False(t, ok)
}
