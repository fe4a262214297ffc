package regime

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowState/internal/model"
)

func TestFileStore_MissingFileYieldsDefaults(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope", "state.json"))
	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.RegimeBalanced, state.CurrentRegime)
	assert.Equal(t, 0, state.ConsecutiveDays)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	store := NewFileStore(path)

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	saved := &model.RegimeState{
		CurrentRegime:   model.RegimeDefensive,
		ProposedRegime:  model.RegimeBalanced,
		ConsecutiveDays: 1,
		LastScore:       -4.5,
		RegimeStartDate: &start,
		ScoreHistory:    []float64{-2, -3.5, -4.5},
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved.CurrentRegime, loaded.CurrentRegime)
	assert.Equal(t, saved.ProposedRegime, loaded.ProposedRegime)
	assert.Equal(t, saved.ConsecutiveDays, loaded.ConsecutiveDays)
	assert.Equal(t, saved.LastScore, loaded.LastScore)
	require.NotNil(t, loaded.RegimeStartDate)
	assert.True(t, start.Equal(*loaded.RegimeStartDate))
	assert.Equal(t, saved.ScoreHistory, loaded.ScoreHistory)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileStore(path)
	_, err := store.Load()
	assert.Error(t, err)

	// The manager recovers from the same condition with a fresh state.
	m := NewManager(testConfig(), store)
	assert.Equal(t, model.RegimeBalanced, m.State().CurrentRegime)
}

func TestFileStore_NormalizesBadFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"current_regime":"bogus","consecutive_days":-3}`), 0644))

	state, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, model.RegimeBalanced, state.CurrentRegime)
	assert.Equal(t, 0, state.ConsecutiveDays)
}

func TestMemoryStore_CloneIsolation(t *testing.T) {
	store := NewMemoryStore()
	state := model.NewRegimeState()
	state.ScoreHistory = []float64{1}
	require.NoError(t, store.Save(state))

	state.ScoreHistory[0] = 99
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1.0, loaded.ScoreHistory[0])
}
