package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SnapshotStoreContract is a reusable test suite that verifies if an adapter complies with ports.SnapshotStore.
func SnapshotStoreContract(t *testing.T, store ports.SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	sessionID := "contract-" + time.Now().Format("20060102150405")

	snapshot := func(id, current string, history ...string) *domain.Snapshot {
		return &domain.Snapshot{
			SessionID: id,
			Play:      "pass",
			Current:   current,
			History:   history,
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		s := snapshot(sessionID, "ALIGN", "INITIAL", "GO_TO_BALL")
		require.NoError(t, store.Save(ctx, sessionID, s))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "pass", loaded.Play)
		assert.Equal(t, "ALIGN", loaded.Current)
		assert.Equal(t, []string{"INITIAL", "GO_TO_BALL"}, loaded.History)
		assert.True(t, s.UpdatedAt.Equal(loaded.UpdatedAt))

		loaded.History[0] = "MUTATED"
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "INITIAL", again.History[0], "loaded snapshots must not alias stored data")
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := snapshot(sessionID, "SUCCESS", "INITIAL", "GO_TO_BALL", "ALIGN", "PASS")
		s.Terminated, s.Success = true, true
		require.NoError(t, store.Save(ctx, sessionID, s))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "SUCCESS", loaded.Current)
		assert.True(t, loaded.Terminated)
		assert.True(t, loaded.Success)
		assert.Len(t, loaded.History, 4)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, snapshot(sessionID, "INITIAL")))
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, snapshot(id1, "INITIAL")))
		require.NoError(t, store.Save(ctx, id2, snapshot(id2, "INITIAL")))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)

		require.NoError(t, store.Delete(ctx, id1))
		sessions, err = store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, sessions, id1)
	})
}
