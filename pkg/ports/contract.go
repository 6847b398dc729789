package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/peplab/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot(sessionID string, history ...string) *domain.Snapshot {
	return &domain.Snapshot{
		SessionID: sessionID,
		Nodes: []domain.NodeSnapshot{
			{Kind: domain.KindDashboard, Substate: "overview"},
			{Kind: domain.KindDesign, Substate: "genetic"},
		},
		History:     append([]string{"/"}, history...),
		Initialized: true,
		UpdatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(sessionID, "/dashboard", "/design", "/design/genetic")

		err := store.Save(ctx, sessionID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.Nodes, loaded.Nodes)
		assert.Equal(t, snap.History, loaded.History)
		assert.True(t, loaded.Initialized)
		assert.Equal(t, "/design/genetic", loaded.CurrentRoute())
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		snap := contractSnapshot(sessionID, "/dashboard")
		require.NoError(t, store.Save(ctx, sessionID, snap))

		// Mutating the saved value or a loaded copy must not leak into the store.
		snap.History = append(snap.History, "/leak")
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.History[0] = "/mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []string{"/", "/dashboard"}, again.History)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, contractSnapshot(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot(id1))
		_ = store.Save(ctx, id2, contractSnapshot(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
