package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"langcast-bot/internal/languages"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepository struct {
	*MemoryRepository
}

func (f failingRepository) SaveLanguages(ctx context.Context, selections map[string][]string) error {
	return errors.New("bulk write failed")
}

func (f failingRepository) SaveOperator(ctx context.Context, groupID, userID string) (string, error) {
	return "", errors.New("upsert failed")
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	store := NewStore(repo)

	t.Run("AddAndRemove", func(t *testing.T) {
		sel, err := store.Toggle(ctx, "G1", "en")
		require.NoError(t, err)
		assert.Equal(t, []string{"en"}, sel)

		sel, err = store.Toggle(ctx, "G1", "vi")
		require.NoError(t, err)
		assert.Equal(t, []string{"en", "vi"}, sel)

		sel, err = store.Toggle(ctx, "G1", "en")
		require.NoError(t, err)
		assert.Equal(t, []string{"vi"}, sel)
	})

	t.Run("ToggleTwiceRestores", func(t *testing.T) {
		before := store.Languages("G1")
		_, err := store.Toggle(ctx, "G1", "ja")
		require.NoError(t, err)
		_, err = store.Toggle(ctx, "G1", "ja")
		require.NoError(t, err)
		assert.Equal(t, before, store.Languages("G1"))
	})

	t.Run("CancelPrunes", func(t *testing.T) {
		_, err := store.Toggle(ctx, "G2", "en")
		require.NoError(t, err)
		_, err = store.Toggle(ctx, "G2", "ko")
		require.NoError(t, err)

		sel, err := store.Toggle(ctx, "G2", languages.Cancel)
		require.NoError(t, err)
		assert.Empty(t, sel)
		assert.Nil(t, store.Languages("G2"))
		_, present := store.Snapshot()["G2"]
		assert.False(t, present)

		stored, _, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		_, present = stored["G2"]
		assert.False(t, present, "pruned group must not be persisted")
	})

	t.Run("RemovingLastPrunes", func(t *testing.T) {
		_, err := store.Toggle(ctx, "G3", "th")
		require.NoError(t, err)
		_, err = store.Toggle(ctx, "G3", "th")
		require.NoError(t, err)
		_, present := store.Snapshot()["G3"]
		assert.False(t, present)
	})

	t.Run("EveryMutationPersists", func(t *testing.T) {
		saves := repo.Saves()
		_, err := store.Toggle(ctx, "G4", "en")
		require.NoError(t, err)
		_, err = store.Toggle(ctx, "G4", languages.Cancel)
		require.NoError(t, err)
		assert.Equal(t, saves+2, repo.Saves())
	})
}

func TestToggleKeepsMemoryOnSaveFailure(t *testing.T) {
	store := NewStore(failingRepository{NewMemoryRepository()})

	sel, err := store.Toggle(context.Background(), "G1", "en")
	assert.Error(t, err)
	assert.Equal(t, []string{"en"}, sel)
	assert.Equal(t, []string{"en"}, store.Languages("G1"))
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.SaveLanguages(ctx, map[string][]string{"G1": {"en", "en", "vi"}, "G2": {}}))
	_, err := repo.SaveOperator(ctx, "G1", "U1")
	require.NoError(t, err)

	store := NewStore(repo)
	require.NoError(t, store.Load(ctx))

	assert.Equal(t, []string{"en", "vi"}, store.Languages("G1"))
	assert.Nil(t, store.Languages("G2"))
	op, ok := store.Operator("G1")
	assert.True(t, ok)
	assert.Equal(t, "U1", op)
}

func TestAssignOperatorFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryRepository())

	const contenders = 32
	var wg sync.WaitGroup
	results := make(chan string, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, assigned, err := store.AssignOperator(ctx, "G1", userID)
			assert.NoError(t, err)
			if assigned {
				results <- userID
			}
		}(fmt.Sprintf("U%d", i))
	}
	wg.Wait()
	close(results)

	var winners []string
	for w := range results {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1)

	op, ok := store.Operator("G1")
	require.True(t, ok)
	assert.Equal(t, winners[0], op)

	// A later qualifying event never overwrites the operator.
	got, assigned, err := store.AssignOperator(ctx, "G1", "latecomer")
	require.NoError(t, err)
	assert.False(t, assigned)
	assert.Equal(t, winners[0], got)
}

func TestAssignOperatorAdoptsStoredOperator(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.SaveOperator(ctx, "G1", "U-elsewhere")
	require.NoError(t, err)

	store := NewStore(repo) // not loaded: memory has no operator yet
	op, assigned, err := store.AssignOperator(ctx, "G1", "U2")
	require.NoError(t, err)
	assert.False(t, assigned)
	assert.Equal(t, "U-elsewhere", op)
}

func TestAssignOperatorSaveFailure(t *testing.T) {
	store := NewStore(failingRepository{NewMemoryRepository()})

	op, assigned, err := store.AssignOperator(context.Background(), "G1", "U1")
	assert.Error(t, err)
	assert.True(t, assigned)
	assert.Equal(t, "U1", op)

	cur, ok := store.Operator("G1")
	assert.True(t, ok)
	assert.Equal(t, "U1", cur)
}

func TestAssignOperatorIgnoresAnonymous(t *testing.T) {
	store := NewStore(NewMemoryRepository())
	_, assigned, err := store.AssignOperator(context.Background(), "G1", "")
	require.NoError(t, err)
	assert.False(t, assigned)
	_, ok := store.Operator("G1")
	assert.False(t, ok)
}
