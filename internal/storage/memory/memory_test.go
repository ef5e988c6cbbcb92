package memory_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/storage/memory"
)

func newChar(t *testing.T, name string, job character.Job) *character.Character {
	t.Helper()
	c, err := character.New(name, job)
	require.NoError(t, err)
	return c
}

func TestStore_CreateAssignsStoreID(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	a, err := s.Create(ctx, newChar(t, "Alpha", character.Warrior))
	require.NoError(t, err)
	b, err := s.Create(ctx, newChar(t, "Bravo", character.Thief))
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.StoreID)
	assert.Equal(t, int64(2), b.StoreID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestStore_FindByEitherIdentity(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	created, err := s.Create(ctx, newChar(t, "Alpha", character.Warrior))
	require.NoError(t, err)

	byUUID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	byStore, err := s.FindByID(ctx, strconv.FormatInt(created.StoreID, 10))
	require.NoError(t, err)
	assert.Equal(t, byUUID, byStore)

	_, err = s.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, character.ErrNotFound)
	_, err = s.FindByID(ctx, "99")
	assert.ErrorIs(t, err, character.ErrNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	created, err := s.Create(ctx, newChar(t, "Alpha", character.Warrior))
	require.NoError(t, err)

	created.Vitality = 1
	found, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, found.Vitality)
}

func TestStore_SaveAndDelete(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	c, err := s.Create(ctx, newChar(t, "Alpha", character.Warrior))
	require.NoError(t, err)

	c.LevelUp()
	require.NoError(t, s.Save(ctx, c))
	found, err := s.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Level)
	assert.Equal(t, c.StoreID, found.StoreID)

	assert.ErrorIs(t, s.Save(ctx, newChar(t, "Ghost", character.Mage)), character.ErrNotFound)

	require.NoError(t, s.Delete(ctx, strconv.FormatInt(c.StoreID, 10)))
	assert.ErrorIs(t, s.Delete(ctx, c.ID), character.ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ListOrdered(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta"} {
		_, err := s.Create(ctx, newChar(t, name, character.Thief))
		require.NoError(t, err)
	}
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, c := range list {
		assert.Equal(t, int64(i+1), c.StoreID)
	}
}

func TestStore_Battles(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	h := &combat.History{Character1ID: "a", Character2ID: "b", WinnerID: "a", LoserID: "b", Rounds: 3, Log: []string{"x"}}
	created, err := s.CreateBattle(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	h.Log[0] = "mutated"
	found, err := s.FindBattle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, found.Log)

	_, err = s.FindBattle(ctx, 2)
	assert.ErrorIs(t, err, combat.ErrBattleNotFound)
	_, err = s.FindBattle(ctx, 0)
	assert.ErrorIs(t, err, combat.ErrBattleNotFound)

	all, err := s.ListBattles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ConcurrentCreate(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := character.New("Racer", character.Mage)
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := s.Create(ctx, c); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}

func TestStore_CancelledContext(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
