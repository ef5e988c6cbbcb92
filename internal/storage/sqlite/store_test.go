package sqlite_test

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/storage/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "duel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestOpen_InMemory(t *testing.T) {
	s, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_CharacterLifecycle(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c, err := character.New("Conan", character.Warrior)
	require.NoError(t, err)
	created, err := s.Create(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.StoreID)

	byStore, err := s.FindByID(ctx, strconv.FormatInt(created.StoreID, 10))
	require.NoError(t, err)
	assert.Equal(t, c.ID, byStore.ID)
	assert.Equal(t, c.Attributes, byStore.Attributes)
	assert.Equal(t, c.Modifiers, byStore.Modifiers)
	assert.Equal(t, created.CreatedAt, byStore.CreatedAt)

	created.LevelUp()
	require.NoError(t, s.Save(ctx, created))
	got, err := s.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 10.8, got.AttackPower)

	require.NoError(t, s.Delete(ctx, c.ID))
	_, err = s.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, character.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, c.ID), character.ErrNotFound)
	assert.ErrorIs(t, s.Save(ctx, c), character.ErrNotFound)
}

func TestStore_ListOrdered(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		c, err := character.New(name, character.Thief)
		require.NoError(t, err)
		_, err = s.Create(ctx, c)
		require.NoError(t, err)
	}
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Charlie", list[2].Name)
}

func TestStore_Battles(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	h := &combat.History{
		Character1ID: "a", Character2ID: "b", WinnerID: "a", LoserID: "b",
		Rounds: 7, Outcome: "defeat", Log: []string{"one", "two, with comma", `"quoted"`},
	}
	created, err := s.CreateBattle(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := s.FindBattle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, h.Log, got.Log)
	assert.Equal(t, 7, got.Rounds)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)

	_, err = s.FindBattle(ctx, 2)
	assert.ErrorIs(t, err, combat.ErrBattleNotFound)

	all, err := s.ListBattles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duel.db")
	ctx := context.Background()

	s, err := sqlite.Open(path)
	require.NoError(t, err)
	c, err := character.New("Durable", character.Mage)
	require.NoError(t, err)
	_, err = s.Create(ctx, c)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = sqlite.Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Durable", got.Name)
}
