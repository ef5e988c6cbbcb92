package postgres_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/storage/postgres"
	"github.com/cory-johannsen/duel/internal/testutil"
)

// setupRepos starts one migrated container shared by every subtest of t.
func setupRepos(t *testing.T) (*postgres.CharacterRepository, *postgres.BattleRepository) {
	t.Helper()
	pool := testutil.NewPool(t)
	return postgres.NewCharacterRepository(pool), postgres.NewBattleRepository(pool)
}

func makeTestCharacter(t *testing.T, name string, job character.Job) *character.Character {
	t.Helper()
	c, err := character.New(name, job)
	require.NoError(t, err)
	return c
}

func TestCharacterRepository(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		c := makeTestCharacter(t, "Zara", character.Thief)
		created, err := repo.Create(ctx, c)
		require.NoError(t, err)

		assert.Greater(t, created.StoreID, int64(0))
		assert.Equal(t, c.ID, created.ID)
		assert.Equal(t, "Zara", created.Name)
		assert.Equal(t, character.Thief, created.Job)
		assert.Equal(t, 1, created.Level)
		assert.Equal(t, c.Attributes, created.Attributes)
		assert.Equal(t, c.Modifiers, created.Modifiers)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("FindByEitherIdentity", func(t *testing.T) {
		created, err := repo.Create(ctx, makeTestCharacter(t, "Finder", character.Mage))
		require.NoError(t, err)

		byUID, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		byStore, err := repo.FindByID(ctx, strconv.FormatInt(created.StoreID, 10))
		require.NoError(t, err)
		assert.Equal(t, byUID.ID, byStore.ID)
		assert.Equal(t, 14.2, byStore.AttackPower)
	})

	t.Run("FindByID_NotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "no-such-character")
		assert.ErrorIs(t, err, character.ErrNotFound)
		_, err = repo.FindByID(ctx, "99999999")
		assert.ErrorIs(t, err, character.ErrNotFound)
	})

	t.Run("Save", func(t *testing.T) {
		created, err := repo.Create(ctx, makeTestCharacter(t, "Saver", character.Warrior))
		require.NoError(t, err)

		require.NoError(t, created.ChangeJob(character.Mage))
		created.LevelUp()
		created.Vitality = 3
		require.NoError(t, repo.Save(ctx, created))

		got, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, character.Mage, got.Job)
		assert.Equal(t, 2, got.Level)
		assert.Equal(t, 3, got.Vitality)
		assert.Equal(t, created.Modifiers, got.Modifiers)
	})

	t.Run("Save_NotFound", func(t *testing.T) {
		err := repo.Save(ctx, makeTestCharacter(t, "Ghost", character.Mage))
		assert.ErrorIs(t, err, character.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		created, err := repo.Create(ctx, makeTestCharacter(t, "Doomed", character.Thief))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, strconv.FormatInt(created.StoreID, 10)))
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), character.ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, list)
		for i := 1; i < len(list); i++ {
			assert.Less(t, list[i-1].StoreID, list[i].StoreID)
		}
	})
}

func TestBattleRepository(t *testing.T) {
	_, battles := setupRepos(t)
	ctx := context.Background()

	h := &combat.History{
		Character1ID: "a", Character2ID: "b", WinnerID: "b", LoserID: "a",
		Rounds: 2, Outcome: combat.OutcomeDefeat.String(),
		Log: []string{"Battle between ...", "b wins the battle!"},
	}
	created, err := battles.CreateBattle(ctx, h)
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))
	assert.False(t, created.CreatedAt.IsZero())

	got, err := battles.FindBattle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, h.Log, got.Log)
	assert.Equal(t, "b", got.WinnerID)
	assert.Equal(t, "defeat", got.Outcome)

	_, err = battles.FindBattle(ctx, 99999999)
	assert.ErrorIs(t, err, combat.ErrBattleNotFound)

	all, err := battles.ListBattles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// TestCharacterRepository_Property_CreateThenFind verifies that for any valid
// name and job, Create followed by FindByID returns the same character.
func TestCharacterRepository_Property_CreateThenFind(t *testing.T) {
	repo, _ := setupRepos(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z_]{4,15}`).Draw(rt, "name")
		job := rapid.SampledFrom(character.AvailableJobs()).Draw(rt, "job")
		c, err := character.New(name, job)
		if err != nil {
			rt.Fatal(err)
		}

		created, err := repo.Create(ctx, c)
		require.NoError(rt, err)
		fetched, err := repo.FindByID(ctx, created.ID)
		require.NoError(rt, err)

		assert.Equal(rt, name, fetched.Name)
		assert.Equal(rt, job, fetched.Job)
		assert.Equal(rt, c.Attributes, fetched.Attributes)
		assert.Equal(rt, c.Modifiers, fetched.Modifiers)
	})
}
