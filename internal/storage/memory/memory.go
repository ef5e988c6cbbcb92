// Package memory provides in-process repositories for characters and battles.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
)

// Store keeps characters and battles in memory. It is safe for concurrent use.
//
// Characters are copied on the way in and out, so callers never share state
// with the store.
type Store struct {
	mu         sync.RWMutex
	chars      map[string]*character.Character // keyed by creation id
	nextCharID int64
	battles    []*combat.History
	now        func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		chars: make(map[string]*character.Character),
		now:   time.Now,
	}
}

// Create stores c and assigns its repository id and timestamps.
//
// Precondition: c must be non-nil with a non-empty creation id.
// Postcondition: Returns a copy of the stored character.
func (s *Store) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCharID++
	stored := c.Clone()
	stored.StoreID = s.nextCharID
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.chars[stored.ID] = stored
	return stored.Clone(), nil
}

// FindByID looks a character up by creation id, then by repository id.
//
// Postcondition: Returns a copy of the character or character.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*character.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.lookup(id)
	if !ok {
		return nil, character.ErrNotFound
	}
	return c.Clone(), nil
}

// List returns every character ordered by repository id.
func (s *Store) List(ctx context.Context) ([]*character.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*character.Character, 0, len(s.chars))
	for _, c := range s.chars {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out, nil
}

// Save replaces the stored copy of an existing character.
//
// Postcondition: Returns character.ErrNotFound if c was never created.
func (s *Store) Save(ctx context.Context, c *character.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.chars[c.ID]
	if !ok {
		return character.ErrNotFound
	}
	stored := c.Clone()
	stored.StoreID = existing.StoreID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.now()
	s.chars[stored.ID] = stored
	return nil
}

// Delete removes a character by either identity.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookup(id)
	if !ok {
		return character.ErrNotFound
	}
	delete(s.chars, c.ID)
	return nil
}

// lookup must be called with s.mu held.
func (s *Store) lookup(id string) (*character.Character, bool) {
	if c, ok := s.chars[id]; ok {
		return c, true
	}
	storeID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, false
	}
	for _, c := range s.chars {
		if c.StoreID == storeID {
			return c, true
		}
	}
	return nil, false
}

// CreateBattle appends h and assigns its id and timestamp.
func (s *Store) CreateBattle(ctx context.Context, h *combat.History) (*combat.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyHistory(h)
	stored.ID = int64(len(s.battles) + 1)
	stored.CreatedAt = s.now()
	s.battles = append(s.battles, stored)
	return copyHistory(stored), nil
}

// ListBattles returns every battle in creation order.
func (s *Store) ListBattles(ctx context.Context) ([]*combat.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*combat.History, 0, len(s.battles))
	for _, h := range s.battles {
		out = append(out, copyHistory(h))
	}
	return out, nil
}

// FindBattle returns one battle or combat.ErrBattleNotFound.
func (s *Store) FindBattle(ctx context.Context, id int64) (*combat.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 1 || id > int64(len(s.battles)) {
		return nil, combat.ErrBattleNotFound
	}
	return copyHistory(s.battles[id-1]), nil
}

func copyHistory(h *combat.History) *combat.History {
	cp := *h
	cp.Log = append([]string(nil), h.Log...)
	return &cp
}
