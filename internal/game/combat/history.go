package combat

import (
	"errors"
	"time"
)

// ErrBattleNotFound is returned when a stored battle lookup yields no results.
var ErrBattleNotFound = errors.New("battle not found")

// History is the stored record of a finished battle between two characters.
type History struct {
	ID           int64     `json:"id" yaml:"id"`
	Character1ID string    `json:"character1Id" yaml:"character1_id"`
	Character2ID string    `json:"character2Id" yaml:"character2_id"`
	WinnerID     string    `json:"winnerId" yaml:"winner_id"`
	LoserID      string    `json:"loserId" yaml:"loser_id"`
	Rounds       int       `json:"rounds" yaml:"rounds"`
	Outcome      string    `json:"outcome" yaml:"outcome"`
	Log          []string  `json:"battleLog" yaml:"battle_log"`
	CreatedAt    time.Time `json:"date" yaml:"date"`
}

// NewHistory summarizes res for storage. Character1ID and Character2ID are
// the identities the battle was requested with.
//
// Postcondition: ID and CreatedAt are left zero for the repository to assign.
func NewHistory(character1ID, character2ID string, res Result) *History {
	log := make([]string, len(res.Log))
	copy(log, res.Log)
	return &History{
		Character1ID: character1ID,
		Character2ID: character2ID,
		WinnerID:     res.Winner.ID,
		LoserID:      res.Loser.ID,
		Rounds:       res.Rounds,
		Outcome:      res.Outcome.String(),
		Log:          log,
	}
}
