package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// ErrSimulation signals an unexpected failure while a battle was running.
// It is never returned for invalid participants.
var ErrSimulation = errors.New("battle simulation failed")

// Battle is a validated pairing of two fighters, ready to be executed.
type Battle struct {
	a, b     Fighter
	src      dice.Source
	logger   *zap.Logger
	observer func(string)
}

// Option configures a Battle.
type Option func(*Battle)

// WithSource replaces the default cryptographic random source.
func WithSource(src dice.Source) Option {
	return func(b *Battle) {
		if src != nil {
			b.src = src
		}
	}
}

// WithLogger attaches a structured logger for battle lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Battle) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithObserver registers fn to receive every log line as it is produced.
func WithObserver(fn func(string)) Option {
	return func(b *Battle) {
		b.observer = fn
	}
}

// NewBattle validates and normalizes two participants.
//
// Accepted participant shapes are Record, *Record, map[string]any,
// character.Character and *character.Character.
//
// Postcondition: Returns a Battle whose fighters are independent copies of
// the inputs, or an error wrapping one of the validation sentinels with the
// participant label. The inputs are never modified.
func NewBattle(a, b any, opts ...Option) (*Battle, error) {
	fa, err := normalize(a)
	if err != nil {
		return nil, fmt.Errorf("participant 1: %w", err)
	}
	fb, err := normalize(b)
	if err != nil {
		return nil, fmt.Errorf("participant 2: %w", err)
	}
	if fa.ID == fb.ID {
		return nil, fmt.Errorf("%w: %s", ErrSameParticipant, fa.ID)
	}

	bt := &Battle{a: fa, b: fb, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(bt)
	}
	if bt.src == nil {
		bt.src = dice.NewCryptoSource()
	}
	return bt, nil
}

// Fighters returns copies of the normalized fighters at full vitality.
func (bt *Battle) Fighters() (Fighter, Fighter) {
	return bt.a, bt.b
}

// Execute runs one complete battle.
//
// Each call is an independent trial on fresh copies of the fighters.
//
// Postcondition: On success Result.Rounds <= MaxRounds and the log ends
// with exactly one winner line. A panic during simulation is returned as
// an error wrapping ErrSimulation.
func (bt *Battle) Execute() (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			bt.logger.Error("battle simulation panicked",
				zap.String("fighter_a", bt.a.ID),
				zap.String("fighter_b", bt.b.ID),
				zap.Any("panic", r),
			)
			res = Result{}
			err = fmt.Errorf("%w: %v", ErrSimulation, r)
		}
	}()

	bt.logger.Debug("battle starting",
		zap.String("fighter_a", bt.a.ID),
		zap.String("fighter_b", bt.b.ID),
	)
	res = simulate(bt.a, bt.b, bt.src, bt.observer)
	bt.logger.Debug("battle finished",
		zap.String("winner", res.Winner.ID),
		zap.String("loser", res.Loser.ID),
		zap.Int("rounds", res.Rounds),
		zap.Stringer("outcome", res.Outcome),
	)
	return res, nil
}
