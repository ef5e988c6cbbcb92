// Package main provides an offline battle runner. It builds two fresh
// characters, optionally levels them, and prints the battle result.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/observability"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "duel: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	a, b    string
	seed    uint64
	levels  string
	format  string
	verbose bool
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("duel", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.a, "a", "Conan:Warrior", "first fighter as Name:Job")
	fs.StringVar(&opts.b, "b", "Merlin:Mage", "second fighter as Name:Job")
	fs.Uint64Var(&opts.seed, "seed", 0, "seed for a reproducible battle (0 = crypto random)")
	fs.StringVar(&opts.levels, "levels", "0", "level-ups applied before the battle, N for both or A:B")
	fs.StringVar(&opts.format, "format", "text", "output format: text, json, or yaml")
	fs.BoolVar(&opts.verbose, "v", false, "log every random draw")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch opts.format {
	case "text", "json", "yaml":
	default:
		return options{}, fmt.Errorf("invalid format %q: must be text, json, or yaml", opts.format)
	}
	return opts, nil
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}

	levelA, levelB, err := parseLevels(opts.levels)
	if err != nil {
		return err
	}
	a, err := buildFighter(opts.a, levelA)
	if err != nil {
		return fmt.Errorf("fighter a: %w", err)
	}
	b, err := buildFighter(opts.b, levelB)
	if err != nil {
		return fmt.Errorf("fighter b: %w", err)
	}

	logCfg := config.LoggingConfig{Level: "warn", Format: "console"}
	if opts.verbose {
		logCfg.Level = "debug"
	}
	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var src dice.Source = dice.NewCryptoSource()
	if opts.seed != 0 {
		src = dice.NewSeededSource(opts.seed)
	}
	if opts.verbose {
		src = dice.NewLoggedSource(src, logger.Named("dice"))
	}

	bt, err := combat.NewBattle(a, b, combat.WithSource(src), combat.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := bt.Execute()
	if err != nil {
		return err
	}
	logger.Debug("battle complete", zap.Int("rounds", res.Rounds))
	return writeResult(out, opts.format, res)
}

// buildFighter parses "Name:Job" and builds a character levelled up the
// given number of times.
func buildFighter(arg string, levels int) (*character.Character, error) {
	name, job, ok := strings.Cut(arg, ":")
	if !ok {
		return nil, fmt.Errorf("%q must be Name:Job", arg)
	}
	c, err := character.New(name, character.Job(job))
	if err != nil {
		return nil, err
	}
	for i := 0; i < levels; i++ {
		c.LevelUp()
	}
	return c, nil
}

func parseLevels(s string) (int, int, error) {
	first, second, pair := strings.Cut(s, ":")
	a, err := strconv.Atoi(first)
	if err != nil || a < 0 {
		return 0, 0, fmt.Errorf("invalid levels %q", s)
	}
	if !pair {
		return a, a, nil
	}
	b, err := strconv.Atoi(second)
	if err != nil || b < 0 {
		return 0, 0, fmt.Errorf("invalid levels %q", s)
	}
	return a, b, nil
}

func writeResult(out io.Writer, format string, res combat.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		for _, line := range res.Log {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New("unknown format " + format)
	}
}
