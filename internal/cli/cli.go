// Package cli wires the tracking agent's subcommands.
package cli

import (
	"os"

	goflags "github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"studybee/internal/category"
	"studybee/internal/localstore"
	"studybee/internal/trackercfg"
)

// buildParser constructs the go-flags parser with all subcommands
// registered.
func buildParser() (*goflags.Parser, *GlobalFlags) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "studybee-tracker"
	parser.LongDescription = "Tracks browsing activity, classifies it into learning/distraction/mixed, and syncs daily totals to the StudyBee server."

	parser.AddCommand("run", "Run the tracking agent", "Consume browser events on stdin, aggregate locally, and sync to the server.", &RunCommand{globals: &globals})
	parser.AddCommand("register", "Register an identity", "Register this agent's display name on the server.", &RegisterCommand{globals: &globals})
	parser.AddCommand("status", "Show today's totals", "Print today's aggregated totals and the registered identity.", &StatusCommand{globals: &globals})
	parser.AddCommand("prune", "Apply retention pruning", "Remove sessions and stats older than the retention window.", &PruneCommand{globals: &globals})

	return parser, &globals
}

// Run parses args (os.Args if nil) and executes the matched subcommand.
func Run(args []string) error {
	parser, _ := buildParser()

	if args == nil {
		args = os.Args[1:]
	}
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

// environment is the shared setup every subcommand needs.
type environment struct {
	conf  *trackercfg.Config
	store *localstore.SQLiteStore
	log   zerolog.Logger
}

func setup(globals *GlobalFlags) (*environment, error) {
	conf, err := trackercfg.Load(globals.Config)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if globals.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	store, err := localstore.Open(conf.StorePath)
	if err != nil {
		return nil, err
	}

	return &environment{conf: conf, store: store, log: log}, nil
}

func (e *environment) classifier() *category.Classifier {
	return category.New(e.conf.LearningSites, e.conf.DistractionSites)
}
