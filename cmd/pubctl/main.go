// pubctl is the operator CLI: user seeding, password hashing and
// terminal-rendered insights.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&seedUserCmd{}, "users")
	commander.Register(&hashPasswordCmd{}, "users")
	commander.Register(&insightsCmd{}, "reports")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
