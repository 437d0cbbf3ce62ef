package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/google/subcommands"
	"golang.org/x/crypto/bcrypt"
)

type hashPasswordCmd struct {
	password string
}

func (*hashPasswordCmd) Name() string     { return "hashpw" }
func (*hashPasswordCmd) Synopsis() string { return "print the bcrypt hash of a password" }
func (*hashPasswordCmd) Usage() string {
	return `hashpw [-password <password>]

Reads the password from the first line of stdin when -password is omitted.
`
}

func (c *hashPasswordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.password, "password", "", "plain-text password")
}

func (c *hashPasswordCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	pw := c.password
	if pw == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "Error: no password given.")
			return subcommands.ExitUsageError
		}
		pw = strings.TrimRight(line, "\r\n")
	}

	h, err := bcrypt.GenerateFromPassword([]byte(pw), service.BcryptCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error hashing password:", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(h))
	return subcommands.ExitSuccess
}
