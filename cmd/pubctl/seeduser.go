package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/offset122/PubInventoryTracker/internal/config"
	"github.com/offset122/PubInventoryTracker/internal/infra"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/google/subcommands"
	"golang.org/x/crypto/bcrypt"
)

// seedUserCmd creates a login or resets the password of an existing one.
type seedUserCmd struct {
	email     string
	password  string
	firstName string
	lastName  string
}

func (*seedUserCmd) Name() string     { return "seeduser" }
func (*seedUserCmd) Synopsis() string { return "create or update a login" }
func (*seedUserCmd) Usage() string {
	return `seeduser -email <email> -password <password> [-first <name>] [-last <name>]

Creates the user, or overwrites the password and names when the email exists.
Runs schema migrations first.
`
}

func (c *seedUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "login email")
	f.StringVar(&c.password, "password", "", "plain-text password")
	f.StringVar(&c.firstName, "first", "", "first name")
	f.StringVar(&c.lastName, "last", "", "last name")
}

func (c *seedUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "Error: -email and -password are required.")
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		return subcommands.ExitFailure
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error connecting to postgres:", err)
		return subcommands.ExitFailure
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.password), service.BcryptCost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error hashing password:", err)
		return subcommands.ExitFailure
	}

	user := &model.User{
		Email:        c.email,
		PasswordHash: string(hash),
		FirstName:    c.firstName,
		LastName:     c.lastName,
	}
	if err := repository.NewUserRepository(db).Upsert(ctx, user); err != nil {
		fmt.Fprintln(os.Stderr, "Error saving user:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("User %s saved\n", c.email)
	return subcommands.ExitSuccess
}
