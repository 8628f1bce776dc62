// Command genseed creates the bootstrap user so the very first login is
// possible on a fresh database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/mohammedALrabeai/salon-sub001/internal/db"
	"github.com/mohammedALrabeai/salon-sub001/internal/repository"
	"github.com/mohammedALrabeai/salon-sub001/internal/repository/postgres"
	"github.com/mohammedALrabeai/salon-sub001/internal/service/auth"
)

func run(ctx context.Context) error {
	var (
		dsn      string
		username string
		password string
		status   string
	)

	fs := pflag.NewFlagSet("genseed", pflag.ContinueOnError)
	fs.StringVarP(&dsn, "database", "d", os.Getenv("DATABASE_URI"), "Database connection string")
	fs.StringVarP(&username, "username", "u", "", "Username to create")
	fs.StringVarP(&password, "password", "p", "", "Password for the user")
	fs.StringVarP(&status, "status", "s", "", "Account status (defaults to active)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if username == "" || password == "" {
		return fmt.Errorf("both --username and --password are required")
	}

	pool, err := db.ConnectAndMigrate(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	hash, err := auth.BcryptHasher{}.Hash(password)
	if err != nil {
		return err
	}

	user, err := postgres.NewStorage(pool).User().CreateUser(ctx, repository.CreateUserParams{
		Username:       username,
		HashedPassword: hash,
		Status:         status,
	})
	if err != nil {
		return err
	}

	fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "genseed: %v\n", err)
		os.Exit(1)
	}
}
