package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"userRegistration/internal/config"
	"userRegistration/internal/db"
	"userRegistration/internal/passwd"
	"userRegistration/internal/registration"
	"userRegistration/repository"
)

const usage = `usage: registration [-db path] <command> [args]

commands:
  init                               create the users table
  add <username> <email> <password>  register a user
  auth <username> <password>         verify credentials (exit 0 ok, 1 rejected)
  list                               print registered users
  drop                               revert the latest schema migration
`

const (
	exitOK       = 0
	exitRejected = 1
	exitError    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return exitError
	}

	fs := flag.NewFlagSet("registration", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	dbPath := fs.String("db", cfg.Database.Path, "SQLite database file")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	cfg.Database.Path = *dbPath

	log := cfg.NewLogger()
	log.SetOutput(stderr)
	log.WithField("config", cfg.String()).Debug("configuration loaded")

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitError
	}

	// One invocation, one connection: the handle is closed before returning.
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Error("open db")
		return exitError
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.WithError(err).Warn("close db")
		}
	}()

	svc := registration.NewService(d, passwd.New(cfg.Auth.BcryptCost), log)
	return dispatch(context.Background(), d, svc, rest, stdout, stderr, log)
}

func dispatch(ctx context.Context, d *sql.DB, svc *registration.Service, args []string, stdout, stderr io.Writer, log logrus.FieldLogger) int {
	cmd, params := args[0], args[1:]
	switch cmd {
	case "init":
		if len(params) != 0 {
			break
		}
		if err := svc.CreateTable(ctx); err != nil {
			return exitError
		}
		fmt.Fprintln(stdout, "users table ready")
		return exitOK

	case "add":
		if len(params) != 3 {
			break
		}
		u, err := svc.AddUser(ctx, params[0], params[1], params[2])
		if errors.Is(err, repository.ErrDuplicateUsername) {
			fmt.Fprintf(stderr, "username %q is already registered\n", params[0])
			return exitRejected
		}
		if err != nil {
			return exitError
		}
		fmt.Fprintf(stdout, "registered %s (id %d)\n", u.Username, u.ID)
		return exitOK

	case "auth":
		if len(params) != 2 {
			break
		}
		ok, err := svc.AuthenticateUser(ctx, params[0], params[1])
		if err != nil {
			return exitError
		}
		if !ok {
			fmt.Fprintln(stdout, "authentication failed")
			return exitRejected
		}
		fmt.Fprintln(stdout, "authenticated")
		return exitOK

	case "list":
		if len(params) != 0 {
			break
		}
		if err := svc.WriteUsers(ctx, stdout); err != nil {
			return exitError
		}
		return exitOK

	case "drop":
		if len(params) != 0 {
			break
		}
		if err := db.RollbackLast(ctx, d); err != nil {
			log.WithError(err).Error("rollback migration")
			return exitError
		}
		fmt.Fprintln(stdout, "latest migration reverted")
		return exitOK

	default:
		log.WithField("command", cmd).Error("unknown command")
	}
	fmt.Fprint(stderr, usage)
	return exitError
}
