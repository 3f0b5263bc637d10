// Package registration registers users and checks their credentials against the local store.
package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"userRegistration/internal/db"
	"userRegistration/models"
	"userRegistration/repository"
)

// Credentials derives and checks stored password representations.
type Credentials interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) (bool, error)
}

// Service is the credential store. All calls are synchronous and share the given handle.
type Service struct {
	db     *sql.DB
	users  repository.UserRepositoryI
	hasher Credentials
	log    logrus.FieldLogger

	// dummyHash is compared against when the username is unknown.
	dummyHash string
}

// NewService builds a Service over an open database handle.
// A nil logger falls back to the logrus standard logger. It panics if hasher
// cannot produce a credential, since no later call could succeed either.
func NewService(d *sql.DB, hasher Credentials, log logrus.FieldLogger) *Service {
	if d == nil {
		panic("registration: db is required")
	}
	if hasher == nil {
		panic("registration: hasher is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	dummy, err := hasher.Hash("registration-dummy-password")
	if err != nil {
		panic(fmt.Sprintf("registration: derive dummy credential: %v", err))
	}
	return &Service{
		db:        d,
		users:     repository.NewUserRepository(d),
		hasher:    hasher,
		log:       log,
		dummyHash: dummy,
	}
}

// CreateTable ensures the users table exists. Existing rows are left alone.
func (s *Service) CreateTable(ctx context.Context) error {
	if err := db.Migrate(ctx, s.db); err != nil {
		s.log.WithError(err).Error("create users table failed")
		return fmt.Errorf("%w: create table: %w", repository.ErrStorageUnavailable, err)
	}
	return nil
}

// AddUser hashes password and stores a new user.
// It returns repository.ErrDuplicateUsername if the username is taken.
func (s *Service) AddUser(ctx context.Context, username, email, password string) (*models.User, error) {
	logCtx := s.log.WithField("username", username)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		logCtx.WithError(err).Error("hash password failed")
		return nil, err
	}
	u, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			logCtx.Warn("registration rejected: username already exists")
		} else {
			logCtx.WithError(err).Error("insert user failed")
		}
		return nil, err
	}
	logCtx.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// AuthenticateUser reports whether password matches the stored credential for username.
// Unknown users and wrong passwords both yield (false, nil); only storage failures are errors.
func (s *Service) AuthenticateUser(ctx context.Context, username, password string) (bool, error) {
	logCtx := s.log.WithField("username", username)

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		logCtx.WithError(err).Error("lookup user failed")
		return false, err
	}
	if u == nil {
		// Burn a comparison so unknown users cost the same as wrong passwords.
		_, _ = s.hasher.Verify(s.dummyHash, password)
		logCtx.Debug("authentication failed")
		return false, nil
	}
	ok, err := s.hasher.Verify(u.PasswordHash, password)
	if err != nil {
		logCtx.WithError(err).Error("stored credential is unreadable")
		return false, err
	}
	if !ok {
		logCtx.Debug("authentication failed")
		return false, nil
	}
	logCtx.Debug("authentication succeeded")
	return true, nil
}

// DisplayUsers returns every stored user in insertion order.
func (s *Service) DisplayUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for offset := 0; ; offset += repository.MaxListLimit {
		page, err := s.users.List(ctx, repository.MaxListLimit, offset)
		if err != nil {
			s.log.WithError(err).Error("list users failed")
			return nil, err
		}
		out = append(out, page...)
		if len(page) < repository.MaxListLimit {
			return out, nil
		}
	}
}

// WriteUsers renders the user listing as an aligned table. Password hashes are never written.
func (s *Service) WriteUsers(ctx context.Context, w io.Writer) error {
	users, err := s.DisplayUsers(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Username, u.Email)
	}
	return tw.Flush()
}
