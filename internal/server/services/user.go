// Package services contains server-side business logic. This file implements
// UserService: registration, credential checks, and issuing and verifying
// access tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/dmitrijs2005/hrportal/internal/logging"
	"github.com/dmitrijs2005/hrportal/internal/server/auth"
	"github.com/dmitrijs2005/hrportal/internal/server/models"
	"github.com/dmitrijs2005/hrportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hrportal/internal/server/repositories/users"
)

// PasswordHasher is implemented by auth.BcryptHasher.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
	NeedsRehash(digest string) bool
}

// TokenCodec is implemented by auth.TokenCodec.
type TokenCodec interface {
	Issue(subjectID int64) (string, error)
	Decode(token string) (*auth.TokenPayload, error)
}

// UserService provides authentication-related operations:
//   - Register: validate and create users
//   - Authenticate / Login: check credentials and mint access tokens
//   - CurrentUser / CurrentActiveUser: resolve a bearer token to its user
//   - Refresh: mint a new token for a still-active user
//   - SetActive: enable or disable an account
type UserService struct {
	log         logging.Logger
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	codec       TokenCodec

	// digest verified when the email is unknown, so that path costs
	// the same as a wrong password
	dummyHash string
}

// NewUserService wires the service. It hashes a random dummy password once,
// which takes as long as a regular hash.
func NewUserService(log logging.Logger, m repomanager.RepositoryManager, hasher PasswordHasher, codec TokenCodec) (*UserService, error) {
	dummy, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}
	dummyHash, err := hasher.Hash(context.Background(), dummy)
	if err != nil {
		return nil, fmt.Errorf("%w: dummy hash: %w", common.ErrorInternal, err)
	}

	return &UserService{
		log:         log.With("module", "users"),
		repomanager: m,
		hasher:      hasher,
		codec:       codec,
		dummyHash:   dummyHash,
	}, nil
}

// Register creates an active user. Inputs are validated before storage or
// the hasher is touched. A taken email yields common.ErrAlreadyExists, also
// when a concurrent registration wins the race.
//
// The password is hashed outside the transaction, so neither a connection
// nor the in-memory transaction lock is held while bcrypt runs.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = users.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if err := validateRegistration(email, password, name); err != nil {
		return nil, err
	}

	err := ensureEmailFree(ctx, s.repomanager.Users(), email)
	if err != nil {
		if !errors.Is(err, common.ErrAlreadyExists) {
			s.log.Error(ctx, "registration failed", "error", err)
		}
		return nil, err
	}

	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.log.Error(ctx, "registration failed", "error", err)
		return nil, err
	}

	var created *models.User
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repo users.Repository) error {
		// the email may have been taken while hashing
		if err := ensureEmailFree(ctx, repo, email); err != nil {
			return err
		}
		var err error
		created, err = repo.Insert(ctx, &models.User{
			Email:        email,
			PasswordHash: digest,
			Name:         name,
			IsActive:     true,
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, common.ErrAlreadyExists) {
			s.log.Error(ctx, "registration failed", "error", err)
		}
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

func ensureEmailFree(ctx context.Context, repo users.Repository, email string) error {
	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return common.ErrAlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return err
	}
}

// Authenticate checks credentials. A malformed email yields
// common.ErrValidation before storage is touched. Unknown email and wrong
// password both yield common.ErrInvalidCredentials. A disabled account with
// the right password yields common.ErrAccountInactive.
//
// A digest made with a different bcrypt cost is replaced after a successful
// check; failing to store it does not fail the login.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = users.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(ctx, password, s.dummyHash)
			s.log.Info(ctx, "login failed")
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "password verification failed", "user_id", user.ID, "error", err)
		return nil, err
	}
	if !ok {
		s.log.Info(ctx, "login failed")
		return nil, common.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Info(ctx, "login refused for inactive account", "user_id", user.ID)
		return nil, common.ErrAccountInactive
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		user = s.rehash(ctx, user, password)
	}

	return user, nil
}

func (s *UserService) rehash(ctx context.Context, user *models.User, password string) *models.User {
	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.log.Warn(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		return user
	}
	updated, err := s.repomanager.Users().SetPasswordHash(ctx, user.ID, digest)
	if err != nil {
		s.log.Warn(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		return user
	}
	s.log.Info(ctx, "password rehashed", "user_id", user.ID)
	return updated
}

func (s *UserService) IssueTokenFor(user *models.User) (string, error) {
	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %w", common.ErrorInternal, err)
	}
	return token, nil
}

// Login authenticates and returns a fresh access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.IssueTokenFor(user)
	if err != nil {
		return "", err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return token, nil
}

// CurrentUser resolves a bearer token to its user. A token whose subject no
// longer exists is reported as common.ErrInvalidToken.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	payload, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	return s.lookupSubject(ctx, payload.Subject)
}

// CurrentActiveUser is CurrentUser that also rejects disabled accounts.
func (s *UserService) CurrentActiveUser(ctx context.Context, token string) (*models.User, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrAccountInactive
	}
	return user, nil
}

// Refresh re-reads user and, if it still exists and is active, issues a new
// token for it.
func (s *UserService) Refresh(ctx context.Context, user *models.User) (string, error) {
	current, err := s.lookupSubject(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if !current.IsActive {
		return "", common.ErrAccountInactive
	}
	return s.IssueTokenFor(current)
}

// SetActive enables or disables an account.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) (*models.User, error) {
	user, err := s.repomanager.Users().SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "account state changed", "user_id", id, "is_active", active)
	return user, nil
}

func (s *UserService) lookupSubject(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: subject no longer exists", common.ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}
