// Package services contains server-side business logic. AuthService owns the
// session lifecycle: login and registration issue tokens, logout and refresh
// revoke them, and Me resolves a token to its owner.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/phoneauth/internal/common"
	"github.com/dmitrijs2005/phoneauth/internal/dbx"
	"github.com/dmitrijs2005/phoneauth/internal/logging"
	"github.com/dmitrijs2005/phoneauth/internal/server/auth"
	"github.com/dmitrijs2005/phoneauth/internal/server/config"
	"github.com/dmitrijs2005/phoneauth/internal/server/models"
	"github.com/dmitrijs2005/phoneauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/phoneauth/internal/server/validation"
)

// Response messages.
const (
	MessageUserCreated = "User created successfully"
	MessageLoggedOut   = "Successfully logged out"
)

// PasswordHasher hashes passwords and checks candidates against a hash.
// VerifyDummy must cost the same as Verify and always fail.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	VerifyDummy(password string) bool
}

// OperationRecorder receives the outcome of every operation, see Result.
type OperationRecorder interface {
	AuthOperation(operation, result string)
}

type nopRecorder struct{}

func (nopRecorder) AuthOperation(string, string) {}

// AuthService implements login, register, logout, refresh and me. Every
// operation gets its token or credentials as an argument.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
	tokens      *auth.TokenIssuer
	hasher      PasswordHasher
	ttlMinutes  int
	recorder    OperationRecorder
	logger      logging.Logger
}

// Option customizes an AuthService.
type Option func(*AuthService)

// WithRecorder reports operation outcomes to r.
func WithRecorder(r OperationRecorder) Option {
	return func(s *AuthService) { s.recorder = r }
}

// WithLogger sets the service logger.
func WithLogger(l logging.Logger) Option {
	return func(s *AuthService) { s.logger = l.With("module", "auth") }
}

// NewAuthService wires the service from repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, cfg *config.Config, opts ...Option) *AuthService {
	ttl := cfg.TTLMinutes()
	s := &AuthService{
		db:          db,
		repomanager: m,
		validator:   validation.New(m.Users(db)),
		tokens:      auth.NewTokenIssuer([]byte(cfg.SecretKey), time.Duration(ttl)*time.Minute),
		hasher:      hasher,
		ttlMinutes:  ttl,
		recorder:    nopRecorder{},
		logger:      logging.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks phone and password. Unknown phone and wrong password both give
// common.ErrorUnauthorized, and both cost one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (resp *models.TokenResponse, err error) {
	defer s.record("login", &err)

	if err := s.validator.ValidateLogin(ctx, req); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(req.Password)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		return nil, common.ErrorUnauthorized
	}

	issued, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return s.respondWithToken(issued.Token, user), nil
}

// Register validates, stores the user and logs them in. Losing a race for the
// same phone or email surfaces as common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (resp *models.RegisterResponse, err error) {
	defer s.record("register", &err)

	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		req.Email = nil
	}

	if err := s.validator.ValidateRegistration(ctx, req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	issued, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return &models.RegisterResponse{
		Message: MessageUserCreated,
		Token:   issued.Token,
		Status:  http.StatusCreated,
	}, nil
}

// Logout revokes token. Logging out an already revoked token succeeds again;
// a token that does not parse gives common.ErrorUnauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) (resp *models.MessageResponse, err error) {
	defer s.record("logout", &err)

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	revoked, err := s.repomanager.RevokedTokens(s.db).Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time)
	if err != nil {
		return nil, fmt.Errorf("error revoking token: %w", err)
	}

	if revoked {
		s.logger.Info(ctx, "user logged out", "user_id", claims.UserID)
	}
	return &models.MessageResponse{Message: MessageLoggedOut, Status: http.StatusOK}, nil
}

// Refresh swaps a valid token for a new one. The old token id is claimed in
// the same transaction that loads the owner, so of two concurrent refreshes of
// one token only one succeeds.
func (s *AuthService) Refresh(ctx context.Context, token string) (resp *models.TokenResponse, err error) {
	defer s.record("refresh", &err)

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	var (
		user   *models.User
		issued *auth.IssuedToken
	)
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		claimed, err := s.repomanager.RevokedTokens(tx).Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time)
		if err != nil {
			return fmt.Errorf("error revoking token: %w", err)
		}
		if !claimed {
			return common.ErrorUnauthorized
		}

		user, err = s.repomanager.Users(tx).GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		issued, err = s.tokens.Issue(user.ID)
		if err != nil {
			return fmt.Errorf("error issuing token: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.respondWithToken(issued.Token, user), nil
}

// Me resolves token to its owner. An unusable token gives
// common.ErrInvalidToken or common.ErrTokenExpired; a valid token whose user
// is gone gives common.ErrorNotFound.
func (s *AuthService) Me(ctx context.Context, token string) (user *models.User, err error) {
	defer s.record("me", &err)

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repomanager.RevokedTokens(s.db).IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking revocation: %w", err)
	}
	if revoked {
		return nil, common.ErrInvalidToken
	}

	user, err = s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func (s *AuthService) respondWithToken(token string, user *models.User) *models.TokenResponse {
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   common.TokenType,
		ExpiresIn:   s.ttlMinutes * 60,
		User:        user,
	}
}

func (s *AuthService) record(operation string, err *error) {
	s.recorder.AuthOperation(operation, Result(*err))
}

// Result labels an operation outcome for metrics.
func Result(err error) string {
	var verr *validation.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return "unauthorized"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "conflict"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	default:
		return "error"
	}
}
