package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/office-calendar/internal"
)

// LoginResult pairs the authenticated account with its freshly issued tokens.
type LoginResult struct {
	Account *Account
	Tokens  AuthTokens
}

// Service owns the session lifecycle: login, access token validation and
// single-use refresh token rotation.
type Service struct {
	repo       RepositoryAPI
	tokens     TokenGeneratorAPI
	refreshTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, refreshTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Authenticate validates credentials and issues an access/refresh token pair.
// A terminated account is reported distinctly from a wrong password.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.GetAccountByEmail(ctx, dto.Email)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("login: account lookup failed", "error", err)
		return nil, internal.NewInternalError("could not sign in", err)
	}

	if account.Role.IsTerminated() {
		s.logger.Warn("login attempt on terminated account", "employee_id", account.ID)
		return nil, internal.ErrAccountTerminated
	}

	if err := VerifyPassword(account.PasswordHash, dto.Password); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee signed in", "employee_id", account.ID)

	return &LoginResult{Account: account, Tokens: tokens}, nil
}

// RefreshTokens exchanges a stored refresh token for a new token pair. The
// refresh token is single-use: a successful exchange rotates it, and an
// expired one is proactively cleared so it can never authenticate again.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	account, err := s.repo.GetAccountByRefreshToken(ctx, refreshToken)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return AuthTokens{}, internal.ErrInvalidToken
		}
		s.logger.Error("refresh: account lookup failed", "error", err)
		return AuthTokens{}, internal.NewInternalError("could not refresh session", err)
	}

	if account.Role.IsTerminated() {
		return AuthTokens{}, internal.ErrAccountTerminated
	}

	if account.RefreshTokenExpiresAt == nil || s.now().After(*account.RefreshTokenExpiresAt) {
		if clearErr := s.repo.ClearRefreshToken(ctx, account.ID); clearErr != nil {
			s.logger.Error("refresh: failed to clear expired token", "error", clearErr, "employee_id", account.ID)
		}
		return AuthTokens{}, internal.ErrTokenExpired
	}

	tokens, err := s.issueTokens(ctx, account)
	if err != nil {
		return AuthTokens{}, err
	}

	s.logger.Info("session refreshed", "employee_id", account.ID)

	return tokens, nil
}

func (s *Service) issueTokens(ctx context.Context, account *Account) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(account)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err, "employee_id", account.ID)
		return AuthTokens{}, internal.NewInternalError("could not issue session token", err)
	}

	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("could not issue refresh token", err)
	}

	expiresAt := s.now().Add(s.refreshTTL)
	if err := s.repo.StoreRefreshToken(ctx, account.ID, refreshToken, expiresAt); err != nil {
		s.logger.Error("failed to persist refresh token", "error", err, "employee_id", account.ID)
		return AuthTokens{}, internal.NewInternalError("could not persist session", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

func (s *Service) GetAccountByID(ctx context.Context, id int64) (*Account, error) {
	return s.repo.GetAccountByID(ctx, id)
}
