package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/office-calendar/internal"
)

type ctxKey string

const ContextAccountKey ctxKey = "account"

// Account is the auth-side view of an employee row: just enough to
// authenticate, authorize and rotate refresh tokens.
type Account struct {
	ID                    int64      `json:"id"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	Role                  Role       `json:"role"`
	RefreshToken          string     `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
}

func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

func AccountFromContext(ctx context.Context) (*Account, bool) {
	a, ok := ctx.Value(ContextAccountKey).(*Account)
	return a, ok
}

func ContextWithAccount(ctx context.Context, a *Account) context.Context {
	return context.WithValue(ctx, ContextAccountKey, a)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
}

type RepositoryAPI interface {
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
	GetAccountByRefreshToken(ctx context.Context, token string) (*Account, error)
	StoreRefreshToken(ctx context.Context, accountID int64, token string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, accountID int64) error
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(account *Account) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type Claims struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// JWTTokenGenerator issues and validates HS256 session tokens. It holds no
// per-session state.
type JWTTokenGenerator struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewJWTTokenGenerator fails when no signing key is configured; that is a
// fatal misconfiguration, not a per-request error.
func NewJWTTokenGenerator(cfg internal.SecurityConfig) (*JWTTokenGenerator, error) {
	if cfg.JWTSecret == "" {
		return nil, internal.ErrMissingSigningKey
	}
	return &JWTTokenGenerator{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.AccessTokenDuration,
		now:      time.Now,
	}, nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(account *Account) (string, error) {
	issuedAt := j.now()
	claims := &Claims{
		EmployeeID: account.ID,
		Name:       account.FullName(),
		Email:      account.Email,
		Role:       account.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", account.ID),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken verifies signature, issuer, audience and expiry with zero
// clock-skew tolerance. All failures collapse into the invalid/expired
// sentinels, never a panic.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// GenerateRefreshToken returns an opaque cryptographically random value. It is
// stored server-side on the employee row and rotated on every use.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
