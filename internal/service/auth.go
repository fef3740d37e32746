package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zphere-app/zphere/internal/domain"
	"github.com/zphere-app/zphere/internal/password"
	"github.com/zphere-app/zphere/internal/repository"
	"github.com/zphere-app/zphere/internal/tenantdb"
)

// AuthConfig holds token configuration.
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AuthService handles registration, login, and JWT issuing/validation against
// the master database.
type AuthService struct {
	users      *repository.UserRepository
	orgs       *repository.OrganizationRepository
	tenants    *tenantdb.Manager
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, orgs *repository.OrganizationRepository, tenants *tenantdb.Manager, cfg AuthConfig) *AuthService {
	return &AuthService{
		users:      users,
		orgs:       orgs,
		tenants:    tenants,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

// TokenPair holds an access token and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterInput is the data needed to create an organization with its first
// admin user.
type RegisterInput struct {
	OrganizationName string
	Email            string
	Username         string
	Password         string
	FirstName        string
	LastName         string
}

// Register creates the organization and its admin user in the master
// database, then provisions the tenant database. Provisioning failure does
// not fail registration; the request path re-provisions lazily.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error) {
	hashed, err := password.Hash(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	org, err := s.orgs.Create(ctx, domain.Organization{
		Name:        in.OrganizationName,
		Slug:        Slugify(in.OrganizationName),
		IsActive:    true,
		MaxUsers:    3,
		MaxProjects: 5,
	})
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.Create(ctx, domain.User{
		OrganizationID: org.ID,
		Email:          strings.ToLower(in.Email),
		Username:       in.Username,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		HashedPassword: hashed,
		Role:           domain.RoleAdmin,
		IsActive:       true,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.tenants.EnsureTenant(ctx, org.ID); err != nil {
		slog.Warn("tenant database provisioning deferred", "org_id", org.ID, "error", err)
	} else {
		s.tenants.EnsureIdentity(ctx, org.ID, user.ID)
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials against the master database and returns a token
// pair. Unknown logins and bad passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, login, pass string) (*domain.User, *TokenPair, error) {
	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}

	ok, err := password.Verify(pass, user.HashedPassword)
	if err != nil || !ok {
		return nil, nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, nil, domain.ErrForbidden
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// CurrentUser loads the active user behind a validated token subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// ValidateToken validates a JWT access token and returns the user id.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims["typ"] != "access" {
		return "", domain.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrUnauthorized
	}
	return sub, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims["typ"] != "refresh" {
		return nil, domain.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.CurrentUser(ctx, sub)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(user)
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) generateTokenPair(user *domain.User) (*TokenPair, error) {
	now := time.Now()

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"org": user.OrganizationID,
		"typ": "access",
		"iat": now.Unix(),
		"exp": now.Add(s.accessTTL).Unix(),
	})
	access, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	})
	refresh, err := refreshToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a display name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
