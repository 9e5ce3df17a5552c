package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nobzo-blog/internal/cache"
	"nobzo-blog/internal/model"
	"nobzo-blog/internal/pkg/jwtutil"
	"nobzo-blog/internal/repository"
)

// Identity is the authenticated requester attached to a request.
type Identity struct {
	UserID uint
	Email  string
}

type AuthService struct {
	userRepo    *repository.UserRepository
	revocations *cache.RevocationCache
	tokens      *jwtutil.Manager
	now         func() time.Time
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=128"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Normalize trims the name and case-folds the email before validation.
func (in *RegisterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Normalize() {
	in.Email = normalizeEmail(in.Email)
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(userRepo *repository.UserRepository, revocations *cache.RevocationCache, tokens *jwtutil.Manager) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revocations: revocations,
		tokens:      tokens,
		now:         time.Now,
	}
}

// TokenTTL is the lifetime of issued tokens, used for the session cookie max-age.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Normalize()

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Name:  input.Name,
		Email: input.Email,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login answers ErrInvalidCredential both for an unknown email and for a wrong
// password so callers cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Normalize()

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(input.Password) {
		return nil, ErrInvalidCredential
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Logout blacklists token for a full token lifetime from now. An empty token
// is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.revocations.Revoke(ctx, token, s.now().Add(s.tokens.TTL()))
}

// Authenticate resolves a raw token into an identity. The revocation list is
// consulted before the signature so a logged-out token is reported as such
// even while it is still within its signed validity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
