package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/authz"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	tokenName         = "auth_token"
	tokenSecretLength = 40
	tokenAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	emailTakenMessage = "The email has already been taken."
)

// AuthService handles registration, login and bearer token resolution.
type AuthService struct {
	userRepo   repositories.UserRepository
	tokenRepo  repositories.TokenRepository
	validate   *validation.Validator
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		validate:   validation.New(),
		bcryptCost: bcryptCost,
	}
}

// RegisterInput is the self-service sign-up payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries a freshly issued token and its owner.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Register creates a user with the user role and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	verr := apperr.NewValidationError()
	verr.Merge(s.validate.Struct(in))
	if !verr.Has("email") {
		taken, err := s.userRepo.EmailTaken(ctx, in.Email, 0)
		if err != nil {
			return nil, apperr.Internal("check email", err)
		}
		if taken {
			verr.Add("email", emailTakenMessage)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := hashInput(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Validation("email", emailTakenMessage)
		}
		return nil, apperr.Internal("register user", err)
	}
	return s.issue(ctx, user)
}

// Login checks credentials and issues a new token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if verr := s.validate.Struct(in); verr != nil {
		return nil, verr
	}
	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Internal("find user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// Resolve maps a plaintext bearer token to its principal and user.
func (s *AuthService) Resolve(ctx context.Context, plain string) (authz.Principal, *models.User, error) {
	id, secret, ok := splitToken(plain)
	if !ok {
		return authz.Principal{}, nil, apperr.ErrUnauthenticated
	}
	token, err := s.tokenRepo.GetByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return authz.Principal{}, nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		return authz.Principal{}, nil, apperr.Internal("resolve token", err)
	}
	if subtle.ConstantTimeCompare([]byte(hashSecret(secret)), []byte(token.TokenHash)) != 1 || token.User == nil {
		return authz.Principal{}, nil, apperr.ErrUnauthenticated
	}

	if err := s.tokenRepo.Touch(ctx, token.ID, time.Now()); err != nil {
		log.Printf("Warning: failed to record use of token %d: %v", token.ID, err)
	}
	p := authz.Principal{ID: token.User.ID, Role: token.User.Role, TokenID: token.ID}
	return p, token.User, nil
}

// Revoke invalidates a single token. Revoking an unknown token is a no-op.
func (s *AuthService) Revoke(ctx context.Context, tokenID uint) error {
	if err := s.tokenRepo.Delete(ctx, tokenID); err != nil {
		return apperr.Internal("revoke token", err)
	}
	return nil
}

// RevokeAllFor invalidates every token of a user.
func (s *AuthService) RevokeAllFor(ctx context.Context, userID uint) error {
	if err := s.tokenRepo.DeleteByUser(ctx, userID); err != nil {
		return apperr.Internal("revoke tokens", err)
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	secret, err := randomSecret(tokenSecretLength)
	if err != nil {
		return nil, apperr.Internal("generate token", err)
	}
	token := &models.PersonalAccessToken{
		UserID:    user.ID,
		Name:      tokenName,
		TokenHash: hashSecret(secret),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, apperr.Internal("store token", err)
	}
	return &AuthResult{
		AccessToken: fmt.Sprintf("%d|%s", token.ID, secret),
		TokenType:   "Bearer",
		User:        user,
	}, nil
}

// HashPassword hashes a plaintext password with bcrypt at cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// hashInput hashes a password taken from a request. bcrypt reads at most
// 72 bytes, which multi-byte input can exceed within the length rule.
func hashInput(password string, cost int) (string, error) {
	hash, err := HashPassword(password, cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Validation("password", "The password field must not be greater than 72 bytes.")
	}
	if err != nil {
		return "", apperr.Internal("hash password", err)
	}
	return hash, nil
}

// splitToken parses "<id>|<secret>".
func splitToken(plain string) (uint, string, bool) {
	idPart, secret, found := strings.Cut(plain, "|")
	if !found || secret == "" {
		return 0, "", false
	}
	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil || id == 0 {
		return 0, "", false
	}
	return uint(id), secret, true
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func randomSecret(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	limit := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(tokenAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
