package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vibast-solutions/ms-go-catalog/app/dto"
	"github.com/vibast-solutions/ms-go-catalog/app/entity"
	"github.com/vibast-solutions/ms-go-catalog/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameExists     = errors.New("a user with that username already exists")
	ErrEmailExists        = errors.New("a user with that email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// NotActivatedError is returned by Login when the account's most recent
// confirmation is missing or unconfirmed. It carries the email so the
// caller can tell the user where the activation link went.
type NotActivatedError struct {
	Email string
}

func (e *NotActivatedError) Error() string {
	return fmt.Sprintf("account not activated, confirmation pending for %s", e.Email)
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    uint64 `json:"user_id"`
	Fresh     bool   `json:"fresh,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uint64) error
}

type confirmationRepository interface {
	Create(ctx context.Context, confirmation *entity.Confirmation) error
	FindByID(ctx context.Context, id string) (*entity.Confirmation, error)
	FindMostRecentByUserID(ctx context.Context, userID uint64) (*entity.Confirmation, error)
	ListByUserID(ctx context.Context, userID uint64) ([]*entity.Confirmation, error)
	Update(ctx context.Context, confirmation *entity.Confirmation) error
}

type AuthService struct {
	userRepo         userRepository
	confirmationRepo confirmationRepository
	blocklist        *TokenBlocklist
	mailer           Mailer
	cfg              *config.Config
}

func NewAuthService(
	userRepo userRepository,
	confirmationRepo confirmationRepository,
	blocklist *TokenBlocklist,
	mailer Mailer,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		confirmationRepo: confirmationRepo,
		blocklist:        blocklist,
		mailer:           mailer,
		cfg:              cfg,
	}
}

// Register creates an inactive user together with its first confirmation
// and mails the activation link. There is no cross-step transaction: if
// the confirmation insert or the mail delivery fails, the created user is
// deleted again (confirmations cascade) before the error is returned.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*dto.RegisterResult, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	existing, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Activated:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	confirmation := &entity.Confirmation{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpireAt:  now.Add(s.cfg.ConfirmationTTL),
		Confirmed: false,
		CreatedAt: now,
	}

	if err := s.confirmationRepo.Create(ctx, confirmation); err != nil {
		s.rollbackUser(ctx, user.ID)
		return nil, err
	}

	if err := sendConfirmationEmail(ctx, s.mailer, s.cfg.PublicURL, user, confirmation.ID); err != nil {
		s.rollbackUser(ctx, user.ID)
		return nil, err
	}

	return &dto.RegisterResult{User: user}, nil
}

// rollbackUser compensates a partially completed registration. The
// rollback failure itself is only logged: the original error is the one
// the caller needs to see.
func (s *AuthService) rollbackUser(ctx context.Context, userID uint64) {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("failed to roll back user after registration failure")
	}
}

// Login verifies the credentials and, if the account is activated, issues
// a fresh access token and a refresh token. Unknown username and wrong
// password are deliberately indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	confirmation, err := s.confirmationRepo.FindMostRecentByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if confirmation == nil || !confirmation.Confirmed {
		return nil, &NotActivatedError{Email: user.Email}
	}

	accessToken, err := s.generateToken(user.ID, TokenTypeAccess, true, s.cfg.JWTAccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateToken(user.ID, TokenTypeRefresh, false, s.cfg.JWTRefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWTAccessTokenTTL.Seconds()),
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime. The
// revocation is process-wide and takes effect immediately.
func (s *AuthService) Logout(claims *Claims) {
	expiresAt := time.Now().Add(s.cfg.JWTRefreshTokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	s.blocklist.Add(claims.ID, expiresAt)
}

// Refresh issues a new access token for the identity carried by a valid
// refresh token. The new token is not fresh and the refresh token itself
// stays usable.
func (s *AuthService) Refresh(claims *Claims) (*dto.RefreshResult, error) {
	accessToken, err := s.generateToken(claims.UserID, TokenTypeAccess, false, s.cfg.JWTAccessTokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.cfg.JWTAccessTokenTTL.Seconds()),
	}, nil
}

// ValidateToken parses and verifies a token of the expected type and
// rejects revoked ones. Blocklisted tokens fail with ErrTokenRevoked even
// when their expiry has not passed.
func (s *AuthService) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	if s.blocklist.Contains(claims.ID) {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// GetUser looks up a user for the admin/testing resource.
func (s *AuthService) GetUser(ctx context.Context, userID uint64) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteUser removes a user and, via cascade, its confirmations.
func (s *AuthService) DeleteUser(ctx context.Context, userID uint64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(ctx, userID)
}

func (s *AuthService) generateToken(userID uint64, tokenType string, fresh bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Fresh:     fresh,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
