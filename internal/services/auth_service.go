package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"akun/internal/apperr"
	"akun/internal/models"
	"akun/internal/repositories"
	"akun/internal/session"
	"akun/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and session resolution.
type AuthService struct {
	userRepo   repositories.UserRepository
	sessions   session.Store
	events     EventPublisher
	logger     *logrus.Logger
	jwtSecret  []byte
	tokenDurat time.Duration // lifetime of both the token and its session
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, sessions session.Store, jwtSecret string, tokenDurat time.Duration, events EventPublisher, logger *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		events:     events,
		logger:     orStandard(logger),
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenDurat,
	}
}

// RegisterUser validates the sign-up data, hashes the password and saves the user.
func (s *AuthService) RegisterUser(name, email, password string) (*models.User, error) {
	fields, err := validation.ValidateRegistration(name, email, password, s.userRepo)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(fields.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Name: fields.Name, Email: fields.Email, Password: string(hashedPassword)}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	publish(s.events, s.logger, EventUserRegistered, userEvent{ID: user.ID, Email: user.Email})
	return user, nil
}

// LoginUser checks the credentials, opens a session and returns a signed
// token referencing it.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(validation.NormalizeEmail(email))
	if err != nil {
		if !apperr.IsNotFound(err) {
			s.logger.WithError(err).Error("login lookup failed")
		}
		return "", fmt.Errorf("invalid credentials")
	}
	if !s.VerifyPassword(user, password) {
		return "", fmt.Errorf("invalid credentials")
	}

	rec, err := s.sessions.Create(ctx, user.ID, s.tokenDurat)
	if err != nil {
		return "", fmt.Errorf("failed to open session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"sid":     rec.ID,
		"exp":     rec.ExpiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Authenticate resolves a token into the session of the request. A revoked
// session or a deleted user yields apperr.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.Session, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}
	sid, _ := claims["sid"].(string)
	userID, _ := claims["user_id"].(string)
	if sid == "" || userID == "" {
		return nil, fmt.Errorf("%w: token is missing claims", apperr.ErrUnauthenticated)
	}

	rec, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("%w: session expired or revoked", apperr.ErrUnauthenticated)
		}
		return nil, err
	}
	if rec.UserID != userID {
		return nil, fmt.Errorf("%w: session does not belong to token subject", apperr.ErrUnauthenticated)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user no longer exists", apperr.ErrUnauthenticated)
		}
		return nil, err
	}
	return &models.Session{ID: rec.ID, Actor: user, ExpiresAt: rec.ExpiresAt}, nil
}

// Logout revokes the session of the request.
func (s *AuthService) Logout(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return apperr.ErrUnauthenticated
	}
	if err := s.sessions.Revoke(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// VerifyPassword compares candidate with the stored hash of user.
func (s *AuthService) VerifyPassword(user *models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}
