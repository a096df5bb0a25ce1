package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"plancheck/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles reviewer authentication
type AuthService struct {
	reviewerUsername string
	reviewerPassword string
	jwtSecret        []byte
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	username := os.Getenv("REVIEWER_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("REVIEWER_PASSWORD")
	if password == "" {
		password = "password123"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		reviewerUsername: username,
		reviewerPassword: password,
		jwtSecret:        []byte(secret),
	}
}

// Login validates credentials and returns a token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.reviewerUsername || password != s.reviewerPassword {
		return nil, ErrInvalidCredentials
	}

	reviewerID := "reviewer_" + uuid.New().String()[:8]

	claims := &model.ReviewerClaims{
		ReviewerID: reviewerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:      tokenString,
		ReviewerID: reviewerID,
	}, nil
}

// ValidateToken validates a reviewer JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.ReviewerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ReviewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ReviewerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
