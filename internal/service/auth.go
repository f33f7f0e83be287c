package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nutritrack/backend/internal/models"
	"github.com/nutritrack/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidEmail       = errors.New("a valid email address is required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const tokenTTL = 24 * time.Hour

// AuthService issues and validates JWTs. Login is email-first: an unknown
// email creates the account on the spot. A password is optional at signup;
// once set, it is required on every later login.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

// Login finds or creates the user for the given email and returns a signed
// token plus the user record.
func (s *AuthService) Login(ctx context.Context, email, name, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", nil, ErrInvalidEmail
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: name, Email: email}
		if user.Name == "" {
			user.Name = strings.SplitN(email, "@", 2)[0]
		}
		if password != "" {
			hashed, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if hashErr != nil {
				return "", nil, hashErr
			}
			user.PasswordHash = string(hashed)
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return "", nil, err
		}
	case err != nil:
		return "", nil, err
	default:
		if user.PasswordHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
				return "", nil, ErrInvalidCredentials
			}
		}
	}

	token, err := s.generateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *AuthService) generateToken(userID uuid.UUID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"email":   email,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	out := &types.TokenClaims{UserID: userID}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	return out, nil
}
