package application

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammstro/service-pricing/internal/auth"
)

// ErrInvalidCredentials is returned for any failed login, without detail.
var ErrInvalidCredentials = errors.New("invalid email or password")

// LoginRequest holds admin login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPairDTO is the login response.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService authenticates the bootstrap admin account against configured
// credentials and issues JWTs. This replaces the legacy client-side passcode
// gate, which was a display toggle rather than a security boundary.
type AuthService struct {
	adminID      uuid.UUID
	adminEmail   string
	passwordHash string
	jwtManager   *auth.JWTManager
	logger       *zap.Logger
}

// NewAuthService creates an AuthService for the configured admin account.
func NewAuthService(adminEmail, passwordHash string, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	// Stable admin identity derived from the email so tokens survive restarts.
	adminID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(adminEmail))
	return &AuthService{
		adminID:      adminID,
		adminEmail:   adminEmail,
		passwordHash: passwordHash,
		jwtManager:   jwtManager,
		logger:       logger,
	}
}

// Login verifies credentials and returns a token pair with the admin role.
func (s *AuthService) Login(req LoginRequest) (*TokenPairDTO, error) {
	if s.adminEmail == "" || s.passwordHash == "" {
		s.logger.Warn("login attempted but no admin account is configured")
		return nil, ErrInvalidCredentials
	}
	if req.Email != s.adminEmail {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.jwtManager.GenerateTokenPair(s.adminID, s.adminEmail, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("email", s.adminEmail))
	return &TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}
