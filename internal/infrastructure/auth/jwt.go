package auth

import (
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingCompanyID = errors.New("missing company_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Principal is the authenticated identity resolved from a session token:
// who is calling, with what role, for which company. It is immutable for
// the lifetime of a request and never persisted on its own.
type Principal struct {
	UserID    uuid.UUID
	Role      identity.Role
	CompanyID uuid.UUID
}

// Claims represents the session token payload
type Claims struct {
	jwt.RegisteredClaims
	CompanyID string    `json:"company_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	TokenType TokenType `json:"token_type"`
}

// Principal builds the request Principal from validated claims
func (c *Claims) Principal() (Principal, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return Principal{}, ErrInvalidClaims
	}
	companyID, err := uuid.Parse(c.CompanyID)
	if err != nil {
		return Principal{}, ErrInvalidClaims
	}
	return Principal{
		UserID:    userID,
		Role:      identity.Role(c.Role),
		CompanyID: companyID,
	}, nil
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// SessionUpdate lists exactly the fields a session refresh may alter.
// Anything not named here (role, company, user id) can never be changed
// through the session-update path.
type SessionUpdate struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// JWTService issues and validates session tokens
type JWTService struct {
	secret            []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	accessExp := cfg.AccessTokenExpiration
	if accessExp == 0 {
		accessExp = 168 * time.Hour // 7 days
	}
	refreshExp := cfg.RefreshTokenExpiration
	if refreshExp == 0 {
		refreshExp = 720 * time.Hour
	}
	return &JWTService{
		secret:            []byte(cfg.Secret),
		accessExpiration:  accessExp,
		refreshExpiration: refreshExp,
		issuer:            cfg.Issuer,
	}
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Role      identity.Role
	Name      string
	AvatarURL string
}

// GenerateTokenPair generates both access and refresh tokens
func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	now := time.Now()

	accessClaims := s.newClaims(input, now, now.Add(s.accessExpiration), TokenTypeAccess)
	accessToken, err := s.generateToken(accessClaims)
	if err != nil {
		return nil, err
	}

	refreshClaims := s.newClaims(input, now, now.Add(s.refreshExpiration), TokenTypeRefresh)
	refreshClaims.Name = ""
	refreshClaims.AvatarURL = ""
	refreshToken, err := s.generateToken(refreshClaims)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) newClaims(input GenerateTokenInput, now, expiresAt time.Time, tokenType TokenType) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		CompanyID: input.CompanyID.String(),
		UserID:    input.UserID.String(),
		Role:      string(input.Role),
		Name:      input.Name,
		AvatarURL: input.AvatarURL,
		TokenType: tokenType,
	}
}

func (s *JWTService) generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, TokenTypeRefresh)
}

func (s *JWTService) validateToken(tokenString string, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}
	if claims.CompanyID == "" {
		return nil, ErrMissingCompanyID
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	return claims, nil
}

// UpdateSession re-issues an access token with the given typed updates
// applied. Only the fields in SessionUpdate can change; identity, role and
// tenant always come from the existing validated token.
func (s *JWTService) UpdateSession(tokenString string, update SessionUpdate) (string, time.Time, error) {
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return "", time.Time{}, err
	}

	if update.Name != nil {
		claims.Name = *update.Name
	}
	if update.AvatarURL != nil {
		claims.AvatarURL = *update.AvatarURL
	}

	now := time.Now()
	expiresAt := now.Add(s.accessExpiration)
	claims.RegisteredClaims.ID = uuid.New().String()
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.NotBefore = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(expiresAt)

	token, err := s.generateToken(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// GetAccessTokenExpiration returns the access token lifetime
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.accessExpiration
}
