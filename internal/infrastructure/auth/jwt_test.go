package auth

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key",
		AccessTokenExpiration:  168 * time.Hour,
		RefreshTokenExpiration: 720 * time.Hour,
		Issuer:                 "crm-backend",
	})
}

func testInput() GenerateTokenInput {
	return GenerateTokenInput{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Role:      identity.RoleAdmin,
		Name:      "Ada Lovelace",
		AvatarURL: "https://cdn.example.com/ada.png",
	}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestService()
	input := testInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.CompanyID.String(), claims.CompanyID)
	assert.Equal(t, string(identity.RoleAdmin), claims.Role)
	assert.Equal(t, "Ada Lovelace", claims.Name)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	principal, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, principal.UserID)
	assert.Equal(t, input.CompanyID, principal.CompanyID)
	assert.Equal(t, identity.RoleAdmin, principal.Role)
}

func TestValidateRejectsWrongTokenType(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                "another-secret",
		AccessTokenExpiration: time.Hour,
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken(pair.AccessToken + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key",
		AccessTokenExpiration: -time.Minute,
	})
	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestUpdateSessionAppliesOnlyProvidedFields(t *testing.T) {
	svc := newTestService()
	input := testInput()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	newName := "Ada King"
	token, expiresAt, err := svc.UpdateSession(pair.AccessToken, SessionUpdate{Name: &newName})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", claims.Name)
	// Untouched fields carry over unchanged
	assert.Equal(t, input.AvatarURL, claims.AvatarURL)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.CompanyID.String(), claims.CompanyID)
	assert.Equal(t, string(identity.RoleAdmin), claims.Role)
}

func TestUpdateSessionRejectsInvalidToken(t *testing.T) {
	svc := newTestService()
	name := "x"
	_, _, err := svc.UpdateSession("garbage", SessionUpdate{Name: &name})
	assert.Error(t, err)
}

func TestDefaultExpirationIsSevenDays(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s"})
	assert.Equal(t, 168*time.Hour, svc.GetAccessTokenExpiration())
}
