package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/cleancity/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	user := &models.User{
		UserID: "u1",
		Email:  "u1@example.com",
		Role:   models.RoleWorker,
	}

	token, err := GenerateToken(user, "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAndGetClaims(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["user_id"])
	assert.Equal(t, "u1@example.com", claims["email"])
	assert.Equal(t, models.RoleWorker, claims["role"])
}

func TestValidateToken_WrongSecret(t *testing.T) {
	user := &models.User{UserID: "u1", Email: "u1@example.com", Role: models.RoleResident}
	token, err := GenerateToken(user, "secret-a")
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(token, "secret-b")
	assert.Error(t, err)
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	_, err := GenerateToken(&models.User{UserID: "u1"}, "")
	assert.Error(t, err)
}
