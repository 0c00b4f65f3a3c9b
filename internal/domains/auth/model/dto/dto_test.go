package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salon/infras/jwt"
	"salon/internal/domains/auth/model/dto"
	"salon/shared/constant"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, tokenPair.ExpiresIn, response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	fullName := "Jane Admin"

	req := dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "plaintext",
		FullName: &fullName,
	}

	user := req.ToUserModel("creator-id", "hashed-password")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "hashed-password", user.Password)
	assert.Equal(t, constant.RoleAdmin, user.Role, "role defaults to admin when omitted")
	assert.Equal(t, &fullName, user.FullName)
	assert.True(t, user.Active)
	assert.Equal(t, "creator-id", user.CreatedBy)
}

func TestRegisterRequest_ToUserModelKeepsRole(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "root@example.com",
		Password: "plaintext",
		Role:     constant.RoleSuperAdmin,
	}

	user := req.ToUserModel("creator-id", "hashed-password")

	assert.Equal(t, constant.RoleSuperAdmin, user.Role)
}
