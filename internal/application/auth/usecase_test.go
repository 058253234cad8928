package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/testutil/memrepo"
	"github.com/jhoicas/supply-chain-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*AuthUseCase, *memrepo.DB) {
	t.Helper()
	db := memrepo.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3creta"), bcrypt.MinCost)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, db.Users().Create(ctx, &entity.User{
		ID: "u-1", Username: "gerente", PasswordHash: string(hash), FullName: "Ana Gerente",
		Role: entity.RoleStoreManager, StoreID: "store-1", IsActive: true,
	}))
	require.NoError(t, db.Users().Create(ctx, &entity.User{
		ID: "u-2", Username: "inactivo", PasswordHash: string(hash), Role: entity.RoleInventoryStaff,
	}))
	return NewAuthUseCase(db.Users(), JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "supply-chain-api"}), db
}

func TestLogin_GeneraTokenConIdentidad(t *testing.T) {
	uc, _ := newAuth(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "gerente", Password: "s3creta"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, "u-1", out.User.ID)

	id, err := jwt.Parse(secret, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.Identity{UserID: "u-1", StoreID: "store-1", Role: entity.RoleStoreManager}, id)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	cases := map[string]dto.LoginRequest{
		"password incorrecto": {Username: "gerente", Password: "otra"},
		"usuario inexistente": {Username: "nadie", Password: "s3creta"},
		"usuario inactivo":    {Username: "inactivo", Password: "s3creta"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Login(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestProfile(t *testing.T) {
	uc, _ := newAuth(t)

	p, err := uc.Profile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Gerente", p.FullName)

	_, err = uc.Profile(context.Background(), "u-404")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
