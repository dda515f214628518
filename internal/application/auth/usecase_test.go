package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/co2-ledger/internal/application/auth"
	"github.com/jhoicas/co2-ledger/internal/application/dto"
	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/co2-ledger/pkg/jwt"
)

const secret = "auth-test-secret"

func newUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Companies().Create(context.Background(), &entity.Company{ID: "trans-1", Name: "Transportes", Role: entity.RoleCarrier}))
	return auth.NewAuthUseCase(s.Users(), s.Companies(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
}

func TestLogin_TokenConRolDeLaEmpresa(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Ops@Trans.co", Password: "secreto123", CompanyID: "trans-1"})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ops@trans.co", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "Transportista", res.User.Role)

	claims, err := pkgjwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "trans-1", claims.CompanyID)
	assert.Equal(t, string(entity.RoleCarrier), claims.Role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ops@trans.co", Password: "secreto123", CompanyID: "trans-1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ops@trans.co", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@trans.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegisterUser_EmailDuplicadoYEmpresaInexistente(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ops@trans.co", Password: "secreto123", CompanyID: "trans-1"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ops@trans.co", Password: "secreto123", CompanyID: "trans-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@y.co", Password: "secreto123", CompanyID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterUser_SinEmpresa(t *testing.T) {
	uc := newUseCase(t)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "ops@trans.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
