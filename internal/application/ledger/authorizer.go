package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

var _ Authorizer = (*CompanyRoleAuthorizer)(nil)

// CompanyRoleAuthorizer resuelve el rol desde companies.role.
type CompanyRoleAuthorizer struct {
	companies repository.CompanyRepository
}

// NewCompanyRoleAuthorizer construye el autorizador.
func NewCompanyRoleAuthorizer(companies repository.CompanyRepository) *CompanyRoleAuthorizer {
	return &CompanyRoleAuthorizer{companies: companies}
}

// CurrentRole devuelve ErrPermissionDenied si la empresa no existe o su rol no es válido.
func (a *CompanyRoleAuthorizer) CurrentRole(ctx context.Context, companyID string) (entity.Role, error) {
	company, err := a.companies.GetByID(ctx, companyID)
	if err != nil {
		return "", err
	}
	if company == nil {
		return "", fmt.Errorf("%w: empresa %s desconocida", domain.ErrPermissionDenied, companyID)
	}
	if !company.Role.Valid() {
		return "", fmt.Errorf("%w: rol %q inválido", domain.ErrPermissionDenied, company.Role)
	}
	return company.Role, nil
}
