package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, role, co2_emitted_total, co2_compensated_total, token_balance, created_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `INSERT INTO companies (` + companyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, string(c.Role), c.CO2EmittedTotal, c.CO2CompensatedTotal, c.TokenBalance, c.CreatedAt,
	)
	return wrapErr("insert company", err)
}

// GetByID obtiene una empresa por ID; nil, nil si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get company", err)
	}
	return c, nil
}

// List lista empresas por nombre.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrapErr("list companies", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, wrapErr("scan company", err)
		}
		list = append(list, c)
	}
	return list, wrapErr("list companies", rows.Err())
}

// AddCO2Emitted incremento atómico de co2_emitted_total.
func (r *CompanyRepo) AddCO2Emitted(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.add(ctx, "co2_emitted_total", id, delta)
}

// AddCO2Compensated incremento atómico de co2_compensated_total.
func (r *CompanyRepo) AddCO2Compensated(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.add(ctx, "co2_compensated_total", id, delta)
}

// AddTokens suma (o resta) al saldo de tokens.
func (r *CompanyRepo) AddTokens(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.add(ctx, "token_balance", id, delta)
}

// column nunca viene de entrada externa.
func (r *CompanyRepo) add(ctx context.Context, column, id string, delta decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE companies SET %[1]s = %[1]s + $2 WHERE id = $1`, column)
	tag, err := r.q.Exec(ctx, query, id, delta)
	if err != nil {
		return wrapErr("update "+column, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("empresa %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var (
		c    entity.Company
		role string
	)
	if err := row.Scan(&c.ID, &c.Name, &role, &c.CO2EmittedTotal, &c.CO2CompensatedTotal, &c.TokenBalance, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Role = entity.Role(role)
	return &c, nil
}
