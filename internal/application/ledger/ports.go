package ledger

import (
	"context"

	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback completo en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error
}

// Authorizer colaborador de autorización: rol actual de una empresa.
type Authorizer interface {
	CurrentRole(ctx context.Context, companyID string) (entity.Role, error)
}

// CostCache caché de costos de CO2 por lote. Los lotes son inmutables una vez confirmados,
// así que una entrada nunca queda obsoleta.
type CostCache interface {
	Get(ctx context.Context, lotID int64) (provenance.Cost, bool)
	Set(ctx context.Context, lotID int64, cost provenance.Cost)
}

type nopCache struct{}

func (nopCache) Get(context.Context, int64) (provenance.Cost, bool) { return provenance.Cost{}, false }
func (nopCache) Set(context.Context, int64, provenance.Cost)        {}
