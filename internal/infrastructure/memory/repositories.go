package memory

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

type operationRepo struct {
	a   accessor
	seq *atomic.Int64
}

func (r *operationRepo) NextLotID(ctx context.Context) (int64, error) {
	return r.seq.Add(1), nil
}

func (r *operationRepo) Create(ctx context.Context, lot *entity.Lot) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.lots[lot.LotID]; exists {
			return fmt.Errorf("%w: lote %d", domain.ErrDuplicate, lot.LotID)
		}
		if _, ok := st.companies[lot.CompanyID]; !ok {
			return fmt.Errorf("%w: empresa %s desconocida", domain.ErrInvalidInput, lot.CompanyID)
		}
		if lot.Quantity <= 0 || !lot.Type.Valid() {
			return fmt.Errorf("%w: lote %d", domain.ErrInvalidInput, lot.LotID)
		}
		st.lots[lot.LotID] = *lot
		return nil
	})
}

func (r *operationRepo) GetByID(ctx context.Context, lotID int64) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.a.read(func(st *state) error {
		if lot, ok := st.lots[lotID]; ok {
			out = &lot
		}
		return nil
	})
	return out, err
}

func (r *operationRepo) MarkBlockchainRegistered(ctx context.Context, lotID int64) (bool, error) {
	var changed bool
	err := r.a.write(func(st *state) error {
		lot, ok := st.lots[lotID]
		if !ok || lot.BlockchainRegistered {
			return nil
		}
		lot.BlockchainRegistered = true
		st.lots[lotID] = lot
		changed = true
		return nil
	})
	return changed, err
}

func (r *operationRepo) ListPendingBlockchain(ctx context.Context, companyID string, limit, offset int) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.a.read(func(st *state) error {
		all := sortedValues(st.lots, func(a, b entity.Lot) bool { return a.LotID < b.LotID })
		pending := make([]entity.Lot, 0)
		for _, lot := range all {
			if lot.CompanyID == companyID && !lot.BlockchainRegistered {
				pending = append(pending, lot)
			}
		}
		for _, lot := range paginate(pending, limit, offset) {
			lot := lot
			out = append(out, &lot)
		}
		return nil
	})
	return out, err
}

type compositionRepo struct{ a accessor }

func (r *compositionRepo) Create(ctx context.Context, edge *entity.CompositionEdge) error {
	return r.a.write(func(st *state) error {
		if edge.QuantityUsed <= 0 {
			return fmt.Errorf("%w: quantity_used debe ser > 0", domain.ErrInvalidInput)
		}
		for _, id := range []int64{edge.OutputLotID, edge.InputLotID} {
			if _, ok := st.lots[id]; !ok {
				return fmt.Errorf("%w: %d", domain.ErrLotNotFound, id)
			}
		}
		st.edgeSeq++
		edge.ID = st.edgeSeq
		st.edges = append(st.edges, *edge)
		return nil
	})
}

func (r *compositionRepo) ListByOutput(ctx context.Context, outputLotID int64) ([]*entity.CompositionEdge, error) {
	var out []*entity.CompositionEdge
	err := r.a.read(func(st *state) error {
		for _, e := range st.edges {
			if e.OutputLotID == outputLotID {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	return out, err
}

type warehouseRepo struct{ a accessor }

func (r *warehouseRepo) Get(ctx context.Context, companyID string, lotID int64) (*entity.WarehouseEntry, error) {
	var out *entity.WarehouseEntry
	err := r.a.read(func(st *state) error {
		entry, ok := st.warehouse[warehouseKey{companyID, lotID}]
		if !ok {
			entry = entity.WarehouseEntry{CompanyID: companyID, LotID: lotID}
		}
		out = &entry
		return nil
	})
	return out, err
}

// GetForUpdate: el mutex de la tx ya serializa el acceso.
func (r *warehouseRepo) GetForUpdate(ctx context.Context, companyID string, lotID int64) (*entity.WarehouseEntry, error) {
	return r.Get(ctx, companyID, lotID)
}

func (r *warehouseRepo) Upsert(ctx context.Context, entry *entity.WarehouseEntry) error {
	return r.a.write(func(st *state) error {
		if entry.Quantity < 0 {
			return fmt.Errorf("%w: cantidad negativa en bodega", domain.ErrInvalidInput)
		}
		if _, ok := st.companies[entry.CompanyID]; !ok {
			return fmt.Errorf("%w: empresa %s desconocida", domain.ErrInvalidInput, entry.CompanyID)
		}
		if _, ok := st.lots[entry.LotID]; !ok {
			return fmt.Errorf("%w: %d", domain.ErrLotNotFound, entry.LotID)
		}
		st.warehouse[warehouseKey{entry.CompanyID, entry.LotID}] = *entry
		return nil
	})
}

func (r *warehouseRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.WarehouseEntry, error) {
	var out []*entity.WarehouseEntry
	err := r.a.read(func(st *state) error {
		mine := make([]entity.WarehouseEntry, 0)
		for _, e := range sortedValues(st.warehouse, func(a, b entity.WarehouseEntry) bool { return a.LotID < b.LotID }) {
			if e.CompanyID == companyID {
				mine = append(mine, e)
			}
		}
		for _, e := range paginate(mine, limit, offset) {
			e := e
			out = append(out, &e)
		}
		return nil
	})
	return out, err
}

type thresholdRepo struct{ a accessor }

func (r *thresholdRepo) Get(ctx context.Context, op entity.OperationType, productID string) (*entity.Threshold, error) {
	var out *entity.Threshold
	err := r.a.read(func(st *state) error {
		if t, ok := st.thresholds[thresholdKey{op, productID}]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *thresholdRepo) Upsert(ctx context.Context, t *entity.Threshold) error {
	return r.a.write(func(st *state) error {
		st.thresholds[thresholdKey{t.OperationType, t.ProductID}] = *t
		return nil
	})
}

func (r *thresholdRepo) List(ctx context.Context) ([]*entity.Threshold, error) {
	var out []*entity.Threshold
	err := r.a.read(func(st *state) error {
		for _, t := range sortedValues(st.thresholds, func(a, b entity.Threshold) bool {
			if a.OperationType != b.OperationType {
				return a.OperationType < b.OperationType
			}
			return a.ProductID < b.ProductID
		}) {
			t := t
			out = append(out, &t)
		}
		return nil
	})
	return out, err
}

type companyRepo struct{ a accessor }

func (r *companyRepo) Create(ctx context.Context, c *entity.Company) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.companies[c.ID]; exists {
			return fmt.Errorf("%w: empresa %s", domain.ErrDuplicate, c.ID)
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.a.read(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *companyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.a.read(func(st *state) error {
		all := sortedValues(st.companies, func(a, b entity.Company) bool { return a.Name < b.Name })
		for _, c := range paginate(all, limit, offset) {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *companyRepo) add(id string, apply func(c *entity.Company)) error {
	return r.a.write(func(st *state) error {
		c, ok := st.companies[id]
		if !ok {
			return notFound("empresa", id)
		}
		apply(&c)
		st.companies[id] = c
		return nil
	})
}

func (r *companyRepo) AddCO2Emitted(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.add(id, func(c *entity.Company) { c.CO2EmittedTotal = c.CO2EmittedTotal.Add(delta) })
}

func (r *companyRepo) AddCO2Compensated(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.add(id, func(c *entity.Company) { c.CO2CompensatedTotal = c.CO2CompensatedTotal.Add(delta) })
}

func (r *companyRepo) AddTokens(ctx context.Context, id string, delta decimal.Decimal) error {
	return r.add(id, func(c *entity.Company) { c.TokenBalance = c.TokenBalance.Add(delta) })
}

type accrualRepo struct{ a accessor }

func (r *accrualRepo) Create(ctx context.Context, accrual *entity.TokenAccrual) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.accruals[accrual.LotID]; exists {
			return fmt.Errorf("%w: lote %d", domain.ErrAlreadyAccrued, accrual.LotID)
		}
		if _, ok := st.lots[accrual.LotID]; !ok {
			return fmt.Errorf("%w: %d", domain.ErrLotNotFound, accrual.LotID)
		}
		st.accruals[accrual.LotID] = *accrual
		return nil
	})
}

func (r *accrualRepo) GetByLot(ctx context.Context, lotID int64) (*entity.TokenAccrual, error) {
	var out *entity.TokenAccrual
	err := r.a.read(func(st *state) error {
		if a, ok := st.accruals[lotID]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

type compensationRepo struct{ a accessor }

func (r *compensationRepo) Create(ctx context.Context, c *entity.Compensation) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.companies[c.CompanyID]; !ok {
			return notFound("empresa", c.CompanyID)
		}
		st.compensations = append(st.compensations, *c)
		return nil
	})
}

func (r *compensationRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Compensation, error) {
	var out []*entity.Compensation
	err := r.a.read(func(st *state) error {
		mine := make([]entity.Compensation, 0)
		for i := len(st.compensations) - 1; i >= 0; i-- {
			if st.compensations[i].CompanyID == companyID {
				mine = append(mine, st.compensations[i])
			}
		}
		for _, c := range paginate(mine, limit, offset) {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

type userRepo struct{ a accessor }

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	return r.a.write(func(st *state) error {
		email := strings.ToLower(u.Email)
		if _, exists := st.users[email]; exists {
			return fmt.Errorf("%w: email %s", domain.ErrDuplicate, u.Email)
		}
		if _, ok := st.companies[u.CompanyID]; !ok {
			return notFound("empresa", u.CompanyID)
		}
		st.users[email] = *u
		return nil
	})
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		if u, ok := st.users[strings.ToLower(email)]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}
