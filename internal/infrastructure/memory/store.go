// Package memory implementa los puertos de repositorio y el TxRunner sobre un estado en memoria.
// Cada transacción trabaja sobre una copia del estado confirmado y la publica al hacer commit;
// las transacciones se serializan con un mutex. Útil para desarrollo (DB_DRIVER=memory) y tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)

type warehouseKey struct {
	companyID string
	lotID     int64
}

type thresholdKey struct {
	op        entity.OperationType
	productID string
}

type state struct {
	lots          map[int64]entity.Lot
	edges         []entity.CompositionEdge
	edgeSeq       int64
	warehouse     map[warehouseKey]entity.WarehouseEntry
	thresholds    map[thresholdKey]entity.Threshold
	companies     map[string]entity.Company
	accruals      map[int64]entity.TokenAccrual
	compensations []entity.Compensation
	users         map[string]entity.User // por email
}

func newState() state {
	return state{
		lots:       map[int64]entity.Lot{},
		warehouse:  map[warehouseKey]entity.WarehouseEntry{},
		thresholds: map[thresholdKey]entity.Threshold{},
		companies:  map[string]entity.Company{},
		accruals:   map[int64]entity.TokenAccrual{},
		users:      map[string]entity.User{},
	}
}

func (s state) clone() state {
	c := state{
		lots:          make(map[int64]entity.Lot, len(s.lots)),
		edges:         append([]entity.CompositionEdge(nil), s.edges...),
		edgeSeq:       s.edgeSeq,
		warehouse:     make(map[warehouseKey]entity.WarehouseEntry, len(s.warehouse)),
		thresholds:    make(map[thresholdKey]entity.Threshold, len(s.thresholds)),
		companies:     make(map[string]entity.Company, len(s.companies)),
		accruals:      make(map[int64]entity.TokenAccrual, len(s.accruals)),
		compensations: append([]entity.Compensation(nil), s.compensations...),
		users:         make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	for k, v := range s.warehouse {
		c.warehouse[k] = v
	}
	for k, v := range s.thresholds {
		c.thresholds[k] = v
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.accruals {
		c.accruals[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Option configura el Store.
type Option func(*Store)

// WithFirstLotID primer lot_id que entregará la secuencia.
func WithFirstLotID(id int64) Option {
	return func(s *Store) { s.lotSeq.Store(id - 1) }
}

// Store estado en memoria con semántica transaccional.
type Store struct {
	mu    sync.RWMutex
	state state
	// Como una secuencia de Postgres, no retrocede con el rollback.
	lotSeq atomic.Int64
}

// NewStore crea un store vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{state: newState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// accessor abstrae si el repositorio lee el estado confirmado o la copia de una tx.
type accessor interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

type committed struct{ store *Store }

func (c committed) read(fn func(st *state) error) error {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return fn(&c.store.state)
}

// write fuera de tx: cada llamada es su propia transacción.
func (c committed) write(fn func(st *state) error) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	working := c.store.state.clone()
	if err := fn(&working); err != nil {
		return err
	}
	c.store.state = working
	return nil
}

type txView struct{ st *state }

func (t txView) read(fn func(st *state) error) error  { return fn(t.st) }
func (t txView) write(fn func(st *state) error) error { return fn(t.st) }

// Run ejecuta fn con repositorios sobre una copia del estado; publica la copia si fn devuelve nil.
// Los repositorios de Store (fuera de tx) no deben usarse dentro de fn.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: "begin", Retryable: true, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(ctx, s.repos(txView{st: &working})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: "commit", Retryable: true, Err: err}
	}
	s.state = working
	return nil
}

func (s *Store) repos(a accessor) repository.TxRepos {
	return repository.TxRepos{
		Operations:    &operationRepo{a: a, seq: &s.lotSeq},
		Composition:   &compositionRepo{a: a},
		Warehouse:     &warehouseRepo{a: a},
		Companies:     &companyRepo{a: a},
		Accruals:      &accrualRepo{a: a},
		Compensations: &compensationRepo{a: a},
	}
}

// Repositorios sobre el estado confirmado (equivalente al pool).

func (s *Store) Operations() repository.OperationRepository {
	return &operationRepo{a: committed{s}, seq: &s.lotSeq}
}
func (s *Store) Composition() repository.CompositionRepository {
	return &compositionRepo{a: committed{s}}
}
func (s *Store) Warehouse() repository.WarehouseRepository { return &warehouseRepo{a: committed{s}} }
func (s *Store) Companies() repository.CompanyRepository   { return &companyRepo{a: committed{s}} }
func (s *Store) Accruals() repository.TokenAccrualRepository {
	return &accrualRepo{a: committed{s}}
}
func (s *Store) Compensations() repository.CompensationRepository {
	return &compensationRepo{a: committed{s}}
}
func (s *Store) Thresholds() repository.ThresholdRepository { return &thresholdRepo{a: committed{s}} }
func (s *Store) Users() repository.UserRepository           { return &userRepo{a: committed{s}} }

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func notFound(what string, id any) error {
	return fmt.Errorf("%w: %s %v", domain.ErrNotFound, what, id)
}
