package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
	"github.com/jhoicas/co2-ledger/pkg/logger"
)

// LotComposition lo que la capa de sincronización blockchain necesita para reflejar un lote.
type LotComposition struct {
	Lot       *entity.Lot
	ChainCode uint8
	Inputs    []LotQuantity
}

// SyncService API de lectura/escritura para el colaborador de sincronización blockchain.
type SyncService struct {
	ops   repository.OperationRepository
	graph *CompositionGraph
	log   *logger.Logger
}

// NewSyncService construye el servicio.
func NewSyncService(ops repository.OperationRepository, graph *CompositionGraph, log *logger.Logger) *SyncService {
	if log == nil {
		log = logger.Nop()
	}
	return &SyncService{ops: ops, graph: graph, log: log.Component("sync")}
}

// CompositionForLot lote, código on-chain de su tipo y lista completa de entradas.
func (s *SyncService) CompositionForLot(ctx context.Context, lotID int64) (*LotComposition, error) {
	lot, err := s.graph.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	edges, err := s.graph.EdgesForOutput(ctx, lotID)
	if err != nil {
		return nil, err
	}
	inputs := make([]LotQuantity, 0, len(edges))
	for _, e := range edges {
		inputs = append(inputs, LotQuantity{LotID: e.InputLotID, Quantity: e.QuantityUsed})
	}
	return &LotComposition{Lot: lot, ChainCode: lot.Type.ChainCode(), Inputs: inputs}, nil
}

// PendingForCompany lotes de la empresa aún no reflejados on-chain.
func (s *SyncService) PendingForCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Lot, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.ops.ListPendingBlockchain(ctx, companyID, limit, offset)
}

// MarkBlockchainRegistered activa el flag una sola vez; repetir la llamada no es error.
// Solo la empresa dueña del lote puede marcarlo.
func (s *SyncService) MarkBlockchainRegistered(ctx context.Context, companyID string, lotID int64) error {
	lot, err := s.ops.GetByID(ctx, lotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return fmt.Errorf("%w: %d", domain.ErrLotNotFound, lotID)
	}
	if lot.CompanyID != companyID {
		return fmt.Errorf("%w: el lote %d no pertenece a %q", domain.ErrPermissionDenied, lotID, companyID)
	}
	changed, err := s.ops.MarkBlockchainRegistered(ctx, lotID)
	if err != nil {
		return err
	}
	if changed {
		s.log.Info().Int64("lot_id", lotID).Msg("lote registrado en blockchain")
	}
	return nil
}
