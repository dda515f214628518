package http

import (
	"github.com/jhoicas/co2-ledger/internal/application/dto"
	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/provenance"
)

func toLotResponse(l *entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		LotID:                l.LotID,
		TransactionID:        l.TransactionID,
		CompanyID:            l.CompanyID,
		ProductID:            l.ProductID,
		OperationType:        l.Type.String(),
		Quantity:             l.Quantity,
		CO2Emitted:           l.CO2Emitted,
		CreatedAt:            l.CreatedAt,
		BlockchainRegistered: l.BlockchainRegistered,
	}
}

func toLotList(lots []*entity.Lot, limit, offset int) dto.LotListResponse {
	items := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		items = append(items, toLotResponse(l))
	}
	return dto.LotListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}
}

// toProvenanceNode expande el árbol; los sub-grafos compartidos se repiten en la salida.
func toProvenanceNode(n *provenance.Node, quantityUsed int64, r *ledger.Rollup) dto.ProvenanceNode {
	cost := r.Of(n.LotID)
	out := dto.ProvenanceNode{
		LotID:        n.LotID,
		QuantityUsed: quantityUsed,
		Missing:      n.Missing(),
		TotalCost:    cost.Total,
		UnitCost:     cost.Unit,
	}
	if n.Lot != nil {
		lot := toLotResponse(n.Lot)
		out.Lot = &lot
	}
	for _, in := range n.Inputs {
		out.Inputs = append(out.Inputs, toProvenanceNode(in.Node, in.QuantityUsed, r))
	}
	return out
}

func toCompositionResponse(lc *ledger.LotComposition) dto.CompositionResponse {
	inputs := make([]dto.LotQuantityRequest, 0, len(lc.Inputs))
	for _, in := range lc.Inputs {
		inputs = append(inputs, dto.LotQuantityRequest{LotID: in.LotID, Quantity: in.Quantity})
	}
	return dto.CompositionResponse{Lot: toLotResponse(lc.Lot), ChainCode: lc.ChainCode, Inputs: inputs}
}

func toWarehouseEntry(e *entity.WarehouseEntry) dto.WarehouseEntryResponse {
	return dto.WarehouseEntryResponse{CompanyID: e.CompanyID, LotID: e.LotID, Quantity: e.Quantity, UpdatedAt: e.UpdatedAt}
}

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Role:                string(c.Role),
		CO2EmittedTotal:     c.CO2EmittedTotal,
		CO2CompensatedTotal: c.CO2CompensatedTotal,
		TokenBalance:        c.TokenBalance,
		CreatedAt:           c.CreatedAt,
	}
}

func toCompensationResponse(c *entity.Compensation) dto.CompensationResponse {
	return dto.CompensationResponse{
		ID:             c.ID,
		CompanyID:      c.CompanyID,
		CO2Compensated: c.CO2Compensated,
		Description:    c.Description,
		CreatedAt:      c.CreatedAt,
	}
}

func toAccrualResponse(a *entity.TokenAccrual) dto.TokenAccrualResponse {
	return dto.TokenAccrualResponse{
		LotID:     a.LotID,
		CompanyID: a.CompanyID,
		Threshold: a.Threshold,
		ActualCO2: a.ActualCO2,
		Delta:     a.Delta,
		CreatedAt: a.CreatedAt,
	}
}
