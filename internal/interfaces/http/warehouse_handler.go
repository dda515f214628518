package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/co2-ledger/internal/application/dto"
	"github.com/jhoicas/co2-ledger/internal/application/ledger"
)

// WarehouseHandler consulta la bodega de la empresa del token (protegido).
type WarehouseHandler struct {
	ledger *ledger.WarehouseLedger
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(l *ledger.WarehouseLedger) *WarehouseHandler {
	return &WarehouseHandler{ledger: l}
}

// List godoc
// @Summary      Listar lotes en bodega
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.WarehouseListResponse
// @Router       /api/warehouse [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	entries, err := h.ledger.List(c.UserContext(), companyID, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.WarehouseEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toWarehouseEntry(e))
	}
	return c.JSON(dto.WarehouseListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}})
}

// GetBalance godoc
// @Summary      Cantidad disponible de un lote
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        lotId  path  int  true  "lot_id"
// @Success      200    {object}  dto.WarehouseEntryResponse
// @Router       /api/warehouse/{lotId} [get]
func (h *WarehouseHandler) GetBalance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	lotID, ok := pathLotID(c, "lotId")
	if !ok {
		return invalidLotID(c)
	}
	qty, err := h.ledger.Balance(c.UserContext(), companyID, lotID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.WarehouseEntryResponse{CompanyID: companyID, LotID: lotID, Quantity: qty})
}
