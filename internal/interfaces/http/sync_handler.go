package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/co2-ledger/internal/application/ledger"
)

// SyncHandler API para el proceso de sincronización blockchain (protegido).
type SyncHandler struct {
	svc *ledger.SyncService
}

// NewSyncHandler construye el handler.
func NewSyncHandler(svc *ledger.SyncService) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// Pending godoc
// @Summary      Lotes de la empresa pendientes de registro on-chain
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.LotListResponse
// @Router       /api/sync/pending [get]
func (h *SyncHandler) Pending(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	lots, err := h.svc.PendingForCompany(c.UserContext(), companyID, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLotList(lots, limit, offset))
}

// Composition godoc
// @Summary      Lote, código on-chain y entradas
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "lot_id"
// @Success      200  {object}  dto.CompositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/lots/{id} [get]
func (h *SyncHandler) Composition(c *fiber.Ctx) error {
	lotID, ok := pathLotID(c, "id")
	if !ok {
		return invalidLotID(c)
	}
	lc, err := h.svc.CompositionForLot(c.UserContext(), lotID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCompositionResponse(lc))
}

// MarkRegistered godoc
// @Summary      Marcar lote como registrado on-chain (idempotente)
// @Tags         sync
// @Security     Bearer
// @Param        id   path  int  true  "lot_id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sync/lots/{id}/registered [post]
func (h *SyncHandler) MarkRegistered(c *fiber.Ctx) error {
	lotID, ok := pathLotID(c, "id")
	if !ok {
		return invalidLotID(c)
	}
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.svc.MarkBlockchainRegistered(c.UserContext(), companyID, lotID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
