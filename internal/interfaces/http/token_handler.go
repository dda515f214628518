package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/application/dto"
	"github.com/jhoicas/co2-ledger/internal/application/tokens"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
)

// TokenHandler cálculo y acreditación de tokens por umbral de CO2 (protegido).
type TokenHandler struct {
	accrual *tokens.AccrualService
}

// NewTokenHandler construye el handler.
func NewTokenHandler(accrual *tokens.AccrualService) *TokenHandler {
	return &TokenHandler{accrual: accrual}
}

// Delta godoc
// @Summary      Tokens = umbral verificado - CO2 real
// @Tags         tokens
// @Security     Bearer
// @Produce      json
// @Param        operation_type  query  string  true  "production|transport|transformation|sale"
// @Param        product_id      query  string  true  "Producto"
// @Param        actual_co2      query  string  true  "CO2 real"
// @Success      200  {object}  dto.TokenDeltaResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/tokens/delta [get]
func (h *TokenHandler) Delta(c *fiber.Ctx) error {
	var q dto.TokenDeltaQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, &dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(&q); err != nil {
		return badRequest(c, &dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	actual, err := decimal.NewFromString(q.ActualCO2)
	if err != nil || actual.IsNegative() {
		return badRequest(c, &dto.ErrorResponse{Code: "VALIDATION", Message: "actual_co2 debe ser un número >= 0"})
	}
	op := entity.OperationType(q.OperationType)
	delta, err := h.accrual.Delta(c.UserContext(), actual, op, q.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TokenDeltaResponse{
		OperationType: q.OperationType,
		ProductID:     q.ProductID,
		ActualCO2:     actual,
		Delta:         delta,
	})
}

// Accrue godoc
// @Summary      Acreditar los tokens de un lote a su empresa (una vez por lote)
// @Tags         tokens
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "lot_id"
// @Success      201  {object}  dto.TokenAccrualResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/tokens/lots/{id}/accrue [post]
func (h *TokenHandler) Accrue(c *fiber.Ctx) error {
	lotID, ok := pathLotID(c, "id")
	if !ok {
		return invalidLotID(c)
	}
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	a, err := h.accrual.AccrueForLot(c.UserContext(), companyID, lotID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAccrualResponse(a))
}
