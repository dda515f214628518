package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/co2-ledger/internal/application/dto"
	"github.com/jhoicas/co2-ledger/internal/application/tokens"
	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
)

// CompanyHandler acumulados de la empresa del token y compensaciones de CO2 (protegido).
type CompanyHandler struct {
	companies     repository.CompanyRepository
	compensations *tokens.CompensationService
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(companies repository.CompanyRepository, compensations *tokens.CompensationService) *CompanyHandler {
	return &CompanyHandler{companies: companies, compensations: compensations}
}

// Me godoc
// @Summary      Empresa del token con sus acumulados
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/me [get]
func (h *CompanyHandler) Me(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	company, err := h.companies.GetByID(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	if company == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(toCompanyResponse(company))
}

// Compensate godoc
// @Summary      Registrar CO2 compensado
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompensationRequest  true  "CO2 compensado"
// @Success      201   {object}  dto.CompensationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/compensations [post]
func (h *CompanyHandler) Compensate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CompensationRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	comp, err := h.compensations.Compensate(c.UserContext(), companyID, in.CO2, in.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCompensationResponse(comp))
}

// ListCompensations godoc
// @Summary      Compensaciones de la empresa
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CompensationResponse
// @Router       /api/compensations [get]
func (h *CompanyHandler) ListCompensations(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	list, err := h.compensations.List(c.UserContext(), companyID, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CompensationResponse, 0, len(list))
	for _, comp := range list {
		out = append(out, toCompensationResponse(comp))
	}
	return c.JSON(out)
}
