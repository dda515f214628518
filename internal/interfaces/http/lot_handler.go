package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/co2-ledger/internal/application/dto"
	"github.com/jhoicas/co2-ledger/internal/application/ledger"
	"github.com/jhoicas/co2-ledger/internal/application/report"
)

// LotHandler registro de operaciones y consulta de procedencia de lotes (protegido).
type LotHandler struct {
	registrar *ledger.Registrar
	rollup    *ledger.RollupCalculator
	reports   *report.ReportUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(registrar *ledger.Registrar, rollup *ledger.RollupCalculator, reports *report.ReportUseCase) *LotHandler {
	return &LotHandler{registrar: registrar, rollup: rollup, reports: reports}
}

// RegisterProduction godoc
// @Summary      Registrar producción de materia prima
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductionRequest  true  "Producto, cantidad y CO2"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/lots/production [post]
func (h *LotHandler) RegisterProduction(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ProductionRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	lot, err := h.registrar.RegisterProduction(c.UserContext(), ledger.ProductionInput{
		CompanyID: companyID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		CO2:       in.CO2,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLotResponse(lot))
}

// RegisterTransformation godoc
// @Summary      Registrar transformación
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransformationRequest  true  "Producto elaborado y lotes consumidos"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/transformation [post]
func (h *LotHandler) RegisterTransformation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.TransformationRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	inputs := make([]ledger.LotQuantity, 0, len(in.Inputs))
	for _, i := range in.Inputs {
		inputs = append(inputs, ledger.LotQuantity{LotID: i.LotID, Quantity: i.Quantity})
	}
	lot, err := h.registrar.RegisterTransformation(c.UserContext(), ledger.TransformationInput{
		CompanyID: companyID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		CO2:       in.CO2,
		Inputs:    inputs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLotResponse(lot))
}

// RegisterTransport godoc
// @Summary      Registrar transporte (lo registra el transportista)
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransportRequest  true  "Lote, solicitante, destinatario"
// @Success      201   {object}  dto.TransportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/transport [post]
func (h *LotHandler) RegisterTransport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.TransportRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	res, err := h.registrar.RegisterTransport(c.UserContext(), ledger.TransportInput{
		CarrierID:   companyID,
		RequesterID: in.RequesterID,
		RecipientID: in.RecipientID,
		InputLotID:  in.InputLotID,
		Quantity:    in.Quantity,
		CO2:         in.CO2,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransportResponse{
		SaleLot:      toLotResponse(res.SaleLot),
		TransportLot: toLotResponse(res.TransportLot),
	})
}

// RegisterSale godoc
// @Summary      Registrar venta final
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Lote vendido"
// @Success      201   {object}  dto.LotResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/sale [post]
func (h *LotHandler) RegisterSale(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.SaleRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	lot, err := h.registrar.RegisterSale(c.UserContext(), ledger.SaleInput{
		CompanyID:  companyID,
		InputLotID: in.InputLotID,
		Quantity:   in.Quantity,
		CO2:        in.CO2,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLotResponse(lot))
}

// GetProvenance godoc
// @Summary      Árbol de procedencia con costos de CO2
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "lot_id"
// @Success      200  {object}  dto.ProvenanceNode
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetProvenance(c *fiber.Ctx) error {
	lotID, ok := pathLotID(c, "id")
	if !ok {
		return invalidLotID(c)
	}
	r, err := h.rollup.RollupTree(c.UserContext(), lotID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toProvenanceNode(r.Tree.Root, 0, r))
}

// GetUnitCost godoc
// @Summary      Costo unitario de CO2 de un lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "lot_id"
// @Success      200  {object}  dto.UnitCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/unit-cost [get]
func (h *LotHandler) GetUnitCost(c *fiber.Ctx) error {
	lotID, ok := pathLotID(c, "id")
	if !ok {
		return invalidLotID(c)
	}
	cost, err := h.rollup.Cost(c.UserContext(), lotID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UnitCostResponse{LotID: lotID, TotalCost: cost.Total, UnitCost: cost.Unit})
}

// DownloadReport godoc
// @Summary      Reporte PDF de procedencia y huella de CO2
// @Tags         lots
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "lot_id"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/report [get]
func (h *LotHandler) DownloadReport(c *fiber.Ctx) error {
	lotID, ok := pathLotID(c, "id")
	if !ok {
		return invalidLotID(c)
	}
	pdfBytes, filename, err := h.reports.DownloadLotReport(c.UserContext(), lotID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}
