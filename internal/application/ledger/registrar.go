package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/co2-ledger/internal/domain"
	"github.com/jhoicas/co2-ledger/internal/domain/entity"
	"github.com/jhoicas/co2-ledger/internal/domain/repository"
	"github.com/jhoicas/co2-ledger/pkg/logger"
)

// LotQuantity cantidad consumida de un lote de entrada.
type LotQuantity struct {
	LotID    int64
	Quantity int64
}

// ProductionInput registro de materia prima.
type ProductionInput struct {
	CompanyID string
	ProductID string
	Quantity  int64
	CO2       decimal.Decimal
}

// TransformationInput registro de un producto elaborado a partir de otros lotes.
type TransformationInput struct {
	CompanyID string
	ProductID string
	Quantity  int64
	CO2       decimal.Decimal
	Inputs    []LotQuantity
}

// TransportInput traslado de un lote del solicitante al destinatario por un transportista.
type TransportInput struct {
	CarrierID   string
	RequesterID string
	RecipientID string
	InputLotID  int64
	Quantity    int64
	CO2         decimal.Decimal
}

// SaleInput venta final de un lote.
type SaleInput struct {
	CompanyID  string
	InputLotID int64
	Quantity   int64
	CO2        decimal.Decimal
}

// TransportResult los dos lotes encadenados que crea un transporte.
type TransportResult struct {
	SaleLot      *entity.Lot
	TransportLot *entity.Lot
}

// Registrar coordina el registro atómico de operaciones de la cadena: asigna lot_id, inserta
// la operación, aristas de composición, movimientos de bodega y acumulados de CO2 en una sola tx.
type Registrar struct {
	txRunner TxRunner
	auth     Authorizer
	log      *logger.Logger
	now      func() time.Time
}

// NewRegistrar construye el registrador.
func NewRegistrar(txRunner TxRunner, auth Authorizer, log *logger.Logger) *Registrar {
	if log == nil {
		log = logger.Nop()
	}
	return &Registrar{
		txRunner: txRunner,
		auth:     auth,
		log:      log.Component("registrar"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegisterProduction crea un lote de materia prima y lo acredita en la bodega del productor.
func (r *Registrar) RegisterProduction(ctx context.Context, in ProductionInput) (*entity.Lot, error) {
	if err := validateLotFields(in.CompanyID, in.ProductID, in.Quantity, in.CO2); err != nil {
		return nil, err
	}
	if err := r.authorize(ctx, in.CompanyID, entity.OperationProduction); err != nil {
		return nil, err
	}

	var lot *entity.Lot
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		now := r.now()
		var err error
		lot, err = newLot(ctx, repos, uuid.NewString(), in.CompanyID, in.ProductID, entity.OperationProduction, in.Quantity, in.CO2, now)
		if err != nil {
			return err
		}
		if err := Credit(ctx, repos.Warehouse, in.CompanyID, lot.LotID, in.Quantity, now); err != nil {
			return err
		}
		return repos.Companies.AddCO2Emitted(ctx, in.CompanyID, in.CO2)
	})
	if err != nil {
		return nil, r.fail(err, entity.OperationProduction, in.CompanyID)
	}
	r.logRegistered(lot)
	return lot, nil
}

// RegisterTransformation consume los lotes de entrada de la bodega de la empresa y crea el lote
// resultante. Si cualquier entrada falla no queda nada escrito.
func (r *Registrar) RegisterTransformation(ctx context.Context, in TransformationInput) (*entity.Lot, error) {
	if err := validateLotFields(in.CompanyID, in.ProductID, in.Quantity, in.CO2); err != nil {
		return nil, err
	}
	if err := validateInputs(in.Inputs); err != nil {
		return nil, err
	}
	if err := r.authorize(ctx, in.CompanyID, entity.OperationTransformation); err != nil {
		return nil, err
	}

	var lot *entity.Lot
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		now := r.now()
		var err error
		// La operación va antes que cualquier arista que la referencie (FK).
		lot, err = newLot(ctx, repos, uuid.NewString(), in.CompanyID, in.ProductID, entity.OperationTransformation, in.Quantity, in.CO2, now)
		if err != nil {
			return err
		}
		for _, input := range in.Inputs {
			if err := consume(ctx, repos, in.CompanyID, lot.LotID, input.LotID, input.Quantity, now); err != nil {
				return err
			}
		}
		if err := Credit(ctx, repos.Warehouse, in.CompanyID, lot.LotID, in.Quantity, now); err != nil {
			return err
		}
		return repos.Companies.AddCO2Emitted(ctx, in.CompanyID, in.CO2)
	})
	if err != nil {
		return nil, r.fail(err, entity.OperationTransformation, in.CompanyID)
	}
	r.logRegistered(lot)
	return lot, nil
}

// RegisterTransport crea dos lotes encadenados: uno de venta a nombre del solicitante (entrega
// al transportista) y uno de transporte a nombre del transportista, que queda en la bodega del
// destinatario. El CO2 del trayecto se imputa al transportista.
func (r *Registrar) RegisterTransport(ctx context.Context, in TransportInput) (*TransportResult, error) {
	if strings.TrimSpace(in.RequesterID) == "" || strings.TrimSpace(in.RecipientID) == "" {
		return nil, fmt.Errorf("%w: solicitante y destinatario son obligatorios", domain.ErrInvalidInput)
	}
	if err := validateLotFields(in.CarrierID, "-", in.Quantity, in.CO2); err != nil {
		return nil, err
	}
	if in.InputLotID <= 0 {
		return nil, fmt.Errorf("%w: lote de entrada inválido", domain.ErrInvalidInput)
	}
	if err := r.authorize(ctx, in.CarrierID, entity.OperationTransport); err != nil {
		return nil, err
	}

	res := &TransportResult{}
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		now := r.now()
		for _, id := range []string{in.RequesterID, in.RecipientID} {
			if err := requireCompany(ctx, repos, id); err != nil {
				return err
			}
		}
		input, err := requireLot(ctx, repos, in.InputLotID)
		if err != nil {
			return err
		}
		txID := uuid.NewString()

		res.SaleLot, err = newLot(ctx, repos, txID, in.RequesterID, input.ProductID, entity.OperationSale, in.Quantity, decimal.Zero, now)
		if err != nil {
			return err
		}
		if err := consume(ctx, repos, in.RequesterID, res.SaleLot.LotID, input.LotID, in.Quantity, now); err != nil {
			return err
		}

		res.TransportLot, err = newLot(ctx, repos, txID, in.CarrierID, input.ProductID, entity.OperationTransport, in.Quantity, in.CO2, now)
		if err != nil {
			return err
		}
		if err := AddEdge(ctx, repos, res.TransportLot.LotID, res.SaleLot.LotID, in.Quantity); err != nil {
			return err
		}
		if err := Credit(ctx, repos.Warehouse, in.RecipientID, res.TransportLot.LotID, in.Quantity, now); err != nil {
			return err
		}
		return repos.Companies.AddCO2Emitted(ctx, in.CarrierID, in.CO2)
	})
	if err != nil {
		return nil, r.fail(err, entity.OperationTransport, in.CarrierID)
	}
	r.logRegistered(res.SaleLot)
	r.logRegistered(res.TransportLot)
	return res, nil
}

// RegisterSale venta final: consume el lote de entrada y crea el lote de venta (sin crédito).
func (r *Registrar) RegisterSale(ctx context.Context, in SaleInput) (*entity.Lot, error) {
	if err := validateLotFields(in.CompanyID, "-", in.Quantity, in.CO2); err != nil {
		return nil, err
	}
	if in.InputLotID <= 0 {
		return nil, fmt.Errorf("%w: lote de entrada inválido", domain.ErrInvalidInput)
	}
	if err := r.authorize(ctx, in.CompanyID, entity.OperationSale); err != nil {
		return nil, err
	}

	var lot *entity.Lot
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		now := r.now()
		input, err := requireLot(ctx, repos, in.InputLotID)
		if err != nil {
			return err
		}
		lot, err = newLot(ctx, repos, uuid.NewString(), in.CompanyID, input.ProductID, entity.OperationSale, in.Quantity, in.CO2, now)
		if err != nil {
			return err
		}
		if err := consume(ctx, repos, in.CompanyID, lot.LotID, input.LotID, in.Quantity, now); err != nil {
			return err
		}
		return repos.Companies.AddCO2Emitted(ctx, in.CompanyID, in.CO2)
	})
	if err != nil {
		return nil, r.fail(err, entity.OperationSale, in.CompanyID)
	}
	r.logRegistered(lot)
	return lot, nil
}

func (r *Registrar) authorize(ctx context.Context, companyID string, op entity.OperationType) error {
	role, err := r.auth.CurrentRole(ctx, companyID)
	if err != nil {
		return err
	}
	if !role.CanRegister(op) {
		return fmt.Errorf("%w: rol %s no puede registrar %s", domain.ErrPermissionDenied, role, op)
	}
	return nil
}

func (r *Registrar) fail(err error, op entity.OperationType, companyID string) error {
	if domain.IsRetryable(err) {
		r.log.Warn().Err(err).Str("operation", op.String()).Str("company_id", companyID).Msg("registro abortado, reintentable")
	}
	return err
}

func (r *Registrar) logRegistered(lot *entity.Lot) {
	r.log.Info().
		Int64("lot_id", lot.LotID).
		Str("transaction_id", lot.TransactionID).
		Str("operation", lot.Type.String()).
		Str("company_id", lot.CompanyID).
		Int64("quantity", lot.Quantity).
		Str("co2", lot.CO2Emitted.String()).
		Msg("lote registrado")
}

// newLot asigna lot_id desde la secuencia e inserta la operación.
func newLot(ctx context.Context, repos repository.TxRepos, txID, companyID, productID string, op entity.OperationType, qty int64, co2 decimal.Decimal, now time.Time) (*entity.Lot, error) {
	id, err := repos.Operations.NextLotID(ctx)
	if err != nil {
		return nil, err
	}
	lot := &entity.Lot{
		LotID:         id,
		TransactionID: txID,
		CompanyID:     companyID,
		ProductID:     productID,
		Type:          op,
		Quantity:      qty,
		CO2Emitted:    co2,
		CreatedAt:     now,
	}
	if err := repos.Operations.Create(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// consume descuenta qty del lote de entrada en la bodega de companyID y registra la arista.
func consume(ctx context.Context, repos repository.TxRepos, companyID string, outputLotID, inputLotID, qty int64, now time.Time) error {
	if _, err := requireLot(ctx, repos, inputLotID); err != nil {
		return err
	}
	if err := Debit(ctx, repos.Warehouse, companyID, inputLotID, qty, now); err != nil {
		return err
	}
	return AddEdge(ctx, repos, outputLotID, inputLotID, qty)
}

func requireLot(ctx context.Context, repos repository.TxRepos, lotID int64) (*entity.Lot, error) {
	lot, err := repos.Operations.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrLotNotFound, lotID)
	}
	return lot, nil
}

func requireCompany(ctx context.Context, repos repository.TxRepos, companyID string) error {
	c, err := repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: empresa %s desconocida", domain.ErrInvalidInput, companyID)
	}
	return nil
}

func validateLotFields(companyID, productID string, qty int64, co2 decimal.Decimal) error {
	switch {
	case strings.TrimSpace(companyID) == "":
		return fmt.Errorf("%w: company_id es obligatorio", domain.ErrInvalidInput)
	case strings.TrimSpace(productID) == "":
		return fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	case qty <= 0:
		return fmt.Errorf("%w: la cantidad debe ser > 0", domain.ErrInvalidInput)
	case co2.IsNegative():
		return fmt.Errorf("%w: co2 debe ser >= 0", domain.ErrInvalidInput)
	case !entity.FitsCO2Scale(co2):
		return fmt.Errorf("%w: co2 admite hasta %d decimales", domain.ErrInvalidInput, entity.CO2Scale)
	}
	return nil
}

func validateInputs(inputs []LotQuantity) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: la transformación requiere al menos un lote de entrada", domain.ErrInvalidInput)
	}
	seen := make(map[int64]struct{}, len(inputs))
	for _, in := range inputs {
		if in.LotID <= 0 || in.Quantity <= 0 {
			return fmt.Errorf("%w: entrada %d con cantidad %d", domain.ErrInvalidInput, in.LotID, in.Quantity)
		}
		if _, dup := seen[in.LotID]; dup {
			return fmt.Errorf("%w: lote de entrada %d repetido", domain.ErrInvalidInput, in.LotID)
		}
		seen[in.LotID] = struct{}{}
	}
	return nil
}
