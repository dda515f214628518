package entity

import "fmt"

// OperationType tipo de operación de la cadena de suministro que origina un lote.
type OperationType string

// Tipos de operación (deben coincidir con el CHECK de la tabla operations).
const (
	OperationProduction     OperationType = "production"     // materia prima, sin composición
	OperationTransport      OperationType = "transport"      // traslado entre empresas
	OperationTransformation OperationType = "transformation" // consume varios lotes de entrada
	OperationSale           OperationType = "sale"           // venta / entrega
)

// operationRule tabla canónica: código on-chain y rol autorizado por tipo.
type operationRule struct {
	chainCode uint8
	role      Role
}

var operationRules = map[OperationType]operationRule{
	OperationProduction:     {chainCode: 0, role: RoleFarmer},
	OperationTransport:      {chainCode: 1, role: RoleCarrier},
	OperationTransformation: {chainCode: 2, role: RoleTransformer},
	OperationSale:           {chainCode: 3, role: RoleRetailer},
}

// OperationTypes devuelve los tipos válidos en orden de código on-chain.
func OperationTypes() []OperationType {
	return []OperationType{OperationProduction, OperationTransport, OperationTransformation, OperationSale}
}

// ParseOperationType valida un string externo (HTTP, CSV, DB).
func ParseOperationType(s string) (OperationType, error) {
	op := OperationType(s)
	if _, ok := operationRules[op]; !ok {
		return "", fmt.Errorf("tipo de operación desconocido: %q", s)
	}
	return op, nil
}

// OperationTypeFromChainCode resuelve el código numérico usado por el contrato.
func OperationTypeFromChainCode(code uint8) (OperationType, error) {
	for op, rule := range operationRules {
		if rule.chainCode == code {
			return op, nil
		}
	}
	return "", fmt.Errorf("código on-chain desconocido: %d", code)
}

// Valid indica si el tipo pertenece al conjunto cerrado.
func (o OperationType) Valid() bool {
	_, ok := operationRules[o]
	return ok
}

// ChainCode código numérico del tipo para el contrato on-chain.
func (o OperationType) ChainCode() uint8 {
	return operationRules[o].chainCode
}

// AllowedRole rol que puede registrar operaciones de este tipo.
func (o OperationType) AllowedRole() Role {
	return operationRules[o].role
}

func (o OperationType) String() string { return string(o) }
