package entity

// Role rol de una empresa dentro de la cadena de suministro.
type Role string

// Roles válidos (columna companies.role).
const (
	RoleFarmer      Role = "Agricola"
	RoleCarrier     Role = "Transportista"
	RoleTransformer Role = "Transformador"
	RoleRetailer    Role = "Minorista"
)

// Valid indica si el rol es conocido.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleCarrier, RoleTransformer, RoleRetailer:
		return true
	}
	return false
}

// CanRegister indica si el rol puede registrar el tipo de operación.
func (r Role) CanRegister(op OperationType) bool {
	return op.Valid() && op.AllowedRole() == r
}
