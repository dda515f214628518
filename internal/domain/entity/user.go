package entity

import "time"

// User usuario con acceso a la API (pertenece a una Company; hereda su rol).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive
	CreatedAt    time.Time
}
