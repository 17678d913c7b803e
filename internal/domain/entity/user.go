package entity

import "time"

// Papéis válidos para User.
const (
	RoleAdmin    = "admin"
	RoleArtesao  = "artesao"  // produz e movimenta estoque
	RoleVendedor = "vendedor" // cria pedidos e clientes
)

// User representa um usuário do sistema (pertence a uma Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // hash bcrypt, nunca em claro no domínio após persistir
	Name         string
	Role         string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Company representa um ateliê/tenant do sistema.
type Company struct {
	ID        string
	Name      string
	Slug      string
	Plan      string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
