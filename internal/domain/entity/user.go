package entity

import "time"

// Códigos de rol válidos.
const (
	RoleAdmin            = "ADMIN"
	RoleStoreManager     = "STORE_MANAGER"
	RoleProcurementStaff = "PROCUREMENT_STAFF"
	RoleInventoryStaff   = "INVENTORY_STAFF"
)

// Role rol del sistema; Code es la clave que viaja en el JWT.
type Role struct {
	ID          string
	Code        string
	Name        string
	Description string
	CreatedAt   time.Time
}

// User representa un usuario del sistema. StoreID vacío = sin tienda asignada.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         string // código de rol
	StoreID      string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
