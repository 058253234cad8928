package entity

import "time"

// Store tienda o punto de venta con inventario propio.
type Store struct {
	ID        string
	Code      string // único
	Name      string
	Location  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
