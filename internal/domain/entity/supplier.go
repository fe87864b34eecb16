package entity

import "time"

// Supplier representa un proveedor/droguería; los lotes pueden referenciarlo.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string // NIT
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
