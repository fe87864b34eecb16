package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
	RoleCajero       = "cajero"
)

// User representa un usuario del sistema (personal de la farmacia).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | farmaceutico | cajero
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
