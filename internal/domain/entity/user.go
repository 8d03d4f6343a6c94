package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin         = "ADMIN"
	RoleStore         = "STORE"
	RoleSupervisor    = "SUPERVISOR"
	RoleSales         = "SALES"
	RoleServiceCenter = "SERVICE_CENTER"
)

// User representa una cuenta del sistema. StoreID es nil para ADMIN y SERVICE_CENTER;
// SupervisorID solo aplica a SALES.
type User struct {
	ID           string
	StoreID      *string
	SupervisorID *string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Phone        string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelongsToStore informa si el usuario está asignado a la toko dada.
func (u *User) BelongsToStore(storeID string) bool {
	return u.StoreID != nil && *u.StoreID == storeID
}
