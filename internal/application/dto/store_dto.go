package dto

import "time"

// CreateStoreRequest entrada para crear una toko junto con su cuenta de acceso (rol STORE).
type CreateStoreRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Code     string `json:"kode_toko" validate:"required,store_code"`
	Address  string `json:"address" validate:"max=500"`
	Phone    string `json:"phone" validate:"max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// StoreResponse salida de una toko.
type StoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"kode_toko"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreListResponse lista paginada de tokos.
type StoreListResponse struct {
	Items []StoreResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
