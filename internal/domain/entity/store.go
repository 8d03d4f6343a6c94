package entity

import "time"

// Store representa una toko afiliada. Code (kode_toko) es el prefijo del nomor_kepesertaan:
// único global e inmutable una vez que la toko tiene productos.
type Store struct {
	ID        string
	Name      string
	Code      string // kode_toko, ej. TOKO001
	Address   string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
