package entity

import "time"

// StoreProductSequence contador persistido por toko. NextNumber >= 1, solo crece.
type StoreProductSequence struct {
	ID         string
	StoreID    string
	NextNumber int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
