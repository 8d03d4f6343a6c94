package dto

import "github.com/jhoicas/garansi-api/internal/domain/entity"

// FromStore convierte la entidad en respuesta.
func FromStore(s *entity.Store) *StoreResponse {
	if s == nil {
		return nil
	}
	return &StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Code:      s.Code,
		Address:   s.Address,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromUser convierte la entidad en respuesta (sin hash).
func FromUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:           u.ID,
		StoreID:      u.StoreID,
		SupervisorID: u.SupervisorID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// FromProduct convierte la entidad en respuesta.
func FromProduct(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:                p.ID,
		ParticipantNumber: p.ParticipantNumber,
		StoreID:           p.StoreID,
		CreatedBy:         p.CreatedBy,
		CustomerName:      p.CustomerName,
		CustomerPhone:     p.CustomerPhone,
		CustomerEmail:     p.CustomerEmail,
		ProductName:       p.ProductName,
		Brand:             p.Brand,
		SerialNumber:      p.SerialNumber,
		Price:             p.Price,
		PurchaseDate:      p.PurchaseDate,
		WarrantyMonths:    p.WarrantyMonths,
		WarrantyExpiresAt: p.WarrantyExpiresAt,
		IsActive:          p.IsActive,
		DeactivatedAt:     p.DeactivatedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
