package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

const (
	roleAdmin         = entity.RoleAdmin
	roleServiceCenter = entity.RoleServiceCenter
	minPasswordLen    = 8
)

type seedAccount struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// seeder crea cuentas sin toko. Es idempotente por email.
type seeder struct {
	users repository.UserRepository
	cost  int
	now   func() time.Time
}

func newSeeder(users repository.UserRepository) *seeder {
	return &seeder{users: users, cost: bcrypt.DefaultCost, now: time.Now}
}

// Seed devuelve false si ya existía una cuenta con ese email.
func (s *seeder) Seed(ctx context.Context, acc seedAccount) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(acc.Email))
	if email == "" || !strings.Contains(email, "@") {
		return false, fmt.Errorf("email inválido %q", acc.Email)
	}
	if len(acc.Password) < minPasswordLen {
		return false, fmt.Errorf("password de %s: mínimo %d caracteres", email, minPasswordLen)
	}
	if acc.Role != roleAdmin && acc.Role != roleServiceCenter {
		return false, fmt.Errorf("rol no sembrable %q", acc.Role)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         acc.Name,
		Role:         acc.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
