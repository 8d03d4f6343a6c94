package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garansi-api/internal/application/auth"
	"github.com/jhoicas/garansi-api/internal/application/registration"
	"github.com/jhoicas/garansi-api/internal/application/usecase"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registration *registration.Service
	StoreUC      *usecase.StoreUseCase
	UserUC       *usecase.UserUseCase
	ProductUC    *usecase.ProductUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público). Debe registrarse antes del grupo protegido.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Tokos (ADMIN)
	stores := protected.Group("/stores", RequireRole(entity.RoleAdmin))
	storeHandler := NewStoreHandler(deps.Registration, deps.StoreUC)
	stores.Post("/", storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/limit", storeHandler.Limit)
	stores.Get("/:id", storeHandler.GetByID)

	accountHandler := NewAccountHandler(deps.Registration, deps.UserUC)

	// Supervisores (cuenta de la toko)
	supervisors := protected.Group("/supervisors", RequireRole(entity.RoleStore), RequireStore())
	supervisors.Post("/", accountHandler.CreateSupervisor)
	supervisors.Get("/", accountHandler.ListSupervisors)

	// Sales (supervisor)
	sales := protected.Group("/sales", RequireRole(entity.RoleSupervisor), RequireStore())
	sales.Post("/", accountHandler.CreateSales)
	sales.Get("/", accountHandler.ListSales)
	sales.Get("/limit", accountHandler.SalesLimit)

	// Productos de la toko del token
	products := protected.Group("/products", RequireStore())
	productHandler := NewProductHandler(deps.Registration, deps.ProductUC)
	readers := RequireRole(entity.RoleStore, entity.RoleSupervisor, entity.RoleSales)
	products.Post("/", RequireRole(entity.RoleSales), productHandler.Create)
	products.Get("/", readers, productHandler.List)
	products.Get("/limit", readers, productHandler.Limit)
	products.Get("/:id", readers, productHandler.GetByID)

	// Service center
	service := protected.Group("/service", RequireRole(entity.RoleServiceCenter))
	serviceHandler := NewServiceCenterHandler(deps.ProductUC)
	service.Get("/products/:nomor", serviceHandler.Lookup)
	service.Patch("/products/:id/deactivate", serviceHandler.Deactivate)
	service.Get("/products/:id/certificate", serviceHandler.Certificate)
}
