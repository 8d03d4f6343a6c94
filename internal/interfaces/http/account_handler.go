package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/application/registration"
	"github.com/jhoicas/garansi-api/internal/application/usecase"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
)

// AccountHandler alta y listado de supervisores (cuenta STORE) y sales (cuenta SUPERVISOR).
// La toko siempre sale del token, nunca del cuerpo.
type AccountHandler struct {
	reg *registration.Service
	uc  *usecase.UserUseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(reg *registration.Service, uc *usecase.UserUseCase) *AccountHandler {
	return &AccountHandler{reg: reg, uc: uc}
}

// CreateSupervisor godoc
// @Summary      Crear supervisor en la toko del token
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "Datos del supervisor"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/supervisors [post]
func (h *AccountHandler) CreateSupervisor(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reg.CreateSupervisor(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSupervisors godoc
// @Summary      Listar supervisores de la toko
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/supervisors [get]
func (h *AccountHandler) ListSupervisors(c *fiber.Ctx) error {
	return h.list(c, entity.RoleSupervisor)
}

// CreateSales godoc
// @Summary      Crear sales bajo el supervisor del token
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "Datos del sales"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "SALES_LIMIT_REACHED o EMAIL_EXISTS"
// @Router       /api/sales [post]
func (h *AccountHandler) CreateSales(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reg.CreateSalesAgent(c.UserContext(), GetUserID(c), GetStoreID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSales godoc
// @Summary      Listar sales de la toko
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/sales [get]
func (h *AccountHandler) ListSales(c *fiber.Ctx) error {
	return h.list(c, entity.RoleSales)
}

// SalesLimit godoc
// @Summary      Estado del tope de sales de la toko
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LimitResponse
// @Router       /api/sales/limit [get]
func (h *AccountHandler) SalesLimit(c *fiber.Ctx) error {
	out, err := h.reg.CheckSalesLimit(c.UserContext(), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *AccountHandler) list(c *fiber.Ctx, role string) error {
	p := page(c)
	out, err := h.uc.ListByStore(c.UserContext(), GetStoreID(c), role, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
