package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/application/registration"
	"github.com/jhoicas/garansi-api/internal/application/usecase"
)

// StoreHandler endpoints de tokos (ADMIN).
type StoreHandler struct {
	reg *registration.Service
	uc  *usecase.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(reg *registration.Service, uc *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{reg: reg, uc: uc}
}

// Create godoc
// @Summary      Crear toko y su cuenta de acceso
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "Datos de la toko"
// @Success      201   {object}  dto.StoreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "STORE_LIMIT_REACHED, DUPLICATE o EMAIL_EXISTS"
// @Router       /api/stores [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reg.CreateStore(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener toko por ID
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la toko"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [get]
func (h *StoreHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "STORE_NOT_FOUND", Message: "toko no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar tokos
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.StoreListResponse
// @Router       /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Limit godoc
// @Summary      Estado del tope de tokos
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LimitResponse
// @Router       /api/stores/limit [get]
func (h *StoreHandler) Limit(c *fiber.Ctx) error {
	out, err := h.reg.CheckStoreLimit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
