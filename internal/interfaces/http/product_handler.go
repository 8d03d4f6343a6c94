package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/application/registration"
	"github.com/jhoicas/garansi-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP de productos con garantía de la toko del token.
type ProductHandler struct {
	reg *registration.Service
	uc  *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(reg *registration.Service, uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{reg: reg, uc: uc}
}

// Create godoc
// @Summary      Registrar producto con garantía
// @Description  Asigna el siguiente nomor_kepesertaan de la toko ({kode_toko}-{n}).
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse  "STORE_NOT_FOUND"
// @Failure      409   {object}  dto.ErrorResponse  "PRODUCT_LIMIT_REACHED"
// @Failure      503   {object}  dto.ErrorResponse  "REGISTRATION_CONFLICT"
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reg.CreateProduct(c.UserContext(), GetUserID(c), GetStoreID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos de la toko
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.UserContext(), GetStoreID(c), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Limit godoc
// @Summary      Estado del tope global de productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LimitResponse
// @Router       /api/products/limit [get]
func (h *ProductHandler) Limit(c *fiber.Ctx) error {
	out, err := h.reg.CheckProductLimit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
