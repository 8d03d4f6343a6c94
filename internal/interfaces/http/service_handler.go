package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/garansi-api/internal/application/usecase"
)

// ServiceCenterHandler consultas del service center sobre cualquier toko.
type ServiceCenterHandler struct {
	uc *usecase.ProductUseCase
}

// NewServiceCenterHandler construye el handler.
func NewServiceCenterHandler(uc *usecase.ProductUseCase) *ServiceCenterHandler {
	return &ServiceCenterHandler{uc: uc}
}

// Lookup godoc
// @Summary      Buscar producto por nomor_kepesertaan
// @Tags         service
// @Security     Bearer
// @Produce      json
// @Param        nomor  path  string  true  "nomor_kepesertaan, ej. TOKO001-1"
// @Success      200    {object}  dto.ProductResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/service/products/{nomor} [get]
func (h *ServiceCenterHandler) Lookup(c *fiber.Ctx) error {
	out, err := h.uc.GetByParticipantNumber(c.UserContext(), c.Params("nomor"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Dar de baja la garantía
// @Tags         service
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya inactiva"
// @Router       /api/service/products/{id}/deactivate [patch]
func (h *ServiceCenterHandler) Deactivate(c *fiber.Ctx) error {
	out, err := h.uc.Deactivate(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Certificate godoc
// @Summary      Certificado de garantía en PDF
// @Tags         service
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/service/products/{id}/certificate [get]
func (h *ServiceCenterHandler) Certificate(c *fiber.Ctx) error {
	doc, filename, err := h.uc.Certificate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(doc)
}
