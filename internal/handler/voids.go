package handler

import (
	"net/http"
	"strings"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/middleware"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VoidsHandler struct{ voids service.VoidService }

func NewVoidsHandler(voids service.VoidService) *VoidsHandler {
	return &VoidsHandler{voids: voids}
}

// VoidItem godoc
// @Summary      Anular artículo
// @Description  Anula una cantidad de un artículo con motivo obligatorio. El inventario ya consumido no se restaura.
// @Tags         anulaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.VoidItemRequest true "Artículo, cantidad y motivo"
// @Success      201  {object} dto.VoidRecordResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/voids/items [post]
func (h *VoidsHandler) VoidItem(c *gin.Context) {
	var req dto.VoidItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)

	resp, err := h.voids.VoidItem(c.Request.Context(), staffID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// VoidOrder godoc
// @Summary      Anular pedido completo
// @Tags         anulaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.VoidOrderRequest true "Pedido y motivo"
// @Success      201  {object} dto.VoidRecordResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/voids/orders [post]
func (h *VoidsHandler) VoidOrder(c *gin.Context) {
	var req dto.VoidOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)

	resp, err := h.voids.VoidOrder(c.Request.Context(), staffID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// VoidCheck godoc
// @Summary      Anular cuenta completa
// @Description  Anula la cuenta abierta, libera sus mesas y deja el registro de auditoría. Sin reembolsos: solo cuentas sin pago.
// @Tags         anulaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.VoidCheckRequest true "Cuenta y motivo"
// @Success      201  {object} dto.VoidRecordResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/voids/checks [post]
func (h *VoidsHandler) VoidCheck(c *gin.Context) {
	var req dto.VoidCheckRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)

	resp, err := h.voids.VoidCheck(c.Request.Context(), staffID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListVoids godoc
// @Summary      Historial de anulaciones de un objetivo
// @Tags         anulaciones
// @Produce      json
// @Security     BearerAuth
// @Param        target   path string true "order_item | order | check"
// @Param        id       path string true "UUID del objetivo"
// @Success      200 {array} dto.VoidRecordResponse
// @Router       /v1/voids/{target}/{id} [get]
func (h *VoidsHandler) ListVoids(c *gin.Context) {
	target := strings.ToUpper(c.Param("target"))
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.voids.ListVoids(c.Request.Context(), target, targetID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
