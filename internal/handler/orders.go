package handler

import (
	"net/http"

	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/middleware"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ pipeline service.OrderPipeline }

func NewOrdersHandler(pipeline service.OrderPipeline) *OrdersHandler {
	return &OrdersHandler{pipeline: pipeline}
}

// AddItem godoc
// @Summary      Agregar artículo al pedido pendiente
// @Description  Agrega (o acumula) un artículo en el pedido pendiente de la mesa, con el precio de carta congelado al momento de agregarlo.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AddItemRequest true "Mesa, producto, cantidad y notas"
// @Success      200  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders/items [post]
func (h *OrdersHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)

	resp, err := h.pipeline.AddItem(c.Request.Context(), staffID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveItem godoc
// @Summary      Quitar artículo del pedido pendiente
// @Description  Resta una unidad (o elimina la línea) del pedido pendiente. Los artículos ya enviados se quitan con una anulación.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RemoveItemRequest true "Mesa y producto"
// @Success      200  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders/items [delete]
func (h *OrdersHandler) RemoveItem(c *gin.Context) {
	var req dto.RemoveItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pipeline.RemoveItem(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateNotes godoc
// @Summary      Actualizar notas de un artículo
// @Description  Cambia las notas de cocina ("sin cebolla") de un artículo del pedido pendiente.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UpdateNotesRequest true "Mesa, producto y notas"
// @Success      200  {object} dto.OrderResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/orders/items/notes [put]
func (h *OrdersHandler) UpdateNotes(c *gin.Context) {
	var req dto.UpdateNotesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pipeline.UpdateNotes(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SendToStations godoc
// @Summary      Enviar pedido a cocina y barra
// @Description  Marca el pedido pendiente como SENT, sella la hora por estación y abre un pedido pendiente nuevo. Sin artículos es un no-op idempotente.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SendToStationsRequest true "Mesa"
// @Success      200  {object} dto.SendResult
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders/send [post]
func (h *OrdersHandler) SendToStations(c *gin.Context) {
	var req dto.SendToStationsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)
	tableID, _ := uuid.Parse(req.TableID)

	resp, err := h.pipeline.SendToStations(c.Request.Context(), staffID, tableID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
