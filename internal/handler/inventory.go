package handler

import (
	"net/http"
	"strconv"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/middleware"
	"github.com/JorgeKerilima19/app-management-sub000/internal/repository"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ ledger service.InventoryLedger }

func NewInventoryHandler(ledger service.InventoryLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// ListItems godoc
// @Summary      Listar insumos
// @Description  Lista todos los insumos con su stock actual y bandera de stock bajo.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.InventoryItemResponse
// @Router       /v1/inventory [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	resp, err := h.ledger.ListItems(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateItem godoc
// @Summary      Crear insumo
// @Description  Da de alta un insumo de inventario con stock inicial y umbral opcional.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateInventoryItemRequest true "Nombre, unidad, stock inicial"
// @Success      201  {object} dto.InventoryItemResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/inventory [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req dto.CreateInventoryItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AdjustStock godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica una corrección manual con signo (merma, recuento) y deja el movimiento de auditoría.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustStockRequest true "Insumo, delta y motivo"
// @Success      200  {object} dto.InventoryItemResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/inventory/adjust [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)

	resp, err := h.ledger.AdjustStock(c.Request.Context(), staffID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Restock godoc
// @Summary      Registrar reposición
// @Description  Suma stock por una entrega de proveedor y deja el movimiento de auditoría.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RestockRequest true "Insumo, cantidad y motivo"
// @Success      200  {object} dto.InventoryItemResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/inventory/restock [post]
func (h *InventoryHandler) Restock(c *gin.Context) {
	var req dto.RestockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)

	resp, err := h.ledger.Restock(c.Request.Context(), staffID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListTransactions godoc
// @Summary      Movimientos de inventario
// @Description  Historial paginado de movimientos, filtrable por insumo y tipo.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        item  query string false "UUID del insumo"
// @Param        type  query string false "SALE_DEDUCTION | MANUAL_ADJUSTMENT | RESTOCK"
// @Param        page  query int    false "Página (default 1)"
// @Param        limit query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.InventoryTxListResponse
// @Router       /v1/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	filter := repository.InventoryTxFilter{Type: c.Query("type")}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if itemStr := c.Query("item"); itemStr != "" {
		itemID, err := uuid.Parse(itemStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("item invalido"))
			return
		}
		filter.InventoryItemID = &itemID
	}

	resp, err := h.ledger.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
