package handler

import (
	"net/http"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/middleware"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TablesHandler struct {
	registry service.TableRegistry
	ledger   service.CheckLedger
}

func NewTablesHandler(registry service.TableRegistry, ledger service.CheckLedger) *TablesHandler {
	return &TablesHandler{registry: registry, ledger: ledger}
}

// CreateTable godoc
// @Summary      Crear mesa
// @Description  Da de alta una mesa del salón. El número se asigna automáticamente.
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTableRequest true "Capacidad (4, 6 u 8) y nombre opcional"
// @Success      201  {object} dto.TableResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/tables [post]
func (h *TablesHandler) CreateTable(c *gin.Context) {
	var req dto.CreateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.registry.CreateTable(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListTables godoc
// @Summary      Mapa del salón
// @Description  Lista todas las mesas con su estado y cuenta actual.
// @Tags         mesas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TableResponse
// @Router       /v1/tables [get]
func (h *TablesHandler) ListTables(c *gin.Context) {
	resp, err := h.registry.ListTables(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OpenTable godoc
// @Summary      Abrir mesa
// @Description  Sienta a los comensales: la mesa pasa a OCCUPIED y se crea una cuenta abierta con un pedido pendiente vacío.
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la mesa"
// @Success      201  {object} dto.CheckResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/tables/{id}/open [post]
func (h *TablesHandler) OpenTable(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)

	resp, err := h.registry.OpenTable(c.Request.Context(), staffID, tableID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MergeTables godoc
// @Summary      Unir mesas
// @Description  Mueve todos los pedidos de la cuenta de la mesa secundaria a la de la principal. La cuenta donante se cierra en cero y su mesa queda libre.
// @Tags         mesas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MergeTablesRequest true "Mesa principal y secundaria"
// @Success      200  {object} dto.CheckResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/tables/merge [post]
func (h *TablesHandler) MergeTables(c *gin.Context) {
	var req dto.MergeTablesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)
	primaryID, _ := uuid.Parse(req.PrimaryTableID)
	secondaryID, _ := uuid.Parse(req.SecondaryTableID)

	resp, err := h.registry.MergeTables(c.Request.Context(), staffID, primaryID, secondaryID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCheck godoc
// @Summary      Detalle de cuenta
// @Description  Devuelve la cuenta con sus mesas, pedidos y totales.
// @Tags         cuentas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la cuenta"
// @Success      200  {object} dto.CheckResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/checks/{id} [get]
func (h *TablesHandler) GetCheck(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.ledger.GetCheck(c.Request.Context(), checkID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
