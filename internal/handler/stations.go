package handler

import (
	"net/http"
	"strings"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StationsHandler serves the kitchen and bar boards and the status flips the
// station staff perform on them.
type StationsHandler struct{ pipeline service.OrderPipeline }

func NewStationsHandler(pipeline service.OrderPipeline) *StationsHandler {
	return &StationsHandler{pipeline: pipeline}
}

// Board godoc
// @Summary      Tablero de estación
// @Description  Lista los artículos pendientes y en preparación de la estación (kitchen | bar), en orden de llegada.
// @Tags         estaciones
// @Produce      json
// @Security     BearerAuth
// @Param        station path string true "kitchen | bar"
// @Success      200 {array} dto.StationItemResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/stations/{station}/board [get]
func (h *StationsHandler) Board(c *gin.Context) {
	station := strings.ToUpper(c.Param("station"))
	resp, err := h.pipeline.ListStationItems(c.Request.Context(), station)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkPreparing godoc
// @Summary      Marcar artículo en preparación
// @Description  PENDING → PREPARING. Solo informa a los mozos; no toca inventario.
// @Tags         estaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del artículo"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/stations/items/{id}/preparing [post]
func (h *StationsHandler) MarkPreparing(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.pipeline.MarkItemPreparing(c.Request.Context(), itemID); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkReady godoc
// @Summary      Marcar artículo listo
// @Description  Pasa el artículo a READY y descuenta la receta del inventario en la misma transacción. Repetir la llamada no vuelve a descontar.
// @Tags         estaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del artículo"
// @Success      200 {object} dto.DeductionResult
// @Failure      409 {object} apierror.APIError
// @Router       /v1/stations/items/{id}/ready [post]
func (h *StationsHandler) MarkReady(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.pipeline.MarkItemReady(c.Request.Context(), itemID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
