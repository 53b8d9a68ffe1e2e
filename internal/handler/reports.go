package handler

import (
	"net/http"
	"time"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/worker"

	"github.com/gin-gonic/gin"
)

// ReportsHandler serves the owner-facing aggregates built by the workers.
type ReportsHandler struct{ shifts *worker.ShiftSummaryWorker }

func NewReportsHandler(shifts *worker.ShiftSummaryWorker) *ReportsHandler {
	return &ReportsHandler{shifts: shifts}
}

// ShiftSummary godoc
// @Summary      Resumen del turno
// @Description  Totales del día: cuentas cobradas e ingresos por método de pago. Agregado en Redis por el worker de cierres.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200 {object} map[string]string
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reports/shift [get]
func (h *ReportsHandler) ShiftSummary(c *gin.Context) {
	day := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("fecha invalida, use YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	summary, err := h.shifts.ReadShift(c.Request.Context(), day)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    day.Format("2006-01-02"),
		"summary": summary,
	})
}
