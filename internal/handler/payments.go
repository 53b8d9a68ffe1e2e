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

type PaymentsHandler struct{ reconciler service.PaymentReconciler }

func NewPaymentsHandler(reconciler service.PaymentReconciler) *PaymentsHandler {
	return &PaymentsHandler{reconciler: reconciler}
}

// CanPay godoc
// @Summary      ¿Se puede cobrar la cuenta?
// @Description  Indica si la cuenta es cobrable: al menos un artículo vivo y todos listos.
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la cuenta"
// @Success      200 {object} dto.CanPayResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/checks/{id}/can-pay [get]
func (h *PaymentsHandler) CanPay(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.reconciler.CanPay(c.Request.Context(), checkID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CloseCheck godoc
// @Summary      Cobrar y cerrar cuenta
// @Description  Valida el monto contra el total recalculado (tolerancia de un centavo), registra el pago, cierra la cuenta y libera sus mesas.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CloseCheckRequest true "Cuenta, método y montos"
// @Success      201  {object} dto.PaymentResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/payments [post]
func (h *PaymentsHandler) CloseCheck(c *gin.Context) {
	var req dto.CloseCheckRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	staffID, _ := uuid.Parse(claims.UserID)

	resp, err := h.reconciler.CloseCheck(c.Request.Context(), staffID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPayments godoc
// @Summary      Pagos de una cuenta
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la cuenta"
// @Success      200 {array} dto.PaymentResponse
// @Router       /v1/checks/{id}/payments [get]
func (h *PaymentsHandler) ListPayments(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.reconciler.ListPayments(c.Request.Context(), checkID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
