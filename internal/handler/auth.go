package handler

import (
	"net/http"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/dto"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credenciales"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Renovar tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RefreshRequest true "Refresh token vigente"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateStaff godoc
// @Summary      Crear empleado
// @Tags         personal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateStaffRequest true "Datos del empleado"
// @Success      201  {object} dto.StaffResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/staff [post]
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var req dto.CreateStaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateStaff(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListStaff godoc
// @Summary      Listar empleados
// @Tags         personal
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive query bool false "Incluir dados de baja"
// @Success      200 {array} dto.StaffResponse
// @Router       /v1/staff [get]
func (h *AuthHandler) ListStaff(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.ListStaff(c.Request.Context(), includeInactive)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStaff godoc
// @Summary      Actualizar empleado
// @Tags         personal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del empleado"
// @Param        body body dto.UpdateStaffRequest true "Campos a cambiar"
// @Success      200  {object} dto.StaffResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/staff/{id} [put]
func (h *AuthHandler) UpdateStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.UpdateStaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStaff(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateStaff godoc
// @Summary      Dar de baja un empleado
// @Tags         personal
// @Security     BearerAuth
// @Param        id path string true "UUID del empleado"
// @Success      204
// @Router       /v1/staff/{id} [delete]
func (h *AuthHandler) DeactivateStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DeactivateStaff(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReactivateStaff godoc
// @Summary      Reactivar un empleado
// @Tags         personal
// @Security     BearerAuth
// @Param        id path string true "UUID del empleado"
// @Success      204
// @Router       /v1/staff/{id}/reactivate [post]
func (h *AuthHandler) ReactivateStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.ReactivateStaff(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
