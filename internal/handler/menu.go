package handler

import (
	"net/http"

	"github.com/JorgeKerilima19/app-management-sub000/internal/apierror"
	"github.com/JorgeKerilima19/app-management-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MenuHandler struct{ menu service.MenuService }

func NewMenuHandler(menu service.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// ListMenu godoc
// @Summary      Carta activa
// @Description  Lista los productos activos de la carta. Respuesta cacheada brevemente en Redis.
// @Tags         carta
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.MenuItemResponse
// @Router       /v1/menu [get]
func (h *MenuHandler) ListMenu(c *gin.Context) {
	resp, err := h.menu.ListMenu(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCategories godoc
// @Summary      Categorías de la carta
// @Tags         carta
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CategoryResponse
// @Router       /v1/menu/categories [get]
func (h *MenuHandler) ListCategories(c *gin.Context) {
	resp, err := h.menu.ListCategories(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetItem godoc
// @Summary      Detalle de producto
// @Tags         carta
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.MenuItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/menu/{id} [get]
func (h *MenuHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.menu.GetItem(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecipe godoc
// @Summary      Receta de un producto
// @Description  Líneas de receta del producto: insumo, cantidad por unidad vendida y si es opcional.
// @Tags         carta
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {array} dto.RecipeLineResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/menu/{id}/recipe [get]
func (h *MenuHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.menu.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
