package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/foodapp/storefront/internal/core/ports"
)

// MenuHandler serves the public menu and the admin menu editor.
type MenuHandler struct {
	menu ports.MenuService
}

func NewMenuHandler(menu ports.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// Categories lists menu categories in display order.
//
// @Summary      List categories
// @Tags         menu
// @Produce      json
// @Param        active  query     bool  false  "Only active categories"
// @Success      200     {array}   domain.Category
// @Failure      503     {object}  errorResponse
// @Router       /v1/menu/categories [get]
func (h *MenuHandler) Categories(c echo.Context) error {
	var q categoriesQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	cats, err := h.menu.Categories(c.Request().Context(), q.Active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

// Items searches, filters and sorts menu items.
//
// @Summary      Search menu items
// @Tags         menu
// @Produce      json
// @Param        query       query     string   false  "Text matched against name, description and ingredients"
// @Param        categoryId  query     int      false  "Category"
// @Param        minPrice    query     number   false  "Minimum price"
// @Param        maxPrice    query     number   false  "Maximum price"
// @Param        available   query     bool     false  "Availability"
// @Param        dietary     query     string   false  "Dietary tag"
// @Param        sortBy      query     string   false  "Sort key"    Enums(name, price, preparation, calories)
// @Param        sortOrder   query     string   false  "Sort order"  Enums(asc, desc)
// @Success      200         {array}   domain.MenuItem
// @Failure      422         {object}  errorResponse
// @Router       /v1/menu/items [get]
func (h *MenuHandler) Items(c echo.Context) error {
	var q menuSearchQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	query := ports.MenuQuery{
		Query:      q.Query,
		CategoryID: q.CategoryID,
		Dietary:    q.Dietary,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	}
	if q.MinPrice != "" {
		v, err := decimal.NewFromString(q.MinPrice)
		if err != nil || v.IsNegative() {
			return &ValidationError{Fields: map[string]string{"minPrice": "minPrice must be a non-negative number"}}
		}
		query.MinPrice = &v
	}
	if q.MaxPrice != "" {
		v, err := decimal.NewFromString(q.MaxPrice)
		if err != nil || v.IsNegative() {
			return &ValidationError{Fields: map[string]string{"maxPrice": "maxPrice must be a non-negative number"}}
		}
		query.MaxPrice = &v
	}
	if q.Available != "" {
		v := q.Available == "true"
		query.Available = &v
	}

	items, err := h.menu.Items(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Item returns a single menu item.
//
// @Summary      Get a menu item
// @Tags         menu
// @Produce      json
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  domain.MenuItem
// @Failure      404  {object}  errorResponse
// @Router       /v1/menu/items/{id} [get]
func (h *MenuHandler) Item(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.menu.Item(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// CreateItem adds a menu item.
//
// @Summary      Create a menu item
// @Tags         admin-menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      201   {object}  domain.MenuItem
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/menu/items [post]
func (h *MenuHandler) CreateItem(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.menu.CreateItem(c.Request().Context(), sess.UpstreamToken, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem replaces a menu item.
//
// @Summary      Update a menu item
// @Tags         admin-menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Item id"
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      200   {object}  domain.MenuItem
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/menu/items/{id} [put]
func (h *MenuHandler) UpdateItem(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.menu.UpdateItem(c.Request().Context(), sess.UpstreamToken, id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes a menu item.
//
// @Summary      Delete a menu item
// @Tags         admin-menu
// @Security     BearerAuth
// @Param        id   path  int  true  "Item id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/menu/items/{id} [delete]
func (h *MenuHandler) DeleteItem(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.menu.DeleteItem(c.Request().Context(), sess.UpstreamToken, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetAvailability toggles whether an item can be ordered.
//
// @Summary      Toggle item availability
// @Tags         admin-menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Item id"
// @Param        body  body      availabilityRequest  true  "Availability"
// @Success      200   {object}  domain.MenuItem
// @Router       /v1/admin/menu/items/{id}/availability [patch]
func (h *MenuHandler) SetAvailability(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req availabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.menu.SetAvailability(c.Request().Context(), sess.UpstreamToken, id, *req.IsAvailable)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// CreateCategory adds a category.
//
// @Summary      Create a category
// @Tags         admin-menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/menu/categories [post]
func (h *MenuHandler) CreateCategory(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.menu.CreateCategory(c.Request().Context(), sess.UpstreamToken, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}

// UpdateCategory replaces a category.
//
// @Summary      Update a category
// @Tags         admin-menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Category id"
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  domain.Category
// @Router       /v1/admin/menu/categories/{id} [put]
func (h *MenuHandler) UpdateCategory(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.menu.UpdateCategory(c.Request().Context(), sess.UpstreamToken, id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

// DeleteCategory removes a category.
//
// @Summary      Delete a category
// @Tags         admin-menu
// @Security     BearerAuth
// @Param        id  path  int  true  "Category id"
// @Success      204
// @Router       /v1/admin/menu/categories/{id} [delete]
func (h *MenuHandler) DeleteCategory(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.menu.DeleteCategory(c.Request().Context(), sess.UpstreamToken, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
