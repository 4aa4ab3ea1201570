package review

import (
	"net/http"

	"TutorHub/internal/auth"
	"TutorHub/pkg/response"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	service *ReviewService
}

func NewReviewHandler(service *ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) Create(c echo.Context) error {
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	created, err := h.service.Create(c.Request().Context(), auth.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusCreated, response.OK(created))
}

func (h *ReviewHandler) Update(c echo.Context) error {
	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	updated, err := h.service.Update(c.Request().Context(), auth.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OK(updated))
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.CurrentUser(c), c.Param("id")); err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.Message("review deleted"))
}
