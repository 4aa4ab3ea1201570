package teacher

import (
	"net/http"
	"strconv"

	"TutorHub/internal/auth"
	"TutorHub/pkg/response"

	"github.com/labstack/echo/v4"
)

type TeacherHandler struct {
	service *TeacherService
}

func NewTeacherHandler(service *TeacherService) *TeacherHandler {
	return &TeacherHandler{service: service}
}

func (h *TeacherHandler) List(c echo.Context) error {
	minRating, _ := strconv.ParseFloat(c.QueryParam("minRating"), 64)
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	filter := auth.TeacherFilter{
		Subject:      c.QueryParam("subject"),
		TeachingMode: c.QueryParam("teachingMode"),
		MinRating:    minRating,
		Page:         page,
		Limit:        limit,
	}
	teachers, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OKWithTotal(teachers, total))
}

func (h *TeacherHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OK(detail))
}

func (h *TeacherHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	updated, err := h.service.UpdateProfile(c.Request().Context(), auth.CurrentUser(c), req)
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OK(updated))
}
