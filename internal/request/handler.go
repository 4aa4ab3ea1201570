package request

import (
	"net/http"

	"TutorHub/internal/auth"
	"TutorHub/pkg/response"

	"github.com/labstack/echo/v4"
)

type RequestHandler struct {
	service *RequestService
}

func NewRequestHandler(service *RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

func (h *RequestHandler) Send(c echo.Context) error {
	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	created, err := h.service.Send(c.Request().Context(), auth.CurrentUser(c), req)
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusCreated, response.OK(created))
}

func (h *RequestHandler) Accept(c echo.Context) error {
	return h.respond(c, "accept")
}

func (h *RequestHandler) Reject(c echo.Context) error {
	return h.respond(c, "reject")
}

func (h *RequestHandler) respond(c echo.Context, decision string) error {
	updated, err := h.service.Respond(c.Request().Context(), auth.CurrentUser(c), c.Param("id"), decision)
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OK(updated))
}

func (h *RequestHandler) ListMine(c echo.Context) error {
	requests, err := h.service.ListMine(c.Request().Context(), auth.CurrentUser(c))
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OKWithTotal(requests, int64(len(requests))))
}

func (h *RequestHandler) ListReceived(c echo.Context) error {
	requests, err := h.service.ListReceived(c.Request().Context(), auth.CurrentUser(c), c.QueryParam("status"))
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OKWithTotal(requests, int64(len(requests))))
}

func (h *RequestHandler) ListMyStudents(c echo.Context) error {
	students, err := h.service.ListAcceptedStudents(c.Request().Context(), auth.CurrentUser(c))
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OKWithTotal(students, int64(len(students))))
}
