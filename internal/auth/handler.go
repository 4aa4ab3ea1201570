package auth

import (
	"net/http"

	"TutorHub/pkg/response"

	"github.com/labstack/echo/v4"
)

// CurrentUserKey is where the JWT middleware stores the resolved caller.
const CurrentUserKey = "currentUser"

func CurrentUser(c echo.Context) *User {
	user, _ := c.Get(CurrentUserKey).(*User)
	return user
}

type AuthHandler struct {
	service *UserService
}

func NewAuthHandler(service *UserService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	result, err := h.service.Register(c.Request().Context(), req)
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusCreated, response.OK(result))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail("invalid request body"))
	}
	if err := c.Validate(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	result, err := h.service.Login(c.Request().Context(), cred)
	if err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.OK(result))
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	if err := h.service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.Message("if the account exists, a reset email has been sent"))
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	if err := h.service.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.Message("password successfully reset"))
}

func (h *AuthHandler) Profile(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, response.Fail("invalid or missing token"))
	}
	return c.JSON(http.StatusOK, response.OK(user))
}

func (h *AuthHandler) Deactivate(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, response.Fail("invalid or missing token"))
	}
	if err := h.service.Deactivate(c.Request().Context(), user); err != nil {
		return response.JSONError(c, err)
	}
	return c.JSON(http.StatusOK, response.Message("account deactivated"))
}
