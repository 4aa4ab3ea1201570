package middleware

import (
	"fmt"
	"net/http"

	"TutorHub/internal/auth"
	"TutorHub/pkg/response"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/labstack/echo/v4"
)

const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act`

// rbacPolicies maps role -> (route template, method). The object side
// matches echo's c.Path(), so param segments stay as :id.
var rbacPolicies = [][]string{
	{"student", "/api/requests", "POST"},
	{"student", "/api/requests/my-requests", "GET"},
	{"student", "/api/students/teachers/:id/reviews", "POST"},
	{"student", "/api/students/reviews/:id", "PUT"},
	{"student", "/api/students/reviews/:id", "DELETE"},
	{"teacher", "/api/requests/received", "GET"},
	{"teacher", "/api/requests/:id/accept", "PUT"},
	{"teacher", "/api/requests/:id/reject", "PUT"},
	{"teacher", "/api/requests/my-students", "GET"},
	{"teacher", "/api/teachers/profile", "PUT"},
	{"student", "/api/auth/profile", "GET"},
	{"teacher", "/api/auth/profile", "GET"},
	{"student", "/api/auth/deactivate", "DELETE"},
	{"teacher", "/api/auth/deactivate", "DELETE"},
}

// NewEnforcer builds the RBAC enforcer with the model and policies defined
// in code, so the binary carries no runtime policy files.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("parse rbac model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(rbacPolicies); err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	return enforcer, nil
}

// CasbinMiddleware enforces role access per route. Runs after
// JWTMiddleware, which guarantees the claims are present.
func CasbinMiddleware(enforcer *casbin.Enforcer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.JWTClaims)
			if !ok || claims == nil {
				return c.JSON(http.StatusUnauthorized, response.Fail("missing user claims"))
			}

			allowed, err := enforcer.Enforce(claims.Role, c.Path(), c.Request().Method)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, response.Fail("rbac system error"))
			}
			if !allowed {
				return c.JSON(http.StatusForbidden, response.Fail("insufficient permissions"))
			}
			return next(c)
		}
	}
}
