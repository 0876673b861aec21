package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core/auth"
)

// teacherMiddleware only lets teachers through. The switch is exhaustive;
// any role it does not know fails closed.
func teacherMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, err := principalFromContext(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context principal")
			}
			switch p.Role {
			case auth.RoleTeacher:
				return next(ctx)
			case auth.RoleStudent:
				return errHTTPForbidden
			default:
				return errHTTPForbidden
			}
		}
	}
}
