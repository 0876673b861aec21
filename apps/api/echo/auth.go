package echoapi

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zhurnalapp/zhurnal/core"
	"github.com/zhurnalapp/zhurnal/core/auth"
)

const contextTokenKey = "principalToken"

// newJWTMiddleware builds the bearer-token gate. A missing token, a
// malformed/forged token and an expired token all yield 401, with distinct
// messages.
func newJWTMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(auth.Claims),
		ErrorHandler: func(err error) error {
			if err == middleware.ErrJWTMissing {
				return errAuthenticationRequired
			}
			if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
				return errTokenExpired
			}
			return errTokenInvalid
		},
	})
}

// principalFromContext exposes the verified token claims. A token carrying
// an unknown role is rejected outright.
func principalFromContext(ctx echo.Context) (auth.Principal, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*auth.Claims); ok {
			if !claims.Role.Valid() {
				return auth.Principal{}, errHTTPForbidden
			}
			return claims.Principal(), nil
		}
	}
	return auth.Principal{}, errAuthenticationRequired
}
