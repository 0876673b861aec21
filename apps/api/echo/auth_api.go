package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core"
	"github.com/zhurnalapp/zhurnal/core/auth"
	"github.com/zhurnalapp/zhurnal/core/student"
	"github.com/zhurnalapp/zhurnal/core/teacher"
)

type authAPI struct {
	deps ServerDeps
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := authAPI{deps: deps}

	// un-authed endpoints
	g.POST("/login/student", api.loginStudent)
	g.POST("/login/teacher", api.loginTeacher)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.GET("/me", api.me)
	ag.POST("/change-password", api.changePassword)
	ag.POST("/logout", api.logout)
	ag.POST("/register/student", api.registerStudent, teacherMiddleware())
	ag.POST("/register/teacher", api.registerTeacher, teacherMiddleware())
}

type (
	loginRequest struct {
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	loginResponse struct {
		Token string      `json:"token"`
		User  interface{} `json:"user"`
		Role  auth.Role   `json:"role"`
	}

	meResponse struct {
		User interface{} `json:"user"`
		Role auth.Role   `json:"role"`
	}

	changePasswordRequest struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=6"`
	}
)

func (lr *loginRequest) Validate(validate *validator.Validate) error {
	lr.Login = core.CleanString(lr.Login, true /* lower */)
	return validate.Struct(lr)
}

var errInvalidCredentials = errors.New("invalid login or password")

func (api *authAPI) issueToken(p auth.Principal) (string, error) {
	return auth.GenerateToken(auth.NewClaims(p, api.deps.Conf), []byte(api.deps.Conf.SecretKey))
}

func (api *authAPI) loginStudent(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	s, err := api.deps.StudentSvc.Authenticate(ctx.Request().Context(), data.Login, data.Password)
	if err != nil {
		return core.NewValidationError(errInvalidCredentials)
	}
	token, err := api.issueToken(s.Principal())
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return jsonData(ctx, http.StatusOK, loginResponse{Token: token, User: s, Role: auth.RoleStudent})
}

func (api *authAPI) loginTeacher(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	t, err := api.deps.TeacherSvc.Authenticate(ctx.Request().Context(), data.Login, data.Password)
	if err != nil {
		return core.NewValidationError(errInvalidCredentials)
	}
	token, err := api.issueToken(t.Principal())
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return jsonData(ctx, http.StatusOK, loginResponse{Token: token, User: t, Role: auth.RoleTeacher})
}

// me returns the caller's fresh profile record, not the token claims:
// names and contacts may have changed since the token was issued.
func (api *authAPI) me(ctx echo.Context) error {
	p, err := principalFromContext(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context principal")
	}

	reqCtx := ctx.Request().Context()
	switch p.Role {
	case auth.RoleStudent:
		s, err := api.deps.StudentSvc.GetByID(reqCtx, p.ID)
		if err != nil {
			return errors.Wrap(err, "finding student by ID")
		}
		return jsonData(ctx, http.StatusOK, meResponse{User: s, Role: p.Role})
	case auth.RoleTeacher:
		t, err := api.deps.TeacherSvc.GetByID(reqCtx, p.ID)
		if err != nil {
			return errors.Wrap(err, "finding teacher by ID")
		}
		return jsonData(ctx, http.StatusOK, meResponse{User: t, Role: p.Role})
	default:
		return errHTTPForbidden
	}
}

func (api *authAPI) changePassword(ctx echo.Context) error {
	p, err := principalFromContext(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context principal")
	}

	var data changePasswordRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to changePasswordRequest")
	}
	if err = api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	switch p.Role {
	case auth.RoleStudent:
		s, err := api.deps.StudentSvc.GetByID(reqCtx, p.ID)
		if err != nil {
			return errors.Wrap(err, "finding student by ID")
		}
		if err = api.deps.StudentSvc.SetPassword(reqCtx, s, data.CurrentPassword, data.NewPassword); err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return core.NewValidationError(nil, core.FieldError{Field: "currentPassword", Error: "current password is incorrect"})
			}
			return errors.Wrap(err, "setting student password")
		}
	case auth.RoleTeacher:
		t, err := api.deps.TeacherSvc.GetByID(reqCtx, p.ID)
		if err != nil {
			return errors.Wrap(err, "finding teacher by ID")
		}
		if err = api.deps.TeacherSvc.SetPassword(reqCtx, t, data.CurrentPassword, data.NewPassword); err != nil {
			if errors.Cause(err) == teacher.ErrNotFound {
				return core.NewValidationError(nil, core.FieldError{Field: "currentPassword", Error: "current password is incorrect"})
			}
			return errors.Wrap(err, "setting teacher password")
		}
	default:
		return errHTTPForbidden
	}

	return jsonMessage(ctx, http.StatusOK, "password changed")
}

// logout only acknowledges: tokens are stateless and stay valid until
// their expiry.
func (api *authAPI) logout(ctx echo.Context) error {
	if _, err := principalFromContext(ctx); err != nil {
		return errors.Wrap(err, "getting context principal")
	}
	return jsonMessage(ctx, http.StatusOK, "logged out")
}

func (api *authAPI) registerStudent(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate, api.deps.StudentSvc); err != nil {
		return err
	}

	s, err := api.deps.StudentSvc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return jsonData(ctx, http.StatusCreated, s)
}

func (api *authAPI) registerTeacher(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, api.deps.Validate, api.deps.TeacherSvc); err != nil {
		return err
	}

	t, err := api.deps.TeacherSvc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return jsonData(ctx, http.StatusCreated, t)
}
