package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core"
	"github.com/zhurnalapp/zhurnal/core/grade"
	"github.com/zhurnalapp/zhurnal/core/group"
	"github.com/zhurnalapp/zhurnal/core/student"
	"github.com/zhurnalapp/zhurnal/core/subject"
	"github.com/zhurnalapp/zhurnal/core/teacher"
)

var (
	errAuthenticationRequired = echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	errTokenInvalid           = echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	errTokenExpired           = echo.NewHTTPError(http.StatusUnauthorized, "token expired")
	errHTTPForbidden          = echo.NewHTTPError(http.StatusForbidden, "access denied")
	errHTTPNotFound           = echo.NewHTTPError(http.StatusNotFound, "not found")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that maps
// our errors onto the response envelope. signalShutdown is called whenever
// a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		res := errorResponse{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				res.Message = msg
			} else {
				res.Message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			res.Message = "invalid input"
			res.Details = fldErrs
		case *core.ValidationError:
			code = http.StatusBadRequest
			res.Message = origErr.Error()
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				if res.Message == "" {
					res.Message = "invalid input"
				}
				res.Details = fldErrs
			}
		case *pq.Error:
			switch origErr.Code {
			case pqUniqueViolation:
				code = http.StatusBadRequest
				res.Message = "record already exists"
			case pqForeignKeyViolation:
				code = http.StatusBadRequest
				res.Message = "related record does not exist"
			default:
				code, res = serverError(ctx, logger, signalShutdown, err)
			}
		default:
			switch origErr {
			case student.ErrNotFound, teacher.ErrNotFound, group.ErrNotFound,
				subject.ErrNotFound, grade.ErrLessonNotFound, grade.ErrActivityNotFound:
				code = http.StatusNotFound
				res.Message = origErr.Error()
			case student.ErrLoginExists, teacher.ErrLoginExists, grade.ErrLessonExists:
				code = http.StatusBadRequest
				res.Message = origErr.Error()
			default: // any other error is a server error
				code, res = serverError(ctx, logger, signalShutdown, err)
			}
		}

		if ctx.Echo().Debug {
			res.Error = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func serverError(ctx echo.Context, logger core.Logger, signalShutdown func(), err error) (int, errorResponse) {
	msg := http.StatusText(http.StatusInternalServerError)

	logArgs := []interface{}{errors.Wrap(err, msg)}
	if p, pErr := principalFromContext(ctx); pErr == nil {
		logArgs = append(logArgs, p)
	}
	logger.Error(msg, logArgs...)

	// shutting down...
	if core.IsShutdown(err) {
		signalShutdown()
	}
	return http.StatusInternalServerError, errorResponse{Message: msg}
}
