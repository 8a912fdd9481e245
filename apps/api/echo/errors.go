package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
	"github.com/academiadanas/inscripciones/core/registro"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "no autenticado")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "credenciales inválidas")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "cuenta desactivada")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permiso denegado")
	errInvalidID            = echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch origErr {
			case registro.ErrNotFound, adminuser.ErrNotFound:
				code = http.StatusNotFound
				message = origErr.Error()
			case registro.ErrAccionInvalida:
				code = http.StatusBadRequest
				message = origErr.Error()
			case adminuser.ErrInvalidCredentials:
				code = errAuthenticationFailed.Code
				message = errAuthenticationFailed.Message
			case adminuser.ErrAccountDeactivated:
				code = errAccountDeactivated.Code
				message = errAccountDeactivated.Message
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := "Error al procesar la solicitud: " + err.Error()
				message = msg

				var usr adminuser.AdminUser
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.UserID = claims.Subject
					usr.Nombre = claims.Nombre
					usr.Email = claims.Email
				}
				logger.Error(msg, errors.Wrap(err, "handling request"), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
