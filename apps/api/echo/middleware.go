package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
)

// roleMiddleware gates a route on a minimum dashboard role. The claims carry
// the role assigned at login; deactivation still bites at the next login.
func roleMiddleware(minRol string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				// the JWT middleware runs first; a miss here means the route chain is broken
				return core.NewShutdownError("claims missing from request context")
			}
			if adminuser.RolePriority(claims.Rol) >= adminuser.RolePriority(minRol) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func viewerMiddleware() echo.MiddlewareFunc { return roleMiddleware(adminuser.RolViewer) }
func editorMiddleware() echo.MiddlewareFunc { return roleMiddleware(adminuser.RolEditor) }
func adminMiddleware() echo.MiddlewareFunc  { return roleMiddleware(adminuser.RolAdmin) }
