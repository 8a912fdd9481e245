package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core/adminuser"
	"github.com/academiadanas/inscripciones/core/registro"
	xlsxsvc "github.com/academiadanas/inscripciones/services/xlsx"
)

type adminApi struct {
	registroSvc  *registro.Service
	adminUserSvc *adminuser.Service
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, registroSvc *registro.Service, adminUserSvc *adminuser.Service) {
	api := adminApi{registroSvc: registroSvc, adminUserSvc: adminUserSvc}

	ag := g.Group("/admin")

	// un-authed endpoint
	ag.POST("/login", api.login)

	// authed endpoints; viewers read, editors mutate records, admins manage staff
	rg := ag.Group("/registros", jwt)
	rg.GET("", api.listRegistros, viewerMiddleware())
	rg.GET("/export", api.exportRegistros, editorMiddleware())
	rg.GET("/:id", api.retrieveRegistro, viewerMiddleware())
	rg.PUT("/:id", api.updateRegistro, editorMiddleware())
	rg.DELETE("/:id", api.destroyRegistro, adminMiddleware())
	rg.POST("/:id/documentos", api.replaceDocumento, editorMiddleware())

	ag.GET("/stats", api.stats, jwt, viewerMiddleware())

	ug := ag.Group("/users", jwt, adminMiddleware())
	ug.POST("", api.createUser)
	ug.GET("", api.listUsers)
	ug.PUT("/:id", api.updateUser)
	ug.DELETE("/:id", api.destroyUser)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data adminuser.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.adminUserSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"token": token, "user": usr})
}

func (api *adminApi) listRegistros(ctx echo.Context) error {
	var filter registro.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	page, err := api.registroSvc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *adminApi) exportRegistros(ctx echo.Context) error {
	var filter registro.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	regs, err := api.registroSvc.FilterAll(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}

	content, err := xlsxsvc.Registros(regs)
	if err != nil {
		return errors.Wrap(err, "building export")
	}

	fname := xlsxsvc.FileName(time.Now().UTC().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fname))
	return ctx.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (api *adminApi) retrieveRegistro(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	reg, err := api.registroSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *adminApi) updateRegistro(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data registro.NewRegistro
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistro")
	}

	reg, err := api.registroSvc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *adminApi) destroyRegistro(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.registroSvc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// replaceDocumento stores a re-uploaded document; "campo" names the document
// slot and "archivo" carries the file.
func (api *adminApi) replaceDocumento(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	campo := ctx.FormValue("campo")
	fh, err := ctx.FormFile("archivo")
	if err != nil {
		return errors.Wrap(err, "reading archivo")
	}
	a, err := readArchivo(campo, fh)
	if err != nil {
		return err
	}

	reg, err := api.registroSvc.ReplaceDocument(ctx.Request().Context(), id, a)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *adminApi) stats(ctx echo.Context) error {
	stats, err := api.registroSvc.Stats(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}
