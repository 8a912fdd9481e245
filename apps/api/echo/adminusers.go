package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core/adminuser"
)

func (api *adminApi) createUser(ctx echo.Context) error {
	var data adminuser.NewAdminUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdminUser")
	}

	usr, err := api.adminUserSvc.Provision(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "userId": usr.ID})
}

func (api *adminApi) listUsers(ctx echo.Context) error {
	users, err := api.adminUserSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []adminuser.AdminUser{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) updateUser(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errInvalidID
	}

	var data adminuser.UpdateAdminUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAdminUser")
	}

	usr, err := api.adminUserSvc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *adminApi) destroyUser(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errInvalidID
	}

	// admins cannot delete themselves
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	usr, err := api.adminUserSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if usr.UserID == claims.Subject {
		return errHttpForbidden
	}

	if err := api.adminUserSvc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
