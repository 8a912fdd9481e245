package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core/registro"
)

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// pdfInline renders the receipt for in-browser viewing. The PDF is freshly
// rendered on every request so it always reflects the latest record edits.
func (api *registroApi) pdfInline(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	reg, pdf, err := api.notifier.Render(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("inline; filename=%q", registro.PDFFileName(reg)))
	return ctx.Blob(http.StatusOK, "application/pdf", pdf)
}

type pdfRequest struct {
	Action string `json:"action"`
}

// pdfDispatch handles the download/send/generate actions. Download streams
// the bytes; the other actions answer with the dispatch result, where a
// delivery failure shows up as emailError rather than an HTTP error.
func (api *registroApi) pdfDispatch(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data pdfRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to pdfRequest")
	}

	res, pdf, err := api.notifier.Dispatch(ctx.Request().Context(), id, registro.Accion(data.Action))
	if err != nil {
		return err
	}

	if registro.Accion(data.Action) == registro.AccionDownload {
		ctx.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", res.PDFFileName))
		return ctx.Blob(http.StatusOK, "application/pdf", pdf)
	}
	return ctx.JSON(http.StatusOK, res)
}
