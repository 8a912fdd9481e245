package echoapi

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core/catalogo"
	"github.com/academiadanas/inscripciones/core/registro"
)

type registroApi struct {
	svc         *registro.Service
	notifier    *registro.Notifier
	catalogoSvc *catalogo.Service
}

func registerPublicAPI(g *echo.Group, svc *registro.Service, notifier *registro.Notifier, catalogoSvc *catalogo.Service) {
	api := registroApi{svc: svc, notifier: notifier, catalogoSvc: catalogoSvc}

	g.GET("/catalogos", api.catalogos)
	g.GET("/cursos", api.cursos)
	g.POST("/registro", api.create)
	g.POST("/registro/buscar", api.buscar)
	g.GET("/pdf/:id", api.pdfInline)
	g.POST("/pdf/:id", api.pdfDispatch)
}

// Handlers

func (api *registroApi) catalogos(ctx echo.Context) error {
	grouped, _, err := api.catalogoSvc.Agrupados(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "grouping catalogos")
	}
	return ctx.JSON(http.StatusOK, grouped)
}

func (api *registroApi) cursos(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, registro.CursosAgrupados())
}

func (api *registroApi) create(ctx echo.Context) error {
	var data registro.NewRegistro
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistro")
	}

	archivos, err := readArchivos(ctx)
	if err != nil {
		return errors.Wrap(err, "reading archivos")
	}

	reg, _, err := api.svc.Create(ctx.Request().Context(), data, archivos)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "registroId": reg.ID})
}

// readArchivos pulls the optional document uploads off the multipart form.
// A missing part is not an error; size/type enforcement happens at intake.
func readArchivos(ctx echo.Context) ([]registro.Archivo, error) {
	campos := []string{registro.CampoINE, registro.CampoActaNacimiento, registro.CampoComprobanteDomicilio}

	archivos := make([]registro.Archivo, 0, len(campos))
	for _, campo := range campos {
		fh, err := ctx.FormFile(campo)
		if err != nil {
			continue // not attached
		}
		a, err := readArchivo(campo, fh)
		if err != nil {
			return nil, err
		}
		archivos = append(archivos, a)
	}
	return archivos, nil
}

func readArchivo(campo string, fh *multipart.FileHeader) (registro.Archivo, error) {
	f, err := fh.Open()
	if err != nil {
		return registro.Archivo{}, errors.Wrapf(err, "opening %s", campo)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, registro.MaxFileSize+1))
	if err != nil {
		return registro.Archivo{}, errors.Wrapf(err, "reading %s", campo)
	}
	return registro.Archivo{
		Campo:       campo,
		Nombre:      fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Contenido:   content,
	}, nil
}

type buscarRequest struct {
	Correo   string `json:"correo"`
	Telefono string `json:"telefono"`
}

func (api *registroApi) buscar(ctx echo.Context) error {
	var data buscarRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to buscarRequest")
	}

	res, err := api.svc.Search(ctx.Request().Context(), data.Correo, data.Telefono)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
