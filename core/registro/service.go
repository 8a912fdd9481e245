package registro

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
)

var (
	// errors
	ErrNotFound = errors.New("Registro no encontrado")

	searchNotFoundMsg = "No se encontró ningún registro con esos datos."
)

type (
	Repository interface {
		CreateRegistro(ctx context.Context, reg Registro) (Registro, error)
		GetRegistroByID(ctx context.Context, id int) (Registro, error)
		// SearchRegistroByContacto matches on lower-cased email AND phone,
		// returning the most recent registration.
		SearchRegistroByContacto(ctx context.Context, correo, telefono string) (Registro, error)
		// FilterRegistros applies AND on available QueryFilter fields and returns
		// the page plus the unpaginated total, newest first.
		FilterRegistros(ctx context.Context, filter QueryFilter) ([]Registro, int, error)
		QueryAllRegistros(ctx context.Context) ([]Registro, error)
		UpdateRegistro(ctx context.Context, reg Registro) (Registro, error)
		// UpdateDocumentRutas sets ruta_* columns; keys are document field names.
		UpdateDocumentRutas(ctx context.Context, id int, rutas map[string]string) error
		DeleteRegistro(ctx context.Context, id int) error
	}

	// FileStore is the object storage holding registration documents.
	FileStore interface {
		Upload(ctx context.Context, key, contentType string, content []byte) error
		Delete(ctx context.Context, key string) error
	}

	Service struct {
		repo   Repository
		files  FileStore
		logger core.Logger
	}
)

func NewService(repo Repository, files FileStore, logger core.Logger) *Service {
	return &Service{repo: repo, files: files, logger: logger}
}

// StorageKey derives the deterministic object key for a document. Uniqueness
// follows from the freshly assigned record id; no coordination needed.
func StorageKey(id int, a Archivo) string {
	return fmt.Sprintf("%d/%s_%d.%s", id, a.Campo, id, a.Extension())
}

// Create validates and persists one submission. The record insert must
// succeed; each attached file is then handled independently: oversized or
// mistyped files are silently skipped (they were already rejected client-side,
// this is defense in depth) and an upload failure is logged without rolling
// back the record or the other uploads. Only successfully stored paths are
// written back onto the record.
func (svc *Service) Create(ctx context.Context, nr NewRegistro, archivos []Archivo) (Registro, []ArchivoResultado, error) {
	if err := nr.Validate(); err != nil {
		return Registro{}, nil, err
	}

	reg, err := svc.repo.CreateRegistro(ctx, nr.registro(time.Now().UTC()))
	if err != nil {
		return Registro{}, nil, errors.Wrap(err, "inserting registro")
	}

	results := make([]ArchivoResultado, 0, len(archivos))
	rutas := make(map[string]string)
	for _, a := range archivos {
		res := svc.storeArchivo(ctx, reg.ID, a)
		if res.Estado == ArchivoSubido {
			rutas[a.Campo] = res.Ruta
		}
		results = append(results, res)
	}

	if len(rutas) > 0 {
		if err := svc.repo.UpdateDocumentRutas(ctx, reg.ID, rutas); err != nil {
			// paths remain null; the record itself stands
			svc.logger.Error(fmt.Sprintf("updating document rutas for registro %d: %v", reg.ID, err), err)
		} else {
			reg, err = svc.repo.GetRegistroByID(ctx, reg.ID)
			if err != nil {
				return Registro{}, results, errors.Wrap(err, "reloading registro")
			}
		}
	}

	return reg, results, nil
}

func (svc *Service) storeArchivo(ctx context.Context, id int, a Archivo) ArchivoResultado {
	res := ArchivoResultado{Campo: a.Campo}

	if a.Size() == 0 {
		res.Estado = ArchivoOmitidoTamano
		return res
	}
	if a.Size() > MaxFileSize {
		res.Estado = ArchivoOmitidoTamano
		svc.logger.Warn(fmt.Sprintf("registro %d: archivo %s omitido por tamaño (%d bytes)", id, a.Campo, a.Size()))
		return res
	}
	if !FileTypeAllowed(a.ContentType) {
		res.Estado = ArchivoOmitidoTipo
		svc.logger.Warn(fmt.Sprintf("registro %d: archivo %s omitido por tipo %q", id, a.Campo, a.ContentType))
		return res
	}

	key := StorageKey(id, a)
	if err := svc.files.Upload(ctx, key, a.ContentType, a.Contenido); err != nil {
		res.Estado = ArchivoFalloSubida
		res.Err = err
		svc.logger.Error(fmt.Sprintf("registro %d: subiendo %s: %v", id, a.Campo, err), err)
		return res
	}

	res.Estado = ArchivoSubido
	res.Ruta = key
	return res
}

func (svc *Service) GetByID(ctx context.Context, id int) (Registro, error) {
	return svc.repo.GetRegistroByID(ctx, id)
}

// Search backs the public "find my folio" endpoint.
func (svc *Service) Search(ctx context.Context, correo, telefono string) (SearchResult, error) {
	correo = core.CleanString(correo, true /* lower */)
	telefono = core.CleanString(telefono)

	reg, err := svc.repo.SearchRegistroByContacto(ctx, correo, telefono)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return SearchResult{Found: false, Message: searchNotFoundMsg}, nil
		}
		return SearchResult{}, errors.Wrap(err, "searching registro")
	}

	return SearchResult{
		Found:  true,
		ID:     reg.ID,
		Nombre: reg.NombreCompleto(),
		Curso:  reg.Curso,
		Fecha:  reg.FechaRegistro.Format(time.RFC3339),
	}, nil
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) (PaginatedRegistros, error) {
	filter.Clean()
	regs, total, err := svc.repo.FilterRegistros(ctx, filter)
	if err != nil {
		return PaginatedRegistros{}, errors.Wrap(err, "filtering registros")
	}
	if regs == nil {
		regs = []Registro{}
	}
	totalPaginas := (total + filter.PorPagina - 1) / filter.PorPagina
	return PaginatedRegistros{
		Data:         regs,
		Total:        total,
		Pagina:       filter.Pagina,
		TotalPaginas: totalPaginas,
	}, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Registro, error) {
	return svc.repo.QueryAllRegistros(ctx)
}

// FilterAll returns every matching record, unpaginated; it backs the
// spreadsheet export which honors the listing filters.
func (svc *Service) FilterAll(ctx context.Context, filter QueryFilter) ([]Registro, error) {
	filter.Clean()
	filter.Pagina = 1
	filter.PorPagina = 1 << 30
	regs, _, err := svc.repo.FilterRegistros(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "filtering registros")
	}
	return regs, nil
}

// Update applies an admin edit. Concurrent edits are last-write-wins.
func (svc *Service) Update(ctx context.Context, id int, nr NewRegistro) (Registro, error) {
	if err := nr.Validate(); err != nil {
		return Registro{}, err
	}
	orig, err := svc.repo.GetRegistroByID(ctx, id)
	if err != nil {
		return Registro{}, err
	}
	reg := nr.registro(time.Now().UTC())
	reg.ID = orig.ID
	reg.FechaRegistro = orig.FechaRegistro
	reg.RutaINE = orig.RutaINE
	reg.RutaActaNacimiento = orig.RutaActaNacimiento
	reg.RutaComprobanteDomicilio = orig.RutaComprobanteDomicilio
	return svc.repo.UpdateRegistro(ctx, reg)
}

// ReplaceDocument stores a newly uploaded document for an existing record and
// points its reference at the fresh path. Size/type limits still apply; here a
// bad file is a hard validation error since it is the only thing being done.
func (svc *Service) ReplaceDocument(ctx context.Context, id int, a Archivo) (Registro, error) {
	if a.Campo != CampoINE && a.Campo != CampoActaNacimiento && a.Campo != CampoComprobanteDomicilio {
		return Registro{}, core.NewValidationError(nil, core.FieldError{Field: "campo", Error: "documento desconocido"})
	}
	if a.Size() == 0 || a.Size() > MaxFileSize {
		return Registro{}, core.NewValidationError(nil, core.FieldError{Field: a.Campo, Error: "El archivo excede 5 MB"})
	}
	if !FileTypeAllowed(a.ContentType) {
		return Registro{}, core.NewValidationError(nil, core.FieldError{Field: a.Campo, Error: "Solo se permiten PDF, JPG y PNG"})
	}

	reg, err := svc.repo.GetRegistroByID(ctx, id)
	if err != nil {
		return Registro{}, err
	}

	key := StorageKey(reg.ID, a)
	if err := svc.files.Upload(ctx, key, a.ContentType, a.Contenido); err != nil {
		return Registro{}, errors.Wrap(err, "uploading document")
	}
	if err := svc.repo.UpdateDocumentRutas(ctx, reg.ID, map[string]string{a.Campo: key}); err != nil {
		return Registro{}, errors.Wrap(err, "updating document ruta")
	}
	return svc.repo.GetRegistroByID(ctx, reg.ID)
}

// Delete removes the record. Stored files are not purged.
func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteRegistro(ctx, id)
}

// Stats aggregates the dashboard counters from all records, mirroring the
// admin panel's client-side aggregation.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	regs, err := svc.repo.QueryAllRegistros(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying registros")
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := Stats{
		Total:    len(regs),
		PorCurso: make(map[string]int),
	}
	porMes := make(map[string]int)
	for _, r := range regs {
		ts := r.FechaRegistro.UTC()
		if !ts.Before(today) {
			stats.Hoy++
		}
		if !ts.Before(weekAgo) {
			stats.Semana++
		}
		if !ts.Before(monthStart) {
			stats.Mes++
		}
		if r.DocumentosCompletos() {
			stats.DocsCompletos++
		}
		stats.PorCurso[r.Curso]++
		porMes[ts.Format("2006-01")]++
	}

	meses := make([]string, 0, len(porMes))
	for mes := range porMes {
		meses = append(meses, mes)
	}
	sort.Strings(meses)
	for _, mes := range meses {
		stats.PorMes = append(stats.PorMes, MesStat{Mes: mes, Registros: porMes[mes]})
	}
	return stats, nil
}
