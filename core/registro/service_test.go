package registro_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/registro"
	inmemdb "github.com/academiadanas/inscripciones/storage/database/inmem"
	testutil "github.com/academiadanas/inscripciones/tests"
)

func setupService(t *testing.T) (*registro.Service, registro.Repository, *inmemdb.FileStore) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repo := inmemdb.NewRegistroRepository(db)
	files := inmemdb.NewFileStore()
	return registro.NewService(repo, files, testutil.Logger{}), repo, files
}

func pdfArchivo(campo string) registro.Archivo {
	return registro.Archivo{
		Campo:       campo,
		Nombre:      campo + ".pdf",
		ContentType: "application/pdf",
		Contenido:   []byte("%PDF-1.4 contenido"),
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid payload", func(t *testing.T) {
		svc, _, _ := setupService(t)
		nr := testutil.NewRegistroFixture(1)
		nr.CorreoElectronico = "nope"
		_, _, err := svc.Create(ctx, nr, nil)
		if _, ok := err.(validator.ValidationErrors); !ok {
			t.Fatalf("Create() error = %T(%v), want ValidationErrors", err, err)
		}
	})

	t.Run("stores record and documents", func(t *testing.T) {
		svc, _, files := setupService(t)
		archivos := []registro.Archivo{
			pdfArchivo(registro.CampoINE),
			pdfArchivo(registro.CampoActaNacimiento),
			pdfArchivo(registro.CampoComprobanteDomicilio),
		}
		reg, results, err := svc.Create(ctx, testutil.NewRegistroFixture(2), archivos)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if reg.ID == 0 {
			t.Fatal("Create() did not assign an id")
		}
		if !reg.DocumentosCompletos() {
			t.Errorf("Create() rutas = %v %v %v, want all set", reg.RutaINE, reg.RutaActaNacimiento, reg.RutaComprobanteDomicilio)
		}
		if files.Len() != 3 {
			t.Errorf("files stored = %d, want 3", files.Len())
		}
		for _, res := range results {
			if res.Estado != registro.ArchivoSubido {
				t.Errorf("archivo %s estado = %d, want subido", res.Campo, res.Estado)
			}
		}
		wantKey := registro.StorageKey(reg.ID, archivos[0])
		if reg.RutaINE.String != wantKey {
			t.Errorf("RutaINE = %q, want %q", reg.RutaINE.String, wantKey)
		}
		if files.Get(wantKey) == nil {
			t.Errorf("object %q not stored", wantKey)
		}
	})

	t.Run("skips oversized and mistyped files", func(t *testing.T) {
		svc, _, files := setupService(t)
		big := pdfArchivo(registro.CampoINE)
		big.Contenido = bytes.Repeat([]byte("a"), registro.MaxFileSize+1)
		gif := pdfArchivo(registro.CampoActaNacimiento)
		gif.ContentType = "image/gif"

		reg, results, err := svc.Create(ctx, testutil.NewRegistroFixture(3), []registro.Archivo{
			big, gif, pdfArchivo(registro.CampoComprobanteDomicilio),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if results[0].Estado != registro.ArchivoOmitidoTamano {
			t.Errorf("results[0].Estado = %d, want omitido por tamaño", results[0].Estado)
		}
		if results[1].Estado != registro.ArchivoOmitidoTipo {
			t.Errorf("results[1].Estado = %d, want omitido por tipo", results[1].Estado)
		}
		if results[2].Estado != registro.ArchivoSubido {
			t.Errorf("results[2].Estado = %d, want subido", results[2].Estado)
		}
		if reg.RutaINE.Valid || reg.RutaActaNacimiento.Valid {
			t.Error("skipped files must not set rutas")
		}
		if !reg.RutaComprobanteDomicilio.Valid {
			t.Error("accepted file must set its ruta")
		}
		if files.Len() != 1 {
			t.Errorf("files stored = %d, want 1", files.Len())
		}
	})

	t.Run("upload failure never rolls back the record", func(t *testing.T) {
		svc, repo, files := setupService(t)
		// learn the id sequence, then make the next upload fail
		prev, _, err := svc.Create(ctx, testutil.NewRegistroFixture(4), nil)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ine := pdfArchivo(registro.CampoINE)
		acta := pdfArchivo(registro.CampoActaNacimiento)
		files.FailKeys = map[string]error{
			registro.StorageKey(prev.ID+1, ine): context.DeadlineExceeded,
		}

		reg, results, err := svc.Create(ctx, testutil.NewRegistroFixture(5), []registro.Archivo{ine, acta})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if results[0].Estado != registro.ArchivoFalloSubida || results[0].Err == nil {
			t.Errorf("results[0] = %+v, want fallo de subida", results[0])
		}
		if results[1].Estado != registro.ArchivoSubido {
			t.Errorf("results[1].Estado = %d, want subido", results[1].Estado)
		}
		if reg.RutaINE.Valid {
			t.Error("failed upload must leave its ruta null")
		}
		if !reg.RutaActaNacimiento.Valid {
			t.Error("surviving upload must set its ruta")
		}
		if _, err := repo.GetRegistroByID(ctx, reg.ID); err != nil {
			t.Errorf("record rolled back: %v", err)
		}
	})
}

func TestServiceSearch(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupService(t)

	old := testutil.CreateRegistro(t, repo, 10, time.Now().Add(-48*time.Hour))
	reg := testutil.CreateRegistro(t, repo, 11)

	t.Run("found", func(t *testing.T) {
		// input is normalized before matching
		res, err := svc.Search(ctx, "  "+strings.ToUpper(reg.CorreoElectronico)+" ", " "+reg.TelefonoCelular+" ")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if !res.Found || res.ID != reg.ID {
			t.Errorf("Search() = %+v, want found id %d", res, reg.ID)
		}
		if res.Nombre != reg.NombreCompleto() || res.Curso != reg.Curso {
			t.Errorf("Search() = %+v", res)
		}
	})

	t.Run("mismatched pair", func(t *testing.T) {
		res, err := svc.Search(ctx, reg.CorreoElectronico, old.TelefonoCelular)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if res.Found {
			t.Errorf("Search() = %+v, want not found", res)
		}
		if res.Message == "" {
			t.Error("Search() missing not-found message")
		}
	})
}

func TestServiceFilter(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupService(t)

	now := time.Now()
	r1 := testutil.CreateRegistro(t, repo, 20, now.Add(-3*time.Hour))
	r2 := testutil.CreateRegistro(t, repo, 21, now.Add(-2*time.Hour))
	r3 := testutil.CreateRegistro(t, repo, 22, now.Add(-1*time.Hour))
	if err := repo.UpdateDocumentRutas(ctx, r2.ID, map[string]string{
		registro.CampoINE:                  "x",
		registro.CampoActaNacimiento:       "y",
		registro.CampoComprobanteDomicilio: "z",
	}); err != nil {
		t.Fatalf("UpdateDocumentRutas() failed: %v", err)
	}

	t.Run("newest first", func(t *testing.T) {
		page, err := svc.Filter(ctx, registro.QueryFilter{})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if page.Total != 3 || len(page.Data) != 3 {
			t.Fatalf("Filter() total = %d, rows = %d", page.Total, len(page.Data))
		}
		if page.Data[0].ID != r3.ID || page.Data[2].ID != r1.ID {
			t.Errorf("Filter() order = %d, %d, %d", page.Data[0].ID, page.Data[1].ID, page.Data[2].ID)
		}
	})

	t.Run("search matches contact columns", func(t *testing.T) {
		page, err := svc.Filter(ctx, registro.QueryFilter{Search: r1.CorreoElectronico})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if page.Total != 1 || page.Data[0].ID != r1.ID {
			t.Errorf("Filter() = %+v, want only %d", page.Data, r1.ID)
		}
	})

	t.Run("documentos completos", func(t *testing.T) {
		page, err := svc.Filter(ctx, registro.QueryFilter{Documentos: "completos"})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if page.Total != 1 || page.Data[0].ID != r2.ID {
			t.Errorf("Filter() = %+v, want only %d", page.Data, r2.ID)
		}
	})

	t.Run("documentos pendientes", func(t *testing.T) {
		page, err := svc.Filter(ctx, registro.QueryFilter{Documentos: "pendientes"})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if page.Total != 2 {
			t.Errorf("Filter() total = %d, want 2", page.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.Filter(ctx, registro.QueryFilter{Pagina: 2, PorPagina: 2})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if page.Total != 3 || page.TotalPaginas != 2 || len(page.Data) != 1 {
			t.Errorf("Filter() = total %d, paginas %d, rows %d", page.Total, page.TotalPaginas, len(page.Data))
		}
		if page.Data[0].ID != r1.ID {
			t.Errorf("Filter() page 2 row = %d, want %d", page.Data[0].ID, r1.ID)
		}
	})

	t.Run("past the last page", func(t *testing.T) {
		page, err := svc.Filter(ctx, registro.QueryFilter{Pagina: 9})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if len(page.Data) != 0 || page.Total != 3 {
			t.Errorf("Filter() = rows %d, total %d", len(page.Data), page.Total)
		}
	})

	t.Run("unpaginated export listing", func(t *testing.T) {
		regs, err := svc.FilterAll(ctx, registro.QueryFilter{PorPagina: 1})
		if err != nil {
			t.Fatalf("FilterAll() error = %v", err)
		}
		if len(regs) != 3 {
			t.Errorf("FilterAll() rows = %d, want all 3", len(regs))
		}
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupService(t)

	reg := testutil.CreateRegistro(t, repo, 30, time.Now().Add(-24*time.Hour))
	if err := repo.UpdateDocumentRutas(ctx, reg.ID, map[string]string{registro.CampoINE: "30/ine_30.pdf"}); err != nil {
		t.Fatalf("UpdateDocumentRutas() failed: %v", err)
	}

	nr := testutil.NewRegistroFixture(30)
	nr.Nombre = "ana maria"
	got, err := svc.Update(ctx, reg.ID, nr)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Nombre != "ANA MARIA" {
		t.Errorf("Update() nombre = %q", got.Nombre)
	}
	if !got.FechaRegistro.Equal(reg.FechaRegistro) {
		t.Errorf("Update() fechaRegistro = %v, want original %v", got.FechaRegistro, reg.FechaRegistro)
	}
	if got.RutaINE.String != "30/ine_30.pdf" {
		t.Errorf("Update() rutaINE = %v, want preserved", got.RutaINE)
	}

	if _, err := svc.Update(ctx, 999999, nr); err != registro.ErrNotFound {
		t.Errorf("Update() error = %v, want %v", err, registro.ErrNotFound)
	}
}

func TestServiceReplaceDocument(t *testing.T) {
	ctx := context.Background()
	svc, repo, files := setupService(t)
	reg := testutil.CreateRegistro(t, repo, 40)

	t.Run("unknown campo", func(t *testing.T) {
		_, err := svc.ReplaceDocument(ctx, reg.ID, pdfArchivo("pasaporte"))
		if _, ok := err.(*core.ValidationError); !ok {
			t.Errorf("ReplaceDocument() error = %T(%v), want validation error", err, err)
		}
	})

	t.Run("bad file is a hard error", func(t *testing.T) {
		a := pdfArchivo(registro.CampoINE)
		a.ContentType = "image/gif"
		if _, err := svc.ReplaceDocument(ctx, reg.ID, a); err == nil {
			t.Error("ReplaceDocument() accepted a mistyped file")
		}
	})

	t.Run("stores and points the ruta", func(t *testing.T) {
		a := pdfArchivo(registro.CampoINE)
		got, err := svc.ReplaceDocument(ctx, reg.ID, a)
		if err != nil {
			t.Fatalf("ReplaceDocument() error = %v", err)
		}
		wantKey := registro.StorageKey(reg.ID, a)
		if got.RutaINE.String != wantKey {
			t.Errorf("RutaINE = %q, want %q", got.RutaINE.String, wantKey)
		}
		if files.Get(wantKey) == nil {
			t.Errorf("object %q not stored", wantKey)
		}
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupService(t)
	reg := testutil.CreateRegistro(t, repo, 50)

	if err := svc.Delete(ctx, reg.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetRegistroByID(ctx, reg.ID); err != registro.ErrNotFound {
		t.Errorf("GetRegistroByID() error = %v, want %v", err, registro.ErrNotFound)
	}
	if err := svc.Delete(ctx, reg.ID); err != registro.ErrNotFound {
		t.Errorf("Delete() error = %v, want %v", err, registro.ErrNotFound)
	}
}

func TestServiceStats(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupService(t)

	now := time.Now().UTC()
	testutil.CreateRegistro(t, repo, 60, now)
	testutil.CreateRegistro(t, repo, 61, now.AddDate(0, 0, -3))
	withDocs := testutil.CreateRegistro(t, repo, 62, now.AddDate(0, 0, -60))
	if err := repo.UpdateDocumentRutas(ctx, withDocs.ID, map[string]string{
		registro.CampoINE:                  "a",
		registro.CampoActaNacimiento:       "b",
		registro.CampoComprobanteDomicilio: "c",
	}); err != nil {
		t.Fatalf("UpdateDocumentRutas() failed: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Hoy != 1 {
		t.Errorf("Hoy = %d, want 1", stats.Hoy)
	}
	if stats.Semana != 2 {
		t.Errorf("Semana = %d, want 2", stats.Semana)
	}
	if stats.DocsCompletos != 1 {
		t.Errorf("DocsCompletos = %d, want 1", stats.DocsCompletos)
	}
	if stats.PorCurso["COSMETOLOGIA"] != 3 {
		t.Errorf("PorCurso = %v", stats.PorCurso)
	}
	var sum int
	for i, m := range stats.PorMes {
		sum += m.Registros
		if i > 0 && stats.PorMes[i-1].Mes > m.Mes {
			t.Errorf("PorMes not sorted: %v", stats.PorMes)
		}
	}
	if sum != stats.Total {
		t.Errorf("PorMes sum = %d, want %d", sum, stats.Total)
	}
}
