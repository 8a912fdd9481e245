package tests

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/academiadanas/inscripciones/core/adminuser"
	"github.com/academiadanas/inscripciones/core/registro"
	testutil "github.com/academiadanas/inscripciones/tests"
)

func Test_adminApi_login(t *testing.T) {
	app := setup(t)
	usr := createAdminUser(t, "admin@test.mx", adminuser.RolAdmin)

	t.Run("ok", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"email": "Admin@Test.MX", "password": "Xk9$mTzL!w"})
		req, rec := newRequest(http.MethodPost, "/api/admin/login", body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Token string              `json:"token"`
			User  adminuser.AdminUser `json:"user"`
		}
		decodeBody(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, usr.ID, resp.User.ID)
		assert.Equal(t, adminuser.RolAdmin, resp.User.Rol)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"email": "admin@test.mx", "password": "nope"})
		req, rec := newRequest(http.MethodPost, "/api/admin/login", body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp httpErr
		decodeBody(t, rec, &resp)
		assert.Equal(t, "credenciales inválidas", resp.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/admin/login", marchallObj(t, map[string]string{}))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		decodeBody(t, rec, &fields)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})

	t.Run("deactivated account", func(t *testing.T) {
		deactivated := createAdminUser(t, "exstaff@test.mx", adminuser.RolViewer)
		inactive := false
		if _, err := adminUserSvc.Update(context.Background(), deactivated.ID, adminuser.UpdateAdminUser{Activo: &inactive}); err != nil {
			t.Fatalf("Update() failed: %v", err)
		}

		body := marchallObj(t, map[string]string{"email": "exstaff@test.mx", "password": "Xk9$mTzL!w"})
		r, rec := newRequest(http.MethodPost, "/api/admin/login", body)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var resp httpErr
		decodeBody(t, rec, &resp)
		assert.Equal(t, "cuenta desactivada", resp.Error)
	})
}

func Test_adminApi_registros(t *testing.T) {
	app := setup(t)
	viewerToken := getToken(t, createAdminUser(t, "viewer@test.mx", adminuser.RolViewer))
	editorToken := getToken(t, createAdminUser(t, "editor@test.mx", adminuser.RolEditor))
	adminToken := getToken(t, createAdminUser(t, "jefa@test.mx", adminuser.RolAdmin))

	reg := testutil.CreateRegistro(t, registroRepo, 30)
	testutil.CreateRegistro(t, registroRepo, 31)

	t.Run("listing requires a token", func(t *testing.T) {
		r, rec := newRequest(http.MethodGet, "/api/admin/registros")
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp httpErr
		decodeBody(t, rec, &resp)
		assert.Equal(t, errMissingToken, resp)
	})

	t.Run("viewer lists", func(t *testing.T) {
		r, rec := newAuthRequest(http.MethodGet, "/api/admin/registros?porPagina=1", viewerToken)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var page registro.PaginatedRegistros
		decodeBody(t, rec, &page)
		assert.Equal(t, 2, page.Total)
		assert.Equal(t, 2, page.TotalPaginas)
		assert.Len(t, page.Data, 1)
	})

	t.Run("viewer retrieves", func(t *testing.T) {
		r, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/admin/registros/%d", reg.ID), viewerToken)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got registro.Registro
		decodeBody(t, rec, &got)
		assert.Equal(t, reg.ID, got.ID)
	})

	t.Run("viewer cannot edit", func(t *testing.T) {
		body := marchallObj(t, testutil.NewRegistroFixture(30))
		r, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/admin/registros/%d", reg.ID), viewerToken, body)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var resp httpErr
		decodeBody(t, rec, &resp)
		assert.Equal(t, "permiso denegado", resp.Error)
	})

	t.Run("editor edits", func(t *testing.T) {
		nr := testutil.NewRegistroFixture(30)
		nr.Nombre = "ana maria"
		r, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/admin/registros/%d", reg.ID), editorToken, marchallObj(t, nr))
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got registro.Registro
		decodeBody(t, rec, &got)
		assert.Equal(t, "ANA MARIA", got.Nombre)
	})

	t.Run("editor cannot delete", func(t *testing.T) {
		r, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/admin/registros/%d", reg.ID), editorToken)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin deletes", func(t *testing.T) {
		r, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/api/admin/registros/%d", reg.ID), adminToken)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		r, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/api/admin/registros/%d", reg.ID), adminToken)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		r, rec := newAuthRequest(http.MethodGet, "/api/admin/registros/abc", viewerToken)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_adminApi_export(t *testing.T) {
	app := setup(t)
	viewerToken := getToken(t, createAdminUser(t, "viewer2@test.mx", adminuser.RolViewer))
	editorToken := getToken(t, createAdminUser(t, "editor2@test.mx", adminuser.RolEditor))
	testutil.CreateRegistro(t, registroRepo, 40)

	t.Run("viewer cannot export", func(t *testing.T) {
		r, rec := newAuthRequest(http.MethodGet, "/api/admin/registros/export", viewerToken)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("editor exports", func(t *testing.T) {
		r, rec := newAuthRequest(http.MethodGet, "/api/admin/registros/export", editorToken)
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "registros_filtrados_")
		assert.NotZero(t, rec.Body.Len())
	})
}

func Test_adminApi_stats(t *testing.T) {
	app := setup(t)
	viewerToken := getToken(t, createAdminUser(t, "viewer3@test.mx", adminuser.RolViewer))
	testutil.CreateRegistro(t, registroRepo, 50)
	testutil.CreateRegistro(t, registroRepo, 51)

	r, rec := newAuthRequest(http.MethodGet, "/api/admin/stats", viewerToken)
	app.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stats registro.Stats
	decodeBody(t, rec, &stats)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.PorCurso["COSMETOLOGIA"])
}

func Test_adminApi_replaceDocumento(t *testing.T) {
	app := setup(t)
	editorToken := getToken(t, createAdminUser(t, "editor3@test.mx", adminuser.RolEditor))
	reg := testutil.CreateRegistro(t, registroRepo, 60)

	newDocRequest := func(t *testing.T, campo string) (*http.Request, *httptest.ResponseRecorder) {
		t.Helper()
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		if err := w.WriteField("campo", campo); err != nil {
			t.Fatalf("WriteField(campo) failed: %v", err)
		}
		fw, err := createPDFPart(w, "archivo")
		if err != nil {
			t.Fatalf("createPDFPart() failed: %v", err)
		}
		if _, err := fw.Write([]byte("%PDF-1.4 reemplazo")); err != nil {
			t.Fatalf("writing part failed: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("closing writer failed: %v", err)
		}

		r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/admin/registros/%d/documentos", reg.ID), &body)
		r.Header.Set("Content-Type", w.FormDataContentType())
		r.Header.Set("Authorization", "Bearer "+editorToken)
		return r, httptest.NewRecorder()
	}

	t.Run("stores the new document", func(t *testing.T) {
		r, rec := newDocRequest(t, "ine")
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got registro.Registro
		decodeBody(t, rec, &got)
		assert.True(t, got.RutaINE.Valid)
		assert.True(t, strings.HasSuffix(got.RutaINE.String, ".pdf"))
		assert.NotNil(t, registroFiles.Get(got.RutaINE.String))
	})

	t.Run("unknown campo", func(t *testing.T) {
		r, rec := newDocRequest(t, "pasaporte")
		app.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		decodeBody(t, rec, &fields)
		assert.Contains(t, fields, "campo")
	})
}
