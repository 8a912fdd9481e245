package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	. "github.com/academiadanas/inscripciones/apps/api/echo"
	"github.com/academiadanas/inscripciones/core/adminuser"
	"github.com/academiadanas/inscripciones/core/catalogo"
	"github.com/academiadanas/inscripciones/core/registro"
	emailsvc "github.com/academiadanas/inscripciones/services/email"
	pdfsvc "github.com/academiadanas/inscripciones/services/pdf"
	inmemdb "github.com/academiadanas/inscripciones/storage/database/inmem"
	testutil "github.com/academiadanas/inscripciones/tests"
)

var (
	registroRepo  registro.Repository
	adminUserSvc  *adminuser.Service
	registroFiles *inmemdb.FileStore

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func setup(t *testing.T) Server {
	t.Helper()

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	registroRepo = inmemdb.NewRegistroRepository(db)
	catalogoRepo := inmemdb.NewCatalogoRepository(db)
	catalogoRepo.Seed([]catalogo.Entry{
		{Estado: "COLIMA", Municipio: "COLIMA"},
		{Estado: "JALISCO", Municipio: "AUTLAN DE NAVARRO"},
		{Estado: "JALISCO", Municipio: "EL GRULLO"},
	})
	registroFiles = inmemdb.NewFileStore()

	// set up services
	logger := testutil.Logger{}
	mailSvc := emailsvc.NewConsoleServiceMock()
	registroSvc := registro.NewService(registroRepo, registroFiles, logger)
	notifier := registro.NewNotifier(registroSvc, pdfsvc.NewRenderer(), mailSvc, logger)
	adminUserSvc = adminuser.NewService(inmemdb.NewAdminUserRepository(db), inmemdb.NewIdentityProvider(db), logger)

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logger,
			RegistroSvc:    registroSvc,
			Notifier:       notifier,
			CatalogoSvc:    catalogo.NewService(catalogoRepo),
			AdminUserSvc:   adminUserSvc,
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func createAdminUser(t *testing.T, email, rol string) adminuser.AdminUser {
	t.Helper()
	usr, err := adminUserSvc.Provision(context.Background(), adminuser.NewAdminUser{
		Email:    email,
		Password: "Xk9$mTzL!w",
		Nombre:   "Staff",
		Rol:      rol,
	})
	if err != nil {
		t.Fatalf("createAdminUser() failed: %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr adminuser.AdminUser) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v (body: %s)", err, rec.Body.String())
	}
}

// newRegistroForm builds the multipart submission; files maps a document
// field to its part content and every file part is sent as application/pdf.
func newRegistroForm(t *testing.T, nr registro.NewRegistro, files map[string][]byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fields := map[string]string{
		"nombre":             nr.Nombre,
		"apellido_paterno":   nr.ApellidoPaterno,
		"apellido_materno":   nr.ApellidoMaterno,
		"telefono_celular":   nr.TelefonoCelular,
		"correo_electronico": nr.CorreoElectronico,
		"estado_civil":       nr.EstadoCivil,
		"grado_estudios":     nr.GradoEstudios,
		"fecha_nacimiento":   nr.FechaNacimiento,

		"pais_nacimiento":      nr.PaisNacimiento,
		"estado_nacimiento":    nr.EstadoNacimiento,
		"municipio_nacimiento": nr.MunicipioNacimiento,
		"lugar_nacimiento":     nr.LugarNacimiento,

		"calle_domicilio":     nr.CalleDomicilio,
		"numero_exterior":     nr.NumeroExterior,
		"numero_interior":     nr.NumeroInterior,
		"colonia_domicilio":   nr.ColoniaDomicilio,
		"codigo_postal":       nr.CodigoPostal,
		"pais_domicilio":      nr.PaisDomicilio,
		"estado_domicilio":    nr.EstadoDomicilio,
		"municipio_domicilio": nr.MunicipioDomicilio,

		"familiar_nombre":        nr.FamiliarNombre,
		"familiar_parentesco":    nr.FamiliarParentesco,
		"familiar_telefono":      nr.FamiliarTelefono,
		"familiar_calle":         nr.FamiliarCalle,
		"familiar_numero":        nr.FamiliarNumero,
		"familiar_colonia":       nr.FamiliarColonia,
		"familiar_codigo_postal": nr.FamiliarCodigoPostal,
		"familiar_pais":          nr.FamiliarPais,
		"familiar_estado":        nr.FamiliarEstado,
		"familiar_municipio":     nr.FamiliarMunicipio,

		"emergencia_nombre":     nr.EmergenciaNombre,
		"emergencia_parentesco": nr.EmergenciaParentesco,
		"emergencia_telefono":   nr.EmergenciaTelefono,

		"curso": nr.Curso,
	}
	for name, val := range fields {
		if err := w.WriteField(name, val); err != nil {
			t.Fatalf("WriteField(%s) failed: %v", name, err)
		}
	}
	for campo, content := range files {
		fw, err := createPDFPart(w, campo)
		if err != nil {
			t.Fatalf("createPDFPart(%s) failed: %v", campo, err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("writing %s part failed: %v", campo, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/registro", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, httptest.NewRecorder()
}

// createPDFPart adds a file part carrying a real PDF content type;
// multipart.Writer.CreateFormFile would stamp application/octet-stream.
func createPDFPart(w *multipart.Writer, campo string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, campo, campo+".pdf"))
	h.Set("Content-Type", "application/pdf")
	return w.CreatePart(h)
}
