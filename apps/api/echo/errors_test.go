package echoapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
	testutil "github.com/academiadanas/inscripciones/tests"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	app := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return app.NewContext(req, rec), rec
}

func TestErrorHandlerSignalsShutdown(t *testing.T) {
	var signaled bool
	handler := newAppHTTPErrorHandler(testutil.Logger{}, func() { signaled = true })

	ctx, rec := newTestContext()
	handler(core.NewShutdownError("request context corrupted"), ctx)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d; expected %d", rec.Code, http.StatusInternalServerError)
	}
	if !signaled {
		t.Error("expected the shutdown signal to fire")
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message in the response body")
	}
}

func TestErrorHandlerOrdinaryServerError(t *testing.T) {
	var signaled bool
	handler := newAppHTTPErrorHandler(testutil.Logger{}, func() { signaled = true })

	ctx, rec := newTestContext()
	handler(errors.New("boom"), ctx)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d; expected %d", rec.Code, http.StatusInternalServerError)
	}
	if signaled {
		t.Error("shutdown must not fire for ordinary server errors")
	}
}

func TestRoleMiddlewareMissingClaims(t *testing.T) {
	ctx, _ := newTestContext()

	next := func(echo.Context) error { return nil }
	err := roleMiddleware(adminuser.RolViewer)(next)(ctx)
	if !core.IsShutdown(err) {
		t.Errorf("expected a shutdown error when the claims are missing, got %v", err)
	}
}
