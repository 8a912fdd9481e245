package adminuser_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
	inmemdb "github.com/academiadanas/inscripciones/storage/database/inmem"
	testutil "github.com/academiadanas/inscripciones/tests"
)

const goodPassword = "Xk9$mTzL!w"

func setupService(t *testing.T) (*adminuser.Service, adminuser.Repository, adminuser.AuthProvider) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repo := inmemdb.NewAdminUserRepository(db)
	auth := inmemdb.NewIdentityProvider(db)
	return adminuser.NewService(repo, auth, testutil.Logger{}), repo, auth
}

func newAdminUser(email string) adminuser.NewAdminUser {
	return adminuser.NewAdminUser{
		Email:    email,
		Password: goodPassword,
		Nombre:   "Ana Torres",
		Rol:      adminuser.RolEditor,
	}
}

func TestServiceProvision(t *testing.T) {
	ctx := context.Background()

	t.Run("creates identity and row", func(t *testing.T) {
		svc, _, _ := setupService(t)
		usr, err := svc.Provision(ctx, newAdminUser("ana@test.mx"))
		if err != nil {
			t.Fatalf("Provision() error = %v", err)
		}
		if usr.ID == 0 || usr.UserID == "" {
			t.Errorf("Provision() = %+v, want id and linked identity", usr)
		}
		if !usr.Activo {
			t.Error("Provision() new account must be active")
		}

		got, err := svc.Authenticate(ctx, "ana@test.mx", goodPassword)
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if got.ID != usr.ID {
			t.Errorf("Authenticate() = %+v, want %+v", got, usr)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _ := setupService(t)
		if _, err := svc.Provision(ctx, newAdminUser("dup@test.mx")); err != nil {
			t.Fatalf("Provision() error = %v", err)
		}
		_, err := svc.Provision(ctx, newAdminUser("DUP@test.mx"))
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		if !ok {
			t.Fatalf("Provision() error = %T(%v), want validation error", err, err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
			t.Errorf("Provision() fields = %v, want email", vErr.Fields)
		}
	})

	t.Run("row insert failure deletes the identity", func(t *testing.T) {
		_, _, auth := setupService(t)
		svc := adminuser.NewService(failingRepo{}, auth, testutil.Logger{})

		if _, err := svc.Provision(ctx, newAdminUser("orfana@test.mx")); err == nil {
			t.Fatal("Provision() expected an error")
		}
		// no orphan identity left behind
		if _, err := auth.Authenticate(ctx, "orfana@test.mx", goodPassword); err != adminuser.ErrInvalidCredentials {
			t.Errorf("Authenticate() error = %v, want %v", err, adminuser.ErrInvalidCredentials)
		}
	})
}

// failingRepo rejects every insert; the remaining methods are never reached.
type failingRepo struct{}

var errInsert = errors.New("insert failed")

func (failingRepo) CheckEmailUniqueness(context.Context, string, ...adminuser.AdminUser) error {
	return nil
}
func (failingRepo) CreateAdminUser(context.Context, adminuser.AdminUser) (adminuser.AdminUser, error) {
	return adminuser.AdminUser{}, errInsert
}
func (failingRepo) QueryAllAdminUsers(context.Context) ([]adminuser.AdminUser, error) {
	return nil, errInsert
}
func (failingRepo) GetAdminUserByID(context.Context, int) (adminuser.AdminUser, error) {
	return adminuser.AdminUser{}, adminuser.ErrNotFound
}
func (failingRepo) GetAdminUserByUserID(context.Context, string) (adminuser.AdminUser, error) {
	return adminuser.AdminUser{}, adminuser.ErrNotFound
}
func (failingRepo) UpdateAdminUser(context.Context, adminuser.AdminUser, *bool) (adminuser.AdminUser, error) {
	return adminuser.AdminUser{}, errInsert
}
func (failingRepo) DeleteAdminUser(context.Context, int) error { return errInsert }

func TestServiceAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	usr, err := svc.Provision(ctx, newAdminUser("login@test.mx"))
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	t.Run("email is case-insensitive", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, " LOGIN@test.mx ", goodPassword); err != nil {
			t.Errorf("Authenticate() error = %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "login@test.mx", "nope"); err != adminuser.ErrInvalidCredentials {
			t.Errorf("Authenticate() error = %v, want %v", err, adminuser.ErrInvalidCredentials)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "nadie@test.mx", goodPassword); err != adminuser.ErrInvalidCredentials {
			t.Errorf("Authenticate() error = %v, want %v", err, adminuser.ErrInvalidCredentials)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := false
		if _, err := svc.Update(ctx, usr.ID, adminuser.UpdateAdminUser{Activo: &inactive}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if _, err := svc.Authenticate(ctx, "login@test.mx", goodPassword); err != adminuser.ErrAccountDeactivated {
			t.Errorf("Authenticate() error = %v, want %v", err, adminuser.ErrAccountDeactivated)
		}
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	usr, err := svc.Provision(ctx, newAdminUser("edit@test.mx"))
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	t.Run("partial update keeps the rest", func(t *testing.T) {
		got, err := svc.Update(ctx, usr.ID, adminuser.UpdateAdminUser{Rol: adminuser.RolViewer})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.Rol != adminuser.RolViewer {
			t.Errorf("Rol = %q", got.Rol)
		}
		if got.Nombre != usr.Nombre || !got.Activo {
			t.Errorf("Update() = %+v, want other fields untouched", got)
		}
	})

	t.Run("unknown rol", func(t *testing.T) {
		if _, err := svc.Update(ctx, usr.ID, adminuser.UpdateAdminUser{Rol: "jefe"}); err == nil {
			t.Error("Update() accepted an unknown rol")
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := svc.Update(ctx, 999999, adminuser.UpdateAdminUser{}); errors.Cause(err) != adminuser.ErrNotFound {
			t.Errorf("Update() error = %v, want %v", err, adminuser.ErrNotFound)
		}
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo, auth := setupService(t)

	usr, err := svc.Provision(ctx, newAdminUser("borrar@test.mx"))
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if err := svc.Delete(ctx, usr.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetAdminUserByID(ctx, usr.ID); err != adminuser.ErrNotFound {
		t.Errorf("GetAdminUserByID() error = %v, want %v", err, adminuser.ErrNotFound)
	}
	// the linked identity goes with the row
	if _, err := auth.Authenticate(ctx, "borrar@test.mx", goodPassword); err != adminuser.ErrInvalidCredentials {
		t.Errorf("Authenticate() error = %v, want %v", err, adminuser.ErrInvalidCredentials)
	}

	if err := svc.Delete(ctx, usr.ID); errors.Cause(err) != adminuser.ErrNotFound {
		t.Errorf("Delete() error = %v, want %v", err, adminuser.ErrNotFound)
	}
}
