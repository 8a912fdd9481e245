package adminuser

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
)

var (
	// errors
	ErrNotFound           = errors.New("usuario no encontrado")
	ErrEmailExists        = errors.New("ya existe un usuario con este correo")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrAccountDeactivated = errors.New("cuenta desactivada")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excluded ...AdminUser) error
		CreateAdminUser(ctx context.Context, usr AdminUser) (AdminUser, error)
		QueryAllAdminUsers(ctx context.Context) ([]AdminUser, error)
		GetAdminUserByID(ctx context.Context, id int) (AdminUser, error)
		GetAdminUserByUserID(ctx context.Context, userID string) (AdminUser, error)
		UpdateAdminUser(ctx context.Context, usr AdminUser, activo *bool) (AdminUser, error)
		DeleteAdminUser(ctx context.Context, id int) error
	}

	// AuthProvider provisions and checks the authentication identities staff
	// accounts are linked to. Role authority never lives in the identity.
	AuthProvider interface {
		CreateIdentity(ctx context.Context, email, password string) (Identity, error)
		DeleteIdentity(ctx context.Context, id string) error
		Authenticate(ctx context.Context, email, password string) (Identity, error)
	}

	Service struct {
		repo   Repository
		auth   AuthProvider
		logger core.Logger
	}
)

func NewService(repo Repository, auth AuthProvider, logger core.Logger) *Service {
	return &Service{repo: repo, auth: auth, logger: logger}
}

// Provision creates the auth identity and the admin row together. From the
// caller's perspective the pair is atomic: when the row insert fails the
// freshly created identity is deleted again.
func (svc *Service) Provision(ctx context.Context, nu NewAdminUser) (AdminUser, error) {
	if err := nu.Validate(); err != nil {
		return AdminUser{}, err
	}
	if err := svc.checkUniqueness(ctx, nu.Email); err != nil {
		return AdminUser{}, err
	}

	identity, err := svc.auth.CreateIdentity(ctx, nu.Email, nu.Password)
	if err != nil {
		return AdminUser{}, errors.Wrap(err, "creating identity")
	}

	now := time.Now().UTC()
	usr, err := svc.repo.CreateAdminUser(ctx, AdminUser{
		UserID:    identity.ID,
		Email:     nu.Email,
		Nombre:    nu.Nombre,
		Rol:       nu.Rol,
		Activo:    true,
		CreatedAt: now,
	})
	if err != nil {
		// compensate: do not leave an orphan identity behind
		if delErr := svc.auth.DeleteIdentity(ctx, identity.ID); delErr != nil {
			svc.logger.Error(fmt.Sprintf("deleting orphan identity %s: %v", identity.ID, delErr), delErr)
		}
		return AdminUser{}, errors.Wrap(err, "inserting admin user")
	}
	return usr, nil
}

func (svc *Service) checkUniqueness(ctx context.Context, email string, excl ...AdminUser) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, excl...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Authenticate resolves the identity, then the admin row; the row must exist
// and be active. Authentication success alone never grants authorization.
func (svc *Service) Authenticate(ctx context.Context, email, password string) (AdminUser, error) {
	identity, err := svc.auth.Authenticate(ctx, core.CleanString(email, true /* lower */), password)
	if err != nil {
		return AdminUser{}, err
	}
	usr, err := svc.repo.GetAdminUserByUserID(ctx, identity.ID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return AdminUser{}, ErrInvalidCredentials
		}
		return AdminUser{}, errors.Wrap(err, "finding admin user by identity")
	}
	if !usr.Activo {
		return AdminUser{}, ErrAccountDeactivated
	}
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]AdminUser, error) {
	return svc.repo.QueryAllAdminUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (AdminUser, error) {
	return svc.repo.GetAdminUserByID(ctx, id)
}

func (svc *Service) GetByUserID(ctx context.Context, userID string) (AdminUser, error) {
	return svc.repo.GetAdminUserByUserID(ctx, userID)
}

func (svc *Service) Update(ctx context.Context, id int, uu UpdateAdminUser) (AdminUser, error) {
	orig, err := svc.repo.GetAdminUserByID(ctx, id)
	if err != nil {
		return AdminUser{}, err
	}
	if err := uu.Validate(orig); err != nil {
		return AdminUser{}, err
	}
	return svc.repo.UpdateAdminUser(ctx, AdminUser{
		ID:     orig.ID,
		Nombre: uu.Nombre,
		Rol:    uu.Rol,
	}, uu.Activo)
}

// Delete removes the admin row and its linked identity.
func (svc *Service) Delete(ctx context.Context, id int) error {
	usr, err := svc.repo.GetAdminUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeleteAdminUser(ctx, usr.ID); err != nil {
		return errors.Wrap(err, "deleting admin user")
	}
	if err := svc.auth.DeleteIdentity(ctx, usr.UserID); err != nil {
		svc.logger.Error(fmt.Sprintf("deleting identity %s: %v", usr.UserID, err), err)
	}
	return nil
}
