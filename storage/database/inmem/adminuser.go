package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/academiadanas/inscripciones/core/adminuser"
)

var adminUserPKCount int

type adminUserRepository struct {
	db *adminUserTable
}

var _ adminuser.Repository = (*adminUserRepository)(nil)

func NewAdminUserRepository(db *DB) *adminUserRepository {
	return &adminUserRepository{db: db.adminUser}
}

func (repo *adminUserRepository) query() []adminuser.AdminUser {
	users := make([]adminuser.AdminUser, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (repo *adminUserRepository) CheckEmailUniqueness(_ context.Context, email string, excluded ...adminuser.AdminUser) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if !strings.EqualFold(usr.Email, email) {
			continue
		}
		var isExcluded bool
		for _, ex := range excluded {
			if ex.ID == usr.ID {
				isExcluded = true
				break
			}
		}
		if !isExcluded {
			return adminuser.ErrEmailExists
		}
	}
	return nil
}

func (repo *adminUserRepository) CreateAdminUser(_ context.Context, usr adminuser.AdminUser) (adminuser.AdminUser, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	adminUserPKCount++
	usr.ID = adminUserPKCount
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *adminUserRepository) QueryAllAdminUsers(_ context.Context) ([]adminuser.AdminUser, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *adminUserRepository) GetAdminUserByID(_ context.Context, id int) (adminuser.AdminUser, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return adminuser.AdminUser{}, adminuser.ErrNotFound
}

func (repo *adminUserRepository) GetAdminUserByUserID(_ context.Context, userID string) (adminuser.AdminUser, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if usr.UserID == userID {
			return usr, nil
		}
	}
	return adminuser.AdminUser{}, adminuser.ErrNotFound
}

func (repo *adminUserRepository) UpdateAdminUser(_ context.Context, usr adminuser.AdminUser, activo *bool) (adminuser.AdminUser, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.table[usr.ID]
	if !ok {
		return adminuser.AdminUser{}, adminuser.ErrNotFound
	}
	if usr.Nombre != "" {
		orig.Nombre = usr.Nombre
	}
	if usr.Rol != "" {
		orig.Rol = usr.Rol
	}
	if activo != nil {
		orig.Activo = *activo
	}
	return *orig, nil
}

func (repo *adminUserRepository) DeleteAdminUser(_ context.Context, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return adminuser.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

// identityProvider is the in-memory counterpart of the auth backend.
type identityProvider struct {
	db *identityTable
}

var _ adminuser.AuthProvider = (*identityProvider)(nil)

func NewIdentityProvider(db *DB) *identityProvider {
	return &identityProvider{db: db.identity}
}

func (p *identityProvider) CreateIdentity(_ context.Context, email, password string) (adminuser.Identity, error) {
	p.db.mutex.Lock()
	defer p.db.mutex.Unlock()

	identity := adminuser.Identity{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := identity.SetPassword(password); err != nil {
		return adminuser.Identity{}, err
	}
	p.db.table[identity.ID] = &identity
	return identity, nil
}

func (p *identityProvider) DeleteIdentity(_ context.Context, id string) error {
	p.db.mutex.Lock()
	defer p.db.mutex.Unlock()
	delete(p.db.table, id)
	return nil
}

func (p *identityProvider) Authenticate(_ context.Context, email, password string) (adminuser.Identity, error) {
	p.db.mutex.RLock()
	defer p.db.mutex.RUnlock()

	for _, identity := range p.db.table {
		if strings.EqualFold(identity.Email, email) {
			if err := identity.CheckPassword(password); err != nil {
				return adminuser.Identity{}, adminuser.ErrInvalidCredentials
			}
			return *identity, nil
		}
	}
	return adminuser.Identity{}, adminuser.ErrInvalidCredentials
}
