package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
)

type adminUserRepository struct {
	db core.DBExecutor
}

var _ adminuser.Repository = (*adminUserRepository)(nil) // interface compliance check

func NewAdminUserRepository(db core.DBExecutor) *adminUserRepository {
	return &adminUserRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to adminuser.ErrNotFound
func (repo adminUserRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return adminuser.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo adminUserRepository) CheckEmailUniqueness(ctx context.Context, email string, excluded ...adminuser.AdminUser) error {
	args := []interface{}{email}
	q := "SELECT EXISTS (SELECT 1 FROM admin_users WHERE lower(email) = lower($1)"
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, u := range excluded {
			args = append(args, u.ID)
			ids = append(ids, fmt.Sprintf("$%d", len(args)))
		}
		q += fmt.Sprintf(" AND id NOT IN (%s)", strings.Join(ids, ","))
	}
	q += ")"

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, q, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return adminuser.ErrEmailExists
	}
	return nil
}

func (repo adminUserRepository) CreateAdminUser(ctx context.Context, usr adminuser.AdminUser) (adminuser.AdminUser, error) {
	q := `INSERT INTO admin_users (user_id, email, nombre, rol, activo, created_at)
	      VALUES (:user_id, :email, :nombre, :rol, :activo, :created_at) RETURNING *`
	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return adminuser.AdminUser{}, errors.Wrap(err, "preparing admin user insert")
	}
	defer func() { _ = stmt.Close() }()

	var created adminuser.AdminUser
	if err := stmt.GetContext(ctx, &created, usr); err != nil {
		return adminuser.AdminUser{}, errors.Wrap(err, "inserting admin user")
	}
	return created, nil
}

func (repo adminUserRepository) QueryAllAdminUsers(ctx context.Context) ([]adminuser.AdminUser, error) {
	users := make([]adminuser.AdminUser, 0)
	if err := repo.db.SelectContext(ctx, &users, "SELECT * FROM admin_users ORDER BY created_at"); err != nil {
		return nil, errors.Wrap(err, "querying admin users")
	}
	return users, nil
}

func (repo adminUserRepository) GetAdminUserByID(ctx context.Context, id int) (adminuser.AdminUser, error) {
	var usr adminuser.AdminUser
	if err := repo.db.GetContext(ctx, &usr, "SELECT * FROM admin_users WHERE id = $1", id); err != nil {
		return adminuser.AdminUser{}, repo.trapNoRowsErr(err, "getting admin user")
	}
	return usr, nil
}

func (repo adminUserRepository) GetAdminUserByUserID(ctx context.Context, userID string) (adminuser.AdminUser, error) {
	var usr adminuser.AdminUser
	if err := repo.db.GetContext(ctx, &usr, "SELECT * FROM admin_users WHERE user_id = $1", userID); err != nil {
		return adminuser.AdminUser{}, repo.trapNoRowsErr(err, "getting admin user")
	}
	return usr, nil
}

func (repo adminUserRepository) UpdateAdminUser(ctx context.Context, usr adminuser.AdminUser, activo *bool) (adminuser.AdminUser, error) {
	sets := []string{}
	args := []interface{}{}
	if usr.Nombre != "" {
		args = append(args, usr.Nombre)
		sets = append(sets, fmt.Sprintf("nombre = $%d", len(args)))
	}
	if usr.Rol != "" {
		args = append(args, usr.Rol)
		sets = append(sets, fmt.Sprintf("rol = $%d", len(args)))
	}
	if activo != nil {
		args = append(args, *activo)
		sets = append(sets, fmt.Sprintf("activo = $%d", len(args)))
	}
	if len(sets) == 0 {
		return repo.GetAdminUserByID(ctx, usr.ID)
	}
	args = append(args, usr.ID)
	q := fmt.Sprintf("UPDATE admin_users SET %s WHERE id = $%d RETURNING *", strings.Join(sets, ", "), len(args))

	var updated adminuser.AdminUser
	if err := repo.db.GetContext(ctx, &updated, q, args...); err != nil {
		return adminuser.AdminUser{}, repo.trapNoRowsErr(err, "updating admin user")
	}
	return updated, nil
}

func (repo adminUserRepository) DeleteAdminUser(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM admin_users WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting admin user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return adminuser.ErrNotFound
	}
	return nil
}
