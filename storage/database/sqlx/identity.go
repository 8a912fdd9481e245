package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/adminuser"
)

// identityProvider keeps auth credentials in the auth_identities table,
// hashed with bcrypt.
type identityProvider struct {
	db core.DBExecutor
}

var _ adminuser.AuthProvider = (*identityProvider)(nil) // interface compliance check

func NewIdentityProvider(db core.DBExecutor) *identityProvider {
	return &identityProvider{db: db}
}

func (p identityProvider) CreateIdentity(ctx context.Context, email, password string) (adminuser.Identity, error) {
	identity := adminuser.Identity{ID: uuid.New().String(), Email: email}
	if err := identity.SetPassword(password); err != nil {
		return adminuser.Identity{}, errors.Wrap(err, "hashing password")
	}

	q := `INSERT INTO auth_identities (id, email, password_hash, created_at)
	      VALUES (:id, :email, :password_hash, now()) RETURNING *`
	stmt, err := p.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return adminuser.Identity{}, errors.Wrap(err, "preparing identity insert")
	}
	defer func() { _ = stmt.Close() }()

	var created adminuser.Identity
	if err := stmt.GetContext(ctx, &created, identity); err != nil {
		return adminuser.Identity{}, errors.Wrap(err, "inserting identity")
	}
	return created, nil
}

func (p identityProvider) DeleteIdentity(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM auth_identities WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "deleting identity")
	}
	return nil
}

func (p identityProvider) Authenticate(ctx context.Context, email, password string) (adminuser.Identity, error) {
	var identity adminuser.Identity
	q := "SELECT * FROM auth_identities WHERE lower(email) = lower($1)"
	if err := p.db.GetContext(ctx, &identity, q, email); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return adminuser.Identity{}, adminuser.ErrInvalidCredentials
		}
		return adminuser.Identity{}, errors.Wrap(err, "getting identity")
	}
	if err := identity.CheckPassword(password); err != nil {
		return adminuser.Identity{}, adminuser.ErrInvalidCredentials
	}
	return identity, nil
}
