package adminuser

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/academiadanas/inscripciones/core"
)

// Roles. The admin_users row is the sole source of role truth; the auth
// identity only authenticates.
const (
	RolAdmin  = "admin"  // full access, may provision users
	RolEditor = "editor" // may edit and export
	RolViewer = "viewer" // read-only
)

var AllRoles = []string{RolAdmin, RolEditor, RolViewer}

var rolePriorities = map[string]int{
	RolAdmin:  3,
	RolEditor: 2,
	RolViewer: 1,
}

func RolePriority(rol string) int {
	return rolePriorities[rol]
}

// AdminUser is one staff account of the dashboard.
type AdminUser struct {
	ID        int       `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"` // linked auth identity
	Email     string    `db:"email" json:"email"`
	Nombre    string    `db:"nombre" json:"nombre"`
	Rol       string    `db:"rol" json:"rol"`
	Activo    bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
}

func (u AdminUser) IsAdmin() bool { return u.Rol == RolAdmin }
func (u AdminUser) CanEdit() bool { return RolePriority(u.Rol) >= RolePriority(RolEditor) }

// Identity is an authentication credential provisioned alongside an AdminUser.
type Identity struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (i *Identity) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	i.PasswordHash = hash
	return nil
}

func (i *Identity) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(i.PasswordHash, []byte(pwd))
}

// NewAdminUser contains information needed to provision a staff account.
type NewAdminUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Nombre   string `json:"nombre" validate:"required"`
	Rol      string `json:"rol" validate:"required,adminrol"`
}

func (nu *NewAdminUser) Validate() error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Nombre = core.CleanString(nu.Nombre)
	return core.Validate.Struct(nu)
}

// UpdateAdminUser defines what may be changed on an existing staff account.
type UpdateAdminUser struct {
	Nombre string `json:"nombre"`
	Rol    string `json:"rol" validate:"omitempty,adminrol"`
	Activo *bool  `json:"activo"`
}

func (uu *UpdateAdminUser) Validate(orig AdminUser) error {
	nombre := core.CleanString(uu.Nombre)
	if nombre != "" {
		uu.Nombre = nombre
	} else {
		uu.Nombre = orig.Nombre
	}
	if uu.Rol == "" {
		uu.Rol = orig.Rol
	}
	return core.Validate.Struct(uu)
}

// LoginRequest authenticates a staff account against its identity.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}
