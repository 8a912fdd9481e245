// Package inmemdb provides in-memory repository implementations used by
// tests and local development.
package inmemdb

import (
	"sync"

	"github.com/academiadanas/inscripciones/core/adminuser"
	"github.com/academiadanas/inscripciones/core/catalogo"
	"github.com/academiadanas/inscripciones/core/registro"
)

type (
	DB struct {
		registro  *registroTable
		adminUser *adminUserTable
		identity  *identityTable
		catalogo  *catalogoTable
	}

	registroTable struct {
		table map[int]*registro.Registro
		mutex sync.RWMutex
	}

	adminUserTable struct {
		table map[int]*adminuser.AdminUser
		mutex sync.RWMutex
	}

	identityTable struct {
		table map[string]*adminuser.Identity
		mutex sync.RWMutex
	}

	catalogoTable struct {
		entries []catalogo.Entry
		mutex   sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		registro:  &registroTable{table: make(map[int]*registro.Registro)},
		adminUser: &adminUserTable{table: make(map[int]*adminuser.AdminUser)},
		identity:  &identityTable{table: make(map[string]*adminuser.Identity)},
		catalogo:  &catalogoTable{},
	}
	return db, nil
}
