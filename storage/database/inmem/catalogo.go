package inmemdb

import (
	"context"

	"github.com/academiadanas/inscripciones/core/catalogo"
)

type catalogoRepository struct {
	db *catalogoTable
}

var _ catalogo.Repository = (*catalogoRepository)(nil)

func NewCatalogoRepository(db *DB) *catalogoRepository {
	return &catalogoRepository{db: db.catalogo}
}

// Seed replaces the catalog contents.
func (repo *catalogoRepository) Seed(entries []catalogo.Entry) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.entries = append(repo.db.entries[:0], entries...)
}

func (repo *catalogoRepository) QueryAllEntries(_ context.Context) ([]catalogo.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]catalogo.Entry, len(repo.db.entries))
	copy(entries, repo.db.entries)
	return entries, nil
}
