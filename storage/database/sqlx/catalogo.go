package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/catalogo"
)

type catalogoRepository struct {
	db core.DBExecutor
}

var _ catalogo.Repository = (*catalogoRepository)(nil) // interface compliance check

func NewCatalogoRepository(db core.DBExecutor) *catalogoRepository {
	return &catalogoRepository{db: db}
}

func (repo catalogoRepository) QueryAllEntries(ctx context.Context) ([]catalogo.Entry, error) {
	entries := make([]catalogo.Entry, 0)
	q := "SELECT * FROM catalogos ORDER BY estado, municipio"
	if err := repo.db.SelectContext(ctx, &entries, q); err != nil {
		return nil, errors.Wrap(err, "querying catalogos")
	}
	return entries, nil
}
